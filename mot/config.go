package mot

import "github.com/pkg/errors"

// AssignmentAlgorithm is for algorithm type for matching detections to tracks
type AssignmentAlgorithm uint16

const (
	// AssignmentGreedy assigns detections one by one in descending confidence order
	AssignmentGreedy AssignmentAlgorithm = iota
	// AssignmentHungarian uses the Hungarian algorithm (Kuhn-Munkres) for optimal assignment
	AssignmentHungarian
)

func (algorithm AssignmentAlgorithm) String() string {
	switch algorithm {
	case AssignmentGreedy:
		return "greedy"
	case AssignmentHungarian:
		return "hungarian"
	default:
		return "unknown"
	}
}

// MotionModel selects how a track predicts its next position and size
type MotionModel uint16

const (
	// MotionHistory extrapolates weighted displacement over the recent history window
	MotionHistory MotionModel = iota
	// MotionKalman uses 8-D Kalman filter over [cx, cy, w, h] and their velocities
	MotionKalman
)

func (model MotionModel) String() string {
	switch model {
	case MotionHistory:
		return "history"
	case MotionKalman:
		return "kalman"
	default:
		return "unknown"
	}
}

// Config holds tracker parameters. Frame-rate dependent values (history window,
// max misses, frame interval) are supplied by caller.
type Config struct {
	// Track is removed once its consecutive misses exceed this value
	MaxConsecutiveMisses int
	// Pairs with higher cost are treated as unrelated
	MatchCostThreshold float64
	// Number of recent samples used for velocity/size extrapolation
	HistoryWindow int
	// Cost model weights
	PositionWeight   float64
	SizeWeight       float64
	AppearanceWeight float64
	// Optional (1 - IoU) term. Zero disables it
	IoUWeight float64
	// Metric for appearance features when both sides have one
	AppearanceMetric AppearanceMetric
	// Assignment algorithm used by association engine
	Assignment AssignmentAlgorithm
	// Motion model used for prediction
	Motion MotionModel
	// Time step between frames for Kalman motion model
	FrameInterval float64
	// Max number of samples kept in track history. Zero means unbounded
	MaxHistoryLen int
	// Append predicted position/box to history on missed frames
	CoastHistory bool
	// Matches with confidence at or above this value may overwrite class label.
	// Zero keeps label fixed at spawn time
	RelabelConfidence float64
}

// DefaultConfig returns tracker parameters suitable for ~25 fps video.
func DefaultConfig() Config {
	return Config{
		MaxConsecutiveMisses: 5,
		MatchCostThreshold:   1.0,
		HistoryWindow:        5,
		PositionWeight:       1.0,
		SizeWeight:           0.5,
		AppearanceWeight:     1.0,
		IoUWeight:            0.0,
		AppearanceMetric:     AppearanceCosine,
		Assignment:           AssignmentGreedy,
		Motion:               MotionHistory,
		FrameInterval:        1.0,
		MaxHistoryLen:        0,
		CoastHistory:         false,
		RelabelConfidence:    0.0,
	}
}

// Validate checks configuration. Returned error wraps ErrInvalidConfig.
func (cfg Config) Validate() error {
	if cfg.MaxConsecutiveMisses <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "max consecutive misses must be positive, got %d", cfg.MaxConsecutiveMisses)
	}
	if !isFinite(cfg.MatchCostThreshold) || cfg.MatchCostThreshold <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "match cost threshold must be positive, got %f", cfg.MatchCostThreshold)
	}
	if cfg.HistoryWindow < 2 {
		return errors.Wrapf(ErrInvalidConfig, "history window must be at least 2, got %d", cfg.HistoryWindow)
	}
	weights := []struct {
		name  string
		value float64
	}{
		{"position", cfg.PositionWeight},
		{"size", cfg.SizeWeight},
		{"appearance", cfg.AppearanceWeight},
	}
	for _, w := range weights {
		if !isFinite(w.value) || w.value <= 0 {
			return errors.Wrapf(ErrInvalidConfig, "%s weight must be positive, got %f", w.name, w.value)
		}
	}
	if !isFinite(cfg.IoUWeight) || cfg.IoUWeight < 0 {
		return errors.Wrapf(ErrInvalidConfig, "IoU weight must be non-negative, got %f", cfg.IoUWeight)
	}
	if cfg.AppearanceMetric != AppearanceCosine && cfg.AppearanceMetric != AppearanceEuclidean {
		return errors.Wrapf(ErrInvalidConfig, "unknown appearance metric %d", cfg.AppearanceMetric)
	}
	if cfg.Assignment != AssignmentGreedy && cfg.Assignment != AssignmentHungarian {
		return errors.Wrapf(ErrInvalidConfig, "unknown assignment algorithm %d", cfg.Assignment)
	}
	if cfg.Motion != MotionHistory && cfg.Motion != MotionKalman {
		return errors.Wrapf(ErrInvalidConfig, "unknown motion model %d", cfg.Motion)
	}
	if !isFinite(cfg.FrameInterval) || cfg.FrameInterval <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "frame interval must be positive, got %f", cfg.FrameInterval)
	}
	if cfg.MaxHistoryLen != 0 && cfg.MaxHistoryLen < cfg.HistoryWindow {
		return errors.Wrapf(ErrInvalidConfig, "max history length %d is shorter than history window %d", cfg.MaxHistoryLen, cfg.HistoryWindow)
	}
	if !isFinite(cfg.RelabelConfidence) || cfg.RelabelConfidence < 0 || cfg.RelabelConfidence > 1 {
		return errors.Wrapf(ErrInvalidConfig, "relabel confidence must be in [0, 1], got %f", cfg.RelabelConfidence)
	}
	return nil
}

// ParseAssignmentAlgorithm converts name produced by AssignmentAlgorithm.String back
func ParseAssignmentAlgorithm(name string) (AssignmentAlgorithm, error) {
	switch name {
	case "greedy":
		return AssignmentGreedy, nil
	case "hungarian":
		return AssignmentHungarian, nil
	default:
		return 0, errors.Wrapf(ErrInvalidConfig, "unknown assignment algorithm %q", name)
	}
}

// ParseMotionModel converts name produced by MotionModel.String back
func ParseMotionModel(name string) (MotionModel, error) {
	switch name {
	case "history":
		return MotionHistory, nil
	case "kalman":
		return MotionKalman, nil
	default:
		return 0, errors.Wrapf(ErrInvalidConfig, "unknown motion model %q", name)
	}
}

// ParseAppearanceMetric converts name produced by AppearanceMetric.String back
func ParseAppearanceMetric(name string) (AppearanceMetric, error) {
	switch name {
	case "cosine":
		return AppearanceCosine, nil
	case "euclidean":
		return AppearanceEuclidean, nil
	default:
		return 0, errors.Wrapf(ErrInvalidConfig, "unknown appearance metric %q", name)
	}
}
