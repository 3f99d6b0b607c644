package mot

import (
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// TrackerState is lifecycle state of the tracker itself
type TrackerState uint16

const (
	// TrackerIdle means no cycle has run yet
	TrackerIdle TrackerState = iota
	// TrackerRunning means at least one cycle has run
	TrackerRunning
	// TrackerStopped is terminal: no more cycles are accepted
	TrackerStopped
)

func (state TrackerState) String() string {
	switch state {
	case TrackerIdle:
		return "idle"
	case TrackerRunning:
		return "running"
	case TrackerStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Stats are cumulative counters over tracker lifetime
type Stats struct {
	Cycles             uint64
	Spawned            uint64
	Retired            uint64
	RejectedDetections uint64
}

// Tracker is multi-object tracker: it owns live tracks and runs one
// predict -> associate -> update -> age-out -> spawn cycle per frame.
//
// Tracker is not safe for concurrent use: exactly one cycle may run at a time.
// Use Run to feed it from another goroutine.
type Tracker struct {
	config Config
	engine *AssociationEngine
	// Live tracks in ascending ID order
	tracks   []*Track
	nextID   uint64
	frame    uint64
	state    TrackerState
	streamID uuid.UUID
	stats    Stats
	logger   *slog.Logger
}

// TrackerOption customizes Tracker
type TrackerOption func(*Tracker)

// WithLogger sets structured logger. By default tracker logs nothing
func WithLogger(logger *slog.Logger) TrackerOption {
	return func(tracker *Tracker) {
		if logger != nil {
			tracker.logger = logger
		}
	}
}

// WithStreamID overrides random stream identifier
func WithStreamID(streamID uuid.UUID) TrackerOption {
	return func(tracker *Tracker) {
		tracker.streamID = streamID
	}
}

// NewTracker creates tracker. Configuration is validated up front; error wraps ErrInvalidConfig.
func NewTracker(cfg Config, opts ...TrackerOption) (*Tracker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	tracker := &Tracker{
		config:   cfg,
		engine:   NewAssociationEngine(cfg),
		tracks:   make([]*Track, 0),
		nextID:   1,
		state:    TrackerIdle,
		streamID: uuid.New(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(tracker)
	}
	return tracker, nil
}

// NewDefaultTracker creates tracker with DefaultConfig
func NewDefaultTracker(opts ...TrackerOption) *Tracker {
	tracker, err := NewTracker(DefaultConfig(), opts...)
	if err != nil {
		panic(errors.Wrap(err, "default configuration must be valid"))
	}
	return tracker
}

// Config returns tracker's configuration
func (tracker *Tracker) Config() Config {
	return tracker.config
}

// State returns tracker's lifecycle state
func (tracker *Tracker) State() TrackerState {
	return tracker.state
}

// StreamID returns identifier of this tracker instance
func (tracker *Tracker) StreamID() uuid.UUID {
	return tracker.streamID
}

// Stats returns cumulative counters
func (tracker *Tracker) Stats() Stats {
	return tracker.stats
}

// Frame returns number of cycles run so far
func (tracker *Tracker) Frame() uint64 {
	return tracker.frame
}

// Track returns live track by its identifier
func (tracker *Tracker) Track(id uint64) (*Track, bool) {
	for _, track := range tracker.tracks {
		if track.id == id {
			return track, true
		}
	}
	return nil, false
}

// LiveTracks returns live tracks in ascending ID order. Be careful: tracks are not copies
func (tracker *Tracker) LiveTracks() []*Track {
	return tracker.tracks
}

// Tracks returns snapshot of live tracks without running a cycle
func (tracker *Tracker) Tracks() Snapshot {
	return tracker.snapshot(0)
}

// Stop moves tracker to terminal state
func (tracker *Tracker) Stop() {
	if tracker.state == TrackerStopped {
		return
	}
	tracker.logger.Info("tracker stopped", "stream", tracker.streamID, "frame", tracker.frame, "live", len(tracker.tracks))
	tracker.state = TrackerStopped
}

// Reset drops all tracks and returns tracker to idle state.
// Identifiers keep growing: ids are never reused within the tracker's lifetime.
// Stopped tracker stays stopped.
func (tracker *Tracker) Reset() {
	if tracker.state == TrackerStopped {
		return
	}
	for _, track := range tracker.tracks {
		track.stillTracked = false
	}
	tracker.tracks = make([]*Track, 0)
	tracker.state = TrackerIdle
}

// Update runs one cycle for a frame's detections and returns live tracks.
//
// Malformed detections are dropped (see Detection.Validate) and counted in
// Snapshot.Rejected. Empty input is valid: every track just ages one step.
// The only error is ErrTrackerStopped.
func (tracker *Tracker) Update(detections []Detection) (Snapshot, error) {
	if tracker.state == TrackerStopped {
		return Snapshot{}, ErrTrackerStopped
	}
	if tracker.state == TrackerIdle {
		tracker.state = TrackerRunning
		tracker.logger.Info("tracker started", "stream", tracker.streamID)
	}
	tracker.frame++
	tracker.stats.Cycles++

	valid := make([]Detection, 0, len(detections))
	rejected := 0
	for i := range detections {
		if err := detections[i].Validate(); err != nil {
			rejected++
			tracker.logger.Debug("detection rejected", "frame", tracker.frame, "index", i, "err", err)
			continue
		}
		valid = append(valid, detections[i])
	}
	tracker.stats.RejectedDetections += uint64(rejected)

	// Step 1: predict
	for _, track := range tracker.tracks {
		track.PredictNextPosition()
		track.PredictWidthHeight()
	}

	// Step 2: associate
	association := tracker.engine.Associate(tracker.tracks, valid)

	// Step 3: update matched tracks
	for _, match := range association.Matches {
		err := match.Track.update(valid[match.Detection], tracker.frame, tracker.config.RelabelConfidence)
		if err != nil {
			tracker.logger.Warn("motion model reset", "track", match.Track.id, "err", err)
		}
	}

	// Step 4: age out
	live := tracker.tracks[:0]
	for _, track := range tracker.tracks {
		if track.consecutiveMissedFrames > tracker.config.MaxConsecutiveMisses {
			track.stillTracked = false
			tracker.stats.Retired++
			tracker.logger.Debug("track retired", "track", track.id, "label", track.classLabel, "frame", tracker.frame, "hits", track.hits)
			continue
		}
		track.age++
		live = append(live, track)
	}
	// Drop references held by the tail of the reused backing array
	for i := len(live); i < len(tracker.tracks); i++ {
		tracker.tracks[i] = nil
	}
	tracker.tracks = live

	// Step 5: spawn
	for _, detIdx := range association.UnmatchedDetections {
		track := newTrack(tracker.nextID, valid[detIdx], tracker.frame, tracker.config)
		tracker.nextID++
		tracker.stats.Spawned++
		tracker.tracks = append(tracker.tracks, track)
		tracker.logger.Debug("track spawned", "track", track.id, "label", track.classLabel, "frame", tracker.frame)
	}

	// Predictions for the next cycle
	for _, track := range tracker.tracks {
		track.PredictNextPosition()
		track.PredictWidthHeight()
	}

	// Step 6: emit
	return tracker.snapshot(rejected), nil
}

func (tracker *Tracker) snapshot(rejected int) Snapshot {
	views := make([]TrackView, len(tracker.tracks))
	for i, track := range tracker.tracks {
		views[i] = newTrackView(track)
	}
	return Snapshot{
		StreamID: tracker.streamID,
		Frame:    tracker.frame,
		Tracks:   views,
		Rejected: rejected,
	}
}
