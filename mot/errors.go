package mot

import "github.com/pkg/errors"

var (
	// ErrInvalidDetection marks a detection rejected at the input boundary.
	// Such detections are dropped from the cycle; the cycle itself continues.
	ErrInvalidDetection = errors.New("invalid detection")
	// ErrInvalidConfig is returned by NewTracker when configuration can't be used.
	ErrInvalidConfig = errors.New("invalid tracker configuration")
	// ErrTrackerStopped is returned by Update once the tracker has been stopped.
	ErrTrackerStopped = errors.New("tracker is stopped")
)
