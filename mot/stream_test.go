package mot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	tracker := NewDefaultTracker()
	frames := make(chan []Detection)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := Run(ctx, tracker, frames)
	go func() {
		defer close(frames)
		for _, detections := range framesToDetections(spreadFrames) {
			frames <- detections
		}
	}()

	var snapshots []Snapshot
	for snapshot := range out {
		snapshots = append(snapshots, snapshot)
	}
	require.Len(t, snapshots, len(spreadFrames))
	for i, snapshot := range snapshots {
		assert.Equal(t, uint64(i+1), snapshot.Frame, "snapshots must come in frame order")
		assert.Equal(t, tracker.StreamID(), snapshot.StreamID)
	}
	assert.Equal(t, TrackerStopped, tracker.State())
}

func TestRunCancel(t *testing.T) {
	tracker := NewDefaultTracker()
	frames := make(chan []Detection)
	ctx, cancel := context.WithCancel(context.Background())

	out := Run(ctx, tracker, frames)
	frames <- []Detection{detectionAt(10, 10, 20, 20, 0.9)}
	snapshot, ok := <-out
	require.True(t, ok)
	require.Len(t, snapshot.Tracks, 1)

	cancel()
	for range out {
	}
	assert.Equal(t, TrackerStopped, tracker.State())
	_, err := tracker.Update(nil)
	assert.ErrorIs(t, err, ErrTrackerStopped)
}

func TestRunStoppedTracker(t *testing.T) {
	tracker := NewDefaultTracker()
	tracker.Stop()
	frames := make(chan []Detection, 1)
	frames <- nil

	out := Run(context.Background(), tracker, frames)
	_, ok := <-out
	assert.False(t, ok, "stopped tracker must not emit snapshots")
}
