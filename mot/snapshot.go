package mot

import "github.com/google/uuid"

// TrackView is read-only copy of a track's state, safe to hand to other goroutines
type TrackView struct {
	ID                      uint64
	ClassLabel              string
	Confidence              float64
	Box                     Rectangle
	Center                  Point
	PredictedBox            Rectangle
	StillTracked            bool
	ConsecutiveMissedFrames int
	Hits                    int
	Age                     int
	HistoryLen              int
	FirstFrame              uint64
	LastSeenFrame           uint64
}

// Snapshot is the result of one cycle
type Snapshot struct {
	// StreamID identifies tracker instance which produced the snapshot.
	// Track IDs are unique only within one stream
	StreamID uuid.UUID
	// Frame is the cycle number, starting from 1
	Frame uint64
	// Live tracks in ascending ID order
	Tracks []TrackView
	// Number of detections rejected at input boundary in this cycle
	Rejected int
}

func newTrackView(track *Track) TrackView {
	return TrackView{
		ID:                      track.id,
		ClassLabel:              track.classLabel,
		Confidence:              track.confidence,
		Box:                     track.CurrentBox(),
		Center:                  track.CurrentCenter(),
		PredictedBox:            track.PredictedBox(),
		StillTracked:            track.stillTracked,
		ConsecutiveMissedFrames: track.consecutiveMissedFrames,
		Hits:                    track.hits,
		Age:                     track.age,
		HistoryLen:              len(track.positionHistory),
		FirstFrame:              track.firstFrame,
		LastSeenFrame:           track.lastSeenFrame,
	}
}
