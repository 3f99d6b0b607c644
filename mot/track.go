package mot

import (
	"slices"

	kalman_filter "github.com/LdDl/kalman-filter"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// minPredictedSize is the lower bound for predicted width/height
const minPredictedSize = 1e-3

// Track is one physical object followed across frames.
type Track struct {
	id         uint64
	classLabel string
	confidence float64

	// Parallel histories: one center and one box per sample
	positionHistory []Point
	boxHistory      []Rectangle
	maxHistoryLen   int
	historyWindow   int

	currentDiagonalSize float64

	// Estimate for the next frame
	predictedPosition Point
	predictedWidth    float64
	predictedHeight   float64

	// Per-cycle flags
	matchedThisFrame          bool
	alreadyProcessedThisFrame bool
	newThisFrame              bool

	stillTracked            bool
	consecutiveMissedFrames int

	// Optional appearance of the last matched detection
	appearance Feature

	hits          int
	age           int
	firstFrame    uint64
	lastSeenFrame uint64

	coastHistory bool

	// Optional Kalman motion model. Nil for history-based prediction
	kf *kalman_filter.KalmanBBox
	dt float64
}

// newTrack spawns a track from an unmatched detection.
// History is seeded with the detection and prediction is ready to be consumed.
func newTrack(id uint64, det Detection, frame uint64, cfg Config) *Track {
	initialCap := 16
	if cfg.MaxHistoryLen > 0 {
		initialCap = minInt(initialCap, cfg.MaxHistoryLen+1)
	}
	center := Center(det.Box)
	track := Track{
		id:                  id,
		classLabel:          det.ClassLabel,
		confidence:          det.Confidence,
		positionHistory:     make([]Point, 0, initialCap),
		boxHistory:          make([]Rectangle, 0, initialCap),
		maxHistoryLen:       cfg.MaxHistoryLen,
		historyWindow:       cfg.HistoryWindow,
		currentDiagonalSize: Diagonal(det.Box),
		matchedThisFrame:    true,
		newThisFrame:        true,
		stillTracked:        true,
		appearance:          slices.Clone(det.Feature),
		hits:                1,
		age:                 1,
		firstFrame:          frame,
		lastSeenFrame:       frame,
		coastHistory:        cfg.CoastHistory,
		dt:                  cfg.FrameInterval,
	}
	if cfg.Motion == MotionKalman {
		track.kf = newBBoxFilter(det.Box, cfg.FrameInterval)
	}
	track.appendHistory(center, det.Box)
	track.PredictNextPosition()
	track.PredictWidthHeight()
	return &track
}

// ID returns track's identifier. It never changes.
func (track *Track) ID() uint64 {
	return track.id
}

// ClassLabel returns track's semantic category
func (track *Track) ClassLabel() string {
	return track.classLabel
}

// Confidence returns detector confidence of the most recent match
func (track *Track) Confidence() float64 {
	return track.confidence
}

// PositionHistory returns track's centers. Be careful: this is not copy of history, but reference to it
func (track *Track) PositionHistory() []Point {
	return track.positionHistory
}

// BoxHistory returns track's boxes. Be careful: this is not copy of history, but reference to it
func (track *Track) BoxHistory() []Rectangle {
	return track.boxHistory
}

// CurrentBox returns most recent box
func (track *Track) CurrentBox() Rectangle {
	return track.boxHistory[len(track.boxHistory)-1]
}

// CurrentCenter returns most recent center
func (track *Track) CurrentCenter() Point {
	return track.positionHistory[len(track.positionHistory)-1]
}

// CurrentDiagonalSize returns diagonal of the most recent box
func (track *Track) CurrentDiagonalSize() float64 {
	return track.currentDiagonalSize
}

// PredictedPosition returns expected center in the next frame
func (track *Track) PredictedPosition() Point {
	return track.predictedPosition
}

// PredictedWidth returns expected width in the next frame
func (track *Track) PredictedWidth() float64 {
	return track.predictedWidth
}

// PredictedHeight returns expected height in the next frame
func (track *Track) PredictedHeight() float64 {
	return track.predictedHeight
}

// PredictedBox returns box of predicted size around predicted position
func (track *Track) PredictedBox() Rectangle {
	return NewRectCentered(track.predictedPosition, track.predictedWidth, track.predictedHeight)
}

// MatchedThisFrame reports whether a detection was matched (or the track was spawned) in the current cycle
func (track *Track) MatchedThisFrame() bool {
	return track.matchedThisFrame
}

// NewThisFrame reports whether the track was spawned in the current cycle
func (track *Track) NewThisFrame() bool {
	return track.newThisFrame
}

// StillTracked reports whether the track is active
func (track *Track) StillTracked() bool {
	return track.stillTracked
}

// ConsecutiveMissedFrames returns number of consecutive cycles without a match
func (track *Track) ConsecutiveMissedFrames() int {
	return track.consecutiveMissedFrames
}

// Appearance returns feature of the last matched detection, if any
func (track *Track) Appearance() Feature {
	return track.appearance
}

// Hits returns number of cycles the track was matched, spawn included
func (track *Track) Hits() int {
	return track.hits
}

// Age returns number of cycles the track has lived through
func (track *Track) Age() int {
	return track.age
}

// FirstFrame returns cycle number the track was spawned at
func (track *Track) FirstFrame() uint64 {
	return track.firstFrame
}

// LastSeenFrame returns cycle number of the most recent match
func (track *Track) LastSeenFrame() uint64 {
	return track.lastSeenFrame
}

// PredictNextPosition estimates center for the next frame.
//
// With fewer than two samples the last position is kept. Otherwise displacements
// inside the history window are averaged with linearly growing weights (the most
// recent displacement weighs the most) and added to the last position.
// Calling it again without new history yields the same point.
func (track *Track) PredictNextPosition() {
	if track.kf != nil {
		cx, cy, _, _ := track.kf.GetState()
		vx, vy, _, _ := track.kf.GetVelocity()
		track.predictedPosition = Point{X: cx + vx*track.dt, Y: cy + vy*track.dt}
		return
	}
	n := len(track.positionHistory)
	last := track.positionHistory[n-1]
	if n < 2 {
		track.predictedPosition = last
		return
	}
	window := track.positionHistory[n-minInt(n, track.historyWindow):]
	xs := make([]float64, len(window))
	ys := make([]float64, len(window))
	for i, pt := range window {
		xs[i] = pt.X
		ys[i] = pt.Y
	}
	track.predictedPosition = last.Add(weightedDisplacement(xs), weightedDisplacement(ys))
}

// PredictWidthHeight estimates box size for the next frame.
// Same policy as PredictNextPosition; result never drops below half of the last size.
func (track *Track) PredictWidthHeight() {
	lastBox := track.boxHistory[len(track.boxHistory)-1]
	if track.kf != nil {
		_, _, w, h := track.kf.GetState()
		_, _, vw, vh := track.kf.GetVelocity()
		track.predictedWidth = clampSize(w+vw*track.dt, lastBox.Width)
		track.predictedHeight = clampSize(h+vh*track.dt, lastBox.Height)
		return
	}
	n := len(track.boxHistory)
	if n < 2 {
		track.predictedWidth = lastBox.Width
		track.predictedHeight = lastBox.Height
		return
	}
	window := track.boxHistory[n-minInt(n, track.historyWindow):]
	ws := make([]float64, len(window))
	hs := make([]float64, len(window))
	for i, box := range window {
		ws[i] = box.Width
		hs[i] = box.Height
	}
	track.predictedWidth = clampSize(lastBox.Width+weightedDisplacement(ws), lastBox.Width)
	track.predictedHeight = clampSize(lastBox.Height+weightedDisplacement(hs), lastBox.Height)
}

// weightedDisplacement returns weighted mean of consecutive differences.
// The i-th difference (oldest first) gets weight i+1.
func weightedDisplacement(samples []float64) float64 {
	if len(samples) < 2 {
		return 0
	}
	deltas := make([]float64, len(samples)-1)
	weights := make([]float64, len(samples)-1)
	for i := 1; i < len(samples); i++ {
		deltas[i-1] = samples[i] - samples[i-1]
		weights[i-1] = float64(i)
	}
	return stat.Mean(deltas, weights)
}

func clampSize(predicted, last float64) float64 {
	floor := maxFloat64(last*0.5, minPredictedSize)
	if !isFinite(predicted) || predicted < floor {
		return floor
	}
	return predicted
}

// resetCycleFlags clears transient per-cycle flags
func (track *Track) resetCycleFlags() {
	track.matchedThisFrame = false
	track.alreadyProcessedThisFrame = false
	track.newThisFrame = false
}

// update applies matched detection: histories, size, confidence, miss counter.
// Class label is overwritten only when relabelConfidence is positive and reached.
// Returned error comes from Kalman motion model; the geometry is applied regardless.
func (track *Track) update(det Detection, frame uint64, relabelConfidence float64) error {
	var err error
	if track.kf != nil {
		track.kf.Predict()
		cx, cy := Center(det.Box).X, Center(det.Box).Y
		if kfErr := track.kf.Update(cx, cy, det.Box.Width, det.Box.Height); kfErr != nil {
			// Restart filter from the measurement so prediction stays usable
			track.kf = newBBoxFilter(det.Box, track.dt)
			err = errors.Wrapf(kfErr, "Can't update motion model of track %d", track.id)
		}
	}
	track.appendHistory(Center(det.Box), det.Box)
	track.currentDiagonalSize = Diagonal(det.Box)
	track.confidence = det.Confidence
	if relabelConfidence > 0 && det.Confidence >= relabelConfidence && det.ClassLabel != "" {
		track.classLabel = det.ClassLabel
	}
	if len(det.Feature) > 0 {
		track.appearance = slices.Clone(det.Feature)
	}
	track.consecutiveMissedFrames = 0
	track.matchedThisFrame = true
	track.hits++
	track.lastSeenFrame = frame
	return err
}

// markMissed ages the track by one unmatched cycle
func (track *Track) markMissed() {
	track.consecutiveMissedFrames++
	if track.coastHistory {
		track.appendHistory(track.predictedPosition, track.PredictedBox())
	}
	if track.kf != nil {
		track.kf.Predict()
	}
}

func (track *Track) appendHistory(center Point, box Rectangle) {
	track.positionHistory = append(track.positionHistory, center)
	track.boxHistory = append(track.boxHistory, box)
	if track.maxHistoryLen > 0 && len(track.positionHistory) > track.maxHistoryLen {
		track.positionHistory = track.positionHistory[1:]
		track.boxHistory = track.boxHistory[1:]
	}
}
