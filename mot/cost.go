package mot

import "math"

// CostModel scores how unlikely it is that a detection belongs to a track.
// Lower is better.
//
//	cost = wp * dist(predicted, center)/diag(track)
//	     + ws * |diag(detection) - diag(predicted)| / diag(predicted)
//	     + wa * appearance dissimilarity (only when both sides carry a feature)
//	     + wi * (1 - IoU(predicted box, detection box))
//
// Position and size weights are strictly positive, so cost strictly grows with
// distance and with size discrepancy.
type CostModel struct {
	PositionWeight   float64
	SizeWeight       float64
	AppearanceWeight float64
	IoUWeight        float64
	Metric           AppearanceMetric
}

// NewCostModel extracts cost model from tracker configuration
func NewCostModel(cfg Config) CostModel {
	return CostModel{
		PositionWeight:   cfg.PositionWeight,
		SizeWeight:       cfg.SizeWeight,
		AppearanceWeight: cfg.AppearanceWeight,
		IoUWeight:        cfg.IoUWeight,
		Metric:           cfg.AppearanceMetric,
	}
}

// Cost returns match cost between track's prediction and detection
func (model CostModel) Cost(track *Track, det Detection) float64 {
	cost := model.PositionWeight * model.positionTerm(track, det)
	cost += model.SizeWeight * model.sizeTerm(track, det)
	if comparableFeatures(track.appearance, det.Feature) {
		cost += model.AppearanceWeight * model.Metric.Dissimilarity(track.appearance, det.Feature)
	}
	if model.IoUWeight > 0 {
		cost += model.IoUWeight * (1.0 - IoU(track.PredictedBox(), det.Box))
	}
	return cost
}

// positionTerm is distance from prediction in units of track's diagonal
func (model CostModel) positionTerm(track *Track, det Detection) float64 {
	dist := Distance(track.predictedPosition, Center(det.Box))
	return dist / maxFloat64(track.currentDiagonalSize, minPredictedSize)
}

// sizeTerm is relative change of diagonal against predicted size
func (model CostModel) sizeTerm(track *Track, det Detection) float64 {
	predictedDiagonal := math.Hypot(track.predictedWidth, track.predictedHeight)
	if predictedDiagonal <= 0 {
		predictedDiagonal = track.currentDiagonalSize
	}
	return math.Abs(Diagonal(det.Box)-predictedDiagonal) / maxFloat64(predictedDiagonal, minPredictedSize)
}
