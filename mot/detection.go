package mot

import "github.com/pkg/errors"

// Detection is a single detector output for one frame.
// Feature is optional and only used when appearance matching is wanted.
type Detection struct {
	Box        Rectangle
	ClassLabel string
	Confidence float64
	Feature    Feature
}

// NewDetection creates detection without appearance feature
func NewDetection(box Rectangle, classLabel string, confidence float64) Detection {
	return Detection{
		Box:        box,
		ClassLabel: classLabel,
		Confidence: confidence,
	}
}

// Center returns center of detection's bounding box
func (det Detection) Center() Point {
	return Center(det.Box)
}

// Validate checks that detection is usable by the tracker.
// Returned error wraps ErrInvalidDetection.
func (det Detection) Validate() error {
	if !isFinite(det.Box.X, det.Box.Y, det.Box.Width, det.Box.Height) {
		return errors.Wrapf(ErrInvalidDetection, "non-finite box %+v", det.Box)
	}
	if det.Box.Width <= 0 || det.Box.Height <= 0 {
		return errors.Wrapf(ErrInvalidDetection, "non-positive box size %fx%f", det.Box.Width, det.Box.Height)
	}
	if !isFinite(det.Confidence) || det.Confidence < 0 || det.Confidence > 1 {
		return errors.Wrapf(ErrInvalidDetection, "confidence %f is out of [0, 1]", det.Confidence)
	}
	if !isFinite(det.Feature...) {
		return errors.Wrap(ErrInvalidDetection, "non-finite appearance feature")
	}
	return nil
}
