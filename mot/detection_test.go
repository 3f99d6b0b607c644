package mot

import (
	"math"
	"testing"

	"github.com/pkg/errors"
)

func TestDetectionValidate(t *testing.T) {
	cases := []struct {
		name  string
		det   Detection
		valid bool
	}{
		{"ok", NewDetection(NewRect(0, 0, 10, 10), "car", 0.5), true},
		{"confidence bounds", NewDetection(NewRect(0, 0, 10, 10), "car", 1.0), true},
		{"zero confidence", NewDetection(NewRect(-5, -5, 10, 10), "", 0.0), true},
		{"zero width", NewDetection(NewRect(0, 0, 0, 10), "car", 0.5), false},
		{"negative height", NewDetection(NewRect(0, 0, 10, -1), "car", 0.5), false},
		{"confidence above one", NewDetection(NewRect(0, 0, 10, 10), "car", 1.5), false},
		{"negative confidence", NewDetection(NewRect(0, 0, 10, 10), "car", -0.1), false},
		{"nan box", NewDetection(NewRect(math.NaN(), 0, 10, 10), "car", 0.5), false},
		{"nan confidence", NewDetection(NewRect(0, 0, 10, 10), "car", math.NaN()), false},
		{"bad feature", Detection{Box: NewRect(0, 0, 10, 10), Confidence: 0.5, Feature: Feature{1, math.Inf(1)}}, false},
	}
	for _, c := range cases {
		err := c.det.Validate()
		if c.valid && err != nil {
			t.Errorf("%s: unexpected error: %v", c.name, err)
		}
		if !c.valid {
			if err == nil {
				t.Errorf("%s: expected error", c.name)
				continue
			}
			if !errors.Is(err, ErrInvalidDetection) {
				t.Errorf("%s: error should wrap ErrInvalidDetection, got %v", c.name, err)
			}
		}
	}
}
