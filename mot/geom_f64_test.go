package mot

import (
	"image"
	"math"
	"testing"
)

const (
	eps = 0.00001
)

func TestEuclideanDistance(t *testing.T) {
	p1 := Point{X: 341, Y: 264}
	p2 := Point{X: 421, Y: 427}
	correnctAnswer := 181.57367
	answer := Distance(p1, p2)
	if math.Abs(answer-correnctAnswer) > eps {
		t.Errorf("Wrong answer: %v, correct answer: %v", answer, correnctAnswer)
	}
}

func TestCenterAndDiagonal(t *testing.T) {
	rect := NewRect(10, 20, 30, 40)
	center := Center(rect)
	if center != (Point{X: 25, Y: 40}) {
		t.Errorf("Expected center (25, 40), got %v", center)
	}
	if rect.Center() != center {
		t.Errorf("Method and function disagree: %v vs %v", rect.Center(), center)
	}
	if math.Abs(Diagonal(rect)-50) > eps {
		t.Errorf("Expected diagonal 50, got %f", Diagonal(rect))
	}
}

func TestNewRectCentered(t *testing.T) {
	rect := NewRectCentered(Point{X: 10, Y: 10}, 20, 20)
	if rect != NewRect(0, 0, 20, 20) {
		t.Errorf("Wrong rectangle: %+v", rect)
	}
	if Center(rect) != (Point{X: 10, Y: 10}) {
		t.Errorf("Center should be preserved, got %v", Center(rect))
	}
}

func TestNewRectFrom(t *testing.T) {
	rect := NewRectFrom(image.Rect(5, 6, 15, 26))
	if rect != NewRect(5, 6, 10, 20) {
		t.Errorf("Wrong conversion: %+v", rect)
	}
}

func TestIoU(t *testing.T) {
	cases := []struct {
		name     string
		r1, r2   Rectangle
		expected float64
	}{
		{"identical", NewRect(0, 0, 10, 10), NewRect(0, 0, 10, 10), 1.0},
		{"disjoint", NewRect(0, 0, 10, 10), NewRect(20, 20, 10, 10), 0.0},
		{"touching", NewRect(0, 0, 10, 10), NewRect(10, 0, 10, 10), 0.0},
		{"half shifted", NewRect(0, 0, 10, 10), NewRect(5, 0, 10, 10), 50.0 / 150.0},
	}
	for _, c := range cases {
		got := IoU(c.r1, c.r2)
		if math.Abs(got-c.expected) > eps {
			t.Errorf("%s: expected IoU %f, got %f", c.name, c.expected, got)
		}
	}
}
