package mot

import (
	"math"
	"testing"
)

func TestCostGrowsWithDistance(t *testing.T) {
	model := NewCostModel(DefaultConfig())
	track := spawnTrack(1, DefaultConfig(), 0, 0, 20, 20)

	prev := -1.0
	for _, dx := range []float64{0, 2, 5, 10, 20, 40} {
		cost := model.Cost(track, detectionAt(dx, 0, 20, 20, 0.9))
		if cost <= prev {
			t.Errorf("Cost must strictly grow with distance: dx=%f cost=%f prev=%f", dx, cost, prev)
		}
		prev = cost
	}
}

func TestCostGrowsWithSizeDiscrepancy(t *testing.T) {
	model := NewCostModel(DefaultConfig())
	track := spawnTrack(1, DefaultConfig(), 0, 0, 20, 20)

	prev := -1.0
	for _, size := range []float64{20, 24, 30, 40} {
		cost := model.Cost(track, detectionAt(0, 0, size, size, 0.9))
		if cost <= prev {
			t.Errorf("Cost must strictly grow with size discrepancy: size=%f cost=%f prev=%f", size, cost, prev)
		}
		prev = cost
	}
}

func TestCostTerms(t *testing.T) {
	cfg := DefaultConfig()
	model := NewCostModel(cfg)
	track := spawnTrack(1, cfg, 0, 0, 30, 40)

	// Same size, 10 px away: 1.0 * 10/50
	cost := model.Cost(track, detectionAt(6, 8, 30, 40, 0.9))
	if math.Abs(cost-0.2) > eps {
		t.Errorf("Expected 0.2, got %f", cost)
	}
	// Same position, diagonal 100 vs predicted 50: 0.5 * 50/50
	cost = model.Cost(track, detectionAt(0, 0, 60, 80, 0.9))
	if math.Abs(cost-0.5) > eps {
		t.Errorf("Expected 0.5, got %f", cost)
	}
}

func TestCostAppearance(t *testing.T) {
	cfg := DefaultConfig()
	model := NewCostModel(cfg)

	spawn := detectionAt(0, 0, 20, 20, 0.9)
	spawn.Feature = Feature{1, 0, 0}
	track := newTrack(1, spawn, 1, cfg)

	same := detectionAt(0, 0, 20, 20, 0.9)
	same.Feature = Feature{2, 0, 0}
	orthogonal := detectionAt(0, 0, 20, 20, 0.9)
	orthogonal.Feature = Feature{0, 1, 0}
	noFeature := detectionAt(0, 0, 20, 20, 0.9)
	otherDimension := detectionAt(0, 0, 20, 20, 0.9)
	otherDimension.Feature = Feature{0, 1}

	if cost := model.Cost(track, same); math.Abs(cost) > eps {
		t.Errorf("Parallel features should cost nothing, got %f", cost)
	}
	if cost := model.Cost(track, orthogonal); math.Abs(cost-1.0) > eps {
		t.Errorf("Orthogonal features should cost appearance weight, got %f", cost)
	}
	if cost := model.Cost(track, noFeature); math.Abs(cost) > eps {
		t.Errorf("Missing feature should not contribute, got %f", cost)
	}
	if cost := model.Cost(track, otherDimension); math.Abs(cost) > eps {
		t.Errorf("Features of different dimension should not contribute, got %f", cost)
	}
}

func TestCostIoU(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IoUWeight = 1.0
	model := NewCostModel(cfg)
	track := spawnTrack(1, cfg, 0, 0, 10, 10)

	// Half-shifted box: IoU = 50/150, position term 5/sqrt(200)
	cost := model.Cost(track, detectionAt(5, 0, 10, 10, 0.9))
	expected := 5/math.Sqrt(200) + (1.0 - 1.0/3.0)
	if math.Abs(cost-expected) > eps {
		t.Errorf("Expected %f, got %f", expected, cost)
	}
}

func TestAppearanceDissimilarity(t *testing.T) {
	cases := []struct {
		metric   AppearanceMetric
		a, b     Feature
		expected float64
	}{
		{AppearanceCosine, Feature{1, 0}, Feature{1, 0}, 0},
		{AppearanceCosine, Feature{1, 0}, Feature{-1, 0}, 2},
		{AppearanceCosine, Feature{0, 0}, Feature{1, 0}, 1},
		{AppearanceEuclidean, Feature{0, 0}, Feature{3, 4}, 5},
		{AppearanceEuclidean, Feature{1, 1}, Feature{1, 1}, 0},
	}
	for _, c := range cases {
		got := c.metric.Dissimilarity(c.a, c.b)
		if math.Abs(got-c.expected) > eps {
			t.Errorf("%s(%v, %v): expected %f, got %f", c.metric, c.a, c.b, c.expected, got)
		}
	}
}
