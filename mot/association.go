package mot

import (
	"math"

	"github.com/arthurkushman/go-hungarian"
)

// Match pairs a track with the index of the detection assigned to it
type Match struct {
	Track     *Track
	Detection int
	Cost      float64
}

// Association is the outcome of one matching pass
type Association struct {
	Matches []Match
	// Indices of detections that should spawn new tracks, ascending
	UnmatchedDetections []int
	// Tracks left without detection, in input order
	UnmatchedTracks []*Track
}

// AssociationEngine decides which detections match which tracks.
// No match is a normal outcome, so there is no error path.
type AssociationEngine struct {
	model     CostModel
	threshold float64
	algorithm AssignmentAlgorithm
}

// NewAssociationEngine creates engine from tracker configuration
func NewAssociationEngine(cfg Config) *AssociationEngine {
	return &AssociationEngine{
		model:     NewCostModel(cfg),
		threshold: cfg.MatchCostThreshold,
		algorithm: cfg.Assignment,
	}
}

// Associate matches detections against tracks' predictions.
// Tracks are expected in ascending id order: on equal cost the earlier track wins.
// Matched tracks get matchedThisFrame/alreadyProcessedThisFrame set, unmatched
// tracks get their miss counter incremented.
func (engine *AssociationEngine) Associate(tracks []*Track, detections []Detection) Association {
	// Mark reset
	for _, track := range tracks {
		track.resetCycleFlags()
	}

	// Candidate scoring. Pairs above threshold are treated as unrelated
	costs := make([][]float64, len(tracks))
	for i, track := range tracks {
		costs[i] = make([]float64, len(detections))
		for j := range detections {
			cost := engine.model.Cost(track, detections[j])
			if !isFinite(cost) || cost > engine.threshold {
				cost = math.Inf(1)
			}
			costs[i][j] = cost
		}
	}

	var pairs [][2]int
	switch engine.algorithm {
	case AssignmentHungarian:
		pairs = engine.hungarianPairs(costs, len(tracks), len(detections))
	default:
		pairs = engine.greedyPairs(costs, tracks, detections)
	}

	result := Association{
		Matches: make([]Match, 0, len(pairs)),
	}
	matchedDetections := make([]bool, len(detections))
	for _, pair := range pairs {
		track := tracks[pair[0]]
		track.matchedThisFrame = true
		track.alreadyProcessedThisFrame = true
		matchedDetections[pair[1]] = true
		result.Matches = append(result.Matches, Match{
			Track:     track,
			Detection: pair[1],
			Cost:      costs[pair[0]][pair[1]],
		})
	}
	for j, matched := range matchedDetections {
		if !matched {
			result.UnmatchedDetections = append(result.UnmatchedDetections, j)
		}
	}
	for _, track := range tracks {
		if !track.matchedThisFrame {
			track.markMissed()
			result.UnmatchedTracks = append(result.UnmatchedTracks, track)
		}
	}
	return result
}

// greedyPairs walks detections from the most confident one and gives each the
// cheapest track still available. Returns {trackIndex, detectionIndex} pairs.
func (engine *AssociationEngine) greedyPairs(costs [][]float64, tracks []*Track, detections []Detection) [][2]int {
	pairs := make([][2]int, 0, minInt(len(tracks), len(detections)))
	if len(tracks) == 0 || len(detections) == 0 {
		return pairs
	}
	queue := make(candidateHeap, 0, len(detections))
	for j := range detections {
		queue.Push(candidate{index: j, confidence: detections[j].Confidence})
	}
	for queue.Len() > 0 {
		det := queue.Pop()
		bestTrack := -1
		bestCost := math.Inf(1)
		for i, track := range tracks {
			if track.alreadyProcessedThisFrame {
				continue
			}
			cost := costs[i][det.index]
			if cost < bestCost || (cost == bestCost && bestTrack >= 0 && track.id < tracks[bestTrack].id) {
				bestCost = cost
				bestTrack = i
			}
		}
		if bestTrack < 0 || math.IsInf(bestCost, 1) {
			continue
		}
		tracks[bestTrack].alreadyProcessedThisFrame = true
		pairs = append(pairs, [2]int{bestTrack, det.index})
	}
	return pairs
}

// hungarianPairs solves global assignment. Costs are turned into similarities
// so that every admissible pair scores above the zero used for padding and
// forbidden pairs.
//
// SolveMax may settle on a suboptimal assignment, so its result is checked
// against exact Kuhn-Munkres and replaced when the latter scores higher.
func (engine *AssociationEngine) hungarianPairs(costs [][]float64, numTracks, numDetections int) [][2]int {
	pairs := make([][2]int, 0, minInt(numTracks, numDetections))
	if numTracks == 0 || numDetections == 0 {
		return pairs
	}
	paddedSize := maxInt(numTracks, numDetections)
	similarity := make([][]float64, paddedSize)
	for i := 0; i < paddedSize; i++ {
		similarity[i] = make([]float64, paddedSize)
		if i >= numTracks {
			continue
		}
		for j := 0; j < numDetections; j++ {
			if !math.IsInf(costs[i][j], 1) {
				similarity[i][j] = 2.0*engine.threshold - costs[i][j]
			}
		}
	}
	// SolveMax may modify matrix in place
	solverInput := make([][]float64, paddedSize)
	for i := range similarity {
		solverInput[i] = append([]float64(nil), similarity[i]...)
	}
	assignment := solverAssignment(hungarian.SolveMax(solverInput), paddedSize)
	if exact := maxSimilarityAssignment(similarity); assignmentScore(similarity, exact) > assignmentScore(similarity, assignment)+assignmentTolerance {
		assignment = exact
	}
	for trackIndex := 0; trackIndex < numTracks; trackIndex++ {
		detectionIndex := assignment[trackIndex]
		if detectionIndex < 0 || detectionIndex >= numDetections || math.IsInf(costs[trackIndex][detectionIndex], 1) {
			continue
		}
		pairs = append(pairs, [2]int{trackIndex, detectionIndex})
	}
	return pairs
}
