package mot

import "math"

// assignmentTolerance absorbs float noise when two assignments are compared
const assignmentTolerance = 1e-9

// maxSimilarityAssignment solves square assignment problem exactly
// (Kuhn-Munkres with potentials, O(n^3)). Returns column assigned to each row.
func maxSimilarityAssignment(similarity [][]float64) []int {
	n := len(similarity)
	assignment := make([]int, n)
	if n == 0 {
		return assignment
	}
	// 1-based potentials; column 0 is a sentinel
	u := make([]float64, n+1)
	v := make([]float64, n+1)
	rowOfColumn := make([]int, n+1)
	way := make([]int, n+1)
	minv := make([]float64, n+1)
	used := make([]bool, n+1)
	for i := 1; i <= n; i++ {
		rowOfColumn[0] = i
		j0 := 0
		for j := range minv {
			minv[j] = math.Inf(1)
			used[j] = false
		}
		for {
			used[j0] = true
			i0 := rowOfColumn[j0]
			delta := math.Inf(1)
			j1 := 0
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				// Minimize negated similarity
				cur := -similarity[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[rowOfColumn[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if rowOfColumn[j0] == 0 {
				break
			}
		}
		for j0 != 0 {
			j1 := way[j0]
			rowOfColumn[j0] = rowOfColumn[j1]
			j0 = j1
		}
	}
	for j := 1; j <= n; j++ {
		if rowOfColumn[j] != 0 {
			assignment[rowOfColumn[j]-1] = j - 1
		}
	}
	return assignment
}

// solverAssignment converts SolveMax output into column-per-row form.
// Rows left without a column (or sharing one) get -1.
func solverAssignment(result map[int]map[int]float64, n int) []int {
	assignment := make([]int, n)
	for i := range assignment {
		assignment[i] = -1
	}
	usedColumns := make([]bool, n)
	for row := 0; row < n; row++ {
		columns, ok := result[row]
		if !ok {
			continue
		}
		best := -1
		for column := range columns {
			if column < 0 || column >= n || usedColumns[column] {
				continue
			}
			// Map iteration order is random
			if best < 0 || column < best {
				best = column
			}
		}
		if best >= 0 {
			usedColumns[best] = true
			assignment[row] = best
		}
	}
	return assignment
}

// assignmentScore sums similarity over assigned cells
func assignmentScore(similarity [][]float64, assignment []int) float64 {
	score := 0.0
	for row, column := range assignment {
		if column >= 0 {
			score += similarity[row][column]
		}
	}
	return score
}
