package mot

import (
	"gonum.org/v1/gonum/floats"
)

// Feature is an optional appearance descriptor (color histogram, embedding, etc.).
// Nil feature means "no appearance information".
type Feature []float64

// AppearanceMetric selects how two features are compared
type AppearanceMetric uint16

const (
	// AppearanceCosine is 1 - cosine similarity, clamped to [0, 2]
	AppearanceCosine AppearanceMetric = iota
	// AppearanceEuclidean is L2 distance between features
	AppearanceEuclidean
)

func (metric AppearanceMetric) String() string {
	switch metric {
	case AppearanceCosine:
		return "cosine"
	case AppearanceEuclidean:
		return "euclidean"
	default:
		return "unknown"
	}
}

// comparable reports whether both features are present and have same dimension
func comparableFeatures(a, b Feature) bool {
	return len(a) > 0 && len(a) == len(b)
}

// Dissimilarity returns non-negative appearance distance between two features.
// Features must be of the same length (see comparableFeatures).
func (metric AppearanceMetric) Dissimilarity(a, b Feature) float64 {
	switch metric {
	case AppearanceEuclidean:
		return floats.Distance(a, b, 2)
	default:
		normA := floats.Norm(a, 2)
		normB := floats.Norm(b, 2)
		if normA == 0 || normB == 0 {
			// Zero vectors carry no direction: treat as orthogonal
			return 1.0
		}
		cos := floats.Dot(a, b) / (normA * normB)
		return 1.0 - maxFloat64(-1.0, minFloat64(1.0, cos))
	}
}
