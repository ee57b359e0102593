// Package similarity provides vector similarity for the in-memory ranking path.
package similarity

import "math"

// Cosine returns dot(a,b) / (|a|*|b|) in [-1, 1].
// A zero norm is treated as 1 so zero vectors score 0 instead of NaN.
// Vectors of different length are not comparable and score 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	normA := math.Sqrt(na)
	if normA == 0 {
		normA = 1
	}
	normB := math.Sqrt(nb)
	if normB == 0 {
		normB = 1
	}
	return dot / (normA * normB)
}
