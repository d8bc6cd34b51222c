// Package vector holds the embedding vector type and the cosine similarity scorer.
package vector

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrDimensionMismatch signals vectors of different lengths.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	// ErrDegenerateVector signals a zero-magnitude (or non-finite) vector.
	ErrDegenerateVector = errors.New("degenerate vector")
)

// Vector is an embedding of fixed dimensionality. Treat it as read-only.
type Vector []float32

// New copies values into a Vector so later changes to the source slice are not observed.
// Returns nil for empty input.
func New(values []float32) Vector {
	if len(values) == 0 {
		return nil
	}
	v := make(Vector, len(values))
	copy(v, values)
	return v
}

// Dim returns the dimensionality.
func (v Vector) Dim() int { return len(v) }

// Floats returns a copy of the components.
func (v Vector) Floats() []float32 {
	if v == nil {
		return nil
	}
	out := make([]float32, len(v))
	copy(out, v)
	return out
}

// Norm returns the Euclidean length.
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v {
		f := float64(x)
		sum += f * f
	}
	return math.Sqrt(sum)
}

// Cosine returns dot(a,b) / (|a|*|b|), clamped to [-1, 1].
// Unequal lengths fail with ErrDimensionMismatch; a zero or non-finite
// magnitude on either side fails with ErrDegenerateVector.
func Cosine(a, b Vector) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0, ErrDegenerateVector
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(sim) || math.IsInf(sim, 0) {
		return 0, ErrDegenerateVector
	}

	switch {
	case sim > 1:
		return 1, nil
	case sim < -1:
		return -1, nil
	}
	return sim, nil
}
