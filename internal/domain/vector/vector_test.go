package vector

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

const eps = 1e-6

func randomVector(r *rand.Rand, dim int) Vector {
	v := make(Vector, dim)
	for i := range v {
		v[i] = float32(r.NormFloat64())
	}
	// guarantee non-zero
	v[0] += 0.5
	return v
}

func TestCosine_Bounds(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		a := randomVector(r, 16)
		b := randomVector(r, 16)
		sim, err := Cosine(a, b)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sim < -1-eps || sim > 1+eps {
			t.Fatalf("similarity %f out of [-1,1]", sim)
		}
	}
}

func TestCosine_SelfSimilarity(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		a := randomVector(r, 32)
		sim, err := Cosine(a, a)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(sim-1) > eps {
			t.Errorf("Cosine(a, a) = %f, want 1", sim)
		}
	}
}

func TestCosine_Symmetry(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 50; i++ {
		a := randomVector(r, 8)
		b := randomVector(r, 8)
		ab, err := Cosine(a, b)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ba, err := Cosine(b, a)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ab != ba {
			t.Errorf("Cosine(a,b)=%f != Cosine(b,a)=%f", ab, ba)
		}
	}
}

func TestCosine_ScaleInvariance(t *testing.T) {
	a := Vector{0.3, -1.2, 2.5, 0.7}
	b := Vector{1.1, 0.4, -0.9, 2.0}

	base, err := Cosine(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, c := range []float32{0.01, 0.5, 3, 1000} {
		scaled := make(Vector, len(b))
		for i := range b {
			scaled[i] = b[i] * c
		}
		got, err := Cosine(a, scaled)
		if err != nil {
			t.Fatalf("unexpected error for c=%f: %v", c, err)
		}
		if math.Abs(got-base) > eps {
			t.Errorf("c=%f: got %f, want %f", c, got, base)
		}
	}
}

func TestCosine_DimensionMismatch(t *testing.T) {
	_, err := Cosine(Vector{1, 0}, Vector{1, 0, 0})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestCosine_DegenerateVector(t *testing.T) {
	tests := []struct {
		name string
		a, b Vector
	}{
		{"zero left", Vector{0, 0, 0}, Vector{1, 2, 3}},
		{"zero right", Vector{1, 2, 3}, Vector{0, 0, 0}},
		{"both zero", Vector{0, 0}, Vector{0, 0}},
		{"empty", Vector{}, Vector{}},
		{"nan component", Vector{float32(math.NaN()), 1}, Vector{1, 1}},
		{"inf component", Vector{float32(math.Inf(1)), 1}, Vector{1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim, err := Cosine(tt.a, tt.b)
			if !errors.Is(err, ErrDegenerateVector) {
				t.Fatalf("expected ErrDegenerateVector, got sim=%f err=%v", sim, err)
			}
		})
	}
}

func TestCosine_KnownValues(t *testing.T) {
	tests := []struct {
		name string
		a, b Vector
		want float64
	}{
		{"identical", Vector{1, 0}, Vector{1, 0}, 1},
		{"orthogonal", Vector{1, 0}, Vector{0, 1}, 0},
		{"opposite", Vector{1, 2}, Vector{-1, -2}, -1},
		{"near", Vector{1, 0}, Vector{0.9, 0.1}, 0.9 / math.Sqrt(0.82)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Cosine(tt.a, tt.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > eps {
				t.Errorf("got %f, want %f", got, tt.want)
			}
		})
	}
}

func TestNew_CopiesInput(t *testing.T) {
	src := []float32{1, 2, 3}
	v := New(src)
	src[0] = 99
	if v[0] != 1 {
		t.Errorf("vector observed source mutation: %v", v)
	}
	if New(nil) != nil {
		t.Error("New(nil) should be nil")
	}

	out := v.Floats()
	out[1] = 42
	if v[1] != 2 {
		t.Errorf("Floats() leaked internal storage: %v", v)
	}
}

func TestNorm(t *testing.T) {
	if got := (Vector{3, 4}).Norm(); math.Abs(got-5) > eps {
		t.Errorf("Norm() = %f, want 5", got)
	}
	if (Vector{3, 4}).Dim() != 2 {
		t.Error("Dim() != 2")
	}
}
