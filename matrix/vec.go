package matrix

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Vec is a dense vector. The nil/empty value is a valid zero-length vector.
type Vec []float64

// NewVec returns a zeroed vector of length n.
func NewVec(n int) Vec {
	return make(Vec, n)
}

// Clone returns a copy of v.
func (v Vec) Clone() Vec {
	out := make(Vec, len(v))
	copy(out, v)
	return out
}

// Dot returns the inner product of v and o.
func (v Vec) Dot(o Vec) float64 {
	if len(v) != len(o) {
		panic(ErrShape)
	}
	return floats.Dot(v, o)
}

// Norm returns the Euclidean norm of v.
func (v Vec) Norm() float64 {
	return floats.Norm(v, 2)
}

// NormInf returns the largest absolute entry, or zero for an empty vector.
func (v Vec) NormInf() float64 {
	if len(v) == 0 {
		return 0
	}
	return floats.Norm(v, math.Inf(1))
}

// Scale multiplies every entry by s in place.
func (v Vec) Scale(s float64) {
	floats.Scale(s, v)
}

// AddScaled returns v + s*o as a new vector.
func (v Vec) AddScaled(s float64, o Vec) Vec {
	if len(v) != len(o) {
		panic(ErrShape)
	}
	out := v.Clone()
	floats.AddScaled(out, s, o)
	return out
}

// Sub returns v - o as a new vector.
func (v Vec) Sub(o Vec) Vec {
	if len(v) != len(o) {
		panic(ErrShape)
	}
	out := make(Vec, len(v))
	floats.SubTo(out, v, o)
	return out
}
