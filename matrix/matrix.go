// Package matrix implements the dense matrix and vector algebra underneath
// the point-cloud and optimization packages: a runtime-sized matrix, fixed
// 3x3/6x6 value types sharing the same kernel surface, and Cholesky-based
// inversion and determinants for symmetric positive-definite systems.
//
// Storage is always contiguous row-major and every matrix owns its backing
// memory exclusively. Shape violations (mismatched dimensions, square-only
// operations on non-square input, out-of-range element access) are caller
// programming errors and panic with one of the sentinel errors below;
// numerical failures are returned as errors so callers can retry.
package matrix

import (
	"math"

	"github.com/pkg/errors"
)

var (
	// ErrShape is the panic value for dimension mismatches between operands.
	ErrShape = errors.New("matrix: dimension mismatch")
	// ErrSquare is the panic value for square-only operations applied to a
	// non-square matrix.
	ErrSquare = errors.New("matrix: operation requires a square matrix")
	// ErrIndexOutOfBounds is the panic value for out-of-range element access.
	ErrIndexOutOfBounds = errors.New("matrix: index out of bounds")
	// ErrNotPositiveDefinite reports that a Cholesky decomposition failed
	// because the input is not positive definite within numerical tolerance.
	ErrNotPositiveDefinite = errors.New("matrix: not positive definite within tolerance")
)

// Matrix is the read-only view shared by the dynamic and fixed variants.
type Matrix interface {
	Rows() int
	Cols() int
	At(i, j int) float64
}

// Mutable is a Matrix whose elements can be written in place.
type Mutable interface {
	Matrix
	Set(i, j int, v float64)
}

// resizer is implemented by destinations that can adopt a new shape.
type resizer interface {
	Resize(rows, cols int)
}

// Dynamic is a heap-backed matrix whose dimensions are set at runtime.
type Dynamic struct {
	rows, cols int
	data       []float64
}

// NewDynamic returns a zeroed rows x cols matrix.
func NewDynamic(rows, cols int) *Dynamic {
	if rows < 0 || cols < 0 {
		panic(ErrShape)
	}
	return &Dynamic{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// NewDynamicFromSlice returns a rows x cols matrix initialized from data in
// row-major order. The slice is copied, not retained.
func NewDynamicFromSlice(rows, cols int, data []float64) *Dynamic {
	if len(data) != rows*cols {
		panic(ErrShape)
	}
	m := NewDynamic(rows, cols)
	copy(m.data, data)
	return m
}

// Rows returns the number of rows.
func (m *Dynamic) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Dynamic) Cols() int { return m.cols }

// At returns the element at row i, column j.
func (m *Dynamic) At(i, j int) float64 {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(ErrIndexOutOfBounds)
	}
	return m.data[i*m.cols+j]
}

// Set writes the element at row i, column j.
func (m *Dynamic) Set(i, j int, v float64) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(ErrIndexOutOfBounds)
	}
	m.data[i*m.cols+j] = v
}

// Resize reshapes the matrix to rows x cols, reusing the current allocation
// when it is large enough. Element values are undefined after the call;
// every caller re-initializes, as SetIdentity and the product kernels do.
func (m *Dynamic) Resize(rows, cols int) {
	if rows < 0 || cols < 0 {
		panic(ErrShape)
	}
	n := rows * cols
	if cap(m.data) < n {
		m.data = make([]float64, n)
	}
	m.data = m.data[:n]
	m.rows, m.cols = rows, cols
}

// Zero sets every element to zero.
func (m *Dynamic) Zero() {
	for i := range m.data {
		m.data[i] = 0
	}
}

// SetIdentity sets the diagonal to one and everything else to zero.
func (m *Dynamic) SetIdentity() {
	if m.rows != m.cols {
		panic(ErrSquare)
	}
	m.Zero()
	for i := 0; i < m.rows; i++ {
		m.data[i*m.cols+i] = 1
	}
}

// MaximumDiagonal returns the largest diagonal element of a square matrix.
func (m *Dynamic) MaximumDiagonal() float64 {
	if m.rows != m.cols {
		panic(ErrSquare)
	}
	best := math.Inf(-1)
	for i := 0; i < m.rows; i++ {
		if d := m.data[i*m.cols+i]; d > best {
			best = d
		}
	}
	return best
}

// CopyFrom resizes the receiver to a's shape and copies all elements.
func (m *Dynamic) CopyFrom(a Matrix) {
	m.Resize(a.Rows(), a.Cols())
	if d, ok := a.(*Dynamic); ok {
		copy(m.data, d.data)
		return
	}
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			m.data[i*m.cols+j] = a.At(i, j)
		}
	}
}

// Clone returns a deep copy of the matrix.
func (m *Dynamic) Clone() *Dynamic {
	out := NewDynamic(m.rows, m.cols)
	copy(out.data, m.data)
	return out
}
