package matrix

import "gonum.org/v1/gonum/mat"

// ToDense copies the matrix into a gonum dense matrix, for interop with
// code built on gonum.org/v1/gonum/mat.
func (m *Dynamic) ToDense() *mat.Dense {
	if m.rows == 0 || m.cols == 0 {
		return &mat.Dense{}
	}
	d := make([]float64, len(m.data))
	copy(d, m.data)
	return mat.NewDense(m.rows, m.cols, d)
}

// NewDynamicFromDense copies a gonum matrix into a Dynamic.
func NewDynamicFromDense(a mat.Matrix) *Dynamic {
	r, c := a.Dims()
	out := NewDynamic(r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.data[i*c+j] = a.At(i, j)
		}
	}
	return out
}
