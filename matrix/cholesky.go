package matrix

import (
	"math"

	"github.com/pkg/errors"
)

// choleskyLower factors the square matrix a as L*L^T and returns the lower
// triangular factor L. Only the lower triangle of a is read, so a is
// assumed symmetric. A non-positive pivot (relative to the largest
// diagonal entry) means a is not positive definite.
func choleskyLower(a Matrix) (*Dynamic, error) {
	n := a.Rows()
	if n != a.Cols() {
		panic(ErrSquare)
	}
	scale := 0.0
	for i := 0; i < n; i++ {
		if d := math.Abs(a.At(i, i)); d > scale {
			scale = d
		}
	}
	tol := scale * 1e-15

	l := NewDynamic(n, n)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			sum := a.At(i, j)
			for k := 0; k < j; k++ {
				sum -= l.data[i*n+k] * l.data[j*n+k]
			}
			if i == j {
				if sum <= tol {
					return nil, errors.Wrapf(ErrNotPositiveDefinite, "leading minor of order %d", i+1)
				}
				l.data[i*n+i] = math.Sqrt(sum)
			} else {
				l.data[i*n+j] = sum / l.data[j*n+j]
			}
		}
	}
	return l, nil
}

// InverseLLt returns the inverse of the symmetric positive-definite matrix
// a, computed through its Cholesky (L*L^T) decomposition. Input that is not
// positive definite within numerical tolerance yields
// ErrNotPositiveDefinite rather than a garbage inverse.
func InverseLLt(a Matrix) (*Dynamic, error) {
	l, err := choleskyLower(a)
	if err != nil {
		return nil, err
	}
	n := l.rows
	inv := NewDynamic(n, n)
	y := make([]float64, n)
	// One unit column at a time: forward-substitute L*y = e_j, then
	// back-substitute L^T*x = y into column j of the inverse.
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			sum := 0.0
			if i == j {
				sum = 1
			}
			for k := 0; k < i; k++ {
				sum -= l.data[i*n+k] * y[k]
			}
			y[i] = sum / l.data[i*n+i]
		}
		for i := n - 1; i >= 0; i-- {
			sum := y[i]
			for k := i + 1; k < n; k++ {
				sum -= l.data[k*n+i] * inv.data[k*n+j]
			}
			inv.data[i*n+j] = sum / l.data[i*n+i]
		}
	}
	return inv, nil
}

// Det returns the determinant of the symmetric positive-definite matrix a
// as the squared product of its Cholesky diagonal. Square input only; a
// matrix that fails to factor yields ErrNotPositiveDefinite.
func Det(a Matrix) (float64, error) {
	l, err := choleskyLower(a)
	if err != nil {
		return 0, err
	}
	d := 1.0
	for i := 0; i < l.rows; i++ {
		d *= l.data[i*l.rows+i]
	}
	return d * d, nil
}
