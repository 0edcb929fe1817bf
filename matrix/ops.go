package matrix

// prepare shapes dst to rows x cols. Destinations that can resize (the
// dynamic type) are resized; fixed destinations must already match.
func prepare(dst Mutable, rows, cols int) {
	if rz, ok := dst.(resizer); ok {
		rz.Resize(rows, cols)
		return
	}
	if dst.Rows() != rows || dst.Cols() != cols {
		panic(ErrShape)
	}
}

// MulAB computes dst = a*b. Requires a.Cols() == b.Rows(); the result is
// a.Rows() x b.Cols(). dst must not alias a or b.
func MulAB(dst Mutable, a, b Matrix) {
	ar, ac := a.Rows(), a.Cols()
	bc := b.Cols()
	if ac != b.Rows() {
		panic(ErrShape)
	}
	prepare(dst, ar, bc)
	for i := 0; i < ar; i++ {
		for j := 0; j < bc; j++ {
			var sum float64
			for k := 0; k < ac; k++ {
				sum += a.At(i, k) * b.At(k, j)
			}
			dst.Set(i, j, sum)
		}
	}
}

// MulAtA computes dst = a^T*a, a symmetric a.Cols() x a.Cols() matrix.
// Only the upper triangle is computed; the lower is mirrored. dst must not
// alias a.
func MulAtA(dst Mutable, a Matrix) {
	r, n := a.Rows(), a.Cols()
	prepare(dst, n, n)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			var sum float64
			for k := 0; k < r; k++ {
				sum += a.At(k, i) * a.At(k, j)
			}
			dst.Set(i, j, sum)
			if i != j {
				dst.Set(j, i, sum)
			}
		}
	}
}

// MulAtb returns a^T*b for a vector b of length a.Rows(); the result has
// length a.Cols().
func MulAtb(a Matrix, b Vec) Vec {
	r, c := a.Rows(), a.Cols()
	if len(b) != r {
		panic(ErrShape)
	}
	out := NewVec(c)
	for j := 0; j < c; j++ {
		var sum float64
		for k := 0; k < r; k++ {
			sum += a.At(k, j) * b[k]
		}
		out[j] = sum
	}
	return out
}

// MulAb returns a*b for a vector b of length a.Cols(); the result has
// length a.Rows().
func MulAb(a Matrix, b Vec) Vec {
	r, c := a.Rows(), a.Cols()
	if len(b) != c {
		panic(ErrShape)
	}
	out := NewVec(r)
	for i := 0; i < r; i++ {
		var sum float64
		for k := 0; k < c; k++ {
			sum += a.At(i, k) * b[k]
		}
		out[i] = sum
	}
	return out
}

// TransposeInto sets dst = a^T. dst must not alias a.
func TransposeInto(dst Mutable, a Matrix) {
	r, c := a.Rows(), a.Cols()
	prepare(dst, c, r)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			dst.Set(j, i, a.At(i, j))
		}
	}
}
