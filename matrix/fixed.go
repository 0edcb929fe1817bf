package matrix

import "math"

// Mat3 is a fixed 3x3 matrix value type with stack-allocated storage in
// row-major order. Its dimensions are part of the type, so assigning or
// passing a matrix of any other size is a compile error. The pointer type
// *Mat3 satisfies Mutable and works with every kernel in this package.
type Mat3 struct {
	data [9]float64
}

// NewMat3 returns a Mat3 initialized from row-major data.
func NewMat3(data [9]float64) Mat3 {
	return Mat3{data: data}
}

// Rows returns 3.
func (m *Mat3) Rows() int { return 3 }

// Cols returns 3.
func (m *Mat3) Cols() int { return 3 }

// At returns the element at row i, column j.
func (m *Mat3) At(i, j int) float64 {
	if i < 0 || i >= 3 || j < 0 || j >= 3 {
		panic(ErrIndexOutOfBounds)
	}
	return m.data[i*3+j]
}

// Set writes the element at row i, column j.
func (m *Mat3) Set(i, j int, v float64) {
	if i < 0 || i >= 3 || j < 0 || j >= 3 {
		panic(ErrIndexOutOfBounds)
	}
	m.data[i*3+j] = v
}

// SetIdentity sets the diagonal to one and everything else to zero.
func (m *Mat3) SetIdentity() {
	m.data = [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// MaximumDiagonal returns the largest diagonal element.
func (m *Mat3) MaximumDiagonal() float64 {
	return math.Max(m.data[0], math.Max(m.data[4], m.data[8]))
}

// Mat6 is a fixed 6x6 matrix value type, the usual size of pose covariance
// in robotics code. See Mat3 for the contract.
type Mat6 struct {
	data [36]float64
}

// NewMat6 returns a Mat6 initialized from row-major data.
func NewMat6(data [36]float64) Mat6 {
	return Mat6{data: data}
}

// Rows returns 6.
func (m *Mat6) Rows() int { return 6 }

// Cols returns 6.
func (m *Mat6) Cols() int { return 6 }

// At returns the element at row i, column j.
func (m *Mat6) At(i, j int) float64 {
	if i < 0 || i >= 6 || j < 0 || j >= 6 {
		panic(ErrIndexOutOfBounds)
	}
	return m.data[i*6+j]
}

// Set writes the element at row i, column j.
func (m *Mat6) Set(i, j int, v float64) {
	if i < 0 || i >= 6 || j < 0 || j >= 6 {
		panic(ErrIndexOutOfBounds)
	}
	m.data[i*6+j] = v
}

// SetIdentity sets the diagonal to one and everything else to zero.
func (m *Mat6) SetIdentity() {
	m.data = [36]float64{}
	for i := 0; i < 6; i++ {
		m.data[i*6+i] = 1
	}
}

// MaximumDiagonal returns the largest diagonal element.
func (m *Mat6) MaximumDiagonal() float64 {
	best := math.Inf(-1)
	for i := 0; i < 6; i++ {
		if d := m.data[i*6+i]; d > best {
			best = d
		}
	}
	return best
}
