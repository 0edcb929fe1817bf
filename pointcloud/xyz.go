package pointcloud

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// XYZ is a point cloud holding coordinates only.
type XYZ struct {
	x, y, z  []float32
	modified bool
}

// NewXYZ returns an empty XYZ cloud.
func NewXYZ() *XYZ {
	return NewXYZWithPrealloc(0)
}

// NewXYZWithPrealloc returns an empty XYZ cloud with capacity for size
// points.
func NewXYZWithPrealloc(size int) *XYZ {
	return &XYZ{
		x: make([]float32, 0, size),
		y: make([]float32, 0, size),
		z: make([]float32, 0, size),
	}
}

func (c *XYZ) Size() int {
	return len(c.x)
}

func (c *XYZ) Reserve(n int) {
	c.x = reserveF32(c.x, n)
	c.y = reserveF32(c.y, n)
	c.z = reserveF32(c.z, n)
}

func (c *XYZ) Resize(n int) {
	c.x = resizeF32(c.x, n, 0)
	c.y = resizeF32(c.y, n, 0)
	c.z = resizeF32(c.z, n, 0)
	c.modified = true
}

func (c *XYZ) SetSize(n int) {
	c.x = assignF32(c.x, n)
	c.y = assignF32(c.y, n)
	c.z = assignF32(c.z, n)
	c.modified = true
}

func (c *XYZ) Clear() {
	c.x, c.y, c.z = nil, nil, nil
	c.modified = true
}

func (c *XYZ) InsertPointFast(x, y, z float32) {
	c.x = append(c.x, x)
	c.y = append(c.y, y)
	c.z = append(c.z, z)
}

func (c *XYZ) InsertPoint(x, y, z float32) {
	c.InsertPointFast(x, y, z)
	c.modified = true
}

func (c *XYZ) GetPoint(i int) (r3.Vector, error) {
	if i < 0 || i >= len(c.x) {
		return r3.Vector{}, errors.Wrapf(ErrIndexOutOfBounds, "index %d, size %d", i, len(c.x))
	}
	return r3.Vector{X: float64(c.x[i]), Y: float64(c.y[i]), Z: float64(c.z[i])}, nil
}

func (c *XYZ) GetPointFast(i int) (x, y, z float32) {
	return c.x[i], c.y[i], c.z[i]
}

func (c *XYZ) SetPoint(i int, x, y, z float32) error {
	if i < 0 || i >= len(c.x) {
		return errors.Wrapf(ErrIndexOutOfBounds, "index %d, size %d", i, len(c.x))
	}
	c.x[i], c.y[i], c.z[i] = x, y, z
	c.modified = true
	return nil
}

func (c *XYZ) IsModified() bool {
	return c.modified
}

func (c *XYZ) MarkModified() {
	c.modified = true
}

func (c *XYZ) ClearModified() {
	c.modified = false
}

func (c *XYZ) AddFrom(other PointCloud) {
	prev := c.Size()
	n := other.Size()
	c.Resize(prev + n)
	for i := 0; i < n; i++ {
		x, y, z := other.GetPointFast(i)
		c.x[prev+i], c.y[prev+i], c.z[prev+i] = x, y, z
	}
}

// reserveF32 grows capacity to at least n without changing length.
func reserveF32(s []float32, n int) []float32 {
	if cap(s) >= n {
		return s
	}
	out := make([]float32, len(s), n)
	copy(out, s)
	return out
}

// resizeF32 sets the length to n, keeping existing values and filling new
// slots with def. Slots between a previous shrink and a regrow are refilled
// with def, never stale data.
func resizeF32(s []float32, n int, def float32) []float32 {
	if n <= len(s) {
		return s[:n]
	}
	old := len(s)
	if cap(s) < n {
		out := make([]float32, n)
		copy(out, s)
		s = out
	} else {
		s = s[:n]
	}
	for i := old; i < n; i++ {
		s[i] = def
	}
	return s
}

// assignF32 sets the length to n with every slot zeroed.
func assignF32(s []float32, n int) []float32 {
	if cap(s) < n {
		return make([]float32, n)
	}
	s = s[:n]
	for i := range s {
		s[i] = 0
	}
	return s
}
