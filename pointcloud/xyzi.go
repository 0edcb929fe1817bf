package pointcloud

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// XYZI is a point cloud with a per-point intensity channel alongside the
// coordinates, matching the XYZI layout of automotive lidar datasets.
//
// Intensity defaults differ by operation: Resize fills new slots with 1,
// SetSize resets everything to 0.
type XYZI struct {
	x, y, z   []float32
	intensity []float32
	modified  bool
}

// NewXYZI returns an empty XYZI cloud.
func NewXYZI() *XYZI {
	return NewXYZIWithPrealloc(0)
}

// NewXYZIWithPrealloc returns an empty XYZI cloud with capacity for size
// points.
func NewXYZIWithPrealloc(size int) *XYZI {
	return &XYZI{
		x:         make([]float32, 0, size),
		y:         make([]float32, 0, size),
		z:         make([]float32, 0, size),
		intensity: make([]float32, 0, size),
	}
}

func (c *XYZI) Size() int {
	return len(c.x)
}

func (c *XYZI) Reserve(n int) {
	c.x = reserveF32(c.x, n)
	c.y = reserveF32(c.y, n)
	c.z = reserveF32(c.z, n)
	c.intensity = reserveF32(c.intensity, n)
}

func (c *XYZI) Resize(n int) {
	c.x = resizeF32(c.x, n, 0)
	c.y = resizeF32(c.y, n, 0)
	c.z = resizeF32(c.z, n, 0)
	c.intensity = resizeF32(c.intensity, n, 1)
	c.modified = true
}

func (c *XYZI) SetSize(n int) {
	c.x = assignF32(c.x, n)
	c.y = assignF32(c.y, n)
	c.z = assignF32(c.z, n)
	c.intensity = assignF32(c.intensity, n)
	c.modified = true
}

func (c *XYZI) Clear() {
	c.x, c.y, c.z, c.intensity = nil, nil, nil, nil
	c.modified = true
}

// InsertPointFast appends a point with intensity 0 and leaves the modified
// flag alone.
func (c *XYZI) InsertPointFast(x, y, z float32) {
	c.InsertPointFastWithIntensity(x, y, z, 0)
}

// InsertPointFastWithIntensity appends a point and its intensity, leaving
// the modified flag alone.
func (c *XYZI) InsertPointFastWithIntensity(x, y, z, intensity float32) {
	c.x = append(c.x, x)
	c.y = append(c.y, y)
	c.z = append(c.z, z)
	c.intensity = append(c.intensity, intensity)
}

func (c *XYZI) InsertPoint(x, y, z float32) {
	c.InsertPointFast(x, y, z)
	c.modified = true
}

// InsertPointWithIntensity appends a point and its intensity and marks the
// cloud modified.
func (c *XYZI) InsertPointWithIntensity(x, y, z, intensity float32) {
	c.InsertPointFastWithIntensity(x, y, z, intensity)
	c.modified = true
}

func (c *XYZI) GetPoint(i int) (r3.Vector, error) {
	if i < 0 || i >= len(c.x) {
		return r3.Vector{}, errors.Wrapf(ErrIndexOutOfBounds, "index %d, size %d", i, len(c.x))
	}
	return r3.Vector{X: float64(c.x[i]), Y: float64(c.y[i]), Z: float64(c.z[i])}, nil
}

func (c *XYZI) GetPointFast(i int) (x, y, z float32) {
	return c.x[i], c.y[i], c.z[i]
}

func (c *XYZI) SetPoint(i int, x, y, z float32) error {
	if i < 0 || i >= len(c.x) {
		return errors.Wrapf(ErrIndexOutOfBounds, "index %d, size %d", i, len(c.x))
	}
	c.x[i], c.y[i], c.z[i] = x, y, z
	c.modified = true
	return nil
}

// Intensity returns the intensity at index i, or ErrIndexOutOfBounds.
func (c *XYZI) Intensity(i int) (float32, error) {
	if i < 0 || i >= len(c.intensity) {
		return 0, errors.Wrapf(ErrIndexOutOfBounds, "index %d, size %d", i, len(c.intensity))
	}
	return c.intensity[i], nil
}

// SetIntensity overwrites the intensity at index i. Intensity-only writes
// deliberately skip the modified flag: spatial indexes depend on point
// positions, not attributes, so no rebuild is needed.
func (c *XYZI) SetIntensity(i int, v float32) error {
	if i < 0 || i >= len(c.intensity) {
		return errors.Wrapf(ErrIndexOutOfBounds, "index %d, size %d", i, len(c.intensity))
	}
	c.intensity[i] = v
	return nil
}

// AddFrom appends every point of other. The intensity channel is copied
// only when other is an XYZI cloud; otherwise the appended points keep the
// Resize default of 1.
func (c *XYZI) AddFrom(other PointCloud) {
	prev := c.Size()
	n := other.Size()
	c.Resize(prev + n)
	for i := 0; i < n; i++ {
		x, y, z := other.GetPointFast(i)
		c.x[prev+i], c.y[prev+i], c.z[prev+i] = x, y, z
	}
	if o, ok := other.(*XYZI); ok {
		copy(c.intensity[prev:], o.intensity)
	}
}

func (c *XYZI) IsModified() bool {
	return c.modified
}

func (c *XYZI) MarkModified() {
	c.modified = true
}

func (c *XYZI) ClearModified() {
	c.modified = false
}
