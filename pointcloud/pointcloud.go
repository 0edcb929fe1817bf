// Package pointcloud provides growable columnar storage for 3D scan points,
// with an optional per-point intensity channel, plus bulk text and
// KITTI-Velodyne binary I/O.
//
// Coordinates are stored single-precision in parallel columns. All columns
// always have equal length at any point observable by a caller.
//
// Each cloud tracks a modified flag so that dependent acceleration
// structures (spatial indexes and the like, built outside this package)
// know to rebuild. The flag is a two-state machine:
//
//   - CLEAN -> DIRTY on Resize, SetSize, Clear, InsertPoint, SetPoint,
//     AddFrom and the bulk loaders.
//   - InsertPointFast and intensity-only writes never touch the flag;
//     after a fast-path batch the caller raises it once with MarkModified.
//   - DIRTY -> CLEAN only through ClearModified, called by whoever rebuilt
//     their derived structures.
//
// Reads never change the flag.
package pointcloud

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// ErrIndexOutOfBounds is returned by indexed point access with an index at
// or past the cloud's size.
var ErrIndexOutOfBounds = errors.New("pointcloud: index out of bounds")

// PointCloud is the contract shared by the point cloud variants. Clouds are
// exclusively owned by their caller; no method is safe for concurrent use.
type PointCloud interface {
	// Size returns the number of points in the cloud.
	Size() int

	// Reserve hints capacity for at least n points without changing the
	// cloud's size.
	Reserve(n int)

	// Resize sets the size to n. Points below the old size keep their
	// values; new slots get channel defaults (coordinates 0, intensity 1).
	// Marks the cloud modified.
	Resize(n int)

	// SetSize sets the size to n and resets every slot, old and new, to
	// zero. Marks the cloud modified.
	SetSize(n int)

	// Clear removes all points and marks the cloud modified.
	Clear()

	// InsertPointFast appends a point without touching the modified flag.
	// For hot insertion loops; the caller invalidates dependent caches
	// once per batch via MarkModified.
	InsertPointFast(x, y, z float32)

	// InsertPoint appends a point and marks the cloud modified.
	InsertPoint(x, y, z float32)

	// GetPoint returns the point at index i, or ErrIndexOutOfBounds.
	GetPoint(i int) (r3.Vector, error)

	// GetPointFast returns the point at index i without bounds checking.
	GetPointFast(i int) (x, y, z float32)

	// SetPoint overwrites the coordinates at index i and marks the cloud
	// modified, or returns ErrIndexOutOfBounds.
	SetPoint(i int, x, y, z float32) error

	// IsModified reports whether the cloud is in the DIRTY state.
	IsModified() bool

	// MarkModified transitions the cloud to DIRTY. Used by callers after
	// a batch of fast-path insertions.
	MarkModified()

	// ClearModified transitions the cloud back to CLEAN, acknowledging
	// that dependent structures have been rebuilt.
	ClearModified()

	// AddFrom appends every point of other to this cloud and marks it
	// modified. Channels other's concrete type does not carry stay at
	// their defaults.
	AddFrom(other PointCloud)
}
