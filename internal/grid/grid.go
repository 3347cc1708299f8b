// Package grid holds the occupancy grid model and the raster preprocessing
// steps (obstacle dilation and exact Euclidean distance transform) that feed
// the skeleton extraction stage.
package grid

import (
	"errors"
	"fmt"
)

// Occupancy cell semantics follow the usual occupancy-grid convention:
// 0 is free, positive values are probability-like occupancy, and negative
// values are the "unknown" sentinel. Anything non-zero is treated as an
// obstacle when building the binary mask.
const (
	CellFree    = int8(0)
	CellUnknown = int8(-1)
)

var (
	// ErrDimensions is returned for non-positive width or height.
	ErrDimensions = errors.New("grid: width and height must be positive")
	// ErrCellCount is returned when the cell payload length does not match
	// width*height.
	ErrCellCount = errors.New("grid: cell data length does not match dimensions")
)

// Vec3 is a position in the world frame (meters).
type Vec3 struct {
	X, Y, Z float64
}

// Quat is an orientation quaternion.
type Quat struct {
	X, Y, Z, W float64
}

// Pose is the world-frame pose of grid cell (0,0).
type Pose struct {
	Position    Vec3
	Orientation Quat
}

// Grid is a rectangular occupancy grid. Cells are stored row-major,
// index = y*Width + x. A Grid is immutable after construction: ingestion
// replaces the whole value rather than mutating it.
type Grid struct {
	Width      int
	Height     int
	Resolution float64 // meters per cell
	Origin     Pose
	FrameID    string
	Cells      []int8
}

// New validates dimensions against the cell payload and builds a Grid.
// The cell slice is copied so the caller may reuse its buffer.
func New(width, height int, resolution float64, origin Pose, frameID string, cells []int8) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrDimensions, width, height)
	}
	if len(cells) != width*height {
		return nil, fmt.Errorf("%w: got %d cells for %dx%d", ErrCellCount, len(cells), width, height)
	}
	c := make([]int8, len(cells))
	copy(c, cells)
	return &Grid{
		Width:      width,
		Height:     height,
		Resolution: resolution,
		Origin:     origin,
		FrameID:    frameID,
		Cells:      c,
	}, nil
}

// At returns the occupancy value at (x, y). Callers must stay in bounds.
func (g *Grid) At(x, y int) int8 {
	return g.Cells[y*g.Width+x]
}

// Occupied reports whether (x, y) counts as an obstacle for mask building.
// Unknown cells count as obstacles so the planner never routes through them.
func (g *Grid) Occupied(x, y int) bool {
	return g.Cells[y*g.Width+x] != CellFree
}

// ObstacleMask returns the row-major boolean obstacle mask of the grid.
func (g *Grid) ObstacleMask() []bool {
	mask := make([]bool, len(g.Cells))
	for i, v := range g.Cells {
		mask[i] = v != CellFree
	}
	return mask
}
