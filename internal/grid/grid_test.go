package grid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		width   int
		height  int
		cells   int
		wantErr error
	}{
		{"valid", 4, 3, 12, nil},
		{"single cell", 1, 1, 1, nil},
		{"zero width", 0, 3, 0, ErrDimensions},
		{"negative height", 4, -1, 8, ErrDimensions},
		{"short payload", 4, 3, 11, ErrCellCount},
		{"long payload", 4, 3, 13, ErrCellCount},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g, err := New(tt.width, tt.height, 0.05, Pose{}, "map", make([]int8, tt.cells))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, g)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.width, g.Width)
			assert.Equal(t, tt.height, g.Height)
		})
	}
}

func TestNew_CopiesCells(t *testing.T) {
	t.Parallel()

	cells := []int8{0, 100, -1, 0}
	g, err := New(2, 2, 0.1, Pose{}, "map", cells)
	require.NoError(t, err)

	cells[0] = 50
	assert.Equal(t, int8(0), g.At(0, 0), "grid must not alias the caller's buffer")
}

func TestOccupied_UnknownCountsAsObstacle(t *testing.T) {
	t.Parallel()

	g, err := New(3, 1, 0.1, Pose{}, "map", []int8{0, 100, -1})
	require.NoError(t, err)

	assert.False(t, g.Occupied(0, 0))
	assert.True(t, g.Occupied(1, 0))
	assert.True(t, g.Occupied(2, 0), "unknown sentinel treated as obstacle")
}

func TestDilate_SquareWindow(t *testing.T) {
	t.Parallel()

	// Single obstacle in the middle of a 7x7 grid, radius 2: every cell
	// within Chebyshev distance 2 must light up, nothing outside it.
	const w, h = 7, 7
	mask := make([]bool, w*h)
	mask[3*w+3] = true

	out := Dilate(mask, w, h, 2)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			want := abs(x-3) <= 2 && abs(y-3) <= 2
			assert.Equal(t, want, out[y*w+x], "cell (%d,%d)", x, y)
		}
	}
}

func TestDilate_ZeroRadiusIsCopy(t *testing.T) {
	t.Parallel()

	mask := []bool{true, false, false, true}
	out := Dilate(mask, 2, 2, 0)
	assert.Equal(t, mask, out)
	out[1] = true
	assert.False(t, mask[1], "dilate must not alias its input")
}

func TestDilate_RadiusLargerThanGrid(t *testing.T) {
	t.Parallel()

	mask := make([]bool, 9)
	mask[0] = true
	out := Dilate(mask, 3, 3, 40)
	for i, v := range out {
		assert.True(t, v, "cell %d", i)
	}
}

// bruteDistance is the O(n^2) reference used to pin the exact transform.
func bruteDistance(obstacles []bool, width, height int) []float64 {
	out := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			best := math.Inf(1)
			for oy := 0; oy < height; oy++ {
				for ox := 0; ox < width; ox++ {
					if !obstacles[oy*width+ox] {
						continue
					}
					dx, dy := float64(x-ox), float64(y-oy)
					if d := math.Hypot(dx, dy); d < best {
						best = d
					}
				}
			}
			out[y*width+x] = best
		}
	}
	return out
}

func TestDistanceTransform_MatchesBruteForce(t *testing.T) {
	t.Parallel()

	const w, h = 13, 9
	obstacles := make([]bool, w*h)
	// Deterministic scatter of obstacles.
	for i := range obstacles {
		obstacles[i] = (i*7+3)%11 == 0
	}

	got := DistanceTransform(obstacles, w, h)
	want := bruteDistance(obstacles, w, h)
	for i := range want {
		assert.InDelta(t, want[i], got.Cells[i], 1e-9, "cell %d", i)
	}
}

func TestDistanceTransform_NoObstaclesIsInfinite(t *testing.T) {
	t.Parallel()

	got := DistanceTransform(make([]bool, 25), 5, 5)
	for i, v := range got.Cells {
		assert.True(t, math.IsInf(v, 1), "cell %d should be +Inf, got %v", i, v)
	}
}

func TestDistanceTransform_AllObstaclesIsZero(t *testing.T) {
	t.Parallel()

	obstacles := make([]bool, 16)
	for i := range obstacles {
		obstacles[i] = true
	}
	got := DistanceTransform(obstacles, 4, 4)
	for i, v := range got.Cells {
		assert.Zero(t, v, "cell %d", i)
	}
}

func TestPreprocess_WallInflation(t *testing.T) {
	t.Parallel()

	// A single obstacle column on the left of a 20x5 grid, dilation radius 2:
	// distances must be measured from the dilated boundary (x=2), so the
	// distance at x=10 is 8 cells, not 10.
	const w, h = 20, 5
	cells := make([]int8, w*h)
	for y := 0; y < h; y++ {
		cells[y*w] = 100
	}
	g, err := New(w, h, 0.05, Pose{}, "map", cells)
	require.NoError(t, err)

	field := Preprocess(g, 2)
	assert.InDelta(t, 8.0, field.At(10, 2), 1e-9)
	assert.Zero(t, field.At(2, 2), "dilated cells are obstacles")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
