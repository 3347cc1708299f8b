package grid

import "math"

// DistanceField is a per-cell Euclidean distance (in cell units) to the
// nearest obstacle cell of the dilated mask. Same row-major layout as Grid.
type DistanceField struct {
	Width  int
	Height int
	Cells  []float64
}

// At returns the distance value at (x, y).
func (f *DistanceField) At(x, y int) float64 {
	return f.Cells[y*f.Width+x]
}

// Preprocess runs the full raster stage: dilate the obstacle mask by a square
// structuring element of the given Chebyshev radius, then compute the exact
// distance transform of the result. The dilation inflates walls so downstream
// skeletons keep a safety margin from real obstacles.
func Preprocess(g *Grid, dilationRadius int) *DistanceField {
	mask := Dilate(g.ObstacleMask(), g.Width, g.Height, dilationRadius)
	return DistanceTransform(mask, g.Width, g.Height)
}

// Dilate grows true regions of a row-major boolean mask by a square
// structuring element: output(x,y) is true iff any input cell within
// Chebyshev distance radius is true. Separable sliding-window pass over rows
// then columns, O(w*h) independent of radius.
func Dilate(mask []bool, width, height, radius int) []bool {
	if radius <= 0 {
		out := make([]bool, len(mask))
		copy(out, mask)
		return out
	}

	// Horizontal pass: true count within [x-radius, x+radius] per row.
	horiz := make([]bool, len(mask))
	for y := 0; y < height; y++ {
		row := y * width
		count := 0
		for x := 0; x <= radius && x < width; x++ {
			if mask[row+x] {
				count++
			}
		}
		for x := 0; x < width; x++ {
			horiz[row+x] = count > 0
			if lead := x + radius + 1; lead < width && mask[row+lead] {
				count++
			}
			if trail := x - radius; trail >= 0 && mask[row+trail] {
				count--
			}
		}
	}

	// Vertical pass over the horizontal result.
	out := make([]bool, len(mask))
	for x := 0; x < width; x++ {
		count := 0
		for y := 0; y <= radius && y < height; y++ {
			if horiz[y*width+x] {
				count++
			}
		}
		for y := 0; y < height; y++ {
			out[y*width+x] = count > 0
			if lead := y + radius + 1; lead < height && horiz[lead*width+x] {
				count++
			}
			if trail := y - radius; trail >= 0 && horiz[trail*width+x] {
				count--
			}
		}
	}
	return out
}

// DistanceTransform computes the exact Euclidean distance transform of a
// row-major obstacle mask: each cell's value is the distance, in cells, to
// the nearest true (obstacle) cell. Cells on obstacles get 0. Uses the
// Felzenszwalb–Huttenlocher lower-envelope-of-parabolas method, one 1D pass
// per axis over squared distances.
func DistanceTransform(obstacles []bool, width, height int) *DistanceField {
	inf := math.Inf(1)
	sq := make([]float64, len(obstacles))
	for i, o := range obstacles {
		if o {
			sq[i] = 0
		} else {
			sq[i] = inf
		}
	}

	// Scratch buffers sized for the longer axis.
	n := width
	if height > n {
		n = height
	}
	f := make([]float64, n)
	d := make([]float64, n)
	v := make([]int, n)
	z := make([]float64, n+1)

	// Columns first, then rows.
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			f[y] = sq[y*width+x]
		}
		dt1d(f[:height], d[:height], v[:height], z[:height+1])
		for y := 0; y < height; y++ {
			sq[y*width+x] = d[y]
		}
	}
	for y := 0; y < height; y++ {
		row := y * width
		copy(f[:width], sq[row:row+width])
		dt1d(f[:width], d[:width], v[:width], z[:width+1])
		for x := 0; x < width; x++ {
			sq[row+x] = math.Sqrt(d[x])
		}
	}

	return &DistanceField{Width: width, Height: height, Cells: sq}
}

// dt1d is the 1D squared distance transform of sampled function f, writing
// results into d. v and z are caller-provided scratch (len(f) and len(f)+1).
// Infinite samples (no obstacle along this scanline yet) carry no parabola;
// a scanline with no finite sample transforms to all +Inf.
func dt1d(f, d []float64, v []int, z []float64) {
	n := len(f)
	k := -1
	for q := 0; q < n; q++ {
		if math.IsInf(f[q], 1) {
			continue
		}
		if k < 0 {
			k = 0
			v[0] = q
			z[0] = math.Inf(-1)
			z[1] = math.Inf(1)
			continue
		}
		for {
			p := v[k]
			s := ((f[q] + float64(q*q)) - (f[p] + float64(p*p))) / float64(2*q-2*p)
			if s > z[k] {
				k++
				v[k] = q
				z[k] = s
				z[k+1] = math.Inf(1)
				break
			}
			k--
			if k < 0 {
				k = 0
				v[0] = q
				z[0] = math.Inf(-1)
				z[1] = math.Inf(1)
				break
			}
		}
	}
	if k < 0 {
		for q := 0; q < n; q++ {
			d[q] = math.Inf(1)
		}
		return
	}
	k = 0
	for q := 0; q < n; q++ {
		for z[k+1] < float64(q) {
			k++
		}
		dq := float64(q - v[k])
		d[q] = dq*dq + f[v[k]]
	}
}
