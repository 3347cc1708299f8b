// Package skeleton reduces a distance field to a 1-pixel-wide medial-axis
// skeleton and detects corner keypoints on it. The skeleton marks free space
// far from obstacles; its corners become topological graph node candidates.
package skeleton

import (
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/topograph/internal/grid"
)

// Bitmap is a row-major boolean raster.
type Bitmap struct {
	Width  int
	Height int
	Bits   []bool
}

// NewBitmap allocates an all-false bitmap.
func NewBitmap(width, height int) *Bitmap {
	return &Bitmap{Width: width, Height: height, Bits: make([]bool, width*height)}
}

// At reports the pixel at (x, y); out-of-range coordinates read as false so
// border neighborhoods need no special casing.
func (b *Bitmap) At(x, y int) bool {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return false
	}
	return b.Bits[y*b.Width+x]
}

// Set writes the pixel at (x, y). Callers must stay in bounds.
func (b *Bitmap) Set(x, y int, v bool) {
	b.Bits[y*b.Width+x] = v
}

// Count returns the number of true pixels.
func (b *Bitmap) Count() int {
	n := 0
	for _, v := range b.Bits {
		if v {
			n++
		}
	}
	return n
}

// Clone deep-copies the bitmap.
func (b *Bitmap) Clone() *Bitmap {
	out := NewBitmap(b.Width, b.Height)
	copy(out.Bits, b.Bits)
	return out
}

// Threshold builds the skeletonization candidate mask: cells whose distance
// value is strictly greater than mean(field) * factor. A field with no finite
// obstacle anywhere has an infinite mean and yields an empty mask, which
// propagates to an empty graph downstream.
func Threshold(field *grid.DistanceField, factor float64) *Bitmap {
	mean := stat.Mean(field.Cells, nil)
	cut := mean * factor
	out := NewBitmap(field.Width, field.Height)
	for i, v := range field.Cells {
		out.Bits[i] = v > cut
	}
	return out
}
