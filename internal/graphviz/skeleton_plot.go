// Package graphviz renders debugging views of the pipeline: a PNG of the
// skeleton with its keypoints, and an HTML chart of the final graph. Both
// are diagnostic endpoints, not part of the graph contract.
package graphviz

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/topograph/internal/skeleton"
)

// maxSkeletonPoints caps the scatter size; larger skeletons are strided.
const maxSkeletonPoints = 20000

// RenderSkeletonPNG draws the skeleton pixels with keypoints overlaid and
// writes the PNG to w. Y grows downward in pixel space, so the axis is
// flipped by negating Y to keep the image orientation familiar.
func RenderSkeletonPNG(skel *skeleton.Bitmap, kps []skeleton.Keypoint, w io.Writer) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("skeleton %dx%d, %d keypoints", skel.Width, skel.Height, len(kps))
	p.X.Label.Text = "x (cells)"
	p.Y.Label.Text = "y (cells)"
	// Fixed ranges keep the raster aspect and survive an empty skeleton.
	p.X.Min, p.X.Max = 0, float64(skel.Width)
	p.Y.Min, p.Y.Max = -float64(skel.Height), 0

	total := skel.Count()
	stride := 1
	if total > maxSkeletonPoints {
		stride = total/maxSkeletonPoints + 1
	}
	pts := make(plotter.XYs, 0, total/stride+1)
	seen := 0
	for y := 0; y < skel.Height; y++ {
		for x := 0; x < skel.Width; x++ {
			if !skel.At(x, y) {
				continue
			}
			if seen%stride == 0 {
				pts = append(pts, plotter.XY{X: float64(x), Y: -float64(y)})
			}
			seen++
		}
	}
	sk, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("skeleton scatter: %w", err)
	}
	sk.GlyphStyle.Radius = vg.Points(1)
	sk.GlyphStyle.Color = color.Gray{Y: 0x60}
	p.Add(sk)

	kpts := make(plotter.XYs, 0, len(kps))
	for _, kp := range kps {
		kpts = append(kpts, plotter.XY{X: float64(kp.X), Y: -float64(kp.Y)})
	}
	kp, err := plotter.NewScatter(kpts)
	if err != nil {
		return fmt.Errorf("keypoint scatter: %w", err)
	}
	kp.GlyphStyle.Radius = vg.Points(3)
	kp.GlyphStyle.Color = color.RGBA{R: 0xd0, A: 0xff}
	kp.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(kp)

	wt, err := p.WriterTo(8*vg.Inch, 8*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("render skeleton png: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}
