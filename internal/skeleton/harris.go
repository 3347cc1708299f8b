package skeleton

import (
	"math"
	"sort"
)

// Keypoint is a corner pixel on the skeleton, reported as (column, row).
type Keypoint struct {
	X int
	Y int
}

// CornerResponse computes the Harris corner response of a binary raster:
// Sobel gradients, Gaussian-smoothed structure tensor, then
// R = det(M) - k*trace(M)^2 per pixel. k is the corner sensitivity.
func CornerResponse(img *Bitmap, k, sigma float64) []float64 {
	w, h := img.Width, img.Height
	ix := make([]float64, w*h)
	iy := make([]float64, w*h)

	val := func(x, y int) float64 {
		if img.At(x, y) {
			return 1
		}
		return 0
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			ix[i] = (val(x+1, y-1) + 2*val(x+1, y) + val(x+1, y+1)) -
				(val(x-1, y-1) + 2*val(x-1, y) + val(x-1, y+1))
			iy[i] = (val(x-1, y+1) + 2*val(x, y+1) + val(x+1, y+1)) -
				(val(x-1, y-1) + 2*val(x, y-1) + val(x+1, y-1))
		}
	}

	ixx := make([]float64, w*h)
	ixy := make([]float64, w*h)
	iyy := make([]float64, w*h)
	for i := range ix {
		ixx[i] = ix[i] * ix[i]
		ixy[i] = ix[i] * iy[i]
		iyy[i] = iy[i] * iy[i]
	}
	gaussianBlur(ixx, w, h, sigma)
	gaussianBlur(ixy, w, h, sigma)
	gaussianBlur(iyy, w, h, sigma)

	resp := make([]float64, w*h)
	for i := range resp {
		det := ixx[i]*iyy[i] - ixy[i]*ixy[i]
		tr := ixx[i] + iyy[i]
		resp[i] = det - k*tr*tr
	}
	return resp
}

// gaussianBlur smooths a row-major float raster in place with a separable
// Gaussian kernel truncated at 3 sigma.
func gaussianBlur(data []float64, w, h int, sigma float64) {
	radius := int(3*sigma + 0.5)
	if radius < 1 {
		radius = 1
	}
	kernel := make([]float64, 2*radius+1)
	sum := 0.0
	for i := -radius; i <= radius; i++ {
		kernel[i+radius] = math.Exp(-float64(i*i) / (2 * sigma * sigma))
		sum += kernel[i+radius]
	}
	for i := range kernel {
		kernel[i] /= sum
	}

	tmp := make([]float64, len(data))
	for y := 0; y < h; y++ {
		row := y * w
		for x := 0; x < w; x++ {
			acc := 0.0
			for i := -radius; i <= radius; i++ {
				sx := x + i
				if sx < 0 || sx >= w {
					continue
				}
				acc += data[row+sx] * kernel[i+radius]
			}
			tmp[row+x] = acc
		}
	}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			acc := 0.0
			for i := -radius; i <= radius; i++ {
				sy := y + i
				if sy < 0 || sy >= h {
					continue
				}
				acc += tmp[sy*w+x] * kernel[i+radius]
			}
			data[y*w+x] = acc
		}
	}
}

// Peaks extracts corner keypoints from a response raster: pixels above
// threshRel of the global maximum that are maximal within their
// (2*minDist+1)^2 neighborhood, accepted in decreasing response order (ties
// broken row-major) with accepted points suppressing later candidates closer
// than minDist. The result never contains duplicate coordinates.
func Peaks(resp []float64, w, h, minDist int, threshRel float64) []Keypoint {
	maxResp := math.Inf(-1)
	for _, v := range resp {
		if v > maxResp {
			maxResp = v
		}
	}
	if !(maxResp > 0) {
		return nil
	}
	cut := maxResp * threshRel

	type candidate struct {
		x, y int
		r    float64
	}
	var cands []candidate
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := resp[y*w+x]
			if v <= cut {
				continue
			}
			localMax := true
			for dy := -minDist; dy <= minDist && localMax; dy++ {
				for dx := -minDist; dx <= minDist; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx, ny := x+dx, y+dy
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					if resp[ny*w+nx] > v {
						localMax = false
						break
					}
				}
			}
			if localMax {
				cands = append(cands, candidate{x, y, v})
			}
		}
	}

	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].r > cands[j].r
	})

	var out []Keypoint
	for _, c := range cands {
		ok := true
		for _, kp := range out {
			dx, dy := float64(c.x-kp.X), float64(c.y-kp.Y)
			if math.Hypot(dx, dy) < float64(minDist) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, Keypoint{X: c.x, Y: c.y})
		}
	}
	return out
}
