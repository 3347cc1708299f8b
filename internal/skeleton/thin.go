package skeleton

// Skeletonize thins a binary mask to its topological skeleton using the
// Zhang–Suen algorithm: alternating sub-iterations delete boundary pixels
// whose removal cannot break connectivity or shorten endpoints, until the
// image stops changing. The result is 1 pixel wide.
func Skeletonize(mask *Bitmap) *Bitmap {
	img := mask.Clone()
	kill := make([]int, 0, 64)
	for {
		changed := false
		for sub := 0; sub < 2; sub++ {
			kill = kill[:0]
			for y := 0; y < img.Height; y++ {
				for x := 0; x < img.Width; x++ {
					if img.At(x, y) && deletable(img, x, y, sub) {
						kill = append(kill, y*img.Width+x)
					}
				}
			}
			for _, i := range kill {
				img.Bits[i] = false
			}
			if len(kill) > 0 {
				changed = true
			}
		}
		if !changed {
			return img
		}
	}
}

// deletable applies the Zhang–Suen conditions for one sub-iteration to the
// pixel at (x, y), which must be set. Neighbors are indexed P2..P9 clockwise
// from north.
func deletable(img *Bitmap, x, y, sub int) bool {
	p := [8]bool{
		img.At(x, y-1),   // P2 N
		img.At(x+1, y-1), // P3 NE
		img.At(x+1, y),   // P4 E
		img.At(x+1, y+1), // P5 SE
		img.At(x, y+1),   // P6 S
		img.At(x-1, y+1), // P7 SW
		img.At(x-1, y),   // P8 W
		img.At(x-1, y-1), // P9 NW
	}

	// B: set neighbors; A: false→true transitions around the ring.
	b, a := 0, 0
	for i := 0; i < 8; i++ {
		if p[i] {
			b++
		}
		if !p[i] && p[(i+1)%8] {
			a++
		}
	}
	if b < 2 || b > 6 || a != 1 {
		return false
	}
	if sub == 0 {
		// P2*P4*P6 == 0 and P4*P6*P8 == 0
		return !(p[0] && p[2] && p[4]) && !(p[2] && p[4] && p[6])
	}
	// P2*P4*P8 == 0 and P2*P6*P8 == 0
	return !(p[0] && p[2] && p[6]) && !(p[0] && p[4] && p[6])
}
