package skeleton

import "github.com/banshee-data/topograph/internal/grid"

// Params tunes the extraction stage. See config.Params for defaults.
type Params struct {
	ThinFactor        float64 // threshold = mean(field) * ThinFactor
	CornerSensitivity float64 // Harris k
	GaussianSigma     float64 // structure tensor smoothing
	MinPeakDistance   int     // minimum keypoint separation in pixels
}

// Extract thresholds a distance field, thins it to a skeleton, and detects
// corner keypoints on the result. A degenerate field (empty or uniform map)
// yields an empty skeleton and zero keypoints, which is a valid outcome.
func Extract(field *grid.DistanceField, p Params) (*Bitmap, []Keypoint) {
	mask := Threshold(field, p.ThinFactor)
	skel := Skeletonize(mask)
	resp := CornerResponse(skel, p.CornerSensitivity, p.GaussianSigma)
	kps := Peaks(resp, skel.Width, skel.Height, p.MinPeakDistance, 0.1)
	return skel, kps
}
