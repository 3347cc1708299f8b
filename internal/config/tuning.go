// Package config loads pipeline tuning parameters. A JSON config file uses
// pointer fields so partial files only override what they name; everything
// else keeps its default.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Params are the resolved tuning values the pipeline runs with.
type Params struct {
	// DilationRadius is the Chebyshev half-width, in cells, of the square
	// structuring element that inflates obstacles before the distance
	// transform.
	DilationRadius int
	// ThinFactor scales the distance-field mean to form the skeletonization
	// threshold.
	ThinFactor float64
	// CornerSensitivity is the Harris k constant. Tune it for the map.
	CornerSensitivity float64
	// GaussianSigma smooths the Harris structure tensor.
	GaussianSigma float64
	// MinPeakDistance is the minimum pixel separation between keypoints.
	MinPeakDistance int
	// PruneDistance removes nodes strictly closer than this many pixels to
	// an earlier-listed node.
	PruneDistance float64
	// NeighborPasses is how many times neighbor discovery repeats per
	// computation; one pass under-connects.
	NeighborPasses int
}

// Defaults returns the canonical tuning values.
func Defaults() Params {
	return Params{
		DilationRadius:    40,
		ThinFactor:        0.5,
		CornerSensitivity: 0.025,
		GaussianSigma:     1.0,
		MinPeakDistance:   1,
		PruneDistance:     100,
		NeighborPasses:    10,
	}
}

// Tuning is the JSON schema of a config file. Absent fields keep defaults.
type Tuning struct {
	DilationRadius    *int     `json:"dilation_radius,omitempty"`
	ThinFactor        *float64 `json:"thin_factor,omitempty"`
	CornerSensitivity *float64 `json:"corner_sensitivity,omitempty"`
	GaussianSigma     *float64 `json:"gaussian_sigma,omitempty"`
	MinPeakDistance   *int     `json:"min_peak_distance,omitempty"`
	PruneDistance     *float64 `json:"prune_distance,omitempty"`
	NeighborPasses    *int     `json:"neighbor_passes,omitempty"`
}

// Load reads a tuning file and applies it on top of the defaults.
func Load(path string) (Params, error) {
	p := Defaults()
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return p, fmt.Errorf("config file must have .json extension, got %q", ext)
	}
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return p, fmt.Errorf("failed to read config file: %w", err)
	}
	var t Tuning
	if err := json.Unmarshal(data, &t); err != nil {
		return p, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	t.Apply(&p)
	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("invalid configuration: %w", err)
	}
	return p, nil
}

// Apply overrides the fields of p that the tuning file set.
func (t *Tuning) Apply(p *Params) {
	if t.DilationRadius != nil {
		p.DilationRadius = *t.DilationRadius
	}
	if t.ThinFactor != nil {
		p.ThinFactor = *t.ThinFactor
	}
	if t.CornerSensitivity != nil {
		p.CornerSensitivity = *t.CornerSensitivity
	}
	if t.GaussianSigma != nil {
		p.GaussianSigma = *t.GaussianSigma
	}
	if t.MinPeakDistance != nil {
		p.MinPeakDistance = *t.MinPeakDistance
	}
	if t.PruneDistance != nil {
		p.PruneDistance = *t.PruneDistance
	}
	if t.NeighborPasses != nil {
		p.NeighborPasses = *t.NeighborPasses
	}
}

// Validate rejects values the pipeline cannot run with.
func (p Params) Validate() error {
	if p.DilationRadius < 0 {
		return fmt.Errorf("dilation_radius must be non-negative, got %d", p.DilationRadius)
	}
	if p.ThinFactor <= 0 {
		return fmt.Errorf("thin_factor must be positive, got %f", p.ThinFactor)
	}
	if p.GaussianSigma <= 0 {
		return fmt.Errorf("gaussian_sigma must be positive, got %f", p.GaussianSigma)
	}
	if p.MinPeakDistance < 1 {
		return fmt.Errorf("min_peak_distance must be at least 1, got %d", p.MinPeakDistance)
	}
	if p.PruneDistance < 0 {
		return fmt.Errorf("prune_distance must be non-negative, got %f", p.PruneDistance)
	}
	if p.NeighborPasses < 1 {
		return fmt.Errorf("neighbor_passes must be at least 1, got %d", p.NeighborPasses)
	}
	return nil
}
