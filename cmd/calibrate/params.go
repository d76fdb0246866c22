package main

import (
	"math"

	"github.com/pthm-cable/ink/config"
)

// ParamSpec defines a single tunable coefficient.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
	Log     bool    // search in log10 space
}

// ParamVector holds the set of tunable coefficients.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set: diffusion rate and viscosity,
// both searched over several decades.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "diffusion_rate", Path: "fluid.diffusion_rate", Min: 1e-5, Max: 1, Default: 0.1, Log: true},
			{Name: "viscosity", Path: "fluid.viscosity", Min: 1e-7, Max: 0.1, Default: 0.0004, Log: true},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// Normalize converts raw values to the [0,1] search space.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		lo, hi, v := spec.Min, spec.Max, raw[i]
		if spec.Log {
			lo, hi, v = math.Log10(lo), math.Log10(hi), math.Log10(v)
		}
		normalized[i] = (v - lo) / (hi - lo)
	}
	return normalized
}

// Denormalize converts search-space values back to raw values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		if spec.Log {
			lo, hi := math.Log10(spec.Min), math.Log10(spec.Max)
			raw[i] = math.Pow(10, lo+normalized[i]*(hi-lo))
		} else {
			raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
		}
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped values into cfg. Order matches Specs.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	cfg.Fluid.DiffusionRate = clamped[0]
	cfg.Fluid.Viscosity = clamped[1]
}

// ExtractFromConfig reads the current values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Fluid.DiffusionRate,
		cfg.Fluid.Viscosity,
	}
}
