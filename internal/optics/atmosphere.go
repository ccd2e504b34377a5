package optics

import (
	"context"
	"fmt"
	"math"
)

// Geometry is the observer location for atmospheric path transmittance.
type Geometry struct {
	ObserverAltKm  float64
	ZenithAngleDeg float64
}

// AtmosphereModel provides atmospheric transmittance over a wavelength range
// for a viewing geometry, e.g. a LOWTRAN-class radiative transfer code.
type AtmosphereModel interface {
	Transmittance(ctx context.Context, loNm, hiNm float64, g Geometry) (*Curve, error)
}

// UniformAtmosphere is the no-op model: transmittance 1 everywhere.
type UniformAtmosphere struct{}

// Transmittance returns a flat curve of ones covering [loNm, hiNm].
func (UniformAtmosphere) Transmittance(ctx context.Context, loNm, hiNm float64, g Geometry) (*Curve, error) {
	lo, hi := math.Min(loNm, hiNm), math.Max(loNm, hiNm)
	return &Curve{
		Name:       "uniform",
		Wavelength: []float64{lo - 1, hi + 1},
		Value:      []float64{1, 1},
	}, nil
}

// TabulatedAtmosphere serves a precomputed transmittance curve regardless of
// geometry. Useful with model output saved for a fixed site.
type TabulatedAtmosphere struct {
	Curve *Curve
}

// LoadTabulatedAtmosphere reads a curve with wavelength_nm and transmission
// columns.
func LoadTabulatedAtmosphere(path string) (*TabulatedAtmosphere, error) {
	c, err := LoadCurve(path, AtmosphereCurve)
	if err != nil {
		return nil, err
	}
	return &TabulatedAtmosphere{Curve: c}, nil
}

// Transmittance returns the stored curve. The range check against loNm and
// hiNm happens at interpolation.
func (a *TabulatedAtmosphere) Transmittance(ctx context.Context, loNm, hiNm float64, g Geometry) (*Curve, error) {
	if a == nil || a.Curve == nil {
		return nil, fmt.Errorf("tabulated atmosphere has no curve: %w", ErrInvalidCurve)
	}
	return a.Curve, nil
}
