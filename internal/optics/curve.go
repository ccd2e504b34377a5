// Package optics composes the spectral transmittance of an auroral imaging
// system from its filter, sensor window, detector quantum efficiency and the
// atmosphere.
//
// Curves are interpolated in log-transmittance space because transmittance
// spans several decades; linear interpolation of linear values would carry
// large relative error in the tails.
package optics

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"
)

// TinyTransmittance replaces exact zeros before the log transform. It is the
// float64 spacing at 1.0 (2^-52).
const TinyTransmittance = 0x1p-52

var (
	// ErrMissingField is returned when a curve file lacks an expected field.
	ErrMissingField = errors.New("curve field not found")

	// ErrInvalidCurve is returned for curves that cannot be interpolated.
	ErrInvalidCurve = errors.New("invalid spectral curve")

	// ErrOutOfRange is returned when the requested grid leaves a curve's
	// tabulated wavelength range.
	ErrOutOfRange = errors.New("wavelength outside tabulated range")

	// ErrHDF5Unavailable is returned for .h5 curves in builds without cgo.
	ErrHDF5Unavailable = errors.New("HDF5 support not compiled in (build with cgo and libhdf5)")
)

// Curve is a tabulated spectral curve.
type Curve struct {
	Name       string
	Wavelength []float64 // nm, strictly increasing
	Value      []float64 // transmittance or QE, >= 0
}

// Validate checks lengths, ordering and sign. NaN values are allowed and
// propagate through interpolation.
func (c *Curve) Validate() error {
	if c == nil {
		return fmt.Errorf("nil curve: %w", ErrInvalidCurve)
	}
	if len(c.Wavelength) != len(c.Value) {
		return fmt.Errorf("%s: %d wavelengths but %d values: %w",
			c.label(), len(c.Wavelength), len(c.Value), ErrInvalidCurve)
	}
	if len(c.Wavelength) < 2 {
		return fmt.Errorf("%s: need at least 2 samples, got %d: %w", c.label(), len(c.Wavelength), ErrInvalidCurve)
	}
	for i := 1; i < len(c.Wavelength); i++ {
		if !(c.Wavelength[i] > c.Wavelength[i-1]) {
			return fmt.Errorf("%s: wavelength not strictly increasing at index %d: %w", c.label(), i, ErrInvalidCurve)
		}
	}
	for i, v := range c.Value {
		if v < 0 {
			return fmt.Errorf("%s: value %v at index %d: %w", c.label(), v, i, ErrInvalidCurve)
		}
	}
	return nil
}

func (c *Curve) label() string {
	if c.Name != "" {
		return c.Name
	}
	return "curve"
}

// Range returns the first and last tabulated wavelength.
func (c *Curve) Range() (lo, hi float64) {
	return c.Wavelength[0], c.Wavelength[len(c.Wavelength)-1]
}

// LogValues returns log(Value) with zeros replaced by TinyTransmittance.
func (c *Curve) LogValues() []float64 {
	out := make([]float64, len(c.Value))
	for i, v := range c.Value {
		if v == 0 {
			v = TinyTransmittance
		}
		out[i] = math.Log(v)
	}
	return out
}

// outside controls what interpolation does beyond the tabulated range.
type outside int

const (
	outsideError outside = iota
	outsideNaN
)

// interpLog interpolates c onto grid piecewise-linearly in log space and
// returns linear values.
func interpLog(c *Curve, grid []float64, mode outside) ([]float64, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var pl interp.PiecewiseLinear
	if err := pl.Fit(c.Wavelength, c.LogValues()); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", c.label(), err, ErrInvalidCurve)
	}

	lo, hi := c.Range()
	out := make([]float64, len(grid))
	for i, x := range grid {
		if x < lo || x > hi || math.IsNaN(x) {
			if mode == outsideError {
				return nil, fmt.Errorf("%s: %g nm not in [%g, %g]: %w", c.label(), x, lo, hi, ErrOutOfRange)
			}
			out[i] = math.NaN()
			continue
		}
		out[i] = math.Exp(pl.Predict(x))
	}
	return out, nil
}
