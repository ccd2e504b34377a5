package optics

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"gonum.org/v1/gonum/floats"
)

// CurveFiles are the paths of the instrument curves.
type CurveFiles struct {
	Filter string
	Window string
	QE     string
}

// Options tune SystemTransmittance.
type Options struct {
	// Atmosphere defaults to UniformAtmosphere when nil.
	Atmosphere AtmosphereModel
	Logger     *log.Logger
	Verbose    bool
}

// SystemT is the composite transmittance on the caller's wavelength grid.
type SystemT struct {
	WavelengthNm []float64
	Filter       []float64
	Window       []float64
	QE           []float64
	Atm          []float64
	SysNoBG3     []float64 // Window * QE * Atm
	Sys          []float64 // SysNoBG3 * Filter

	FilterName string
	Suspect    bool // an interpolated atmosphere value was not finite
}

// Len returns the number of grid points.
func (s *SystemT) Len() int {
	return len(s.WavelengthNm)
}

// SystemTransmittance loads the filter, window and QE curves and composes
// them with the atmosphere on grid.
func SystemTransmittance(ctx context.Context, grid []float64, files CurveFiles, geom Geometry, opts Options) (*SystemT, error) {
	filter, err := LoadCurve(files.Filter, FilterCurve)
	if err != nil {
		return nil, err
	}
	window, err := LoadCurve(files.Window, WindowCurve)
	if err != nil {
		return nil, err
	}
	qe, err := LoadCurve(files.QE, QECurve)
	if err != nil {
		return nil, err
	}
	return Compose(ctx, grid, filter, window, qe, geom, opts)
}

// Compose interpolates the curves in log space onto grid and multiplies
// them. The filter is NaN outside its tabulated range; the window, QE and
// atmosphere must cover the whole grid.
func Compose(ctx context.Context, grid []float64, filter, window, qe *Curve, geom Geometry, opts Options) (*SystemT, error) {
	if len(grid) == 0 {
		return nil, errors.New("empty wavelength grid")
	}
	logf := log.Printf
	if opts.Logger != nil {
		logf = opts.Logger.Printf
	}

	atm, err := atmosphere(ctx, grid, geom, opts, logf)
	if err != nil {
		return nil, err
	}
	suspect := false
	for _, v := range atm {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			suspect = true
			break
		}
	}
	if suspect {
		logf("problem in computing atmospheric attenuation, results are suspect!")
	}

	out := &SystemT{
		WavelengthNm: append([]float64(nil), grid...),
		Atm:          atm,
		FilterName:   filter.Name,
		Suspect:      suspect,
	}

	if out.Filter, err = interpLog(filter, grid, outsideNaN); err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}
	if out.Window, err = interpLog(window, grid, outsideError); err != nil {
		return nil, fmt.Errorf("window: %w", err)
	}
	if out.QE, err = interpLog(qe, grid, outsideError); err != nil {
		return nil, fmt.Errorf("qe: %w", err)
	}

	out.SysNoBG3 = make([]float64, len(grid))
	floats.MulTo(out.SysNoBG3, out.Window, out.QE)
	floats.Mul(out.SysNoBG3, out.Atm)

	out.Sys = make([]float64, len(grid))
	floats.MulTo(out.Sys, out.SysNoBG3, out.Filter)

	return out, nil
}

// atmosphere evaluates the model over the grid's bounding range. A model
// failure falls back to uniform transmittance with a logged warning.
func atmosphere(ctx context.Context, grid []float64, geom Geometry, opts Options, logf func(string, ...any)) ([]float64, error) {
	model := opts.Atmosphere
	if model == nil {
		model = UniformAtmosphere{}
	}
	lo, hi := floats.Min(grid), floats.Max(grid)

	if opts.Verbose {
		logf("loading atmosphere model %T for %g-%g nm, %g km, %g deg", model, lo, hi, geom.ObserverAltKm, geom.ZenithAngleDeg)
	}

	curve, err := model.Transmittance(ctx, lo, hi, geom)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logf("atmosphere model failed, proceeding without atmospheric absorption: %v", err)
		curve, _ = UniformAtmosphere{}.Transmittance(ctx, lo, hi, geom)
	}

	atm, err := interpLog(curve, grid, outsideError)
	if err != nil {
		return nil, fmt.Errorf("atmosphere: %w", err)
	}
	return atm, nil
}
