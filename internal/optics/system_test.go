package optics

import (
	"context"
	"errors"
	"io"
	"log"
	"math"
	"testing"
)

var quietLogger = log.New(io.Discard, "", 0)

func testCurves() (filter, window, qe *Curve) {
	filter = &Curve{
		Name:       "BG3",
		Wavelength: []float64{300, 400, 500, 600, 700},
		Value:      []float64{0.5, 0.95, 0.9, 0.3, 0.001},
	}
	window = &Curve{
		Wavelength: []float64{200, 500, 1100},
		Value:      []float64{0.8, 0.97, 0.9},
	}
	qe = &Curve{
		Wavelength: []float64{200, 400, 600, 800, 1100},
		Value:      []float64{0.2, 0.6, 0.95, 0.7, 0.05},
	}
	return filter, window, qe
}

func grid(lo, hi, step float64) []float64 {
	var out []float64
	for x := lo; x <= hi; x += step {
		out = append(out, x)
	}
	return out
}

func TestComposeBounds(t *testing.T) {
	filter, window, qe := testCurves()
	g := grid(300, 700, 7)

	st, err := Compose(context.Background(), g, filter, window, qe, Geometry{}, Options{Logger: quietLogger})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if st.Len() != len(g) {
		t.Fatalf("Expected %d points, got %d", len(g), st.Len())
	}
	if st.Suspect {
		t.Error("Uniform atmosphere must not be suspect")
	}
	if st.FilterName != "BG3" {
		t.Errorf("Expected filter name BG3, got %q", st.FilterName)
	}

	for i := range g {
		if st.Sys[i] > st.SysNoBG3[i] {
			t.Errorf("%g nm: sys %v exceeds sysNObg3 %v", g[i], st.Sys[i], st.SysNoBG3[i])
		}
		for name, v := range map[string]float64{"sys": st.Sys[i], "sysNObg3": st.SysNoBG3[i]} {
			if !(v > 0 && v <= 1) {
				t.Errorf("%g nm: %s = %v not in (0,1]", g[i], name, v)
			}
		}
		if st.Atm[i] != 1 {
			t.Errorf("%g nm: expected uniform atmosphere 1, got %v", g[i], st.Atm[i])
		}
		want := st.Window[i] * st.QE[i] * st.Atm[i]
		if math.Abs(st.SysNoBG3[i]-want) > 1e-15 {
			t.Errorf("%g nm: sysNObg3 %v != window*qe*atm %v", g[i], st.SysNoBG3[i], want)
		}
	}
}

func TestComposeLogInterpolation(t *testing.T) {
	filter := &Curve{Wavelength: []float64{400, 500}, Value: []float64{0.01, 1}}
	flat := &Curve{Wavelength: []float64{300, 600}, Value: []float64{1, 1}}

	st, err := Compose(context.Background(), []float64{400, 450, 500}, filter, flat, flat, Geometry{}, Options{Logger: quietLogger})
	if err != nil {
		t.Fatal(err)
	}

	// Geometric, not arithmetic, midpoint
	want := []float64{0.01, 0.1, 1}
	for i, w := range want {
		if math.Abs(st.Filter[i]-w) > 1e-12 {
			t.Errorf("Filter[%d]: expected %v, got %v", i, w, st.Filter[i])
		}
	}
}

func TestComposeZeroRemap(t *testing.T) {
	filter := &Curve{Wavelength: []float64{400, 500}, Value: []float64{0, 1}}
	flat := &Curve{Wavelength: []float64{300, 600}, Value: []float64{1, 1}}

	st, err := Compose(context.Background(), []float64{400, 450}, filter, flat, flat, Geometry{}, Options{Logger: quietLogger})
	if err != nil {
		t.Fatal(err)
	}
	if math.IsInf(st.Filter[0], 0) || math.IsNaN(st.Filter[0]) || st.Filter[0] <= 0 {
		t.Errorf("Zero sample must map to a small positive value, got %v", st.Filter[0])
	}
	if math.Abs(st.Filter[0]-TinyTransmittance) > 1e-20 {
		t.Errorf("Expected %v at the zero sample, got %v", TinyTransmittance, st.Filter[0])
	}
	if want := math.Sqrt(TinyTransmittance); math.Abs(st.Filter[1]-want)/want > 1e-9 {
		t.Errorf("Expected %v halfway, got %v", want, st.Filter[1])
	}
}

func TestComposeOutOfRange(t *testing.T) {
	filter, window, qe := testCurves()

	// Filter covers 300-700 nm only: NaN outside, not an error.
	st, err := Compose(context.Background(), []float64{250, 500, 750}, filter, window, qe, Geometry{}, Options{Logger: quietLogger})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if !math.IsNaN(st.Filter[0]) || !math.IsNaN(st.Filter[2]) || math.IsNaN(st.Filter[1]) {
		t.Errorf("Expected NaN filter outside its range, got %v", st.Filter)
	}
	if !math.IsNaN(st.Sys[0]) || math.IsNaN(st.SysNoBG3[0]) {
		t.Errorf("Sys must carry the filter NaN while sysNObg3 stays finite")
	}

	// Window ends at 1100 nm.
	_, err = Compose(context.Background(), []float64{500, 1200}, filter, window, qe, Geometry{}, Options{Logger: quietLogger})
	if !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Expected ErrOutOfRange for window, got %v", err)
	}
}

func TestComposeEmptyGrid(t *testing.T) {
	filter, window, qe := testCurves()
	if _, err := Compose(context.Background(), nil, filter, window, qe, Geometry{}, Options{Logger: quietLogger}); err == nil {
		t.Error("Expected error for empty grid")
	}
}

type failingAtmosphere struct{}

func (failingAtmosphere) Transmittance(ctx context.Context, lo, hi float64, g Geometry) (*Curve, error) {
	return nil, errors.New("model not installed")
}

type recordingAtmosphere struct {
	lo, hi float64
	geom   Geometry
	curve  *Curve
}

func (a *recordingAtmosphere) Transmittance(ctx context.Context, lo, hi float64, g Geometry) (*Curve, error) {
	a.lo, a.hi, a.geom = lo, hi, g
	return a.curve, nil
}

func TestComposeAtmosphereFallback(t *testing.T) {
	filter, window, qe := testCurves()

	st, err := Compose(context.Background(), []float64{400, 500}, filter, window, qe, Geometry{},
		Options{Atmosphere: failingAtmosphere{}, Logger: quietLogger})
	if err != nil {
		t.Fatalf("Model failure must fall back, got %v", err)
	}
	for i, v := range st.Atm {
		if v != 1 {
			t.Errorf("Atm[%d]: expected 1 after fallback, got %v", i, v)
		}
	}
}

func TestComposeAtmosphereModel(t *testing.T) {
	filter, window, qe := testCurves()
	model := &recordingAtmosphere{curve: &Curve{
		Wavelength: []float64{300, 500, 700},
		Value:      []float64{0.1, 0.5, 0.8},
	}}
	geom := Geometry{ObserverAltKm: 0.2, ZenithAngleDeg: 12.5}

	st, err := Compose(context.Background(), []float64{600, 400, 500}, filter, window, qe, geom,
		Options{Atmosphere: model, Logger: quietLogger, Verbose: true})
	if err != nil {
		t.Fatal(err)
	}

	if model.lo != 400 || model.hi != 600 || model.geom != geom {
		t.Errorf("Model asked for %g-%g nm at %+v", model.lo, model.hi, model.geom)
	}
	if math.Abs(st.Atm[2]-0.5) > 1e-12 {
		t.Errorf("Expected 0.5 at 500 nm, got %v", st.Atm[2])
	}
	if math.Abs(st.SysNoBG3[2]-st.Window[2]*st.QE[2]*0.5) > 1e-12 {
		t.Errorf("Atmosphere not applied to sysNObg3")
	}
}

func TestComposeSuspectAtmosphere(t *testing.T) {
	filter, window, qe := testCurves()
	model := &recordingAtmosphere{curve: &Curve{
		Wavelength: []float64{300, 500, 700},
		Value:      []float64{0.5, math.NaN(), 0.5},
	}}

	st, err := Compose(context.Background(), []float64{400, 450}, filter, window, qe, Geometry{},
		Options{Atmosphere: model, Logger: quietLogger})
	if err != nil {
		t.Fatalf("Non-finite atmosphere must not abort, got %v", err)
	}
	if !st.Suspect {
		t.Error("Expected result flagged as suspect")
	}
}

func TestCurveValidate(t *testing.T) {
	tests := map[string]*Curve{
		"nil":            nil,
		"length":         {Wavelength: []float64{1, 2}, Value: []float64{1}},
		"too short":      {Wavelength: []float64{1}, Value: []float64{1}},
		"not increasing": {Wavelength: []float64{1, 1}, Value: []float64{1, 1}},
		"negative":       {Wavelength: []float64{1, 2}, Value: []float64{1, -0.1}},
	}
	for name, c := range tests {
		if err := c.Validate(); !errors.Is(err, ErrInvalidCurve) {
			t.Errorf("%s: expected ErrInvalidCurve, got %v", name, err)
		}
	}
}
