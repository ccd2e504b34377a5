package main

import (
	"math"
	"testing"
)

func TestWavelengthGrid(t *testing.T) {
	tests := []struct {
		start, stop, step float64
		n                 int
		last              float64
	}{
		{200, 1000, 1, 801, 1000},
		{400, 700, 0.5, 601, 700},
		{400, 405, 2, 3, 404},
		{557.7, 557.7, 1, 1, 557.7},
	}
	for _, tt := range tests {
		g, err := wavelengthGrid(tt.start, tt.stop, tt.step)
		if err != nil {
			t.Fatalf("%v: %v", tt, err)
		}
		if len(g) != tt.n || math.Abs(g[len(g)-1]-tt.last) > 1e-9 || g[0] != tt.start {
			t.Errorf("grid(%g, %g, %g): %d points ending %g", tt.start, tt.stop, tt.step, len(g), g[len(g)-1])
		}
	}

	for _, bad := range [][3]float64{{500, 400, 1}, {400, 500, 0}, {400, 500, -1}} {
		if _, err := wavelengthGrid(bad[0], bad[1], bad[2]); err == nil {
			t.Errorf("Expected error for %v", bad)
		}
	}
}
