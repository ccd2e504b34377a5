//go:build !cgo

package optics

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestLoadCurveHDF5WithoutCgo(t *testing.T) {
	_, err := LoadCurve(filepath.Join(t.TempDir(), "BG3transmittance.h5"), FilterCurve)
	if !errors.Is(err, ErrHDF5Unavailable) {
		t.Errorf("Expected ErrHDF5Unavailable, got %v", err)
	}
}
