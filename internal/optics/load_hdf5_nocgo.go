//go:build !cgo

package optics

import "fmt"

func loadHDF5(path string, kind CurveKind) (*Curve, error) {
	return nil, fmt.Errorf("%s %s: %w", kind.Label, path, ErrHDF5Unavailable)
}
