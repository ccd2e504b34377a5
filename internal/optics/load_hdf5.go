//go:build cgo

package optics

import (
	"fmt"

	"gonum.org/v1/hdf5"
)

// loadHDF5 reads the wavelength and value datasets of kind from an HDF5
// file. A string attribute "name" on the value dataset, when readable, sets
// the curve name.
func loadHDF5(path string, kind CurveKind) (*Curve, error) {
	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	wl, err := readFloatDataset(f, kind.WavelengthField)
	if err != nil {
		return nil, fmt.Errorf("could not find /%s in %s: %w", kind.WavelengthField, path, err)
	}
	vals, err := readFloatDataset(f, kind.ValueField)
	if err != nil {
		return nil, fmt.Errorf("could not find /%s in %s: %w", kind.ValueField, path, err)
	}

	return &Curve{
		Name:       readNameAttribute(f, kind.ValueField),
		Wavelength: wl,
		Value:      vals,
	}, nil
}

func readFloatDataset(f *hdf5.File, name string) ([]float64, error) {
	ds, err := f.OpenDataset(name)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrMissingField)
	}
	defer ds.Close()

	space := ds.Space()
	defer space.Close()

	buf := make([]float64, space.SimpleExtentNPoints())
	if err := ds.Read(&buf); err != nil {
		return nil, fmt.Errorf("read /%s: %w", name, err)
	}
	return buf, nil
}

func readNameAttribute(f *hdf5.File, dataset string) string {
	ds, err := f.OpenDataset(dataset)
	if err != nil {
		return ""
	}
	defer ds.Close()

	attr, err := ds.OpenAttribute("name")
	if err != nil {
		return ""
	}
	defer attr.Close()

	var name string
	if err := attr.Read(&name, hdf5.T_GO_STRING); err != nil {
		return ""
	}
	return name
}
