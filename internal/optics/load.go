package optics

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KI7MT/ki7mt-gridaurora/internal/common"
)

// CurveKind names the fields a curve file must provide.
type CurveKind struct {
	Label           string
	WavelengthField string
	ValueField      string
}

// Field layouts of the instrument curve files
var (
	FilterCurve     = CurveKind{Label: "filter", WavelengthField: "wavelength", ValueField: "T"}
	WindowCurve     = CurveKind{Label: "window", WavelengthField: "lamb", ValueField: "T"}
	QECurve         = CurveKind{Label: "qe", WavelengthField: "lamb", ValueField: "QE"}
	AtmosphereCurve = CurveKind{Label: "atmosphere", WavelengthField: "wavelength_nm", ValueField: "transmission"}
)

// LoadCurve reads a curve of the given kind. HDF5 files (.h5, .hdf5) are read
// as datasets; anything else is read as CSV with a header row, optionally
// gzip or zstd compressed.
func LoadCurve(path string, kind CurveKind) (*Curve, error) {
	var (
		c   *Curve
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".h5", ".hdf5":
		c, err = loadHDF5(path, kind)
	default:
		c, err = loadCSV(path, kind)
	}
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s %s: %w", kind.Label, path, err)
	}
	return c, nil
}

func loadCSV(path string, kind CurveKind) (*Curve, error) {
	rc, err := common.OpenData(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	c, err := ReadCurveCSV(rc, kind)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", kind.Label, path, err)
	}
	return c, nil
}

// ReadCurveCSV reads a comma separated curve. The header row names the
// columns; '#' lines are comments. A "name" column, when present, sets the
// curve name from its first non-empty cell.
func ReadCurveCSV(r io.Reader, kind CurveKind) (*Curve, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty file, no %s: %w", kind.WavelengthField, ErrMissingField)
	}
	if err != nil {
		return nil, err
	}

	colW, colV, colName := -1, -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case kind.WavelengthField:
			colW = i
		case kind.ValueField:
			colV = i
		case "name":
			colName = i
		}
	}
	if colW < 0 {
		return nil, fmt.Errorf("could not find %s: %w", kind.WavelengthField, ErrMissingField)
	}
	if colV < 0 {
		return nil, fmt.Errorf("could not find %s: %w", kind.ValueField, ErrMissingField)
	}

	c := &Curve{}
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if colW >= len(rec) || colV >= len(rec) {
			return nil, fmt.Errorf("record %d: %d fields: %w", line, len(rec), ErrInvalidCurve)
		}

		w, err := strconv.ParseFloat(strings.TrimSpace(rec[colW]), 64)
		if err != nil {
			return nil, fmt.Errorf("record %d %s: %w", line, kind.WavelengthField, err)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[colV]), 64)
		if err != nil {
			return nil, fmt.Errorf("record %d %s: %w", line, kind.ValueField, err)
		}
		c.Wavelength = append(c.Wavelength, w)
		c.Value = append(c.Value, v)

		if colName >= 0 && c.Name == "" && colName < len(rec) {
			c.Name = strings.TrimSpace(rec[colName])
		}
	}

	return c, nil
}
