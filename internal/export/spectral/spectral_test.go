package spectral

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"

	"github.com/KI7MT/ki7mt-gridaurora/internal/common"
	"github.com/KI7MT/ki7mt-gridaurora/internal/export"
	"github.com/KI7MT/ki7mt-gridaurora/internal/optics"
)

var runID = uuid.MustParse("6f1c2c1e-8a51-4a0e-9a43-2f7b8d1d0c11")

func testSystemT() *optics.SystemT {
	return &optics.SystemT{
		WavelengthNm: []float64{400, 500},
		Filter:       []float64{0.9, 0.8},
		Window:       []float64{0.95, 0.96},
		QE:           []float64{0.5, 0.7},
		Atm:          []float64{1, 1},
		SysNoBG3:     []float64{0.475, 0.672},
		Sys:          []float64{0.4275, 0.5376},
		FilterName:   "BG3",
	}
}

func readRows(t *testing.T, path string) []Row {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		t.Fatal(err)
	}
	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		t.Fatalf("Parquet open error: %v", err)
	}

	reader := parquet.NewGenericReader[Row](pf)
	defer reader.Close()
	rows := make([]Row, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && !errors.Is(err, io.EOF) {
		t.Fatalf("Parquet read error: %v", err)
	}
	return rows[:n]
}

func TestWriteParquet(t *testing.T) {
	geom := optics.Geometry{ObserverAltKm: 0.2, ZenithAngleDeg: 15}

	path := filepath.Join(t.TempDir(), "sys.parquet")
	if err := WriteParquet(path, runID, geom, testSystemT()); err != nil {
		t.Fatalf("WriteParquet failed: %v", err)
	}

	rows := readRows(t, path)
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	want := Row{
		RunID:          runID.String(),
		FilterName:     "BG3",
		ObserverAltKm:  0.2,
		ZenithAngleDeg: 15,
		WavelengthNm:   500,
		Filter:         0.8,
		Window:         0.96,
		QE:             0.7,
		Atm:            1,
		SysNoBG3:       0.672,
		Sys:            0.5376,
	}
	if rows[1] != want {
		t.Errorf("Expected %+v, got %+v", want, rows[1])
	}
}

func TestRowsCarrySuspect(t *testing.T) {
	st := testSystemT()
	st.Suspect = true
	for i, r := range Rows(runID, optics.Geometry{}, st) {
		if !r.Suspect {
			t.Errorf("Row %d: expected suspect flag", i)
		}
	}
}

func TestTarget(t *testing.T) {
	tgt := export.TargetFrom(common.DefaultConfig(), Table)
	if tgt.FQN() != "solar.system_transmittance" {
		t.Errorf("Unexpected table: %s", tgt.FQN())
	}
}
