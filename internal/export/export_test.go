package export

import (
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"

	"github.com/KI7MT/ki7mt-gridaurora/internal/common"
	"github.com/KI7MT/ki7mt-gridaurora/internal/solar"
)

var runID = uuid.MustParse("6f1c2c1e-8a51-4a0e-9a43-2f7b8d1d0c11")

func testRecords() []solar.IndexRecord {
	return []solar.IndexRecord{
		{
			Requested:    time.Date(2015, 3, 17, 0, 0, 0, 0, time.UTC),
			Date:         time.Date(2015, 3, 1, 0, 0, 0, 0, time.UTC),
			Source:       solar.RecentIndices,
			Ap:           22,
			F107:         126.0,
			ApSmoothed:   math.NaN(),
			F107Smoothed: math.NaN(),
		},
		{
			Requested:    time.Date(2016, 6, 10, 0, 0, 0, 0, time.UTC),
			Date:         time.Date(2016, 6, 10, 0, 0, 0, 0, time.UTC),
			Source:       solar.FortyFiveDayForecast,
			Ap:           8,
			F107:         solar.Missing,
			ApSmoothed:   9.5,
			F107Smoothed: 88.25,
		},
	}
}

func readParquet[T any](t *testing.T, path string) []T {
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

	reader := parquet.NewGenericReader[T](pf)
	defer reader.Close()
	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && !errors.Is(err, io.EOF) {
		t.Fatalf("Parquet read error: %v", err)
	}
	return rows[:n]
}

func TestIndicesParquetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apf107.parquet")
	if err := WriteIndicesParquet(path, runID, testRecords()); err != nil {
		t.Fatalf("WriteIndicesParquet failed: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("Temp file left behind")
	}

	rows := readParquet[IndexRow](t, path)
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	r := rows[0]
	if r.RunID != runID.String() || r.RequestedDate != "2015-03-17" || r.Date != "2015-03-01" {
		t.Errorf("Unexpected row: %+v", r)
	}
	if r.Source != "recent_indices" || r.Ap != 22 || r.F107 != 126 {
		t.Errorf("Unexpected values: %+v", r)
	}
	if !math.IsNaN(r.ApSmoothed) || !math.IsNaN(r.F107Smoothed) {
		t.Errorf("Expected NaN smoothed values, got %v %v", r.ApSmoothed, r.F107Smoothed)
	}
	if rows[1].F107 != solar.Missing || rows[1].F107Smoothed != 88.25 {
		t.Errorf("Unexpected second row: %+v", rows[1])
	}
}

func TestIndexBatch(t *testing.T) {
	b := NewIndexBatch()
	for _, r := range testRecords() {
		b.AddRecord(runID, r)
	}
	if b.Len() != 2 {
		t.Fatalf("Expected 2 rows, got %d", b.Len())
	}

	input := b.Input()
	if len(input) != 8 || input[0].Name != "run_id" || input[7].Name != "f107_smoothed" {
		t.Errorf("Unexpected input columns: %v", input)
	}
	for _, col := range input {
		if rows := col.Data.Rows(); rows != 2 {
			t.Errorf("Column %s has %d rows", col.Name, rows)
		}
	}
	if got := b.Source.Row(1); got != "45day_forecast" {
		t.Errorf("Expected 45day_forecast, got %s", got)
	}
	if got := b.Ap.Row(0); got != 22 {
		t.Errorf("Expected Ap 22, got %v", got)
	}

	b.Reset()
	if b.Len() != 0 {
		t.Errorf("Expected empty batch after Reset, got %d", b.Len())
	}
}

func TestTargetFrom(t *testing.T) {
	cfg := common.DefaultConfig()
	tgt := TargetFrom(cfg, IndexTable)
	if tgt.Addr != "localhost:9000" || tgt.FQN() != "solar.apf107" || tgt.User != "default" {
		t.Errorf("Unexpected target: %+v", tgt)
	}
}
