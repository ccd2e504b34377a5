package export

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"

	"github.com/KI7MT/ki7mt-gridaurora/internal/solar"
)

const dateLayout = "2006-01-02"

// IndexRow matches the index Parquet schema
type IndexRow struct {
	RunID         string  `parquet:"run_id"`
	RequestedDate string  `parquet:"requested_date"`
	Date          string  `parquet:"date"`
	Source        string  `parquet:"source"`
	Ap            float64 `parquet:"ap"`
	F107          float64 `parquet:"f107"`
	ApSmoothed    float64 `parquet:"ap_smoothed"`
	F107Smoothed  float64 `parquet:"f107_smoothed"`
}

// IndexRows flattens resolved records for Parquet.
func IndexRows(runID uuid.UUID, recs []solar.IndexRecord) []IndexRow {
	id := runID.String()
	rows := make([]IndexRow, len(recs))
	for i, r := range recs {
		rows[i] = IndexRow{
			RunID:         id,
			RequestedDate: r.Requested.Format(dateLayout),
			Date:          r.Date.Format(dateLayout),
			Source:        r.Source.String(),
			Ap:            r.Ap,
			F107:          r.F107,
			ApSmoothed:    r.ApSmoothed,
			F107Smoothed:  r.F107Smoothed,
		}
	}
	return rows
}

// WriteIndicesParquet writes recs to path.
func WriteIndicesParquet(path string, runID uuid.UUID, recs []solar.IndexRecord) error {
	return WriteParquet(path, IndexRows(runID, recs))
}

// WriteParquet writes rows to a temp file and renames it into place.
func WriteParquet[T any](path string, rows []T) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create file failed: %w", err)
	}

	w := parquet.NewGenericWriter[T](f)
	if _, err := w.Write(rows); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("parquet write failed: %w", err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("parquet close failed: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename failed: %w", err)
	}
	return nil
}
