// Package solar resolves geomagnetic and solar radio flux indices (Ap, F10.7)
// for requested dates from NOAA SWPC and NASA MSFC text products.
//
// Three sources cover past, near-future and long-range dates. Each has its
// own text format and parser; downstream code only sees Table and
// IndexRecord.
package solar

import (
	"math"
	"sort"
	"time"
)

// Missing is the NOAA sentinel for an absent index value. The recent-indices
// parser writes it for any empty or unreadable Ap/F10.7 cell; it is never NaN.
const Missing = -1.0

// Row is one date of a parsed source table.
type Row struct {
	Date         time.Time
	Ap           float64
	F107         float64
	ApSmoothed   float64 // NaN until Table.Smooth
	F107Smoothed float64 // NaN until Table.Smooth
}

// Table is a date-ordered index table produced by one source parser.
type Table struct {
	Source Source
	Rows   []Row
}

// IndexRecord is the resolved index for one requested date.
type IndexRecord struct {
	Requested    time.Time // Caller's date (midnight UTC)
	Date         time.Time // Matched source row date
	Source       Source
	Ap           float64
	F107         float64
	ApSmoothed   float64 // NaN when smoothing was not requested
	F107Smoothed float64 // NaN when smoothing was not requested
}

// HasAp reports whether Ap holds a real value.
func (r IndexRecord) HasAp() bool {
	return r.Ap != Missing && !math.IsNaN(r.Ap)
}

// HasF107 reports whether F107 holds a real value.
func (r IndexRecord) HasF107() bool {
	return r.F107 != Missing && !math.IsNaN(r.F107)
}

// newTable sorts rows by date and keeps one row per date (the later line
// wins). Smoothed fields are reset to NaN.
func newTable(src Source, rows []Row) *Table {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})

	out := rows[:0]
	for _, r := range rows {
		r.ApSmoothed = math.NaN()
		r.F107Smoothed = math.NaN()
		if n := len(out); n > 0 && out[n-1].Date.Equal(r.Date) {
			out[n-1] = r
			continue
		}
		out = append(out, r)
	}

	return &Table{Source: src, Rows: out}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

func (t *Table) column(get func(Row) float64) []float64 {
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = get(r)
	}
	return out
}
