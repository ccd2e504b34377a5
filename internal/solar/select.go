package solar

import (
	"sort"
	"time"
)

// Nearest returns the row closest to date. Exact ties between two rows
// resolve to the later one. ok is false for an empty table.
func (t *Table) Nearest(date time.Time) (row Row, ok bool) {
	n := len(t.Rows)
	if n == 0 {
		return Row{}, false
	}

	i := sort.Search(n, func(i int) bool {
		return !t.Rows[i].Date.Before(date)
	})

	switch {
	case i == 0:
		return t.Rows[0], true
	case i == n:
		return t.Rows[n-1], true
	}

	before := date.Sub(t.Rows[i-1].Date)
	after := t.Rows[i].Date.Sub(date)
	if before < after {
		return t.Rows[i-1], true
	}
	return t.Rows[i], true
}

// Record builds the IndexRecord for a requested date from a matched row.
func (t *Table) Record(requested time.Time, row Row) IndexRecord {
	return IndexRecord{
		Requested:    requested,
		Date:         row.Date,
		Source:       t.Source,
		Ap:           row.Ap,
		F107:         row.F107,
		ApSmoothed:   row.ApSmoothed,
		F107Smoothed: row.F107Smoothed,
	}
}

// Records returns every row as a record requested on its own date.
func (t *Table) Records() []IndexRecord {
	out := make([]IndexRecord, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = t.Record(r.Date, r)
	}
	return out
}
