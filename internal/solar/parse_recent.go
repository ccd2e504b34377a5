package solar

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// RecentIndices.txt column indices (whitespace separated)
const (
	ColRecentYear  = 0
	ColRecentMonth = 1
	ColRecentF107  = 7 // observed 10.7 cm flux
	ColRecentAp    = 9 // observed Ap; column 8 is smoothed F10.7, column 10 smoothed Ap
)

// ParseRecentIndices parses the SWPC "Recent Solar Indices" monthly table.
// Lines starting with '#' or ':' are comments. Each row is dated the first
// of its month. Absent or unreadable Ap/F10.7 cells become Missing.
func ParseRecentIndices(r io.Reader) (*Table, error) {
	scanner := bufio.NewScanner(r)
	var rows []Row
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ":") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("recent indices line %d: expected year and month, got %q", lineNo, line)
		}

		year, err := strconv.ParseFloat(fields[ColRecentYear], 64)
		if err != nil {
			return nil, fmt.Errorf("recent indices line %d: invalid year: %w", lineNo, err)
		}
		month, err := strconv.ParseFloat(fields[ColRecentMonth], 64)
		if err != nil {
			return nil, fmt.Errorf("recent indices line %d: invalid month: %w", lineNo, err)
		}
		if month < 1 || month > 12 {
			return nil, fmt.Errorf("recent indices line %d: month %v out of range", lineNo, month)
		}

		rows = append(rows, Row{
			Date: time.Date(int(year), time.Month(int(month)), 1, 0, 0, 0, 0, time.UTC),
			F107: cellOrMissing(fields, ColRecentF107),
			Ap:   cellOrMissing(fields, ColRecentAp),
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return newTable(RecentIndices, rows), nil
}

// cellOrMissing returns the numeric value of fields[col], or Missing when the
// column is absent or not a finite number.
func cellOrMissing(fields []string, col int) float64 {
	if col >= len(fields) {
		return Missing
	}
	v, err := strconv.ParseFloat(fields[col], 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Missing
	}
	return v
}
