package solar

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/KI7MT/ki7mt-gridaurora/internal/dates"
)

// Long-range forecast table layout (text conversion of the MSFC report)
const (
	TwentyYearHeaderRows = 11

	ColTwentyYearDecimalYear = 0
	ColTwentyYearApMedian    = 3 // Ap, 50th percentile
	ColTwentyYearF107Median  = 6 // F10.7, 50th percentile
)

// ParseTwentyYear parses the long-range forecast table using the 50th
// percentile Ap and F10.7 columns. The first 11 lines are header.
func ParseTwentyYear(r io.Reader) (*Table, error) {
	scanner := bufio.NewScanner(r)
	var rows []Row
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		if lineNo <= TwentyYearHeaderRows {
			continue
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) <= ColTwentyYearF107Median {
			return nil, fmt.Errorf("20-year forecast line %d: expected at least %d columns, got %d",
				lineNo, ColTwentyYearF107Median+1, len(fields))
		}

		var vals [3]float64
		for i, col := range []int{ColTwentyYearDecimalYear, ColTwentyYearApMedian, ColTwentyYearF107Median} {
			v, err := strconv.ParseFloat(fields[col], 64)
			if err != nil {
				return nil, fmt.Errorf("20-year forecast line %d column %d: %w", lineNo, col, err)
			}
			vals[i] = v
		}

		rows = append(rows, Row{
			Date: dates.FromDecimalYear(vals[0]),
			Ap:   vals[1],
			F107: vals[2],
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return newTable(TwentyYearForecast, rows), nil
}
