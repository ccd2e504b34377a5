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

// Section markers of the SWPC 45-day forecast product
const (
	MarkerAp         = "45-DAY AP FORECAST"
	MarkerF107       = "45-DAY F10.7 CM FLUX FORECAST"
	MarkerForecaster = "FORECASTER"

	// Date token layout, e.g. 07Jun16
	fortyFiveDayLayout = "02Jan06"
)

// ParseFortyFiveDay parses the 45-day Ap and F10.7 forecast. Data lines hold
// alternating date and value tokens. Values are joined by date; a date found
// in only one section gets NaN for the other index, so smoothing skips it.
func ParseFortyFiveDay(r io.Reader) (*Table, error) {
	scanner := bufio.NewScanner(r)
	ap := make(map[time.Time]float64)
	f107 := make(map[time.Time]float64)
	seen := make(map[time.Time]bool)
	var order []time.Time

	target := ap
	lineNo := 0

scan:
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			continue
		case strings.HasPrefix(line, "#"), strings.HasPrefix(line, ":"):
			continue
		case strings.HasPrefix(line, MarkerAp):
			target = ap
			continue
		case strings.HasPrefix(line, MarkerF107):
			target = f107
			continue
		case strings.HasPrefix(line, MarkerForecaster):
			break scan
		}

		tokens := strings.Fields(trimmed)
		if len(tokens)%2 != 0 {
			return nil, fmt.Errorf("45-day forecast line %d: odd token count %d", lineNo, len(tokens))
		}

		for i := 0; i < len(tokens); i += 2 {
			d, err := time.Parse(fortyFiveDayLayout, tokens[i])
			if err != nil {
				return nil, fmt.Errorf("45-day forecast line %d: invalid date %q: %w", lineNo, tokens[i], err)
			}
			v, err := strconv.ParseFloat(tokens[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("45-day forecast line %d: invalid value %q: %w", lineNo, tokens[i+1], err)
			}

			if !seen[d] {
				seen[d] = true
				order = append(order, d)
			}
			target[d] = v
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(order))
	for _, d := range order {
		row := Row{Date: d, Ap: math.NaN(), F107: math.NaN()}
		if v, ok := ap[d]; ok {
			row.Ap = v
		}
		if v, ok := f107[d]; ok {
			row.F107 = v
		}
		rows = append(rows, row)
	}

	return newTable(FortyFiveDayForecast, rows), nil
}
