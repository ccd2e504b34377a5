// Package dates normalizes the date representations accepted by the index
// and optics tools into UTC calendar dates.
package dates

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ErrUnrecognizedTime is returned for values that cannot be read as a date.
var ErrUnrecognizedTime = errors.New("not representable as a date")

// Layouts tried after dateparse gives up. "02Jan06" is the token style used
// by the SWPC 45-day forecast.
var fallbackLayouts = []string{
	"02Jan06",
	"02Jan2006",
	"2006 Jan 02",
	"2006-01",
}

// Truncate returns midnight UTC of t's wall-clock date. No zone conversion
// is performed.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseString reads an ISO-like date or datetime string.
func ParseString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty string: %w", ErrUnrecognizedTime)
	}
	if t, err := dateparse.ParseIn(s, time.UTC); err == nil {
		return t, nil
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q: %w", s, ErrUnrecognizedTime)
}

// ToTime converts a single value to a time.Time without truncation.
func ToTime(v any) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case *time.Time:
		if x == nil {
			return time.Time{}, fmt.Errorf("nil *time.Time: %w", ErrUnrecognizedTime)
		}
		return *x, nil
	case string:
		return ParseString(x)
	default:
		return time.Time{}, fmt.Errorf("type %T: %w", v, ErrUnrecognizedTime)
	}
}

// ToDate converts a single date-like value to midnight UTC of its date.
// Collections are rejected; use ToDates.
func ToDate(v any) (time.Time, error) {
	t, err := ToTime(v)
	if err != nil {
		return time.Time{}, err
	}
	return Truncate(t), nil
}

// ToDates converts a value or a homogeneous collection of values to dates,
// preserving order.
func ToDates(v any) ([]time.Time, error) {
	items, err := ToTimes(v)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i] = Truncate(items[i])
	}
	return items, nil
}

// ToTimes is ToDates without truncation to the date.
func ToTimes(v any) ([]time.Time, error) {
	switch x := v.(type) {
	case []time.Time:
		out := make([]time.Time, len(x))
		copy(out, x)
		return out, nil
	case []string:
		out := make([]time.Time, 0, len(x))
		for _, s := range x {
			t, err := ParseString(s)
			if err != nil {
				return nil, err
			}
			out = append(out, t)
		}
		return out, nil
	case []any:
		out := make([]time.Time, 0, len(x))
		for i, item := range x {
			t, err := ToTime(item)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out = append(out, t)
		}
		return out, nil
	default:
		t, err := ToTime(v)
		if err != nil {
			return nil, err
		}
		return []time.Time{t}, nil
	}
}

// FromDecimalYear converts a decimal year such as 2016.5 to a calendar date.
// The fraction is taken over the actual length of that year.
func FromDecimalYear(y float64) time.Time {
	year := math.Floor(y)
	start := time.Date(int(year), time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	offset := time.Duration((y - year) * float64(end.Sub(start)))
	return Truncate(start.Add(offset))
}

// Days returns every calendar day from start through end inclusive, or nil
// when end is before start.
func Days(start, end time.Time) []time.Time {
	start, end = Truncate(start), Truncate(end)
	var out []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// ToYearMonth returns the YYYYMM integer for v. Only the first element of a
// collection is used.
func ToYearMonth(v any) (int, error) {
	items, err := ToTimes(v)
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, fmt.Errorf("empty collection: %w", ErrUnrecognizedTime)
	}
	if len(items) > 1 {
		log.Printf("taking only first time %s of %d", items[0].Format(time.RFC3339), len(items))
	}
	t := items[0]
	return t.Year()*100 + int(t.Month()), nil
}

// ToUnixSeconds converts times to seconds since the Unix epoch, treating UT1
// as UTC. Numeric input is returned unchanged.
func ToUnixSeconds(v any) ([]float64, error) {
	switch x := v.(type) {
	case float64:
		return []float64{x}, nil
	case int64:
		return []float64{float64(x)}, nil
	case []float64:
		out := make([]float64, len(x))
		copy(out, x)
		return out, nil
	}

	items, err := ToTimes(v)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(items))
	for i, t := range items {
		out[i] = float64(t.UnixNano()) / 1e9
	}
	return out, nil
}
