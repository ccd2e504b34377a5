package solar

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

// ErrWindowTooLarge is returned when a smoothing window spans more samples
// than the series holds.
var ErrWindowTooLarge = errors.New("cannot smooth over more time periods than exist in the data")

// Periods converts a window in days to a sample count using the spacing of
// the first two rows. The result is at least 1.
func (t *Table) Periods(days int) int {
	if len(t.Rows) < 2 {
		return 1
	}
	step := t.Rows[1].Date.Sub(t.Rows[0].Date)
	if step <= 0 {
		return 1
	}
	window := time.Duration(days) * 24 * time.Hour
	p := int(math.RoundToEven(float64(window) / float64(step)))
	if p < 1 {
		return 1
	}
	return p
}

// Smooth fills ApSmoothed and F107Smoothed with a centered moving average
// over the given number of days. Ap and F107 are left untouched.
func (t *Table) Smooth(days int) error {
	periods := t.Periods(days)

	ap, err := MovingAverage(t.column(func(r Row) float64 { return r.Ap }), periods)
	if err != nil {
		return fmt.Errorf("smooth Ap over %d days: %w", days, err)
	}
	f107, err := MovingAverage(t.column(func(r Row) float64 { return r.F107 }), periods)
	if err != nil {
		return fmt.Errorf("smooth F10.7 over %d days: %w", days, err)
	}

	for i := range t.Rows {
		t.Rows[i].ApSmoothed = ap[i]
		t.Rows[i].F107Smoothed = f107[i]
	}
	return nil
}

// MovingAverage returns the centered uniform moving average of x, the same
// length as x. The window for sample i covers i-(p-1-(p-1)/2) through
// i+(p-1)/2; near the ends only samples inside x are averaged. NaN samples
// are skipped, and a window holding only NaN yields NaN. The Missing
// sentinel is a number and is averaged as-is.
func MovingAverage(x []float64, periods int) ([]float64, error) {
	if periods > len(x) || periods < 1 {
		return nil, fmt.Errorf("%d periods for %d samples: %w", periods, len(x), ErrWindowTooLarge)
	}

	ahead := (periods - 1) / 2
	behind := periods - 1 - ahead

	out := make([]float64, len(x))
	window := make([]float64, 0, periods)
	for i := range x {
		lo := max(i-behind, 0)
		hi := min(i+ahead, len(x)-1)

		window = window[:0]
		for _, v := range x[lo : hi+1] {
			if !math.IsNaN(v) {
				window = append(window, v)
			}
		}
		if len(window) == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = stat.Mean(window, nil)
	}
	return out, nil
}
