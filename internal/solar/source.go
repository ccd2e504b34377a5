package solar

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"path"
	"strings"
	"time"
)

// Source identifies one of the three index products.
type Source int

const (
	RecentIndices        Source = iota // Observed monthly indices (past dates)
	FortyFiveDayForecast               // SWPC 45-day Ap / F10.7 forecast
	TwentyYearForecast                 // MSFC long-range percentile forecast
)

// ForecastHorizon is the span covered by the 45-day forecast.
const ForecastHorizon = 45 * 24 * time.Hour

// ErrUnknownFormat is returned when a file name maps to no known source.
// It matches fs.ErrNotExist under errors.Is.
var ErrUnknownFormat = fmt.Errorf("no parser for file: %w", fs.ErrNotExist)

// ErrUnknownSource is returned for Source values outside the enumeration.
var ErrUnknownSource = errors.New("unknown index source")

// Sources lists every source in selection order.
var Sources = []Source{RecentIndices, FortyFiveDayForecast, TwentyYearForecast}

type sourceInfo struct {
	name  string
	parse func(io.Reader) (*Table, error)
}

var sourceTable = map[Source]sourceInfo{
	RecentIndices:        {name: "recent_indices", parse: ParseRecentIndices},
	FortyFiveDayForecast: {name: "45day_forecast", parse: ParseFortyFiveDay},
	TwentyYearForecast:   {name: "20year_forecast", parse: ParseTwentyYear},
}

// String returns the short source name used in logs and exports.
func (s Source) String() string {
	if info, ok := sourceTable[s]; ok {
		return info.name
	}
	return fmt.Sprintf("source(%d)", int(s))
}

// ParseSource maps a short source name back to its Source.
func ParseSource(name string) (Source, error) {
	for _, s := range Sources {
		if sourceTable[s].name == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", name, ErrUnknownSource)
}

// Parse reads r with this source's parser.
func (s Source) Parse(r io.Reader) (*Table, error) {
	info, ok := sourceTable[s]
	if !ok {
		return nil, fmt.Errorf("%d: %w", int(s), ErrUnknownSource)
	}
	return info.parse(r)
}

// SelectSource picks the product covering date relative to today. Both are
// expected at midnight UTC.
func SelectSource(date, today time.Time) Source {
	switch {
	case date.Before(today):
		return RecentIndices
	case date.Before(today.Add(ForecastHorizon)):
		return FortyFiveDayForecast
	default:
		return TwentyYearForecast
	}
}

// Endpoint binds a source to its remote URL.
type Endpoint struct {
	Source Source
	URL    string
}

// RawName is the final path segment of the URL, the name a download is
// stored under.
func (e Endpoint) RawName() string {
	p := e.URL
	if u, err := url.Parse(e.URL); err == nil && u.Path != "" {
		p = u.Path
	}
	return path.Base(p)
}

// CacheName is the file the parser reads. The long-range forecast is
// published as a PDF; its text conversion lives next to it with a .txt
// extension.
func (e Endpoint) CacheName() string {
	raw := e.RawName()
	if e.Source != TwentyYearForecast {
		return raw
	}
	if i := strings.Index(raw, "."); i >= 0 {
		raw = raw[:i]
	}
	return raw + ".txt"
}

// ParserFor maps a cache file name to its source. Compression suffixes
// (.gz, .zst) are ignored.
func ParserFor(filename string, endpoints []Endpoint) (Source, error) {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = strings.TrimSuffix(strings.TrimSuffix(base, ".gz"), ".zst")

	for _, e := range endpoints {
		if base == e.CacheName() {
			return e.Source, nil
		}
	}
	return 0, fmt.Errorf("%s: %w", filename, ErrUnknownFormat)
}
