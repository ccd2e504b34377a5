package solar

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/KI7MT/ki7mt-gridaurora/internal/common"
	"github.com/KI7MT/ki7mt-gridaurora/internal/dates"
	"github.com/KI7MT/ki7mt-gridaurora/internal/fetch"
)

// ErrCacheFileMissing is returned when a source file is still absent after
// a download attempt. It matches fs.ErrNotExist under errors.Is.
var ErrCacheFileMissing = fmt.Errorf("index cache file not found: %w", fs.ErrNotExist)

// ErrNoDates is returned for a request without dates.
var ErrNoDates = errors.New("no dates requested")

// Downloader fetches a URL into a local file.
type Downloader interface {
	Download(ctx context.Context, url, destPath string) (int64, error)
}

// Config configures a Fetcher.
type Config struct {
	CacheDir         string
	RecentIndicesURL string
	FortyFiveDayURL  string
	TwentyYearURL    string
	HTTPTimeout      time.Duration
	HTTPRetryCount   int
	Logger           *log.Logger // nil keeps the Fetcher silent
}

// ConfigFrom copies the index settings out of the shared tool config.
func ConfigFrom(c *common.Config) Config {
	return Config{
		CacheDir:         c.SolarDataDir(),
		RecentIndicesURL: c.RecentIndicesURL,
		FortyFiveDayURL:  c.FortyFiveDayURL,
		TwentyYearURL:    c.TwentyYearURL,
		HTTPTimeout:      c.HTTPTimeout,
		HTTPRetryCount:   c.HTTPRetryCount,
		Logger:           c.Logger(),
	}
}

// Request is a resolution request for one or more dates.
type Request struct {
	Dates      []time.Time
	SmoothDays int  // 0 disables smoothing
	Force      bool // re-download even when cached
}

// Fetcher resolves index values through the local cache.
type Fetcher struct {
	cacheDir   string
	endpoints  []Endpoint
	downloader Downloader
	now        func() time.Time

	Logger *log.Logger
	Stats  *common.Stats
}

// NewFetcher creates the cache directory if needed and returns a Fetcher
// using the HTTP/FTP downloader.
func NewFetcher(cfg Config) (*Fetcher, error) {
	if cfg.CacheDir == "" {
		return nil, errors.New("cache directory not configured")
	}
	if err := os.MkdirAll(cfg.CacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", cfg.CacheDir, err)
	}

	endpoints := []Endpoint{
		{Source: RecentIndices, URL: cfg.RecentIndicesURL},
		{Source: FortyFiveDayForecast, URL: cfg.FortyFiveDayURL},
		{Source: TwentyYearForecast, URL: cfg.TwentyYearURL},
	}

	return &Fetcher{
		cacheDir:   cfg.CacheDir,
		endpoints:  endpoints,
		downloader: fetch.NewDownloader(cfg.HTTPTimeout, cfg.HTTPRetryCount),
		now:        time.Now,
		Logger:     cfg.Logger,
		Stats:      common.NewStats(),
	}, nil
}

// SetDownloader replaces the downloader.
func (f *Fetcher) SetDownloader(d Downloader) {
	f.downloader = d
}

// SetClock replaces the source of "today".
func (f *Fetcher) SetClock(now func() time.Time) {
	f.now = now
}

// Endpoints returns the configured source endpoints.
func (f *Fetcher) Endpoints() []Endpoint {
	return f.endpoints
}

// Endpoint returns the endpoint of src.
func (f *Fetcher) Endpoint(src Source) (Endpoint, error) {
	for _, e := range f.endpoints {
		if e.Source == src {
			return e, nil
		}
	}
	return Endpoint{}, fmt.Errorf("%v: %w", src, ErrUnknownSource)
}

// Path returns the cache file the parser for src reads.
func (f *Fetcher) Path(src Source) (string, error) {
	e, err := f.Endpoint(src)
	if err != nil {
		return "", err
	}
	return filepath.Join(f.cacheDir, e.CacheName()), nil
}

func (f *Fetcher) logf(format string, args ...any) {
	if f.Logger != nil {
		f.Logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// Ensure downloads src when its cache file is absent or force is set, and
// returns the cache file path.
func (f *Fetcher) Ensure(ctx context.Context, src Source, force bool) (string, error) {
	e, err := f.Endpoint(src)
	if err != nil {
		return "", err
	}
	fn := filepath.Join(f.cacheDir, e.CacheName())

	if force || !isFile(fn) {
		raw := filepath.Join(f.cacheDir, e.RawName())
		f.logf("download %s from %s", raw, e.URL)
		n, err := f.downloader.Download(ctx, e.URL, raw)
		if err != nil {
			return "", fmt.Errorf("download %s: %w", src, err)
		}
		if f.Stats != nil {
			f.Stats.AddDownload(n)
		}
	}

	if !isFile(fn) {
		if src == TwentyYearForecast {
			return "", fmt.Errorf("%s (convert %s to text, e.g. pdftotext -layout): %w",
				fn, e.RawName(), ErrCacheFileMissing)
		}
		return "", fmt.Errorf("%s: %w", fn, ErrCacheFileMissing)
	}
	return fn, nil
}

// Load ensures the cache file for src and parses it.
func (f *Fetcher) Load(ctx context.Context, src Source, force bool) (*Table, error) {
	fn, err := f.Ensure(ctx, src, force)
	if err != nil {
		return nil, err
	}
	return f.LoadFile(fn)
}

// LoadFile parses a cache file, choosing the parser from its name.
func (f *Fetcher) LoadFile(fn string) (*Table, error) {
	src, err := ParserFor(fn, f.endpoints)
	if err != nil {
		return nil, fmt.Errorf("could not determine which file to read: %w", err)
	}

	rc, err := common.OpenData(fn)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	t, err := src.Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(fn), err)
	}
	if f.Stats != nil {
		f.Stats.AddParsed(t.Len())
	}
	return t, nil
}

// ApF107 resolves Ap and F10.7 for every requested date, in order. Each date
// selects its own source; a source is downloaded and parsed at most once per
// call. Dates that match no row are dropped.
func (f *Fetcher) ApF107(ctx context.Context, req Request) ([]IndexRecord, error) {
	if len(req.Dates) == 0 {
		return nil, ErrNoDates
	}

	today := dates.Truncate(f.now())
	tables := make(map[Source]*Table)
	out := make([]IndexRecord, 0, len(req.Dates))

	for _, d := range req.Dates {
		d = dates.Truncate(d)
		src := SelectSource(d, today)

		t, ok := tables[src]
		if !ok {
			var err error
			t, err = f.Load(ctx, src, req.Force)
			if err != nil {
				return nil, err
			}
			if req.SmoothDays > 0 {
				if err := t.Smooth(req.SmoothDays); err != nil {
					return nil, err
				}
			}
			tables[src] = t
		}

		row, ok := t.Nearest(d)
		if !ok || (math.IsNaN(row.Ap) && math.IsNaN(row.F107)) {
			continue
		}
		out = append(out, t.Record(d, row))
	}

	if f.Stats != nil {
		f.Stats.AddEmitted(len(out))
	}
	return out, nil
}

// Get is ApF107 for any date-like value accepted by dates.ToDates.
func (f *Fetcher) Get(ctx context.Context, when any, smoothDays int, force bool) ([]IndexRecord, error) {
	ds, err := dates.ToDates(when)
	if err != nil {
		return nil, err
	}
	return f.ApF107(ctx, Request{Dates: ds, SmoothDays: smoothDays, Force: force})
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
