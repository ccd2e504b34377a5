// solar-download - Warm the Ap/F10.7 index cache from NOAA SWPC and NASA MSFC
//
// Data sources:
//   - recent_indices:  SWPC observed monthly solar-geophysical indices
//   - 45day_forecast:  SWPC 45-day Ap and F10.7 forecast
//   - 20year_forecast: MSFC long-range percentile forecast (PDF)
//
// Build: CGO_ENABLED=0 go build -ldflags="-s -w" -o build/solar-download ./cmd/solar-download

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/KI7MT/ki7mt-gridaurora/internal/common"
	"github.com/KI7MT/ki7mt-gridaurora/internal/solar"
)

// Version can be overridden at build time via -ldflags
var Version = "2.1.0"

var descriptions = map[solar.Source]string{
	solar.RecentIndices:        "SWPC observed monthly Ap and F10.7",
	solar.FortyFiveDayForecast: "SWPC 45-day Ap and F10.7 forecast",
	solar.TwentyYearForecast:   "MSFC 20-year percentile forecast (PDF, needs pdftotext)",
}

func main() {
	envFile := flag.String("env", ".env", "Optional dotenv file")
	destDir := flag.String("dest", "", "Cache directory (default from GRIDAURORA_CACHE_DIR / KI7MT_DATA_DIR)")
	timeout := flag.Duration("timeout", 0, "Timeout per download (default from HTTP_TIMEOUT)")
	listSources := flag.Bool("list", false, "List available data sources")
	source := flag.String("source", "all", "Source to download (or 'all')")
	force := flag.Bool("force", true, "Download even when the cache file exists")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "solar-download v%s - Ap/F10.7 Index Cache Downloader\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Downloads the index products used to resolve Ap and F10.7 by date.\n\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nData Sources:\n")
		for _, s := range solar.Sources {
			fmt.Fprintf(os.Stderr, "  %-16s %s\n", s, descriptions[s])
		}
	}

	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("\nShutdown requested...")
		cancel()
	}()

	cfg, err := common.LoadConfig(ctx, *envFile)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	if *destDir != "" {
		cfg.CacheDir = *destDir
	}
	if *timeout > 0 {
		cfg.HTTPTimeout = *timeout
	}

	fetcher, err := solar.NewFetcher(solar.ConfigFrom(cfg))
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	if *listSources {
		fmt.Printf("Available index sources:\n\n")
		for _, e := range fetcher.Endpoints() {
			fmt.Printf("  %-16s %s\n", e.Source, descriptions[e.Source])
			fmt.Printf("                   URL:  %s\n", e.URL)
			fmt.Printf("                   File: %s\n\n", e.CacheName())
		}
		return
	}

	selected := solar.Sources
	if *source != "all" {
		src, err := solar.ParseSource(*source)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
		selected = []solar.Source{src}
	}

	log.Println("=========================================================")
	log.Printf("Solar Download v%s", Version)
	log.Println("=========================================================")
	log.Printf("Destination: %s", cfg.SolarDataDir())
	log.Printf("Timeout:     %v", cfg.HTTPTimeout)
	log.Printf("Retries:     %d", cfg.HTTPRetryCount)

	failed := 0
	for _, src := range selected {
		if ctx.Err() != nil {
			break
		}
		e, _ := fetcher.Endpoint(src)
		log.Printf("[%s] Downloading from %s...", src, e.URL)

		fn, err := fetcher.Ensure(ctx, src, *force)
		switch {
		case errors.Is(err, solar.ErrCacheFileMissing):
			// The raw download worked; only the text conversion is missing.
			log.Printf("  WARNING: %v", err)
		case err != nil:
			log.Printf("  ERROR: %v", err)
			failed++
		default:
			log.Printf("  Ready: %s", fn)
		}
	}

	fetcher.Stats.PrintSummary("Download Summary")
	log.Printf("Failed:      %d sources", failed)

	if failed > 0 {
		os.Exit(1)
	}
}
