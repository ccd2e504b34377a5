// apf107 - Resolve Ap and F10.7 indices for dates
//
// Dates before today come from observed monthly indices, the next 45 days
// from the SWPC forecast, and anything later from the MSFC 20-year forecast.
//
// Build: CGO_ENABLED=0 go build -ldflags="-s -w" -o build/apf107 ./cmd/apf107

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/KI7MT/ki7mt-gridaurora/internal/common"
	"github.com/KI7MT/ki7mt-gridaurora/internal/export"
	"github.com/KI7MT/ki7mt-gridaurora/internal/solar"
)

// Version can be overridden at build time via -ldflags
var Version = "2.1.0"

func main() {
	envFile := flag.String("env", ".env", "Optional dotenv file")
	cacheDir := flag.String("cache-dir", "", "Index cache directory (default from config)")
	smooth := flag.Int("smooth", 0, "Centered moving average window in days (0 = off)")
	force := flag.Bool("force", false, "Re-download source files")
	parquetOut := flag.String("parquet", "", "Write results to this Parquet file")
	toCH := flag.Bool("ch", false, "Insert results into ClickHouse")
	chHost := flag.String("ch-host", "", "ClickHouse address (default from config)")
	chTable := flag.String("ch-table", export.IndexTable, "ClickHouse table")
	createTable := flag.Bool("create-table", false, "Create the ClickHouse table if missing")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "apf107 v%s - Ap / F10.7 Index Resolver\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] date [date...]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Dates may be 2015-03-17, 2015-03-17T12:00:00, 17Mar15 and similar.\n\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

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
	if *cacheDir != "" {
		cfg.CacheDir = *cacheDir
	}

	log.Println("=========================================================")
	log.Printf("Ap/F10.7 v%s", Version)
	log.Println("=========================================================")
	log.Printf("Cache:   %s", cfg.SolarDataDir())
	if *smooth > 0 {
		log.Printf("Smooth:  %d days", *smooth)
	}

	fetcher, err := solar.NewFetcher(solar.ConfigFrom(cfg))
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	recs, err := fetcher.Get(ctx, flag.Args(), *smooth, *force)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	printRecords(recs, *smooth > 0)

	runID := uuid.New()

	if *parquetOut != "" {
		if err := export.WriteIndicesParquet(*parquetOut, runID, recs); err != nil {
			log.Fatalf("Parquet error: %v", err)
		}
		log.Printf("Wrote %d rows to %s", len(recs), *parquetOut)
	}

	if *toCH {
		target := export.TargetFrom(cfg, *chTable)
		if *chHost != "" {
			target.Addr = *chHost
		}
		log.Printf("Connecting to ClickHouse at %s...", target.Addr)
		sink, err := export.DialIndexSink(ctx, target, runID)
		if err != nil {
			log.Fatalf("%v", err)
		}
		defer sink.Close()

		if *createTable {
			if err := sink.CreateTable(ctx); err != nil {
				log.Fatalf("Create table error: %v", err)
			}
		}
		if err := sink.Write(ctx, recs); err != nil {
			log.Fatalf("Insert error: %v", err)
		}
		log.Printf("Inserted %d rows into %s (run %s)", len(recs), target.FQN(), runID)
	}

	fetcher.Stats.PrintSummary("Final Statistics")
}

func printRecords(recs []solar.IndexRecord, smoothed bool) {
	if smoothed {
		fmt.Printf("%-10s  %-10s  %-16s %6s %7s %8s %9s\n", "requested", "date", "source", "Ap", "f107", "Ap_s", "f107_s")
	} else {
		fmt.Printf("%-10s  %-10s  %-16s %6s %7s\n", "requested", "date", "source", "Ap", "f107")
	}
	for _, r := range recs {
		line := fmt.Sprintf("%-10s  %-10s  %-16s %6.1f %7.1f",
			r.Requested.Format("2006-01-02"), r.Date.Format("2006-01-02"), r.Source, r.Ap, r.F107)
		if smoothed {
			line += fmt.Sprintf(" %8.1f %9.1f", r.ApSmoothed, r.F107Smoothed)
		}
		fmt.Println(line)
	}
}
