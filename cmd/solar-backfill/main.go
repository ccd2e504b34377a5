// solar-backfill - Daily Ap/F10.7 backfill into ClickHouse
//
// Resolves every day in [-start, -end] through the index cache and inserts
// one row per day into the apf107 table. Past days come from observed
// monthly indices, so consecutive days in a month share values; future days
// come from the 45-day and 20-year forecasts.
//
// Each run carries a fresh run_id; query the latest run per requested_date
// to ignore older backfills.
//
// Build: CGO_ENABLED=0 go build -ldflags="-s -w" -o build/solar-backfill ./cmd/solar-backfill

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/KI7MT/ki7mt-gridaurora/internal/common"
	"github.com/KI7MT/ki7mt-gridaurora/internal/dates"
	"github.com/KI7MT/ki7mt-gridaurora/internal/export"
	"github.com/KI7MT/ki7mt-gridaurora/internal/solar"
)

var Version = "2.1.0"

const batchLimit = 50000 // flush every 50k rows (~137 years of days)

// coverage summarizes the non-missing values of one index.
type coverage struct {
	count    int
	min, max float64
}

func (c *coverage) add(v float64) {
	if v == solar.Missing || math.IsNaN(v) {
		return
	}
	if c.count == 0 || v < c.min {
		c.min = v
	}
	if c.count == 0 || v > c.max {
		c.max = v
	}
	c.count++
}

func main() {
	envFile := flag.String("env", ".env", "Optional dotenv file")
	start := flag.String("start", "", "First day (required)")
	end := flag.String("end", "", "Last day (default today)")
	smooth := flag.Int("smooth", 0, "Centered moving average window in days (0 = off)")
	force := flag.Bool("force", false, "Re-download source files")
	chHost := flag.String("ch-host", "", "ClickHouse address (default from config)")
	chTable := flag.String("ch-table", export.IndexTable, "ClickHouse table")
	createTable := flag.Bool("create-table", false, "Create the ClickHouse table if missing")
	dryRun := flag.Bool("dry-run", false, "Resolve and report only, skip the insert")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "solar-backfill v%s - Daily Ap/F10.7 Backfill\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: %s -start DATE [OPTIONS]\n\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()

	if *start == "" {
		flag.Usage()
		os.Exit(2)
	}

	log.Println("=========================================================")
	log.Printf("Solar Backfill v%s", Version)
	log.Println("=========================================================")

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

	startDate, err := dates.ToDate(*start)
	if err != nil {
		log.Fatalf("Bad -start: %v", err)
	}
	endDate := dates.Truncate(time.Now())
	if *end != "" {
		if endDate, err = dates.ToDate(*end); err != nil {
			log.Fatalf("Bad -end: %v", err)
		}
	}
	days := dates.Days(startDate, endDate)
	if len(days) == 0 {
		log.Fatal("Empty date range")
	}
	log.Printf("Range:   %s to %s (%d days)", startDate.Format("2006-01-02"), endDate.Format("2006-01-02"), len(days))

	fetcher, err := solar.NewFetcher(solar.ConfigFrom(cfg))
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	t0 := time.Now()
	recs, err := fetcher.ApF107(ctx, solar.Request{Dates: days, SmoothDays: *smooth, Force: *force})
	if err != nil {
		log.Fatalf("Resolve error: %v", err)
	}
	log.Printf("Resolved %d days in %v", len(recs), time.Since(t0).Round(time.Millisecond))

	var ap, f107 coverage
	for _, r := range recs {
		ap.add(r.Ap)
		f107.add(r.F107)
	}
	if ap.count > 0 {
		log.Printf("  Ap:    %d days with data (%.0f - %.0f)", ap.count, ap.min, ap.max)
	} else {
		log.Printf("  Ap:    no data")
	}
	if f107.count > 0 {
		log.Printf("  F10.7: %d days with data (%.1f - %.1f SFU)", f107.count, f107.min, f107.max)
	} else {
		log.Printf("  F10.7: no data")
	}

	if *dryRun {
		log.Println("Dry run, skipping ClickHouse insert")
		return
	}

	target := export.TargetFrom(cfg, *chTable)
	if *chHost != "" {
		target.Addr = *chHost
	}
	runID := uuid.New()

	log.Printf("Connecting to ClickHouse at %s...", target.Addr)
	sink, err := export.DialIndexSink(ctx, target, runID)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer sink.Close()
	log.Printf("Table: %s", target.FQN())

	if *createTable {
		if err := sink.CreateTable(ctx); err != nil {
			log.Fatalf("Create table error: %v", err)
		}
	}

	t0 = time.Now()
	inserted := 0
	for len(recs) > 0 {
		if ctx.Err() != nil {
			log.Printf("Interrupted after %d rows", inserted)
			return
		}
		n := min(batchLimit, len(recs))
		if err := sink.Write(ctx, recs[:n]); err != nil {
			log.Fatalf("Insert error at row %d: %v", inserted, err)
		}
		inserted += n
		recs = recs[n:]
		log.Printf("  Inserted %d rows", inserted)
	}

	elapsed := time.Since(t0)

	log.Println()
	log.Println("=========================================================")
	log.Println("Backfill Complete")
	log.Println("=========================================================")
	log.Printf("Rows:    %d", inserted)
	log.Printf("Run:     %s", runID)
	log.Printf("Elapsed: %v", elapsed.Round(time.Millisecond))
	log.Println("=========================================================")
	fetcher.Stats.PrintSummary("Fetch Statistics")
}
