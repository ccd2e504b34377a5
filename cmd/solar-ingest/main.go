// solar-ingest - Index cache file ingestion into ClickHouse
//
// Supports the three cached index products:
//   - RecentIndices.txt:      SWPC observed monthly indices
//   - 45-day-ap-forecast.txt: SWPC 45-day Ap / F10.7 forecast
//   - May2016Rpt.txt:         MSFC 20-year forecast (pdftotext output)
//
// Files may be gzip or zstd compressed. Every source row is inserted with
// requested_date equal to its own date.
//
// Build: CGO_ENABLED=0 go build -ldflags="-s -w" -o build/solar-ingest ./cmd/solar-ingest

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ClickHouse/ch-go"
	"github.com/google/uuid"

	"github.com/KI7MT/ki7mt-gridaurora/internal/common"
	"github.com/KI7MT/ki7mt-gridaurora/internal/export"
	"github.com/KI7MT/ki7mt-gridaurora/internal/solar"
)

// Version can be overridden at build time via -ldflags
var Version = "2.1.0"

func main() {
	envFile := flag.String("env", ".env", "Optional dotenv file")
	chHost := flag.String("ch-host", "", "ClickHouse address (default from config)")
	chTable := flag.String("ch-table", export.IndexTable, "ClickHouse table")
	sourceDir := flag.String("source-dir", "", "Index cache directory (default from config)")
	smooth := flag.Int("smooth", 0, "Centered moving average window in days (0 = off)")
	createTable := flag.Bool("create-table", false, "Create the ClickHouse table if missing")
	truncate := flag.Bool("truncate", false, "Truncate table before insert")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "solar-ingest v%s - Index Cache Ingester\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] [files...]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Ingests cached Ap/F10.7 source tables into ClickHouse.\n\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	log.Println("=========================================================")
	log.Printf("Solar Ingest v%s", Version)
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
	if *sourceDir != "" {
		cfg.CacheDir = *sourceDir
	}

	fetcher, err := solar.NewFetcher(solar.ConfigFrom(cfg))
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	// Discover files
	var files []string
	if len(flag.Args()) > 0 {
		files = flag.Args()
	} else {
		entries, err := os.ReadDir(cfg.SolarDataDir())
		if err != nil {
			log.Fatalf("Cannot read source directory: %v", err)
		}
		for _, e := range entries {
			if !e.IsDir() {
				files = append(files, filepath.Join(cfg.SolarDataDir(), e.Name()))
			}
		}
	}

	if len(files) == 0 {
		log.Fatal("No files to process")
	}

	log.Printf("Found %d file(s)", len(files))

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
	if *truncate {
		log.Printf("Truncating table %s...", target.FQN())
		if err := sink.Exec(ctx, ch.Query{Body: fmt.Sprintf("TRUNCATE TABLE %s", target.FQN())}); err != nil {
			log.Printf("Truncate warning: %v", err)
		}
	}

	startTime := time.Now()
	totalRecords := 0

	for _, filePath := range files {
		if ctx.Err() != nil {
			break
		}
		name := filepath.Base(filePath)

		table, err := fetcher.LoadFile(filePath)
		if errors.Is(err, solar.ErrUnknownFormat) {
			log.Printf("[%s] Skipping (unknown format)", name)
			continue
		}
		if err != nil {
			log.Printf("[%s] Parse error: %v", name, err)
			continue
		}
		if *smooth > 0 {
			if err := table.Smooth(*smooth); err != nil {
				log.Printf("[%s] Smooth error: %v", name, err)
				continue
			}
		}

		recs := table.Records()
		if err := sink.Write(ctx, recs); err != nil {
			log.Fatalf("[%s] Insert error: %v", name, err)
		}
		fetcher.Stats.AddEmitted(len(recs))

		log.Printf("[%s] Inserted %d records (%s format)", name, len(recs), table.Source)
		totalRecords += len(recs)
	}

	elapsed := time.Since(startTime)

	log.Println()
	log.Println("=========================================================")
	log.Println("Final Statistics")
	log.Println("=========================================================")
	log.Printf("Total Records: %d", totalRecords)
	log.Printf("Run:           %s", runID)
	log.Printf("Elapsed:       %v", elapsed.Round(time.Millisecond))
	log.Printf("Rate:          %.0f records/sec", float64(totalRecords)/elapsed.Seconds())
	log.Println("=========================================================")
}
