// system-transmittance - Composite spectral transmittance of an auroral camera
//
// Multiplies filter, sensor window, detector QE and atmosphere on a
// wavelength grid. Curves are CSV (optionally .gz/.zst) or HDF5.
//
// Build: go build -o build/system-transmittance ./cmd/system-transmittance
// HDF5 curves need cgo and libhdf5; a CGO_ENABLED=0 build reads CSV only.

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

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"

	"github.com/KI7MT/ki7mt-gridaurora/internal/common"
	"github.com/KI7MT/ki7mt-gridaurora/internal/export"
	"github.com/KI7MT/ki7mt-gridaurora/internal/export/spectral"
	"github.com/KI7MT/ki7mt-gridaurora/internal/optics"
)

// Version can be overridden at build time via -ldflags
var Version = "2.1.0"

// wavelengthGrid returns start, start+step, ... up to and including stop.
func wavelengthGrid(start, stop, step float64) ([]float64, error) {
	if !(step > 0) || stop < start {
		return nil, fmt.Errorf("bad grid %g:%g:%g", start, stop, step)
	}
	n := int(math.Floor((stop-start)/step+1e-9)) + 1
	if n == 1 {
		return []float64{start}, nil
	}
	return floats.Span(make([]float64, n), start, start+float64(n-1)*step), nil
}

func main() {
	envFile := flag.String("env", ".env", "Optional dotenv file")
	filterPath := flag.String("filter", "", "Filter curve (wavelength, T)")
	windowPath := flag.String("window", "", "Sensor window curve (lamb, T)")
	qePath := flag.String("qe", "", "Detector QE curve (lamb, QE)")
	atmPath := flag.String("atm", "", "Tabulated atmosphere (wavelength_nm, transmission); default none")
	alt := flag.Float64("alt", 0, "Observer altitude [km]")
	zenang := flag.Float64("zenang", 0, "Zenith angle [deg]")
	start := flag.Float64("start", 200, "Grid start [nm]")
	stop := flag.Float64("stop", 1000, "Grid stop [nm]")
	step := flag.Float64("step", 1, "Grid step [nm]")
	verbose := flag.Bool("verbose", false, "Log atmosphere model details (also LOG_LEVEL=debug)")
	parquetOut := flag.String("parquet", "", "Write the table to this Parquet file")
	toCH := flag.Bool("ch", false, "Insert the table into ClickHouse")
	chHost := flag.String("ch-host", "", "ClickHouse address (default from config)")
	chTable := flag.String("ch-table", spectral.Table, "ClickHouse table")
	createTable := flag.Bool("create-table", false, "Create the ClickHouse table if missing")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "system-transmittance v%s - Imaging System Transmittance\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: %s -filter F -window W -qe Q [OPTIONS]\n\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()

	if *filterPath == "" || *windowPath == "" || *qePath == "" {
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

	grid, err := wavelengthGrid(*start, *stop, *step)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	opts := optics.Options{Verbose: *verbose || cfg.Debug(), Logger: cfg.Logger()}
	if *atmPath != "" {
		atm, err := optics.LoadTabulatedAtmosphere(*atmPath)
		if err != nil {
			log.Fatalf("Atmosphere error: %v", err)
		}
		opts.Atmosphere = atm
	}

	log.Println("=========================================================")
	log.Printf("System Transmittance v%s", Version)
	log.Println("=========================================================")
	log.Printf("Filter:  %s", *filterPath)
	log.Printf("Window:  %s", *windowPath)
	log.Printf("QE:      %s", *qePath)
	log.Printf("Grid:    %g-%g nm, %d points", grid[0], grid[len(grid)-1], len(grid))

	geom := optics.Geometry{ObserverAltKm: *alt, ZenithAngleDeg: *zenang}
	files := optics.CurveFiles{Filter: *filterPath, Window: *windowPath, QE: *qePath}

	st, err := optics.SystemTransmittance(ctx, grid, files, geom, opts)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	fmt.Printf("%8s %9s %9s %9s %9s %9s %9s\n", "nm", "filter", "window", "qe", "atm", "sysNObg3", "sys")
	for i := 0; i < st.Len(); i++ {
		fmt.Printf("%8.2f %9.5f %9.5f %9.5f %9.5f %9.5f %9.5f\n",
			st.WavelengthNm[i], st.Filter[i], st.Window[i], st.QE[i], st.Atm[i], st.SysNoBG3[i], st.Sys[i])
	}
	if st.Suspect {
		log.Printf("WARNING: atmosphere contains non-finite values, results are suspect")
	}

	runID := uuid.New()

	if *parquetOut != "" {
		if err := spectral.WriteParquet(*parquetOut, runID, geom, st); err != nil {
			log.Fatalf("Parquet error: %v", err)
		}
		log.Printf("Wrote %d rows to %s", st.Len(), *parquetOut)
	}

	if *toCH {
		target := export.TargetFrom(cfg, *chTable)
		if *chHost != "" {
			target.Addr = *chHost
		}
		log.Printf("Connecting to ClickHouse at %s...", target.Addr)
		sink, err := spectral.OpenSink(ctx, target)
		if err != nil {
			log.Fatalf("%v", err)
		}
		defer sink.Close()

		if *createTable {
			if err := sink.CreateTable(ctx); err != nil {
				log.Fatalf("Create table error: %v", err)
			}
		}
		if err := sink.Write(ctx, runID, geom, st); err != nil {
			log.Fatalf("Insert error: %v", err)
		}
		log.Printf("Inserted %d rows into %s (run %s)", st.Len(), target.FQN(), runID)
	}
}
