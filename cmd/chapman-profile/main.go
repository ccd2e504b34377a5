// chapman-profile - Print a normalized Chapman layer profile
//
// Build: CGO_ENABLED=0 go build -ldflags="-s -w" -o build/chapman-profile ./cmd/chapman-profile

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"gonum.org/v1/gonum/floats"

	"github.com/KI7MT/ki7mt-gridaurora/internal/chapman"
)

// Version can be overridden at build time via -ldflags
var Version = "2.1.0"

func main() {
	z0 := flag.Float64("z0", 110, "Peak altitude [km]")
	h := flag.Float64("h", 10, "Scale height [km]")
	bottom := flag.Float64("bottom", 80, "Lowest altitude [km]")
	top := flag.Float64("top", 300, "Highest altitude [km]")
	n := flag.Int("n", 45, "Number of altitudes")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "chapman-profile v%s - Chapman Layer Profile\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()

	if *n < 2 || *top <= *bottom {
		log.Fatalf("Error: need -n >= 2 and -top > -bottom")
	}

	z := floats.Span(make([]float64, *n), *bottom, *top)
	p := chapman.Profile(*z0, z, *h)

	fmt.Printf("%8s %12s\n", "alt_km", "profile")
	for i := range z {
		fmt.Printf("%8.2f %12.6e\n", z[i], p[i])
	}
}
