// Package chapman evaluates the idealized Chapman layer used for ionospheric
// production and density profiles.
package chapman

import "math"

// Profile returns the normalized Chapman function at each altitude in z for
// a layer peaking at z0 with scale height h. All three share one unit, km
// by convention. The value is 1 at the peak.
func Profile(z0 float64, z []float64, h float64) []float64 {
	out := make([]float64, len(z))
	for i, zi := range z {
		out[i] = math.Exp(0.5 * (1 - (zi-z0)/h - math.Exp((z0-zi)/h)))
	}
	return out
}
