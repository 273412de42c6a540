package wang

import (
	"fmt"
	"math"
	"strings"
)

// contrast exaggerates the bias curves; higher values push harder towards
// the extremes (no edges / all edges).
const contrast = 5.0

// Rand is the source of randomness used for sampling.
// *math/rand.Rand satisfies it.
type Rand interface {
	// Float64 returns a value in [0.0, 1.0)
	Float64() float64
}

// Weight returns the relative chance of picking `mask` at the given porosity.
//
// porosity 0 favours tiles with more edges (solid), porosity 1 favours tiles
// with fewer edges (air). The result is always >= 1.
func Weight(mask EdgeMask, porosity float64) float64 {
	edgeRatio := float64(CountEdges(mask)) / 4.0

	airBias := math.Pow(1-edgeRatio, contrast)
	solidBias := math.Pow(edgeRatio, contrast)

	bias := lerp(solidBias, airBias, porosity)
	return 1 + bias*10
}

// SampleWeighted picks one of `candidates` with probability proportional
// to its Weight.
//
// Callers are expected to handle the empty case themselves; given no
// candidates we return Isolated.
func SampleWeighted(candidates []EdgeMask, porosity float64, rng Rand) EdgeMask {
	if len(candidates) == 0 {
		return Isolated
	}

	total := 0.0
	for _, c := range candidates {
		total += Weight(c, porosity)
	}

	r := rng.Float64() * total
	for _, c := range candidates {
		r -= Weight(c, porosity)
		if r <= 0 {
			return c
		}
	}

	// only reachable through float rounding
	return candidates[0]
}

// WeightsTable tabulates mask, edge count & weight for all masks at the
// given porosity.
func WeightsTable(porosity float64) string {
	b := strings.Builder{}
	fmt.Fprintf(&b, "Porosity = %.2f\n", porosity)
	b.WriteString("Mask\tEdges\tWeight\n")
	for m := EdgeMask(0); m < NumMasks; m++ {
		fmt.Fprintf(&b, "%2d\t%2d\t%.3f\n", m, CountEdges(m), Weight(m, porosity))
	}
	return b.String()
}

// lerp interpolates a -> b, clamping t to [0,1]
func lerp(a, b, t float64) float64 {
	t = math.Max(0, math.Min(1, t))
	return a + (b-a)*t
}

// validPorosity returns if p is within [0,1] (and not NaN)
func validPorosity(p float64) bool {
	return p >= 0 && p <= 1
}
