package textalign

import (
	"math"
	"sort"
)

// lineSpacingQuantile is the quantile of line gaps reported as the typical line spacing
const lineSpacingQuantile = 0.75

// MedianLineSpacing returns the 75th percentile of the distances between consecutive peak
// locations, interpolating linearly between the closest ranks. Fewer than two peaks give 0.
func MedianLineSpacing(peaks []int) float64 {
	if len(peaks) < 2 {
		return 0
	}
	diffs := make([]float64, 0, len(peaks)-1)
	for i := 1; i < len(peaks); i++ {
		diffs = append(diffs, float64(peaks[i]-peaks[i-1]))
	}
	return quantile(diffs, lineSpacingQuantile)
}

// quantile sorts xs in place and interpolates between the two closest ranks
func quantile(xs []float64, q float64) float64 {
	sort.Float64s(xs)
	pos := q * float64(len(xs)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return xs[lo] + (xs[hi]-xs[lo])*frac
}
