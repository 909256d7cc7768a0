package stats

import (
	"math"
	"sort"
)

// Observed returns the non-NaN values of vals, sorted ascending.
func Observed(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}

// Quantile returns the q-quantile of sorted using linear interpolation
// between the two nearest ranks at position q*(n-1). NaN for empty input.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// Median of the non-NaN values; NaN when none are observed.
func Median(vals []float64) float64 {
	return Quantile(Observed(vals), 0.5)
}

// Quartiles returns Q1 and Q3 of the non-NaN values.
func Quartiles(vals []float64) (q1, q3 float64) {
	obs := Observed(vals)
	return Quantile(obs, 0.25), Quantile(obs, 0.75)
}

// Mode returns the most frequent value among vals where missing[i] is false.
// Ties resolve to the lexicographically smallest value. ok is false when
// nothing is observed.
func Mode(vals []string, missing []bool) (mode string, ok bool) {
	counts := make(map[string]int)
	for i, v := range vals {
		if i < len(missing) && missing[i] {
			continue
		}
		counts[v]++
	}
	best := -1
	for v, c := range counts {
		if c > best || (c == best && v < mode) {
			mode, best = v, c
		}
	}
	return mode, best > 0
}

// Clip clamps every non-NaN value into [lo, hi] in place and returns the
// number of values changed.
func Clip(vals []float64, lo, hi float64) int {
	var n int
	for i, v := range vals {
		switch {
		case math.IsNaN(v):
		case v < lo:
			vals[i] = lo
			n++
		case v > hi:
			vals[i] = hi
			n++
		}
	}
	return n
}
