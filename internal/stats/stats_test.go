package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantileLinearInterpolation(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	assert.InDelta(t, 1.75, Quantile(sorted, 0.25), 1e-12)
	assert.InDelta(t, 2.5, Quantile(sorted, 0.5), 1e-12)
	assert.InDelta(t, 3.25, Quantile(sorted, 0.75), 1e-12)
	assert.Equal(t, 1.0, Quantile(sorted, 0))
	assert.Equal(t, 4.0, Quantile(sorted, 1))
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
}

func TestMedianSkipsNaN(t *testing.T) {
	nan := math.NaN()
	assert.Equal(t, 30.0, Median([]float64{nan, 30}))
	assert.Equal(t, 2.0, Median([]float64{3, nan, 1, 2}))
	assert.True(t, math.IsNaN(Median([]float64{nan, nan})))
}

func TestQuartiles(t *testing.T) {
	q1, q3 := Quartiles([]float64{10, math.NaN(), 20, 30, 40, 50})
	assert.InDelta(t, 20, q1, 1e-12)
	assert.InDelta(t, 40, q3, 1e-12)
}

func TestMode(t *testing.T) {
	mode, ok := Mode([]string{"S", "S", "", "C"}, []bool{false, false, true, false})
	require.True(t, ok)
	assert.Equal(t, "S", mode)

	mode, ok = Mode([]string{"Q", "C", "Q", "C"}, nil)
	require.True(t, ok)
	assert.Equal(t, "C", mode, "ties resolve to the smallest value")

	_, ok = Mode([]string{"", ""}, []bool{true, true})
	assert.False(t, ok)
}

func TestClip(t *testing.T) {
	vals := []float64{-5, 1, math.NaN(), 12}
	n := Clip(vals, 0, 10)
	assert.Equal(t, 2, n)
	assert.Equal(t, 0.0, vals[0])
	assert.Equal(t, 1.0, vals[1])
	assert.True(t, math.IsNaN(vals[2]))
	assert.Equal(t, 10.0, vals[3])

	untouched := []float64{1, 2}
	assert.Zero(t, Clip(untouched, math.NaN(), math.NaN()))
}
