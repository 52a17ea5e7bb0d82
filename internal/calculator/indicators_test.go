package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ramp(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i + 1)
	}
	return out
}

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestCalculateSMA(t *testing.T) {
	v, err := CalculateSMA([]float64{1, 2, 3, 4, 5}, 3)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, v, 1e-9)

	_, err = CalculateSMA([]float64{1, 2}, 3)
	assert.Error(t, err)
	_, err = CalculateSMA([]float64{1, 2}, 0)
	assert.Error(t, err)
}

func TestEMASeries_SeededWithFirstValue(t *testing.T) {
	// span 3 -> alpha 0.5: 2, 3, 5.5, 10.75
	got := EMASeries([]float64{2, 4, 8, 16}, 3)
	assert.True(t, math.IsNaN(got[0]))
	assert.True(t, math.IsNaN(got[1]))
	assert.InDelta(t, 5.5, got[2], 1e-9)
	assert.InDelta(t, 10.75, got[3], 1e-9)
}

func TestEMASeries_SkipsLeadingNaN(t *testing.T) {
	got := EMASeries([]float64{math.NaN(), math.NaN(), 4, 8}, 1)
	assert.True(t, math.IsNaN(got[1]))
	assert.InDelta(t, 4.0, got[2], 1e-9)
	assert.InDelta(t, 8.0, got[3], 1e-9)
}

func TestRSISeries_KnownValues(t *testing.T) {
	got := RSISeries([]float64{1, 2, 1, 2}, 2)
	assert.True(t, math.IsNaN(got[0]))
	assert.InDelta(t, 100.0, got[1], 1e-9)
	assert.InDelta(t, 100.0-100.0/1.5, got[2], 1e-9)
	assert.InDelta(t, 100.0-100.0/3.5, got[3], 1e-9)
}

func TestCalculateRSI(t *testing.T) {
	up, err := CalculateRSI(ramp(30), 14)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, up, 1e-9)

	down := ramp(30)
	for i, j := 0, len(down)-1; i < j; i, j = i+1, j-1 {
		down[i], down[j] = down[j], down[i]
	}
	v, err := CalculateRSI(down, 14)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, v, 1e-9)

	_, err = CalculateRSI(ramp(13), 14)
	assert.Error(t, err)
	v, err = CalculateRSI(ramp(14), 14)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, v, 1e-9)
}

func TestMACDSeries_WarmUp(t *testing.T) {
	macd, sig := MACDSeries(constant(33, 5), 12, 26, 9)
	assert.True(t, math.IsNaN(macd[24]))
	assert.InDelta(t, 0.0, macd[25], 1e-12)
	assert.True(t, math.IsNaN(sig[32]))

	macd, sig = MACDSeries(constant(34, 5), 12, 26, 9)
	assert.InDelta(t, 0.0, last(macd), 1e-12)
	assert.InDelta(t, 0.0, last(sig), 1e-12)
}

func TestMACDSeries_RisingPricesBullish(t *testing.T) {
	macd, sig := MACDSeries(ramp(60), 12, 26, 9)
	assert.Greater(t, last(macd), 0.0)
	assert.False(t, math.IsNaN(last(sig)))
}

func TestBollingerSeries(t *testing.T) {
	bb := BollingerSeries(ramp(20), 20, 2)
	std := math.Sqrt(33.25) // population std of 1..20
	assert.True(t, math.IsNaN(bb.Upper[18]))
	assert.InDelta(t, 10.5, last(bb.Middle), 1e-9)
	assert.InDelta(t, 10.5+2*std, last(bb.Upper), 1e-9)
	assert.InDelta(t, 10.5-2*std, last(bb.Lower), 1e-9)
	assert.InDelta(t, 4*std/10.5, last(bb.Bandwidth), 1e-9)
}

func TestBollingerSeries_ShortAndFlat(t *testing.T) {
	bb := BollingerSeries(ramp(10), 20, 2)
	assert.True(t, math.IsNaN(last(bb.Middle)))
	assert.True(t, math.IsNaN(last(bb.Bandwidth)))

	bb = BollingerSeries(constant(25, 7), 20, 2)
	assert.InDelta(t, 7.0, last(bb.Upper), 1e-9)
	assert.InDelta(t, 7.0, last(bb.Lower), 1e-9)
	assert.InDelta(t, 0.0, last(bb.Bandwidth), 1e-9)
}

func TestRollingExtremes(t *testing.T) {
	values := []float64{3, 1, 4, 1, 5}
	hi := RollingMax(values, 3)
	lo := RollingMin(values, 3)
	assert.True(t, math.IsNaN(hi[1]))
	assert.Equal(t, []float64{4, 4, 5}, hi[2:])
	assert.Equal(t, []float64{1, 1, 1}, lo[2:])
}

func TestStochasticSeries(t *testing.T) {
	closes := append(ramp(13), 7)
	k, d := StochasticSeries(closes, closes, closes, 14, 3)
	assert.True(t, math.IsNaN(k[12]))
	assert.InDelta(t, 50.0, last(k), 1e-9)
	assert.True(t, math.IsNaN(last(d)), "%D needs three defined %K values")

	closes = append(ramp(15), 8)
	k, d = StochasticSeries(closes, closes, closes, 14, 3)
	assert.InDelta(t, 100.0*5/12, last(k), 1e-9)
	assert.InDelta(t, (100.0+100.0+100.0*5/12)/3, last(d), 1e-9)
}

func TestStochasticSeries_PartialSmoothingWindowUndefined(t *testing.T) {
	closes := append(constant(40, 100), 101)
	k, d := StochasticSeries(closes, closes, closes, 14, 3)
	n := len(closes)
	assert.True(t, math.IsNaN(k[n-3]))
	assert.True(t, math.IsNaN(k[n-2]))
	assert.InDelta(t, 100.0, k[n-1], 1e-9)
	assert.True(t, math.IsNaN(d[n-1]))
}

func TestStochasticSeries_FlatWindowUndefined(t *testing.T) {
	flat := constant(20, 3)
	k, d := StochasticSeries(flat, flat, flat, 14, 3)
	assert.True(t, math.IsNaN(last(k)))
	assert.True(t, math.IsNaN(last(d)))
}
