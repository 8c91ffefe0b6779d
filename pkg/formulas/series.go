package formulas

import (
	"math"

	"github.com/markcheno/go-talib"
)

// SMASeries calculates a simple moving average over the given window.
// Positions with insufficient trailing history are NaN.
func SMASeries(values []float64, window int) []float64 {
	out := talib.Sma(values, window)
	markWarmup(out, window-1)
	return out
}

// RollingStdDevSeries calculates a rolling standard deviation over the given
// window. Positions with insufficient trailing history are NaN.
func RollingStdDevSeries(values []float64, window int) []float64 {
	out := talib.StdDev(values, window, 1.0)
	markWarmup(out, window-1)
	return out
}

// MomentumSeries calculates the fractional price change over the given
// window (e.g. 0.05 for a 5% rise). Positions with insufficient trailing
// history are NaN.
func MomentumSeries(values []float64, window int) []float64 {
	roc := talib.Roc(values, window)
	for i := range roc {
		roc[i] /= 100 // talib reports percent, we use fractions
	}
	markWarmup(roc, window)
	return roc
}

// RSISeries calculates the Relative Strength Index using simple averages of
// gains and losses over the window:
//
//	RSI = 100 - 100/(1+RS), RS = mean(gains) / mean(|losses|)
//
// Windows with zero losses have an undefined RS and yield NaN, as do
// positions with insufficient trailing history. Callers are expected to drop
// NaN rows.
func RSISeries(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}
	if len(values) < window+1 {
		return out
	}

	for i := window; i < len(values); i++ {
		var gains, losses float64
		for j := i - window + 1; j <= i; j++ {
			delta := values[j] - values[j-1]
			if delta > 0 {
				gains += delta
			} else {
				losses += -delta
			}
		}
		if losses == 0 {
			continue // undefined RS, leave NaN
		}
		rs := (gains / float64(window)) / (losses / float64(window))
		out[i] = 100 - 100/(1+rs)
	}

	return out
}

// markWarmup overwrites the first n positions with NaN. go-talib leaves
// zeroes in the warmup region, which downstream code would mistake for real
// values.
func markWarmup(values []float64, n int) {
	if n > len(values) {
		n = len(values)
	}
	for i := 0; i < n; i++ {
		values[i] = math.NaN()
	}
}
