package indicators

import (
	"math"

	"github.com/aristath/stock-advisor/internal/domain"
	"github.com/aristath/stock-advisor/pkg/formulas"
)

// Window sizes for the derived columns.
const (
	SMAShortWindow   = 50
	SMALongWindow    = 200
	VolatilityWindow = 50
	MomentumWindow   = 10
	RSIWindow        = 14
)

// Frame is a price series augmented with derived indicator columns. Cells
// with insufficient trailing history (or an undefined RSI) are NaN; such
// rows are dropped before feature building.
type Frame struct {
	Bars       []domain.Bar
	SMA50      []float64
	SMA200     []float64
	Volatility []float64 // rolling std dev of close
	Momentum   []float64 // fractional change over MomentumWindow days
	RSI        []float64
}

// Len returns the number of rows in the frame.
func (f *Frame) Len() int {
	return len(f.Bars)
}

// RowValid reports whether every indicator cell at row i is defined.
func (f *Frame) RowValid(i int) bool {
	for _, col := range [][]float64{f.SMA50, f.SMA200, f.Volatility, f.Momentum, f.RSI} {
		if math.IsNaN(col[i]) || math.IsInf(col[i], 0) {
			return false
		}
	}
	return true
}

// Derive computes indicator columns from a price series. Pure and
// deterministic: identical input series always produce identical frames, and
// the input bars are never mutated.
func Derive(bars []domain.Bar) *Frame {
	closes := make([]float64, len(bars))
	for i, bar := range bars {
		closes[i] = bar.Close
	}

	return &Frame{
		Bars:       bars,
		SMA50:      formulas.SMASeries(closes, SMAShortWindow),
		SMA200:     formulas.SMASeries(closes, SMALongWindow),
		Volatility: formulas.RollingStdDevSeries(closes, VolatilityWindow),
		Momentum:   formulas.MomentumSeries(closes, MomentumWindow),
		RSI:        formulas.RSISeries(closes, RSIWindow),
	}
}
