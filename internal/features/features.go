package features

import (
	"fmt"
	"math"

	"github.com/aristath/stock-advisor/internal/domain"
	"github.com/aristath/stock-advisor/internal/indicators"
)

// TradingDaysPerMonth converts a horizon in months to trading days.
const TradingDaysPerMonth = 21

// LabelClip bounds the FutureReturn label to ±50%.
const LabelClip = 0.5

// Column order of the feature vectors. Sentiment is appended last, only
// when a sentiment value was supplied.
var baseColumns = []string{
	"sma_50", "sma_200", "volatility_50", "momentum_10", "rsi_14",
	"pe_ratio", "eps", "revenue_growth", "free_cashflow", "roe", "debt_to_equity",
}

// Matrix holds one feature row per trading day with sufficient history,
// the horizon-shifted FutureReturn label per row, and the most recent
// feature row used for prediction.
type Matrix struct {
	Columns     []string
	HorizonDays int

	rows       [][]float64
	labels     []float64
	vols       []float64 // rolling volatility per labeled row

	latest    []float64 // most recent row with defined indicators, unlabeled
	latestVol float64

	// LowConfidence is set when fewer than 2 labeled rows survived; training
	// still proceeds but the result should not be trusted.
	LowConfidence bool
}

// Len returns the number of labeled rows.
func (m *Matrix) Len() int {
	return len(m.rows)
}

// Features returns the feature vector of labeled row i.
func (m *Matrix) Features(i int) []float64 {
	return m.rows[i]
}

// Label returns the clipped FutureReturn of labeled row i.
func (m *Matrix) Label(i int) float64 {
	return m.labels[i]
}

// Volatility returns the rolling volatility of labeled row i.
func (m *Matrix) Volatility(i int) float64 {
	return m.vols[i]
}

// Latest returns the most recent feature row and its rolling volatility.
// This is the row the trained model predicts on.
func (m *Matrix) Latest() ([]float64, float64) {
	return m.latest, m.latestVol
}

// Build assembles the feature matrix from an indicator frame, a fundamental
// snapshot and an optional sentiment value.
//
// The label of row i is the fractional close change horizonDays ahead,
// clipped to ±LabelClip. Rows with any undefined indicator (head of the
// series) are dropped, as are rows without a forward close (tail). The
// fundamentals, and sentiment when present, are broadcast as constant
// columns across every remaining row.
func Build(frame *indicators.Frame, snapshot domain.Snapshot, sentiment *float64, horizonMonths int) (*Matrix, error) {
	if !domain.ValidHorizon(horizonMonths) {
		return nil, fmt.Errorf("unsupported horizon: %d months", horizonMonths)
	}

	horizonDays := int(math.Round(float64(horizonMonths) * TradingDaysPerMonth))

	columns := append([]string{}, baseColumns...)
	if sentiment != nil {
		columns = append(columns, "sentiment")
	}

	m := &Matrix{
		Columns:     columns,
		HorizonDays: horizonDays,
	}

	constants := []float64{
		snapshot.PERatio, snapshot.EPS, snapshot.RevenueGrowth,
		snapshot.FreeCashflow, snapshot.ROE, snapshot.DebtToEquity,
	}

	for i := 0; i < frame.Len(); i++ {
		if !frame.RowValid(i) {
			continue
		}

		row := make([]float64, 0, len(columns))
		row = append(row, frame.SMA50[i], frame.SMA200[i], frame.Volatility[i], frame.Momentum[i], frame.RSI[i])
		row = append(row, constants...)
		if sentiment != nil {
			row = append(row, *sentiment)
		}

		// The most recent valid row is kept for prediction even when it has
		// no forward close yet.
		m.latest = row
		m.latestVol = frame.Volatility[i]

		future := i + horizonDays
		if future >= frame.Len() {
			continue
		}
		current := frame.Bars[i].Close
		if current == 0 {
			continue
		}

		label := (frame.Bars[future].Close - current) / current
		label = math.Max(-LabelClip, math.Min(LabelClip, label))

		m.rows = append(m.rows, row)
		m.labels = append(m.labels, label)
		m.vols = append(m.vols, frame.Volatility[i])
	}

	if m.latest == nil {
		return nil, fmt.Errorf("no rows with sufficient indicator history")
	}

	if len(m.rows) < 2 {
		m.LowConfidence = true
	}

	return m, nil
}
