package model

import (
	"github.com/aristath/stock-advisor/pkg/formulas"
)

// Scaler standardizes feature columns to zero mean and unit variance. Its
// statistics come exclusively from the training split; the same transform is
// then applied to held-out rows and prediction rows, so no held-out
// information leaks into scaling.
type Scaler struct {
	mean []float64
	std  []float64
}

// fitScaler computes per-column mean and standard deviation from the given
// rows. Constant columns get a unit std so they pass through unchanged.
func fitScaler(rows [][]float64) *Scaler {
	if len(rows) == 0 {
		return &Scaler{}
	}

	cols := len(rows[0])
	s := &Scaler{
		mean: make([]float64, cols),
		std:  make([]float64, cols),
	}

	column := make([]float64, len(rows))
	for c := 0; c < cols; c++ {
		for r, row := range rows {
			column[r] = row[c]
		}
		s.mean[c] = formulas.Mean(column)
		s.std[c] = formulas.StdDev(column)
		if s.std[c] == 0 || len(rows) < 2 {
			s.std[c] = 1
		}
	}

	return s
}

// Transform returns a standardized copy of the row.
func (s *Scaler) Transform(row []float64) []float64 {
	if len(s.mean) == 0 {
		return append([]float64{}, row...)
	}

	out := make([]float64, len(row))
	for i, v := range row {
		out[i] = (v - s.mean[i]) / s.std[i]
	}
	return out
}
