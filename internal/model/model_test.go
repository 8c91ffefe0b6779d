package model

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/stock-advisor/internal/domain"
	"github.com/aristath/stock-advisor/internal/features"
	"github.com/aristath/stock-advisor/internal/indicators"
)

func buildMatrix(t *testing.T, n int) *features.Matrix {
	t.Helper()

	bars := make([]domain.Bar, n)
	start := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		// A rising base with a deterministic wobble: enough structure for
		// the ensemble to fit without any randomness in the data itself
		bars[i] = domain.Bar{
			Date:  start.AddDate(0, 0, i),
			Close: 100 + 0.1*float64(i) + 3*float64(i%5),
		}
	}

	frame := indicators.Derive(bars)
	matrix, err := features.Build(frame, domain.NewSnapshot("TEST"), nil, 1)
	require.NoError(t, err)
	require.Greater(t, matrix.Len(), 50)
	return matrix
}

func TestTrainIsDeterministic(t *testing.T) {
	matrix := buildMatrix(t, 500)

	modelA, fitA := Train(matrix)
	modelB, fitB := Train(matrix)

	assert.Equal(t, fitA, fitB)

	latest, _ := matrix.Latest()
	assert.Equal(t, modelA.Predict(latest), modelB.Predict(latest))
}

func TestTrainFitQualityBounded(t *testing.T) {
	matrix := buildMatrix(t, 500)

	_, fitQuality := Train(matrix)

	// R-squared can be negative but never exceeds 1
	assert.LessOrEqual(t, fitQuality, 1.0)
}

func TestPredictStaysWithinLabelRange(t *testing.T) {
	matrix := buildMatrix(t, 500)

	trained, _ := Train(matrix)

	// Tree leaves carry label means, labels are clipped to ±0.5, so the
	// ensemble average cannot escape that range
	latest, _ := matrix.Latest()
	prediction := trained.Predict(latest)
	assert.GreaterOrEqual(t, prediction, -features.LabelClip)
	assert.LessOrEqual(t, prediction, features.LabelClip)
}

func TestTrainSingleRow(t *testing.T) {
	// 221 bars leave exactly one labeled row; training must not panic and
	// fit quality falls back to zero without a held-out split
	bars := make([]domain.Bar, 221)
	start := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = domain.Bar{
			Date:  start.AddDate(0, 0, i),
			Close: 100 + 0.1*float64(i) + 3*float64(i%5),
		}
	}
	frame := indicators.Derive(bars)
	matrix, err := features.Build(frame, domain.NewSnapshot("TEST"), nil, 1)
	require.NoError(t, err)
	require.Equal(t, 1, matrix.Len())

	trained, fitQuality := Train(matrix)
	assert.Equal(t, 0.0, fitQuality)

	latest, _ := matrix.Latest()
	assert.InDelta(t, matrix.Label(0), trained.Predict(latest), 1e-9)
}

func TestTrainAllLabelsClipped(t *testing.T) {
	// A sustained 3% daily rally clips every 21-day forward return to the
	// +0.5 bound, so the held-out labels are all identical and the R² total
	// sum of squares is zero. Fit quality must degrade to 0, never NaN,
	// because it flows into the scored components and JSON output.
	bars := make([]domain.Bar, 400)
	start := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = domain.Bar{
			Date:  start.AddDate(0, 0, i),
			Close: 100 * math.Pow(1.03, float64(i)) * (1 + 0.05*float64(i%2)),
		}
	}

	frame := indicators.Derive(bars)
	matrix, err := features.Build(frame, domain.NewSnapshot("TEST"), nil, 1)
	require.NoError(t, err)
	for i := 0; i < matrix.Len(); i++ {
		require.Equal(t, features.LabelClip, matrix.Label(i))
	}

	trained, fitQuality := Train(matrix)
	assert.False(t, math.IsNaN(fitQuality))
	assert.Equal(t, 0.0, fitQuality)

	latest, _ := matrix.Latest()
	prediction := trained.Predict(latest)
	assert.False(t, math.IsNaN(prediction))
	assert.InDelta(t, features.LabelClip, prediction, 1e-9)
}

func TestEnsembleSize(t *testing.T) {
	matrix := buildMatrix(t, 500)

	trained, _ := Train(matrix)
	assert.Len(t, trained.trees, NumTrees)
}
