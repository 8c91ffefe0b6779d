package model

import (
	"math/rand"

	"github.com/aristath/stock-advisor/internal/features"
	"github.com/aristath/stock-advisor/pkg/formulas"
)

// Ensemble parameters. The seed is fixed so the train/held-out partition and
// the bootstrap samples are reproducible across runs.
const (
	NumTrees      = 100
	MaxDepth      = 10
	MinLeaf       = 2
	TrainFraction = 0.8
	randomSeed    = 42
)

// Model is a trained bagged-tree regression ensemble plus the feature
// scaling transform fitted on its training split. Immutable once trained;
// scoped to a single evaluation.
type Model struct {
	scaler *Scaler
	trees  []*treeNode
}

// Train fits the ensemble on an 80/20 train/held-out split of the matrix and
// returns the model together with its fit quality: the coefficient of
// determination on the held-out split. Fit quality may be negative when the
// ensemble underperforms a constant predictor; it is reported unclamped.
func Train(matrix *features.Matrix) (*Model, float64) {
	n := matrix.Len()
	rows := make([][]float64, n)
	labels := make([]float64, n)
	for i := 0; i < n; i++ {
		rows[i] = matrix.Features(i)
		labels[i] = matrix.Label(i)
	}

	rng := rand.New(rand.NewSource(randomSeed))

	perm := rng.Perm(n)
	split := int(float64(n) * TrainFraction)
	if split < 1 && n > 0 {
		split = 1
	}
	trainIdx := perm[:split]
	heldOutIdx := perm[split:]

	trainRows := make([][]float64, len(trainIdx))
	for i, idx := range trainIdx {
		trainRows[i] = rows[idx]
	}

	scaler := fitScaler(trainRows)

	scaled := make([][]float64, n)
	for i, row := range rows {
		scaled[i] = scaler.Transform(row)
	}

	m := &Model{
		scaler: scaler,
		trees:  make([]*treeNode, 0, NumTrees),
	}

	for t := 0; t < NumTrees; t++ {
		sample := make([]int, len(trainIdx))
		for i := range sample {
			sample[i] = trainIdx[rng.Intn(len(trainIdx))]
		}
		m.trees = append(m.trees, buildTree(scaled, labels, sample, 0, MaxDepth, MinLeaf))
	}

	fitQuality := 0.0
	if len(heldOutIdx) > 0 {
		predictions := make([]float64, len(heldOutIdx))
		observed := make([]float64, len(heldOutIdx))
		for i, idx := range heldOutIdx {
			predictions[i] = m.predictScaled(scaled[idx])
			observed[i] = labels[idx]
		}
		fitQuality = formulas.RSquared(predictions, observed)
	}

	return m, fitQuality
}

// Predict applies the trained scaler and ensemble to a single feature row,
// returning the raw forward-return forecast.
func (m *Model) Predict(row []float64) float64 {
	return m.predictScaled(m.scaler.Transform(row))
}

func (m *Model) predictScaled(row []float64) float64 {
	if len(m.trees) == 0 {
		return 0
	}
	sum := 0.0
	for _, tree := range m.trees {
		sum += tree.predict(row)
	}
	return sum / float64(len(m.trees))
}
