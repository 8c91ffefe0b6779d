package model

import (
	"math"
	"sort"
)

// treeNode is a node of a regression tree. Leaves carry the mean label of
// the samples that reached them.
type treeNode struct {
	leaf      bool
	value     float64
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
}

// buildTree grows a regression tree by recursively picking the split that
// minimizes the summed squared error of the two children.
func buildTree(rows [][]float64, labels []float64, samples []int, depth, maxDepth, minLeaf int) *treeNode {
	if depth >= maxDepth || len(samples) < 2*minLeaf {
		return &treeNode{leaf: true, value: meanLabel(labels, samples)}
	}

	feature, threshold, ok := bestSplit(rows, labels, samples, minLeaf)
	if !ok {
		return &treeNode{leaf: true, value: meanLabel(labels, samples)}
	}

	var left, right []int
	for _, idx := range samples {
		if rows[idx][feature] <= threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}

	if len(left) < minLeaf || len(right) < minLeaf {
		return &treeNode{leaf: true, value: meanLabel(labels, samples)}
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      buildTree(rows, labels, left, depth+1, maxDepth, minLeaf),
		right:     buildTree(rows, labels, right, depth+1, maxDepth, minLeaf),
	}
}

// bestSplit scans every feature with a sorted sweep, tracking running label
// sums so each candidate threshold is evaluated in O(1).
func bestSplit(rows [][]float64, labels []float64, samples []int, minLeaf int) (int, float64, bool) {
	bestSSE := math.Inf(1)
	bestFeature := -1
	bestThreshold := 0.0

	n := len(samples)
	order := make([]int, n)

	for feature := range rows[samples[0]] {
		copy(order, samples)
		sort.Slice(order, func(a, b int) bool {
			return rows[order[a]][feature] < rows[order[b]][feature]
		})

		var totalSum, totalSq float64
		for _, idx := range order {
			totalSum += labels[idx]
			totalSq += labels[idx] * labels[idx]
		}

		var leftSum, leftSq float64
		for i := 0; i < n-1; i++ {
			y := labels[order[i]]
			leftSum += y
			leftSq += y * y

			// Can't split between equal feature values
			if rows[order[i]][feature] == rows[order[i+1]][feature] {
				continue
			}
			if i+1 < minLeaf || n-i-1 < minLeaf {
				continue
			}

			nl := float64(i + 1)
			nr := float64(n - i - 1)
			rightSum := totalSum - leftSum
			rightSq := totalSq - leftSq

			sse := (leftSq - leftSum*leftSum/nl) + (rightSq - rightSum*rightSum/nr)
			if sse < bestSSE {
				bestSSE = sse
				bestFeature = feature
				bestThreshold = (rows[order[i]][feature] + rows[order[i+1]][feature]) / 2
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

// predict walks the tree for a single feature row.
func (t *treeNode) predict(row []float64) float64 {
	node := t
	for !node.leaf {
		if row[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.value
}

func meanLabel(labels []float64, samples []int) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, idx := range samples {
		sum += labels[idx]
	}
	return sum / float64(len(samples))
}
