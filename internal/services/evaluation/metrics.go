package evaluation

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// RSquared computes the coefficient of determination of pred against actual.
// 1.0 is a perfect fit, 0.0 matches predicting the actual mean, negative is
// worse than the mean. Identical vectors score exactly 1 even when the
// actual values are constant.
func RSquared(pred, actual []float64) float64 {
	ssRes := 0.0
	for i := range actual {
		d := actual[i] - pred[i]
		ssRes += d * d
	}
	if ssRes == 0 {
		return 1
	}
	mean := stat.Mean(actual, nil)
	ssTot := 0.0
	for _, v := range actual {
		d := v - mean
		ssTot += d * d
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}

// MAE computes mean absolute error.
func MAE(pred, actual []float64) float64 {
	if len(actual) == 0 {
		return 0
	}
	sum := 0.0
	for i := range actual {
		sum += math.Abs(actual[i] - pred[i])
	}
	return sum / float64(len(actual))
}

// meanStd aggregates fold scores; a single fold has zero spread.
func meanStd(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	mean := stat.Mean(xs, nil)
	if len(xs) == 1 {
		return mean, 0
	}
	return mean, stat.StdDev(xs, nil)
}
