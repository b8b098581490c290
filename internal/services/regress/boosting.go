package regress

import (
	"fmt"
	"math/rand"
)

// Boosting is gradient boosting over shallow regression trees with squared
// loss: each round fits a tree to the current residuals and the prediction
// accumulates a shrunk copy of it.
type Boosting struct {
	nRounds   int
	learnRate float64
	subsample float64
	cfg       treeConfig
	seed      int64

	base  float64
	trees []*regressionTree
	nFeat int
}

// NewGradientBoosting builds a seeded gradient boosting regressor.
func NewGradientBoosting(seed int64) *Boosting {
	return &Boosting{
		nRounds:   100,
		learnRate: 0.1,
		subsample: 1.0,
		cfg:       treeConfig{maxDepth: 3, minLeaf: 2},
		seed:      seed,
	}
}

// NewXGBoost builds a seeded boosted-tree regressor with XGBoost-style
// L2 leaf shrinkage and row subsampling.
func NewXGBoost(seed int64) *Boosting {
	return &Boosting{
		nRounds:   100,
		learnRate: 0.1,
		subsample: 0.8,
		cfg:       treeConfig{maxDepth: 4, minLeaf: 2, leafLambda: 1.0},
		seed:      seed,
	}
}

func (b *Boosting) Fit(X [][]float64, y []float64) error {
	n := len(X)
	if n == 0 || n != len(y) {
		return fmt.Errorf("boosting: bad shapes: %d rows, %d targets", n, len(y))
	}
	b.nFeat = len(X[0])

	sum := 0.0
	for _, v := range y {
		sum += v
	}
	b.base = sum / float64(n)

	pred := make([]float64, n)
	for i := range pred {
		pred[i] = b.base
	}
	resid := make([]float64, n)

	rng := rand.New(rand.NewSource(b.seed))
	b.trees = make([]*regressionTree, 0, b.nRounds)

	for round := 0; round < b.nRounds; round++ {
		for i := range resid {
			resid[i] = y[i] - pred[i]
		}

		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		if b.subsample < 1 {
			rng.Shuffle(n, func(a, c int) { idx[a], idx[c] = idx[c], idx[a] })
			m := int(float64(n) * b.subsample)
			if m < 1 {
				m = 1
			}
			idx = idx[:m]
		}

		t := &regressionTree{cfg: b.cfg}
		t.fit(X, resid, idx, rng)
		b.trees = append(b.trees, t)

		for i, row := range X {
			pred[i] += b.learnRate * t.predictRow(row)
		}
	}
	return nil
}

func (b *Boosting) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, row := range X {
		p := b.base
		for _, t := range b.trees {
			p += b.learnRate * t.predictRow(row)
		}
		out[i] = p
	}
	return out
}

// Importances returns normalized accumulated split gain per feature.
func (b *Boosting) Importances() []float64 {
	out := make([]float64, b.nFeat)
	for _, t := range b.trees {
		for j, v := range t.importances {
			out[j] += v
		}
	}
	return normalizeImportances(out)
}
