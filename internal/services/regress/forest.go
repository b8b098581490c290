package regress

import (
	"fmt"
	"math/rand"
)

// Forest is a bagged ensemble of regression trees. With bootstrap sampling
// and per-split feature subsets it behaves like a random forest; with full
// samples and random thresholds it behaves like extra-trees.
type Forest struct {
	nTrees    int
	cfg       treeConfig
	bootstrap bool
	seed      int64

	trees []*regressionTree
	nFeat int
}

// NewRandomForest builds a seeded random forest regressor.
func NewRandomForest(seed int64) *Forest {
	return &Forest{
		nTrees:    100,
		cfg:       treeConfig{maxDepth: 12, minLeaf: 2},
		bootstrap: true,
		seed:      seed,
	}
}

// NewExtraTrees builds a seeded extremely-randomized trees regressor.
func NewExtraTrees(seed int64) *Forest {
	return &Forest{
		nTrees: 100,
		cfg:    treeConfig{maxDepth: 12, minLeaf: 2, randomSplit: true},
		seed:   seed,
	}
}

func (f *Forest) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 || len(X) != len(y) {
		return fmt.Errorf("forest: bad shapes: %d rows, %d targets", len(X), len(y))
	}
	f.nFeat = len(X[0])

	cfg := f.cfg
	if cfg.maxFeatures == 0 {
		// sklearn regressor default: d/3 candidate features, at least one.
		cfg.maxFeatures = f.nFeat / 3
		if cfg.maxFeatures < 1 {
			cfg.maxFeatures = 1
		}
	}

	rng := rand.New(rand.NewSource(f.seed))
	f.trees = make([]*regressionTree, f.nTrees)
	for k := 0; k < f.nTrees; k++ {
		treeRng := rand.New(rand.NewSource(rng.Int63()))
		idx := make([]int, len(X))
		if f.bootstrap {
			for i := range idx {
				idx[i] = treeRng.Intn(len(X))
			}
		} else {
			for i := range idx {
				idx[i] = i
			}
		}
		t := &regressionTree{cfg: cfg}
		t.fit(X, y, idx, treeRng)
		f.trees[k] = t
	}
	return nil
}

func (f *Forest) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, row := range X {
		sum := 0.0
		for _, t := range f.trees {
			sum += t.predictRow(row)
		}
		out[i] = sum / float64(len(f.trees))
	}
	return out
}

// Importances returns normalized mean impurity-decrease per feature.
func (f *Forest) Importances() []float64 {
	out := make([]float64, f.nFeat)
	for _, t := range f.trees {
		for j, v := range t.importances {
			out[j] += v
		}
	}
	return normalizeImportances(out)
}

func normalizeImportances(raw []float64) []float64 {
	total := 0.0
	for _, v := range raw {
		total += v
	}
	if total <= 0 {
		return raw
	}
	for j := range raw {
		raw[j] /= total
	}
	return raw
}
