package regress

import (
	"math/rand"
	"sort"
)

// treeConfig controls CART growth for the ensemble members.
type treeConfig struct {
	maxDepth    int
	minLeaf     int
	maxFeatures int     // candidate features per split; 0 means all
	randomSplit bool    // extra-trees style: one uniform random threshold per feature
	leafLambda  float64 // L2 shrink on leaf values (boosted-tree style)
}

type treeNode struct {
	feature   int
	threshold float64
	left      int
	right     int
	value     float64
	leaf      bool
}

// regressionTree is a variance-reduction CART regressor over a row subset.
type regressionTree struct {
	cfg         treeConfig
	nodes       []treeNode
	importances []float64
}

func (t *regressionTree) fit(X [][]float64, y []float64, idx []int, rng *rand.Rand) {
	t.importances = make([]float64, len(X[0]))
	t.nodes = t.nodes[:0]
	t.grow(X, y, idx, 0, rng)
}

// grow appends the subtree for idx and returns its root node index.
func (t *regressionTree) grow(X [][]float64, y []float64, idx []int, depth int, rng *rand.Rand) int {
	sum, sum2 := 0.0, 0.0
	for _, i := range idx {
		sum += y[i]
		sum2 += y[i] * y[i]
	}
	n := float64(len(idx))
	value := sum / (n + t.cfg.leafLambda)
	sse := sum2 - sum*sum/n

	leaf := func() int {
		t.nodes = append(t.nodes, treeNode{leaf: true, value: value})
		return len(t.nodes) - 1
	}

	if depth >= t.cfg.maxDepth || len(idx) < 2*t.cfg.minLeaf || sse <= 0 {
		return leaf()
	}

	feat, thr, gain := t.bestSplit(X, y, idx, rng)
	if feat < 0 {
		return leaf()
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feat] <= thr {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < t.cfg.minLeaf || len(right) < t.cfg.minLeaf {
		return leaf()
	}

	t.importances[feat] += gain

	// Reserve the parent slot before growing children so child indices are stable.
	t.nodes = append(t.nodes, treeNode{feature: feat, threshold: thr})
	self := len(t.nodes) - 1
	l := t.grow(X, y, left, depth+1, rng)
	r := t.grow(X, y, right, depth+1, rng)
	t.nodes[self].left = l
	t.nodes[self].right = r
	return self
}

// bestSplit returns the (feature, threshold) with the largest SSE reduction,
// or feature -1 when no admissible split exists.
func (t *regressionTree) bestSplit(X [][]float64, y []float64, idx []int, rng *rand.Rand) (int, float64, float64) {
	d := len(X[0])
	feats := make([]int, d)
	for j := range feats {
		feats[j] = j
	}
	if t.cfg.maxFeatures > 0 && t.cfg.maxFeatures < d {
		rng.Shuffle(d, func(a, b int) { feats[a], feats[b] = feats[b], feats[a] })
		feats = feats[:t.cfg.maxFeatures]
		sort.Ints(feats) // deterministic evaluation order after the draw
	}

	bestFeat, bestThr, bestGain := -1, 0.0, 0.0
	for _, f := range feats {
		var thr, gain float64
		var ok bool
		if t.cfg.randomSplit {
			thr, gain, ok = t.randomThresholdSplit(X, y, idx, f, rng)
		} else {
			thr, gain, ok = t.exhaustiveSplit(X, y, idx, f)
		}
		if ok && gain > bestGain {
			bestFeat, bestThr, bestGain = f, thr, gain
		}
	}
	return bestFeat, bestThr, bestGain
}

func (t *regressionTree) exhaustiveSplit(X [][]float64, y []float64, idx []int, f int) (float64, float64, bool) {
	order := append([]int(nil), idx...)
	sort.Slice(order, func(a, b int) bool { return X[order[a]][f] < X[order[b]][f] })

	total := 0.0
	for _, i := range order {
		total += y[i]
	}
	n := len(order)
	sumL := 0.0
	bestThr, bestGain, found := 0.0, 0.0, false

	for k := 0; k < n-1; k++ {
		sumL += y[order[k]]
		vCur, vNext := X[order[k]][f], X[order[k+1]][f]
		if vCur == vNext {
			continue
		}
		nL, nR := k+1, n-k-1
		if nL < t.cfg.minLeaf || nR < t.cfg.minLeaf {
			continue
		}
		sumR := total - sumL
		// SSE reduction relative to the unsplit node.
		gain := sumL*sumL/float64(nL) + sumR*sumR/float64(nR) - total*total/float64(n)
		if gain > bestGain {
			bestThr = (vCur + vNext) / 2
			bestGain = gain
			found = true
		}
	}
	return bestThr, bestGain, found
}

func (t *regressionTree) randomThresholdSplit(X [][]float64, y []float64, idx []int, f int, rng *rand.Rand) (float64, float64, bool) {
	lo, hi := X[idx[0]][f], X[idx[0]][f]
	for _, i := range idx[1:] {
		v := X[i][f]
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo == hi {
		return 0, 0, false
	}
	thr := lo + rng.Float64()*(hi-lo)

	var sumL, sumR float64
	var nL, nR int
	for _, i := range idx {
		if X[i][f] <= thr {
			sumL += y[i]
			nL++
		} else {
			sumR += y[i]
			nR++
		}
	}
	if nL < t.cfg.minLeaf || nR < t.cfg.minLeaf {
		return 0, 0, false
	}
	total := sumL + sumR
	n := nL + nR
	gain := sumL*sumL/float64(nL) + sumR*sumR/float64(nR) - total*total/float64(n)
	if gain <= 0 {
		return 0, 0, false
	}
	return thr, gain, true
}

func (t *regressionTree) predictRow(x []float64) float64 {
	i := 0
	for {
		nd := t.nodes[i]
		if nd.leaf {
			return nd.value
		}
		if x[nd.feature] <= nd.threshold {
			i = nd.left
		} else {
			i = nd.right
		}
	}
}
