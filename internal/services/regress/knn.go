package regress

import (
	"fmt"
	"math"
	"sort"
)

// KNN predicts the mean target of the k nearest training rows by euclidean
// distance. Ties resolve by training-row order so predictions are
// deterministic.
type KNN struct {
	k  int
	tX [][]float64
	ty []float64
}

func NewKNN(k int) *KNN {
	if k < 1 {
		k = 5
	}
	return &KNN{k: k}
}

func (m *KNN) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 || len(X) != len(y) {
		return fmt.Errorf("knn: bad shapes: %d rows, %d targets", len(X), len(y))
	}
	m.tX = X
	m.ty = y
	return nil
}

func (m *KNN) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	type cand struct {
		dist float64
		idx  int
	}
	for i, row := range X {
		cands := make([]cand, len(m.tX))
		for j, tr := range m.tX {
			cands[j] = cand{dist: sqDist(row, tr), idx: j}
		}
		sort.Slice(cands, func(a, b int) bool {
			if cands[a].dist != cands[b].dist {
				return cands[a].dist < cands[b].dist
			}
			return cands[a].idx < cands[b].idx
		})
		k := m.k
		if k > len(cands) {
			k = len(cands)
		}
		sum := 0.0
		for _, c := range cands[:k] {
			sum += m.ty[c.idx]
		}
		out[i] = sum / float64(k)
	}
	return out
}

func sqDist(a, b []float64) float64 {
	s := 0.0
	for j := range a {
		d := a[j] - b[j]
		s += d * d
	}
	if math.IsNaN(s) {
		return math.Inf(1)
	}
	return s
}
