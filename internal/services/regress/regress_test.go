package regress

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"StockCast/internal/domain/models"
)

func TestRegistryNames(t *testing.T) {
	want := []string{"Extra Trees", "Gradient Boosting", "KNN", "Linear Regression", "Random Forest", "XGBoost"}
	got := Names()
	if len(got) != len(want) {
		t.Fatalf("expected %d models, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("names[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestUnknownModel(t *testing.T) {
	_, err := New("Perceptron")
	if !errors.Is(err, models.ErrUnknownModel) {
		t.Fatalf("expected ErrUnknownModel, got %v", err)
	}
}

func TestNewReturnsFreshInstances(t *testing.T) {
	a, err := New("Linear Regression")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	b, _ := New("Linear Regression")
	if a == b {
		t.Fatalf("registry must not share estimator instances")
	}
}

// linearData generates y = 3 + 2*x0 - x1 with no noise.
func linearData(n int, rng *rand.Rand) ([][]float64, []float64) {
	X := make([][]float64, n)
	y := make([]float64, n)
	for i := range X {
		x0 := rng.Float64() * 10
		x1 := rng.Float64() * 10
		X[i] = []float64{x0, x1}
		y[i] = 3 + 2*x0 - x1
	}
	return X, y
}

func TestLinearRecoversPlane(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	X, y := linearData(200, rng)

	m := NewLinearRegression()
	if err := m.Fit(X, y); err != nil {
		t.Fatalf("fit: %v", err)
	}
	if math.Abs(m.intercept-3) > 1e-5 {
		t.Fatalf("intercept %v, want 3", m.intercept)
	}
	if math.Abs(m.coef[0]-2) > 1e-5 || math.Abs(m.coef[1]+1) > 1e-5 {
		t.Fatalf("coefficients %v, want [2 -1]", m.coef)
	}

	pred := m.Predict([][]float64{{1, 1}})
	if math.Abs(pred[0]-4) > 1e-5 {
		t.Fatalf("predict(1,1) = %v, want 4", pred[0])
	}
}

func TestLinearRejectsBadShapes(t *testing.T) {
	m := NewLinearRegression()
	if err := m.Fit(nil, nil); err == nil {
		t.Fatalf("expected error on empty input")
	}
	if err := m.Fit([][]float64{{1}}, []float64{1, 2}); err == nil {
		t.Fatalf("expected error on mismatched rows")
	}
}

func TestEveryModelFitsSmoothTarget(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	n := 300
	X := make([][]float64, n)
	y := make([]float64, n)
	for i := range X {
		x0 := rng.Float64() * 6
		x1 := rng.Float64() * 6
		X[i] = []float64{x0, x1}
		y[i] = x0*x0 + 3*x1
	}

	for _, name := range Names() {
		m, err := New(name)
		if err != nil {
			t.Fatalf("%s: new: %v", name, err)
		}
		if err := m.Fit(X, y); err != nil {
			t.Fatalf("%s: fit: %v", name, err)
		}
		pred := m.Predict(X)
		if len(pred) != n {
			t.Fatalf("%s: %d predictions for %d rows", name, len(pred), n)
		}
		// Training fit should explain most of the variance for every model.
		var ssRes, ssTot, mean float64
		for _, v := range y {
			mean += v
		}
		mean /= float64(n)
		for i := range y {
			ssRes += (y[i] - pred[i]) * (y[i] - pred[i])
			ssTot += (y[i] - mean) * (y[i] - mean)
		}
		r2 := 1 - ssRes/ssTot
		if r2 < 0.8 {
			t.Fatalf("%s: training R2 %v too low", name, r2)
		}
	}
}

func TestStochasticModelsAreDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	X, y := linearData(150, rng)
	probe := [][]float64{{2, 3}, {8, 1}, {5, 5}}

	for _, name := range []string{"Random Forest", "Extra Trees", "Gradient Boosting", "XGBoost"} {
		m1, _ := New(name)
		m2, _ := New(name)
		if err := m1.Fit(X, y); err != nil {
			t.Fatalf("%s: fit: %v", name, err)
		}
		if err := m2.Fit(X, y); err != nil {
			t.Fatalf("%s: fit: %v", name, err)
		}
		p1 := m1.Predict(probe)
		p2 := m2.Predict(probe)
		for i := range p1 {
			if p1[i] != p2[i] {
				t.Fatalf("%s: run differs at probe %d: %v vs %v", name, i, p1[i], p2[i])
			}
		}
	}
}

func TestForestImportancesNormalized(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	X, y := linearData(200, rng)

	f := NewRandomForest(defaultSeed)
	if err := f.Fit(X, y); err != nil {
		t.Fatalf("fit: %v", err)
	}
	imp := f.Importances()
	if len(imp) != 2 {
		t.Fatalf("expected 2 importances, got %d", len(imp))
	}
	sum := 0.0
	for _, v := range imp {
		if v < 0 {
			t.Fatalf("negative importance %v", v)
		}
		sum += v
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("importances sum %v, want 1", sum)
	}
	// x0 carries twice the weight of x1 in the target.
	if imp[0] <= imp[1] {
		t.Fatalf("expected x0 to dominate: %v", imp)
	}
}

func TestKNNAveragesNeighbors(t *testing.T) {
	// Two tight clusters with distinct targets.
	X := [][]float64{
		{0, 0}, {0.1, 0}, {0, 0.1}, {0.1, 0.1}, {0.05, 0.05},
		{10, 10}, {10.1, 10}, {10, 10.1}, {10.1, 10.1}, {10.05, 10.05},
	}
	y := []float64{1, 1, 1, 1, 1, 9, 9, 9, 9, 9}

	m := NewKNN(5)
	if err := m.Fit(X, y); err != nil {
		t.Fatalf("fit: %v", err)
	}
	pred := m.Predict([][]float64{{0.02, 0.02}, {10.02, 10.02}})
	if pred[0] != 1 || pred[1] != 9 {
		t.Fatalf("cluster predictions %v, want [1 9]", pred)
	}
}
