package regress

import (
	"fmt"
	"sort"

	"StockCast/internal/domain/models"
)

// defaultSeed pins every stochastic estimator so repeated runs on identical
// data are reproducible.
const defaultSeed int64 = 42

// Estimator is the capability set every registry model satisfies.
type Estimator interface {
	Fit(X [][]float64, y []float64) error
	Predict(X [][]float64) []float64
}

// ImportanceReporter is implemented by tree and ensemble estimators that can
// attribute predictive weight to feature columns.
type ImportanceReporter interface {
	Importances() []float64
}

var builders = map[string]func() Estimator{
	"Linear Regression": func() Estimator { return NewLinearRegression() },
	"Random Forest":     func() Estimator { return NewRandomForest(defaultSeed) },
	"Extra Trees":       func() Estimator { return NewExtraTrees(defaultSeed) },
	"Gradient Boosting": func() Estimator { return NewGradientBoosting(defaultSeed) },
	"KNN":               func() Estimator { return NewKNN(5) },
	"XGBoost":           func() Estimator { return NewXGBoost(defaultSeed) },
}

// New constructs a fresh estimator for the given registry key.
func New(name string) (Estimator, error) {
	b, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("regress: %w: %q", models.ErrUnknownModel, name)
	}
	return b(), nil
}

// Names returns the registry keys in sorted order.
func Names() []string {
	out := make([]string, 0, len(builders))
	for name := range builders {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
