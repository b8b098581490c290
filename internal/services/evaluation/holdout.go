package evaluation

import (
	"fmt"
	"math"
	"sort"

	"StockCast/internal/domain/models"
	"StockCast/internal/services/scaling"
)

// EvaluateHoldout scores one model on a single chronological tail holdout of
// roughly testFraction of the rows. Unlike the walk-forward variant it
// produces a single score; training data still strictly precedes test data.
func (e *Evaluator) EvaluateHoldout(ds *models.Dataset, modelName string, testFraction float64, scalingName string) (*models.Evaluation, error) {
	if testFraction <= 0 || testFraction >= 1 {
		return nil, fmt.Errorf("evaluate holdout: test fraction must be in (0,1), got %v", testFraction)
	}
	kind, err := scaling.ParseKind(scalingName)
	if err != nil {
		return nil, fmt.Errorf("evaluate holdout: %w", err)
	}

	// The tail gets at least one row even for tiny fractions.
	n := ds.Rows()
	trainEnd := n - int(math.Ceil(float64(n)*testFraction))
	if trainEnd < 1 || trainEnd >= n {
		return nil, fmt.Errorf("evaluate holdout: %w: %d rows at fraction %v",
			models.ErrInsufficientHistory, n, testFraction)
	}

	fold := Fold{TrainEnd: trainEnd, TestStart: trainEnd, TestEnd: n}
	r2, mae, degCols, err := e.runFold(ds, modelName, kind, fold)
	if err != nil {
		return nil, fmt.Errorf("evaluate holdout: model %q: %w", modelName, err)
	}

	degraded := make([]string, 0, len(degCols))
	for _, j := range degCols {
		degraded = append(degraded, ds.Names[j])
	}
	sort.Strings(degraded)

	return &models.Evaluation{
		FoldR2:   []float64{r2},
		FoldMAE:  []float64{mae},
		MeanR2:   r2,
		MeanMAE:  mae,
		Degraded: degraded,
	}, nil
}

func sortedKeys(m map[string]struct{}) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
