package evaluation

import (
	"fmt"

	"StockCast/internal/domain/models"
	"StockCast/internal/services/regress"
	"StockCast/internal/services/scaling"
)

// Fold is one expanding-window split over dataset row positions.
// Training covers [0, TrainEnd) and testing [TestStart, TestEnd), half-open,
// with TrainEnd == TestStart so every training index precedes every test
// index.
type Fold struct {
	TrainEnd  int
	TestStart int
	TestEnd   int
}

// Folds partitions n chronological rows into splits expanding-window folds
// with equally sized test blocks anchored at the end; leftover rows extend
// the earliest training window. Each later fold's training set strictly
// contains the previous fold's.
func Folds(n, splits int) ([]Fold, error) {
	if splits < 2 {
		return nil, fmt.Errorf("evaluation: need at least 2 splits, got %d", splits)
	}
	testSize := n / (splits + 1)
	if testSize < 1 {
		return nil, fmt.Errorf("evaluation: %w: %d rows cannot support %d folds",
			models.ErrInsufficientHistory, n, splits)
	}
	folds := make([]Fold, splits)
	for k := 0; k < splits; k++ {
		testEnd := n - (splits-k-1)*testSize
		testStart := testEnd - testSize
		folds[k] = Fold{TrainEnd: testStart, TestStart: testStart, TestEnd: testEnd}
	}
	return folds, nil
}

// Evaluator scores registry models with walk-forward cross-validation.
// Each fold fits its own scaler and a fresh model instance; nothing is
// shared across folds.
type Evaluator struct{}

func NewEvaluator() *Evaluator { return &Evaluator{} }

// Evaluate runs walk-forward evaluation of one model over the dataset.
func (e *Evaluator) Evaluate(ds *models.Dataset, modelName string, nSplits int, scalingName string) (*models.Evaluation, error) {
	kind, err := scaling.ParseKind(scalingName)
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}
	// Surface a bad model name before any fold work.
	if _, err := regress.New(modelName); err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}

	folds, err := Folds(ds.Rows(), nSplits)
	if err != nil {
		return nil, fmt.Errorf("evaluate: model %q: %w", modelName, err)
	}

	ev := &models.Evaluation{
		FoldR2:  make([]float64, 0, len(folds)),
		FoldMAE: make([]float64, 0, len(folds)),
	}
	degraded := map[string]struct{}{}

	for k, fold := range folds {
		r2, mae, degCols, err := e.runFold(ds, modelName, kind, fold)
		if err != nil {
			return nil, fmt.Errorf("evaluate: fold %d: model %q: %w", k, modelName, err)
		}
		ev.FoldR2 = append(ev.FoldR2, r2)
		ev.FoldMAE = append(ev.FoldMAE, mae)
		for _, j := range degCols {
			degraded[ds.Names[j]] = struct{}{}
		}
	}

	ev.MeanR2, ev.StdR2 = meanStd(ev.FoldR2)
	ev.MeanMAE, _ = meanStd(ev.FoldMAE)
	ev.Degraded = sortedKeys(degraded)
	return ev, nil
}

// runFold fits scaler and model on the fold's training rows only and scores
// the test block.
func (e *Evaluator) runFold(ds *models.Dataset, modelName string, kind scaling.Kind, fold Fold) (float64, float64, []int, error) {
	sc := scaling.New(kind)
	trainX := sc.FitTransform(ds.Features[:fold.TrainEnd])
	testX := sc.Transform(ds.Features[fold.TestStart:fold.TestEnd])

	est, err := regress.New(modelName)
	if err != nil {
		return 0, 0, nil, err
	}
	if err := est.Fit(trainX, ds.Target[:fold.TrainEnd]); err != nil {
		return 0, 0, nil, fmt.Errorf("fit: %w", err)
	}
	preds := est.Predict(testX)
	actual := ds.Target[fold.TestStart:fold.TestEnd]
	return RSquared(preds, actual), MAE(preds, actual), sc.Degraded(), nil
}
