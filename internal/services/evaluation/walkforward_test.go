package evaluation

import (
	"errors"
	"math"
	"testing"
	"time"

	"StockCast/internal/domain/models"
	"StockCast/internal/services/features"
)

func buildDataset(t *testing.T, bars, horizon int) *models.Dataset {
	t.Helper()
	start := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	series := models.Series{Symbol: "TEST"}
	for i := 0; i < bars; i++ {
		c := 100.0 + 0.1*float64(i) + 3.0*math.Sin(float64(i)/9.0)
		series.Bars = append(series.Bars, models.Bar{
			Date: start.AddDate(0, 0, i), Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 1000,
		})
	}
	ds, err := features.NewBuilder().Build(series, horizon)
	if err != nil {
		t.Fatalf("build dataset: %v", err)
	}
	return ds
}

func TestFoldsShape(t *testing.T) {
	folds, err := Folds(120, 5)
	if err != nil {
		t.Fatalf("folds: %v", err)
	}
	if len(folds) != 5 {
		t.Fatalf("expected 5 folds, got %d", len(folds))
	}
	testSize := 120 / 6
	for k, f := range folds {
		if f.TrainEnd != f.TestStart {
			t.Fatalf("fold %d: gap between train and test", k)
		}
		if f.TestEnd-f.TestStart != testSize {
			t.Fatalf("fold %d: test size %d, want %d", k, f.TestEnd-f.TestStart, testSize)
		}
		if f.TrainEnd < 1 {
			t.Fatalf("fold %d: empty training window", k)
		}
	}
	if folds[len(folds)-1].TestEnd != 120 {
		t.Fatalf("last fold must end at n")
	}
}

func TestFoldsExpandingWindows(t *testing.T) {
	folds, err := Folds(103, 4) // leftover rows go to the first train window
	if err != nil {
		t.Fatalf("folds: %v", err)
	}
	for k := 1; k < len(folds); k++ {
		if folds[k].TrainEnd <= folds[k-1].TrainEnd {
			t.Fatalf("fold %d training window does not expand", k)
		}
		if folds[k].TrainEnd != folds[k-1].TestEnd {
			t.Fatalf("fold %d training must absorb previous test block", k)
		}
	}
}

func TestFoldsErrors(t *testing.T) {
	if _, err := Folds(100, 1); err == nil {
		t.Fatalf("expected error for one split")
	}
	if _, err := Folds(4, 5); !errors.Is(err, models.ErrInsufficientHistory) {
		t.Fatalf("expected ErrInsufficientHistory, got %v", err)
	}
}

func TestEvaluateProducesFoldScores(t *testing.T) {
	ds := buildDataset(t, 400, 5)
	ev, err := NewEvaluator().Evaluate(ds, "Linear Regression", 5, "standard")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(ev.FoldR2) != 5 || len(ev.FoldMAE) != 5 {
		t.Fatalf("expected 5 fold scores, got %d/%d", len(ev.FoldR2), len(ev.FoldMAE))
	}
	for k, r2 := range ev.FoldR2 {
		if r2 > 1 {
			t.Fatalf("fold %d: R2 %v above 1", k, r2)
		}
	}
	for k, mae := range ev.FoldMAE {
		if mae < 0 {
			t.Fatalf("fold %d: negative MAE %v", k, mae)
		}
	}
	// The series is a smooth trend; a linear model should track it well.
	if ev.MeanR2 < 0 {
		t.Fatalf("mean R2 %v unexpectedly poor", ev.MeanR2)
	}
	if ev.StdR2 < 0 {
		t.Fatalf("negative std %v", ev.StdR2)
	}
}

func TestEvaluateUnknownModel(t *testing.T) {
	ds := buildDataset(t, 200, 5)
	_, err := NewEvaluator().Evaluate(ds, "Deep Net", 5, "standard")
	if !errors.Is(err, models.ErrUnknownModel) {
		t.Fatalf("expected ErrUnknownModel, got %v", err)
	}
}

func TestEvaluateUnknownScaling(t *testing.T) {
	ds := buildDataset(t, 200, 5)
	if _, err := NewEvaluator().Evaluate(ds, "Linear Regression", 5, "log"); err == nil {
		t.Fatalf("expected error for unknown scaling")
	}
}

func TestEvaluateInsufficientRows(t *testing.T) {
	ds := buildDataset(t, 38, 5) // only 3 feature rows
	_, err := NewEvaluator().Evaluate(ds, "Linear Regression", 5, "standard")
	if !errors.Is(err, models.ErrInsufficientHistory) {
		t.Fatalf("expected ErrInsufficientHistory, got %v", err)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	ds := buildDataset(t, 300, 5)
	e := NewEvaluator()
	ev1, err := e.Evaluate(ds, "Random Forest", 4, "standard")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	ev2, err := e.Evaluate(ds, "Random Forest", 4, "standard")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	for k := range ev1.FoldR2 {
		if ev1.FoldR2[k] != ev2.FoldR2[k] {
			t.Fatalf("fold %d differs across runs: %v vs %v", k, ev1.FoldR2[k], ev2.FoldR2[k])
		}
	}
}

func TestEvaluateHoldoutSingleScore(t *testing.T) {
	ds := buildDataset(t, 300, 5)
	ev, err := NewEvaluator().EvaluateHoldout(ds, "Linear Regression", 0.2, "standard")
	if err != nil {
		t.Fatalf("holdout: %v", err)
	}
	if len(ev.FoldR2) != 1 {
		t.Fatalf("expected single score, got %d", len(ev.FoldR2))
	}
	if ev.StdR2 != 0 {
		t.Fatalf("single holdout has no spread, got %v", ev.StdR2)
	}
	if ev.MeanR2 != ev.FoldR2[0] || ev.MeanMAE != ev.FoldMAE[0] {
		t.Fatalf("aggregate must equal the single fold")
	}
}

func TestEvaluateHoldoutBadFraction(t *testing.T) {
	ds := buildDataset(t, 200, 5)
	e := NewEvaluator()
	for _, frac := range []float64{0, 1, -0.5, 1.5} {
		if _, err := e.EvaluateHoldout(ds, "Linear Regression", frac, "none"); err == nil {
			t.Fatalf("expected error for fraction %v", frac)
		}
	}
}

func TestEvaluateHoldoutTailRoundsUp(t *testing.T) {
	ds := buildDataset(t, 100, 5) // 65 feature rows
	e := NewEvaluator()

	// A tiny fraction still reserves one test row.
	ev, err := e.EvaluateHoldout(ds, "Linear Regression", 0.001, "none")
	if err != nil {
		t.Fatalf("tiny fraction: %v", err)
	}
	if len(ev.FoldR2) != 1 {
		t.Fatalf("expected single score, got %d", len(ev.FoldR2))
	}

	// Rounding up at 0.99 consumes every row, leaving no training data.
	if _, err := e.EvaluateHoldout(ds, "Linear Regression", 0.99, "none"); !errors.Is(err, models.ErrInsufficientHistory) {
		t.Fatalf("expected insufficient history, got %v", err)
	}
}

func TestRSquaredConventions(t *testing.T) {
	// Perfect predictions score 1 even on a constant target.
	if r2 := RSquared([]float64{5, 5}, []float64{5, 5}); r2 != 1 {
		t.Fatalf("perfect constant fit R2 %v, want 1", r2)
	}
	// Imperfect predictions on a constant target score 0.
	if r2 := RSquared([]float64{5, 6}, []float64{5, 5}); r2 != 0 {
		t.Fatalf("constant target R2 %v, want 0", r2)
	}
	// Predicting the mean scores 0.
	if r2 := RSquared([]float64{2, 2}, []float64{1, 3}); r2 != 0 {
		t.Fatalf("mean prediction R2 %v, want 0", r2)
	}
	// Worse than the mean is negative.
	if r2 := RSquared([]float64{10, -10}, []float64{1, 3}); r2 >= 0 {
		t.Fatalf("bad prediction R2 %v, want negative", r2)
	}
}

func TestMAE(t *testing.T) {
	if mae := MAE([]float64{1, 2, 3}, []float64{2, 2, 5}); math.Abs(mae-1) > 1e-12 {
		t.Fatalf("mae %v, want 1", mae)
	}
	if mae := MAE(nil, nil); mae != 0 {
		t.Fatalf("empty mae %v, want 0", mae)
	}
}
