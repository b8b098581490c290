package service

import "StockCast/internal/domain/models"

// FeatureBuilder turns a validated series into a feature matrix with an
// aligned target vector.
type FeatureBuilder interface {
	Build(series models.Series, horizon int) (*models.Dataset, error)
}

// Evaluator scores a model on a prepared dataset with expanding-window folds.
type Evaluator interface {
	Evaluate(ds *models.Dataset, modelName string, nSplits int, scaling string) (*models.Evaluation, error)
	// EvaluateHoldout scores on a single chronological tail holdout.
	EvaluateHoldout(ds *models.Dataset, modelName string, testFraction float64, scaling string) (*models.Evaluation, error)
}

// Forecaster fits on the full dataset and projects the next horizon steps.
type Forecaster interface {
	Forecast(ds *models.Dataset, modelName string, scaling string) ([]models.ForecastPoint, map[string]float64, error)
}
