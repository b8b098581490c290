package forecast

import (
	"fmt"

	"StockCast/internal/domain/models"
	"StockCast/internal/services/regress"
	"StockCast/internal/services/scaling"
	"StockCast/pkg/util"
)

// Forecaster refits a registry model on the whole prepared dataset and
// projects the next horizon steps. The model was trained to predict
// horizon-steps-ahead directly, so the projection is the prediction for the
// last horizon anchor rows; no predicted value is fed back as an input.
// Fitting the scaler on the full dataset is legitimate here because this
// step is not evaluative.
type Forecaster struct{}

func NewForecaster() *Forecaster { return &Forecaster{} }

// Forecast returns horizon forward points and, when the model exposes them,
// a feature-name keyed importance map.
func (f *Forecaster) Forecast(ds *models.Dataset, modelName string, scalingName string) ([]models.ForecastPoint, map[string]float64, error) {
	kind, err := scaling.ParseKind(scalingName)
	if err != nil {
		return nil, nil, fmt.Errorf("forecast: %w", err)
	}
	est, err := regress.New(modelName)
	if err != nil {
		return nil, nil, fmt.Errorf("forecast: %w", err)
	}

	h := ds.Horizon
	if ds.Rows() < h {
		return nil, nil, fmt.Errorf("forecast: %w: %d rows for horizon %d",
			models.ErrInsufficientHistory, ds.Rows(), h)
	}

	sc := scaling.New(kind)
	scaled := sc.FitTransform(ds.Features)
	if err := est.Fit(scaled, ds.Target); err != nil {
		return nil, nil, fmt.Errorf("forecast: model %q: fit: %w", modelName, err)
	}

	// The last horizon anchor rows carry the projection.
	preds := est.Predict(sc.Transform(ds.Tail(h)))

	// Forward dates advance one calendar day per step from the last known
	// bar; non-trading days are an accepted simplification.
	dates := util.ForwardDates(ds.LastDate, h)

	points := make([]models.ForecastPoint, h)
	for i := range points {
		points[i] = models.ForecastPoint{Date: dates[i], Price: preds[i]}
	}

	var importances map[string]float64
	if ir, ok := est.(regress.ImportanceReporter); ok {
		raw := ir.Importances()
		if len(raw) == len(ds.Names) {
			importances = make(map[string]float64, len(raw))
			for j, v := range raw {
				importances[ds.Names[j]] = v
			}
		}
	}

	return points, importances, nil
}
