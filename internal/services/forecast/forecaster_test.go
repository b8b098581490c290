package forecast

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

func TestForecastPoints(t *testing.T) {
	const horizon = 5
	ds := buildDataset(t, 300, horizon)

	points, _, err := NewForecaster().Forecast(ds, "Linear Regression", "standard")
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	if len(points) != horizon {
		t.Fatalf("expected %d points, got %d", horizon, len(points))
	}

	prev := ds.LastDate
	for i, p := range points {
		if !p.Date.After(prev) {
			t.Fatalf("point %d date %v not after %v", i, p.Date, prev)
		}
		prev = p.Date
		// The synthetic series lives near 100-130; a sane projection stays
		// in the same ballpark.
		if p.Price < 50 || p.Price > 250 {
			t.Fatalf("point %d price %v implausible", i, p.Price)
		}
	}
}

func TestForecastImportances(t *testing.T) {
	ds := buildDataset(t, 300, 5)

	_, imp, err := NewForecaster().Forecast(ds, "Random Forest", "none")
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	if len(imp) != len(ds.Names) {
		t.Fatalf("expected %d importances, got %d", len(ds.Names), len(imp))
	}
	sum := 0.0
	for name, v := range imp {
		if v < 0 {
			t.Fatalf("negative importance for %s", name)
		}
		sum += v
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("importances sum %v, want 1", sum)
	}

	// Linear regression reports no importances.
	_, imp, err = NewForecaster().Forecast(ds, "Linear Regression", "none")
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	if imp != nil {
		t.Fatalf("expected nil importances for linear model")
	}
}

func TestForecastDeterministic(t *testing.T) {
	ds := buildDataset(t, 300, 5)
	f := NewForecaster()

	p1, _, err := f.Forecast(ds, "XGBoost", "standard")
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	p2, _, err := f.Forecast(ds, "XGBoost", "standard")
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	for i := range p1 {
		if p1[i].Price != p2[i].Price {
			t.Fatalf("point %d differs across runs: %v vs %v", i, p1[i].Price, p2[i].Price)
		}
	}
}

func TestForecastErrors(t *testing.T) {
	ds := buildDataset(t, 300, 5)
	f := NewForecaster()

	if _, _, err := f.Forecast(ds, "Oracle", "standard"); !errors.Is(err, models.ErrUnknownModel) {
		t.Fatalf("expected ErrUnknownModel, got %v", err)
	}
	if _, _, err := f.Forecast(ds, "Linear Regression", "sigmoid"); err == nil {
		t.Fatalf("expected error for unknown scaling")
	}

	// Fewer feature rows than the horizon cannot anchor a projection.
	small := buildDataset(t, 38, 5) // 3 rows
	if _, _, err := f.Forecast(small, "Linear Regression", "none"); !errors.Is(err, models.ErrInsufficientHistory) {
		t.Fatalf("expected ErrInsufficientHistory, got %v", err)
	}
}
