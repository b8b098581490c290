package features

import (
	"errors"
	"math"
	"testing"
	"time"

	"StockCast/internal/domain/models"
)

func syntheticSeries(n int) models.Series {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, n)
	for i := range bars {
		// Trending price with a mild cycle, always positive.
		c := 100.0 + 0.1*float64(i) + 3.0*math.Sin(float64(i)/9.0)
		bars[i] = models.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   c - 0.5,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1_000_000 + float64(i),
		}
	}
	return models.Series{Symbol: "TEST", Bars: bars}
}

func TestBuildRowCount(t *testing.T) {
	const n, horizon = 400, 5
	ds, err := NewBuilder().Build(syntheticSeries(n), horizon)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := n - MaxLookback - horizon
	if ds.Rows() != want {
		t.Fatalf("expected %d rows, got %d", want, ds.Rows())
	}
	if len(ds.Target) != want || len(ds.Dates) != want {
		t.Fatalf("target/dates misaligned: %d/%d", len(ds.Target), len(ds.Dates))
	}
	if ds.Cols() != len(ds.Names) {
		t.Fatalf("cols %d != names %d", ds.Cols(), len(ds.Names))
	}
	for i, row := range ds.Features {
		for j, v := range row {
			if math.IsNaN(v) {
				t.Fatalf("NaN at row %d col %d (%s)", i, j, ds.Names[j])
			}
		}
	}
}

func TestBuildTargetAlignment(t *testing.T) {
	const n, horizon = 120, 3
	series := syntheticSeries(n)
	ds, err := NewBuilder().Build(series, horizon)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	closes := series.Closes()
	for r := range ds.Target {
		anchor := MaxLookback + r
		if ds.Target[r] != closes[anchor+horizon] {
			t.Fatalf("row %d target %v, want close[%d]=%v", r, ds.Target[r], anchor+horizon, closes[anchor+horizon])
		}
		if !ds.Dates[r].Equal(series.Bars[anchor].Date) {
			t.Fatalf("row %d anchored at wrong date %v", r, ds.Dates[r])
		}
		// lag_1 is the close one bar before the anchor
		if ds.Features[r][0] != closes[anchor-1] {
			t.Fatalf("row %d lag_1 %v, want %v", r, ds.Features[r][0], closes[anchor-1])
		}
	}
	if !ds.LastDate.Equal(series.Bars[n-1].Date) {
		t.Fatalf("last date %v, want %v", ds.LastDate, series.Bars[n-1].Date)
	}
}

func TestBuildInsufficientHistory(t *testing.T) {
	_, err := NewBuilder().Build(syntheticSeries(10), 5)
	if !errors.Is(err, models.ErrInsufficientHistory) {
		t.Fatalf("expected ErrInsufficientHistory, got %v", err)
	}
	// One short of the minimum: rows = 36 - 30 - 5 = 1 succeeds, 35 fails.
	if _, err := NewBuilder().Build(syntheticSeries(36), 5); err != nil {
		t.Fatalf("36 bars should be enough: %v", err)
	}
	if _, err := NewBuilder().Build(syntheticSeries(35), 5); !errors.Is(err, models.ErrInsufficientHistory) {
		t.Fatalf("expected ErrInsufficientHistory at 35 bars, got %v", err)
	}
}

func TestBuildRejectsBadSeries(t *testing.T) {
	series := syntheticSeries(60)
	series.Bars[10].Date = series.Bars[9].Date // duplicate date
	if _, err := NewBuilder().Build(series, 5); !errors.Is(err, models.ErrInvalidSeries) {
		t.Fatalf("expected ErrInvalidSeries, got %v", err)
	}

	series = syntheticSeries(60)
	series.Bars[20].Volume = -1
	if _, err := NewBuilder().Build(series, 5); !errors.Is(err, models.ErrInvalidSeries) {
		t.Fatalf("expected ErrInvalidSeries for negative volume, got %v", err)
	}
}

func TestBuildRejectsBadHorizon(t *testing.T) {
	if _, err := NewBuilder().Build(syntheticSeries(100), 0); err == nil {
		t.Fatalf("expected error for zero horizon")
	}
}

func TestBuildExternalIndicators(t *testing.T) {
	const n, horizon = 100, 5
	series := syntheticSeries(n)

	ext := make([]float64, n)
	for i := range ext {
		ext[i] = float64(i)
	}
	b := &Builder{External: map[string][]float64{"custom": ext}}
	ds, err := b.Build(series, horizon)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	last := ds.Names[len(ds.Names)-1]
	if last != "custom" {
		t.Fatalf("expected external column last, got %q", last)
	}
	if ds.Rows() != n-MaxLookback-horizon {
		t.Fatalf("unexpected rows %d", ds.Rows())
	}

	// A NaN inside an external column drops exactly that row.
	ext[40] = math.NaN()
	ds2, err := b.Build(series, horizon)
	if err != nil {
		t.Fatalf("build with NaN: %v", err)
	}
	if ds2.Rows() != ds.Rows()-1 {
		t.Fatalf("expected %d rows after NaN drop, got %d", ds.Rows()-1, ds2.Rows())
	}

	// Length mismatch is rejected.
	b.External["short"] = make([]float64, n-1)
	if _, err := b.Build(series, horizon); err == nil {
		t.Fatalf("expected error for misaligned external column")
	}
}
