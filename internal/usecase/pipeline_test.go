package usecase

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"StockCast/internal/domain/models"
	"StockCast/internal/services/evaluation"
	"StockCast/internal/services/features"
	"StockCast/internal/services/forecast"
	"StockCast/internal/services/regress"
	xcache "StockCast/pkg/cache"
)

// fakeMarketData serves a deterministic synthetic series and counts calls.
type fakeMarketData struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeMarketData) DailyBars(_ context.Context, symbol string, from, to time.Time) ([]models.Bar, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, 400)
	for i := range bars {
		c := 100.0 + 0.1*float64(i) + 3.0*math.Sin(float64(i)/9.0)
		bars[i] = models.Bar{
			Date: start.AddDate(0, 0, i), Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 1000,
		}
	}
	return bars, nil
}

func (f *fakeMarketData) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestPipeline(source *fakeMarketData) *PredictionPipeline {
	cache := xcache.NewMemoryCache()
	loader := NewSeriesLoader(source, nil, cache, time.Minute, nil)
	return NewPredictionPipeline(
		loader,
		features.NewBuilder(),
		evaluation.NewEvaluator(),
		forecast.NewForecaster(),
		nil,
		nil,
	)
}

func TestPipelineEvaluate(t *testing.T) {
	source := &fakeMarketData{}
	p := newTestPipeline(source)

	report, err := p.Evaluate(context.Background(), &models.EvaluateRequest{
		Symbol: "TEST", Model: "Linear Regression", Horizon: 5, Splits: 5,
		Scaling: "standard", Duration: 400,
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if report.Symbol != "TEST" || report.Model != "Linear Regression" {
		t.Fatalf("report identity wrong: %+v", report)
	}
	if len(report.FoldR2) != 5 {
		t.Fatalf("expected 5 fold scores, got %d", len(report.FoldR2))
	}
	if report.GeneratedAt.IsZero() {
		t.Fatalf("missing generation timestamp")
	}
}

func TestPipelineEvaluateHoldout(t *testing.T) {
	p := newTestPipeline(&fakeMarketData{})

	report, err := p.Evaluate(context.Background(), &models.EvaluateRequest{
		Symbol: "TEST", Model: "Linear Regression", Horizon: 5, Splits: 5,
		Scaling: "standard", Duration: 400, Holdout: 0.2,
	})
	if err != nil {
		t.Fatalf("evaluate holdout: %v", err)
	}
	if len(report.FoldR2) != 1 {
		t.Fatalf("holdout should yield a single score, got %d", len(report.FoldR2))
	}
}

func TestPipelineSeriesCached(t *testing.T) {
	source := &fakeMarketData{}
	p := newTestPipeline(source)
	ctx := context.Background()

	req := &models.EvaluateRequest{
		Symbol: "TEST", Model: "Linear Regression", Horizon: 5, Splits: 5,
		Scaling: "standard", Duration: 400,
	}
	if _, err := p.Evaluate(ctx, req); err != nil {
		t.Fatalf("first evaluate: %v", err)
	}
	if _, err := p.Evaluate(ctx, req); err != nil {
		t.Fatalf("second evaluate: %v", err)
	}
	if source.count() != 1 {
		t.Fatalf("expected one provider call, got %d", source.count())
	}

	// Invalidation forces a refetch.
	if err := p.loader.Invalidate(ctx, "TEST"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, err := p.Evaluate(ctx, req); err != nil {
		t.Fatalf("third evaluate: %v", err)
	}
	if source.count() != 2 {
		t.Fatalf("expected refetch after invalidation, got %d calls", source.count())
	}
}

func TestPipelineForecast(t *testing.T) {
	p := newTestPipeline(&fakeMarketData{})

	report, err := p.Forecast(context.Background(), &models.ForecastRequest{
		Symbol: "TEST", Model: "Random Forest", Horizon: 5,
		Scaling: "none", Duration: 400,
	})
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	if len(report.Points) != 5 {
		t.Fatalf("expected 5 points, got %d", len(report.Points))
	}
	if len(report.Importances) == 0 {
		t.Fatalf("forest forecast should carry importances")
	}
	for i := 1; i < len(report.Points); i++ {
		if !report.Points[i].Date.After(report.Points[i-1].Date) {
			t.Fatalf("forecast dates not increasing at %d", i)
		}
	}
}

func TestPipelineLeaderboard(t *testing.T) {
	p := newTestPipeline(&fakeMarketData{})

	board, err := p.Leaderboard(context.Background(), &models.LeaderboardRequest{
		Symbol: "TEST", Horizon: 5, Splits: 4, Scaling: "standard", Duration: 400,
	})
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(board.Entries) != len(regress.Names()) {
		t.Fatalf("expected %d entries, got %d", len(regress.Names()), len(board.Entries))
	}
	for i := 1; i < len(board.Entries); i++ {
		a, b := board.Entries[i-1], board.Entries[i]
		if a.Err == "" && b.Err == "" && a.MeanR2 < b.MeanR2 {
			t.Fatalf("entries not sorted by mean R2 at %d", i)
		}
	}
}

func TestPipelineRecentFallsBackToLoader(t *testing.T) {
	p := newTestPipeline(&fakeMarketData{})

	bars, err := p.Recent(context.Background(), &models.RecentRequest{Symbol: "TEST", N: 10})
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(bars) != 10 {
		t.Fatalf("expected 10 bars, got %d", len(bars))
	}
	for i := 1; i < len(bars); i++ {
		if !bars[i].Date.After(bars[i-1].Date) {
			t.Fatalf("recent bars out of order at %d", i)
		}
	}

	cutoff := bars[5].Date
	filtered, err := p.Recent(context.Background(), &models.RecentRequest{
		Symbol: "TEST", N: 10, From: cutoff.Format("2006-01-02"),
	})
	if err != nil {
		t.Fatalf("recent with from: %v", err)
	}
	if len(filtered) != 5 {
		t.Fatalf("expected 5 bars after cutoff, got %d", len(filtered))
	}
	if filtered[0].Date.Before(cutoff) {
		t.Fatalf("filter kept a bar before the cutoff")
	}
}

func TestNormalizeBars(t *testing.T) {
	d := func(n int) time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n) }
	in := []models.Bar{
		{Date: d(2), Close: 3},
		{Date: d(0), Close: 1},
		{Date: d(2), Close: 4}, // duplicate date, last record wins
		{Date: d(1), Close: 2},
	}
	out := normalizeBars(in)
	if len(out) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(out))
	}
	if out[0].Close != 1 || out[1].Close != 2 || out[2].Close != 4 {
		t.Fatalf("unexpected order/dedup: %+v", out)
	}
}
