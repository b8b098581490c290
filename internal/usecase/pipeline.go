package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	domsvc "StockCast/internal/domain/service"
	"StockCast/internal/services/regress"
	applogger "StockCast/pkg/logger"
	"StockCast/pkg/util"
)

// PredictionPipeline ties series acquisition, feature building, walk-forward
// evaluation and forecasting into the run shapes the API exposes. Each run is
// stateless: nothing from a previous symbol or model leaks into the next.
type PredictionPipeline struct {
	loader    *SeriesLoader
	builder   domsvc.FeatureBuilder
	evaluator domsvc.Evaluator
	forecast  domsvc.Forecaster
	publisher domrepo.ReportPublisher // optional
	metrics   domrepo.Metrics
	log       *applogger.Logger
}

func NewPredictionPipeline(
	loader *SeriesLoader,
	builder domsvc.FeatureBuilder,
	evaluator domsvc.Evaluator,
	forecast domsvc.Forecaster,
	publisher domrepo.ReportPublisher,
	metrics domrepo.Metrics,
) *PredictionPipeline {
	return &PredictionPipeline{
		loader:    loader,
		builder:   builder,
		evaluator: evaluator,
		forecast:  forecast,
		publisher: publisher,
		metrics:   metrics,
	}
}

// SetLogger injects a structured logger.
func (p *PredictionPipeline) SetLogger(lg *applogger.Logger) { p.log = lg }

// Evaluate runs the full evaluate path: load, build features, score with
// expanding-window folds (or a single tail holdout when requested).
func (p *PredictionPipeline) Evaluate(ctx context.Context, req *models.EvaluateRequest) (*models.EvaluationReport, error) {
	start := time.Now()

	ds, err := p.dataset(ctx, req.Symbol, req.Duration, req.Horizon)
	if err != nil {
		return nil, err
	}

	var ev *models.Evaluation
	if req.Holdout > 0 {
		ev, err = p.evaluator.EvaluateHoldout(ds, req.Model, req.Holdout, req.Scaling)
	} else {
		ev, err = p.evaluator.Evaluate(ds, req.Model, req.Splits, req.Scaling)
	}
	if err != nil {
		if p.metrics != nil {
			p.metrics.RecordError("evaluate")
		}
		return nil, err
	}

	report := &models.EvaluationReport{
		Symbol:      req.Symbol,
		Model:       req.Model,
		Horizon:     req.Horizon,
		Splits:      req.Splits,
		Scaling:     req.Scaling,
		FoldR2:      ev.FoldR2,
		FoldMAE:     ev.FoldMAE,
		MeanR2:      ev.MeanR2,
		StdR2:       ev.StdR2,
		MeanMAE:     ev.MeanMAE,
		Degraded:    ev.Degraded,
		GeneratedAt: time.Now().UTC(),
	}

	if p.metrics != nil {
		p.metrics.RecordRun("evaluate", req.Model)
		p.metrics.RecordScore(req.Symbol, req.Model, ev.MeanR2)
		p.metrics.RecordLatency("evaluate", time.Since(start).Seconds())
	}
	if p.log != nil {
		p.log.Info("evaluation complete",
			applogger.String("symbol", req.Symbol),
			applogger.String("model", req.Model),
			applogger.Float64("mean_r2", ev.MeanR2),
			applogger.Duration("elapsed", time.Since(start)),
		)
	}

	if p.publisher != nil {
		if err := p.publisher.PublishEvaluation(ctx, report); err != nil && p.log != nil {
			p.log.Warn("evaluation publish failed", applogger.Error(err))
		}
	}

	return report, nil
}

// Forecast fits the chosen model on everything known and projects the next
// horizon trading values onto forward calendar dates.
func (p *PredictionPipeline) Forecast(ctx context.Context, req *models.ForecastRequest) (*models.ForecastReport, error) {
	start := time.Now()

	ds, err := p.dataset(ctx, req.Symbol, req.Duration, req.Horizon)
	if err != nil {
		return nil, err
	}

	points, importances, err := p.forecast.Forecast(ds, req.Model, req.Scaling)
	if err != nil {
		if p.metrics != nil {
			p.metrics.RecordError("forecast")
		}
		return nil, err
	}

	report := &models.ForecastReport{
		Symbol:      req.Symbol,
		Model:       req.Model,
		Horizon:     req.Horizon,
		Scaling:     req.Scaling,
		Points:      points,
		Importances: importances,
		GeneratedAt: time.Now().UTC(),
	}

	if p.metrics != nil {
		p.metrics.RecordRun("forecast", req.Model)
		if len(points) > 0 {
			p.metrics.RecordForecast(req.Symbol, req.Model, points[len(points)-1].Price)
		}
		p.metrics.RecordLatency("forecast", time.Since(start).Seconds())
	}
	if p.log != nil {
		p.log.Info("forecast complete",
			applogger.String("symbol", req.Symbol),
			applogger.String("model", req.Model),
			applogger.Int("points", len(points)),
		)
	}

	if p.publisher != nil {
		if err := p.publisher.PublishForecast(ctx, report); err != nil && p.log != nil {
			p.log.Warn("forecast publish failed", applogger.Error(err))
		}
	}

	return report, nil
}

// Leaderboard evaluates every registered model on the same dataset and ranks
// by mean R2. Per-model failures land in the entry instead of failing the run.
func (p *PredictionPipeline) Leaderboard(ctx context.Context, req *models.LeaderboardRequest) (*models.Leaderboard, error) {
	ds, err := p.dataset(ctx, req.Symbol, req.Duration, req.Horizon)
	if err != nil {
		return nil, err
	}

	entries := make([]models.LeaderboardEntry, 0, len(regress.Names()))
	for _, name := range regress.Names() {
		ev, err := p.evaluator.Evaluate(ds, name, req.Splits, req.Scaling)
		if err != nil {
			entries = append(entries, models.LeaderboardEntry{Model: name, Err: err.Error()})
			if p.metrics != nil {
				p.metrics.RecordError("leaderboard_model")
			}
			continue
		}
		entries = append(entries, models.LeaderboardEntry{
			Model:   name,
			MeanR2:  ev.MeanR2,
			StdR2:   ev.StdR2,
			MeanMAE: ev.MeanMAE,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if (entries[i].Err == "") != (entries[j].Err == "") {
			return entries[i].Err == ""
		}
		return entries[i].MeanR2 > entries[j].MeanR2
	})

	if p.metrics != nil {
		p.metrics.RecordRun("leaderboard", "all")
	}

	return &models.Leaderboard{
		Symbol:      req.Symbol,
		Horizon:     req.Horizon,
		Splits:      req.Splits,
		Scaling:     req.Scaling,
		Entries:     entries,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// Recent serves the latest daily bars, for chart bootstrapping. An optional
// from date trims the window further.
func (p *PredictionPipeline) Recent(ctx context.Context, req *models.RecentRequest) ([]models.Bar, error) {
	bars, err := p.loader.Recent(ctx, req.Symbol, req.N)
	if err != nil {
		return nil, err
	}
	if req.From != "" {
		from := util.ParseTimeDefault(req.From, time.Time{})
		if !from.IsZero() {
			i := 0
			for i < len(bars) && bars[i].Date.Before(from) {
				i++
			}
			bars = bars[i:]
		}
	}
	return bars, nil
}

func (p *PredictionPipeline) dataset(ctx context.Context, symbol string, duration, horizon int) (*models.Dataset, error) {
	series, err := p.loader.Load(ctx, symbol, duration)
	if err != nil {
		return nil, err
	}
	ds, err := p.builder.Build(series, horizon)
	if err != nil {
		if p.metrics != nil {
			p.metrics.RecordError("features")
		}
		return nil, fmt.Errorf("build features %s: %w", symbol, err)
	}
	return ds, nil
}
