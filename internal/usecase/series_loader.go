package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	xcache "StockCast/pkg/cache"
	applogger "StockCast/pkg/logger"
)

// SeriesLoader serves daily series from a TTL cache, then the persistent bar
// store, then the market-data provider. Downloads are written through to both
// layers; Invalidate is the explicit refresh path.
type SeriesLoader struct {
	source  domrepo.MarketData
	store   domrepo.BarStore // optional
	cache   xcache.Service
	ttl     time.Duration
	metrics domrepo.Metrics
	log     *applogger.Logger
}

func NewSeriesLoader(source domrepo.MarketData, store domrepo.BarStore, cache xcache.Service, ttl time.Duration, metrics domrepo.Metrics) *SeriesLoader {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &SeriesLoader{source: source, store: store, cache: cache, ttl: ttl, metrics: metrics}
}

// SetLogger injects a structured logger.
func (l *SeriesLoader) SetLogger(lg *applogger.Logger) { l.log = lg }

// storeFreshnessDays is how far the newest persisted bar may lag the range
// end before the store no longer counts as current. Daily bars pause over
// weekends, so the window spans one.
const storeFreshnessDays = 3

// Load returns the last `days` calendar days of daily bars for symbol.
// Lookup order is cache, then the persistent store when it is current, then
// the provider; stored rows also back the provider when a download fails.
func (l *SeriesLoader) Load(ctx context.Context, symbol string, days int) (models.Series, error) {
	key := xcache.GenerateKeyWithParams("series", symbol, days)

	if l.cache != nil {
		var raw string
		if err := l.cache.Get(ctx, key, &raw); err == nil {
			var bars []models.Bar
			if err := json.Unmarshal([]byte(raw), &bars); err == nil {
				return models.Series{Symbol: symbol, Bars: bars}, nil
			}
		}
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -days)

	var stored []models.Bar
	if l.store != nil {
		if bars, err := l.store.GetDaily(ctx, symbol, from, to); err == nil && len(bars) > 0 {
			stored = normalizeBars(bars)
			if storeCovers(stored, to) {
				l.cacheBars(ctx, key, stored)
				return models.Series{Symbol: symbol, Bars: stored}, nil
			}
		}
	}

	bars, err := l.source.DailyBars(ctx, symbol, from, to)
	if err != nil {
		if l.metrics != nil {
			l.metrics.RecordError("series_download")
		}
		if len(stored) > 0 {
			if l.log != nil {
				l.log.Warn("serving stale stored bars, download failed",
					applogger.String("symbol", symbol),
					applogger.Error(err),
				)
			}
			return models.Series{Symbol: symbol, Bars: stored}, nil
		}
		return models.Series{}, fmt.Errorf("load series %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return models.Series{}, fmt.Errorf("load series %s: no data in range", symbol)
	}

	bars = normalizeBars(bars)

	if l.store != nil {
		if err := l.store.Store(ctx, symbol, bars); err != nil && l.log != nil {
			l.log.Warn("bar store write failed",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
	}

	l.cacheBars(ctx, key, bars)

	return models.Series{Symbol: symbol, Bars: bars}, nil
}

// storeCovers reports whether the newest stored bar reaches the end of the
// requested range, within the freshness window.
func storeCovers(bars []models.Bar, to time.Time) bool {
	return !bars[len(bars)-1].Date.Before(to.AddDate(0, 0, -storeFreshnessDays))
}

func (l *SeriesLoader) cacheBars(ctx context.Context, key string, bars []models.Bar) {
	if l.cache == nil {
		return
	}
	b, err := json.Marshal(bars)
	if err != nil {
		return
	}
	if err := l.cache.Set(ctx, key, string(b), l.ttl); err != nil && l.log != nil {
		l.log.Warn("series cache write failed", applogger.Error(err))
	}
}

// Invalidate drops every cached range for symbol, forcing the next Load to
// hit the provider.
func (l *SeriesLoader) Invalidate(ctx context.Context, symbol string) error {
	if l.cache == nil {
		return nil
	}
	return l.cache.DeleteByPattern(ctx, xcache.BuildPattern("series:"+symbol))
}

// Recent returns the latest n bars, preferring the persistent store.
func (l *SeriesLoader) Recent(ctx context.Context, symbol string, n int) ([]models.Bar, error) {
	if l.store != nil {
		bars, err := l.store.GetLatestN(ctx, symbol, n)
		if err == nil && len(bars) > 0 {
			return bars, nil
		}
	}
	s, err := l.Load(ctx, symbol, 365)
	if err != nil {
		return nil, err
	}
	if len(s.Bars) > n {
		return s.Bars[len(s.Bars)-n:], nil
	}
	return s.Bars, nil
}

// normalizeBars sorts by date and drops duplicate dates, keeping the last
// record for a day. The pipeline core rejects unordered input, so the
// acquisition edge owns the cleanup.
func normalizeBars(bars []models.Bar) []models.Bar {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	out := bars[:0]
	for _, b := range bars {
		if len(out) > 0 && !b.Date.After(out[len(out)-1].Date) {
			out[len(out)-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}
