package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	"StockCast/internal/service/ratelimit"
	pkghttp "StockCast/pkg/http"
	"StockCast/pkg/util"
)

// Client fetches daily OHLCV history over the provider's chart HTTP API.
// Every call passes a local token bucket first so a burst of pipeline runs
// cannot trip the provider's rate limit.
type Client struct {
	http    *pkghttp.Client
	baseURL string
	limiter *ratelimit.Limiter
	rps     float64
	burst   float64
}

type Option func(*Client)

// WithRateLimit overrides the default requests-per-second budget.
func WithRateLimit(rps, burst float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.rps = rps
		}
		if burst > 0 {
			c.burst = burst
		}
	}
}

// New creates a market-data client for the chart endpoint at baseURL.
func New(httpClient *pkghttp.Client, baseURL string, limiter *ratelimit.Limiter, opts ...Option) domrepo.MarketData {
	c := &Client{
		http:    httpClient,
		baseURL: baseURL,
		limiter: limiter,
		rps:     2,
		burst:   5,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// chartResponse mirrors the provider's v8 chart payload, limited to the
// fields the pipeline consumes.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (c *Client) DailyBars(ctx context.Context, symbol string, from, to time.Time) ([]models.Bar, error) {
	if c.limiter != nil && !c.limiter.Allow("marketdata", c.burst, c.rps) {
		return nil, fmt.Errorf("market data %s: rate limited", symbol)
	}

	var body chartResponse
	err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: http.MethodGet,
		URL:    fmt.Sprintf("%s/%s", c.baseURL, symbol),
		QueryParams: map[string][]string{
			"period1":  {strconv.FormatInt(from.Unix(), 10)},
			"period2":  {strconv.FormatInt(to.Unix(), 10)},
			"interval": {"1d"},
		},
		Headers: map[string]string{
			"User-Agent": "stockcast/1.0",
		},
	}, &body)
	if err != nil {
		return nil, fmt.Errorf("market data %s: %w", symbol, err)
	}

	if body.Chart.Error != nil {
		return nil, fmt.Errorf("market data %s: %s: %s", symbol, body.Chart.Error.Code, body.Chart.Error.Description)
	}
	if len(body.Chart.Result) == 0 {
		return nil, fmt.Errorf("market data %s: empty result", symbol)
	}
	res := body.Chart.Result[0]
	if len(res.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("market data %s: missing quote block", symbol)
	}
	q := res.Indicators.Quote[0]

	n := len(res.Timestamp)
	for _, col := range [][]float64{q.Open, q.High, q.Low, q.Close, q.Volume} {
		if len(col) < n {
			n = len(col)
		}
	}

	bars := make([]models.Bar, 0, n)
	for i, ts := range res.Timestamp[:n] {
		// Null entries decode to zero; a zero close marks a non-trading row.
		if q.Close[i] == 0 {
			continue
		}
		bars = append(bars, models.Bar{
			Date:   util.Day(time.Unix(ts, 0).UTC()),
			Open:   q.Open[i],
			High:   q.High[i],
			Low:    q.Low[i],
			Close:  q.Close[i],
			Volume: q.Volume[i],
		})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("market data %s: no tradable rows", symbol)
	}
	return bars, nil
}
