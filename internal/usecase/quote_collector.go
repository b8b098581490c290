package usecase

import (
	"context"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	mid "StockCast/internal/middleware"
)

// QuoteHandler reacts to an accepted realtime tick: it drops cached series
// for the symbol so the next pipeline run refetches, and records the price.
type QuoteHandler struct {
	loader  *SeriesLoader
	metrics domrepo.Metrics
}

func NewQuoteHandler(loader *SeriesLoader, metrics domrepo.Metrics) *QuoteHandler {
	return &QuoteHandler{loader: loader, metrics: metrics}
}

func (h *QuoteHandler) Process(ctx context.Context, q *models.Quote) error {
	if err := h.loader.Invalidate(ctx, q.Symbol); err != nil {
		return err
	}
	if h.metrics != nil {
		h.metrics.RecordLastPrice(q.Symbol, q.Price)
	}
	return nil
}

// QuoteCollector drains the realtime quote stream through the quote pipeline.
type QuoteCollector struct {
	stream  domrepo.QuoteStream
	metrics domrepo.Metrics
	pipe    *mid.QuotePipeline
}

func NewQuoteCollector(stream domrepo.QuoteStream, metrics domrepo.Metrics, pipe *mid.QuotePipeline) *QuoteCollector {
	return &QuoteCollector{stream: stream, metrics: metrics, pipe: pipe}
}

// IsConnected reports whether the upstream socket is live.
func (c *QuoteCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *QuoteCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	c.pipe.Start(ctx)
	qCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, qCh, errCh)
	return nil
}

func (c *QuoteCollector) consume(ctx context.Context, qCh <-chan *models.Quote, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				if c.metrics != nil {
					c.metrics.RecordError("stream")
				}
				_ = c.stream.Reconnect(ctx)
			}
		case q := <-qCh:
			if q == nil {
				continue
			}
			_ = c.pipe.Process(ctx, q)
		}
	}
}

// Shutdown stops the pipeline and closes the stream.
func (c *QuoteCollector) Shutdown(ctx context.Context) error {
	c.pipe.Stop()
	return c.stream.Close()
}
