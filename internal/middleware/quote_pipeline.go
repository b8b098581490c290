package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
)

// QuoteProc is the downstream a quote pipeline feeds.
type QuoteProc interface {
	Process(ctx context.Context, q *models.Quote) error
}

// QuotePipeline sits between the realtime quote stream and cache
// invalidation. It validates ticks, throttles per symbol so a busy tape
// cannot stampede the cache, and buffers when downstream errors.
type QuotePipeline struct {
	proc     QuoteProc
	metrics  domrepo.Metrics
	interval time.Duration // min gap between accepted ticks per symbol
	bufCh    chan *models.Quote
	stopCh   chan struct{}
	started  bool
	mu       sync.Mutex
	lastSeen map[string]time.Time
}

type QuoteOption func(*QuotePipeline)

// WithMinInterval sets the minimum gap between accepted ticks for a symbol.
func WithMinInterval(d time.Duration) QuoteOption {
	return func(p *QuotePipeline) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithQuoteBuffer sets the retry buffer capacity.
func WithQuoteBuffer(n int) QuoteOption {
	return func(p *QuotePipeline) {
		if n > 0 {
			p.bufCh = make(chan *models.Quote, n)
		}
	}
}

func NewQuotePipeline(proc QuoteProc, metrics domrepo.Metrics, opts ...QuoteOption) *QuotePipeline {
	p := &QuotePipeline{
		proc:     proc,
		metrics:  metrics,
		interval: time.Second,
		bufCh:    make(chan *models.Quote, 256),
		stopCh:   make(chan struct{}),
		lastSeen: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the background flush of buffered quotes.
func (p *QuotePipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		backoff := 50 * time.Millisecond
		for {
			select {
			case <-p.stopCh:
				return
			case q := <-p.bufCh:
				if q == nil {
					continue
				}
				if err := p.proc.Process(ctx, q); err != nil {
					if backoff < 2*time.Second {
						backoff *= 2
					}
					p.recordError("quote_flush")
					time.Sleep(backoff)
					select {
					case p.bufCh <- q:
					default:
						p.recordError("quote_buffer_drop")
					}
				} else {
					backoff = 50 * time.Millisecond
				}
			}
		}
	}()
}

// Stop halts the background flush.
func (p *QuotePipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

// Process validates and throttles a tick, forwarding it downstream and
// buffering on downstream failure. Throttled ticks are dropped quietly.
func (p *QuotePipeline) Process(ctx context.Context, q *models.Quote) error {
	now := time.Now()
	if err := validateQuote(q); err != nil {
		p.recordError("quote_validate")
		return err
	}
	if !p.allow(q.Symbol, now) {
		return nil
	}

	if err := p.proc.Process(ctx, q); err != nil {
		p.recordError("quote_process")
		select {
		case p.bufCh <- q:
		default:
			p.recordError("quote_buffer_full")
		}
		return fmt.Errorf("quote downstream: %w", err)
	}
	if p.metrics != nil {
		p.metrics.RecordLatency("quote_process", time.Since(now).Seconds())
	}
	return nil
}

func validateQuote(q *models.Quote) error {
	if q == nil {
		return fmt.Errorf("quote nil")
	}
	if q.Symbol == "" {
		return fmt.Errorf("symbol empty")
	}
	if q.Price <= 0 {
		return fmt.Errorf("price invalid")
	}
	return nil
}

func (p *QuotePipeline) allow(symbol string, now time.Time) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	last := p.lastSeen[symbol]
	if !last.IsZero() && now.Sub(last) < p.interval {
		return false
	}
	p.lastSeen[symbol] = now
	return true
}

func (p *QuotePipeline) recordError(kind string) {
	if p.metrics != nil {
		p.metrics.RecordError(kind)
	}
}
