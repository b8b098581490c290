package middleware

import (
	"context"
	"sync"
	"testing"
	"time"

	"StockCast/internal/domain/models"
)

type countingProc struct {
	mu    sync.Mutex
	seen  []string
	fail  bool
	calls int
}

func (p *countingProc) Process(_ context.Context, q *models.Quote) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.fail {
		return context.DeadlineExceeded
	}
	p.seen = append(p.seen, q.Symbol)
	return nil
}

func (p *countingProc) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func TestQuotePipelineForwards(t *testing.T) {
	proc := &countingProc{}
	p := NewQuotePipeline(proc, nil)

	q := &models.Quote{Symbol: "AAPL", Price: 101.5, Time: time.Now()}
	if err := p.Process(context.Background(), q); err != nil {
		t.Fatalf("process: %v", err)
	}
	if proc.count() != 1 {
		t.Fatalf("expected 1 downstream call, got %d", proc.count())
	}
}

func TestQuotePipelineValidates(t *testing.T) {
	proc := &countingProc{}
	p := NewQuotePipeline(proc, nil)

	if err := p.Process(context.Background(), nil); err == nil {
		t.Fatalf("nil quote must fail")
	}
	if err := p.Process(context.Background(), &models.Quote{Price: 10}); err == nil {
		t.Fatalf("empty symbol must fail")
	}
	if err := p.Process(context.Background(), &models.Quote{Symbol: "X", Price: 0}); err == nil {
		t.Fatalf("non-positive price must fail")
	}
	if proc.count() != 0 {
		t.Fatalf("invalid quotes must not reach downstream")
	}
}

func TestQuotePipelineThrottlesPerSymbol(t *testing.T) {
	proc := &countingProc{}
	p := NewQuotePipeline(proc, nil, WithMinInterval(time.Hour))

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_ = p.Process(ctx, &models.Quote{Symbol: "AAPL", Price: 100})
	}
	_ = p.Process(ctx, &models.Quote{Symbol: "MSFT", Price: 200})

	// One accepted tick per symbol within the interval.
	if proc.count() != 2 {
		t.Fatalf("expected 2 accepted ticks, got %d", proc.count())
	}
}

func TestQuotePipelineBuffersOnFailure(t *testing.T) {
	proc := &countingProc{fail: true}
	p := NewQuotePipeline(proc, nil, WithQuoteBuffer(4))

	err := p.Process(context.Background(), &models.Quote{Symbol: "AAPL", Price: 100})
	if err == nil {
		t.Fatalf("downstream failure must surface")
	}
	if len(p.bufCh) != 1 {
		t.Fatalf("failed quote should be buffered, depth %d", len(p.bufCh))
	}
}

func TestQuotePipelineStartStopIdempotent(t *testing.T) {
	p := NewQuotePipeline(&countingProc{}, nil)
	ctx := context.Background()
	p.Start(ctx)
	p.Start(ctx) // second start is a no-op
	p.Stop()
	p.Stop() // second stop is a no-op
}
