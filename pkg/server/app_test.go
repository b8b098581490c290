package server

import (
	"testing"

	"StockCast/pkg/config"
)

func warmupConfig() *config.Config {
	cfg := &config.Config{}
	cfg.MarketData.Symbols = []string{"AAPL", "MSFT"}
	cfg.Pipeline.DefaultHorizon = 5
	cfg.Pipeline.DefaultSplits = 5
	cfg.Pipeline.DefaultScaling = "standard"
	cfg.Pipeline.DefaultDuration = 365
	return cfg
}

func TestWarmupRequestsFromDefaults(t *testing.T) {
	reqs := warmupRequests(warmupConfig())
	if len(reqs) != 2 {
		t.Fatalf("expected one request per symbol, got %d", len(reqs))
	}
	for _, r := range reqs {
		if r.Horizon != 5 || r.Splits != 5 || r.Scaling != "standard" || r.Duration != 365 {
			t.Fatalf("defaults not applied: %+v", r)
		}
		if !r.Async {
			t.Fatalf("warmup must run through the queue")
		}
	}
	if reqs[0].Symbol != "AAPL" || reqs[1].Symbol != "MSFT" {
		t.Fatalf("symbols out of order: %+v", reqs)
	}
}

func TestWarmupDisabledWithoutDefaults(t *testing.T) {
	cfg := warmupConfig()
	cfg.Pipeline.DefaultHorizon = 0
	if reqs := warmupRequests(cfg); reqs != nil {
		t.Fatalf("missing defaults must disable the warmup, got %d requests", len(reqs))
	}

	cfg = warmupConfig()
	cfg.Pipeline.DefaultSplits = 1
	if reqs := warmupRequests(cfg); reqs != nil {
		t.Fatalf("a single split cannot walk forward, got %d requests", len(reqs))
	}
}
