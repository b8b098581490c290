package kafka

import (
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
)

func TestProducerConfigDefaults(t *testing.T) {
	cfg := defaultProducerConfig()
	if cfg.RequiredAcks != -1 || cfg.Compression != "gzip" || cfg.MaxAttempts != 3 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.BatchSize != 100 || cfg.BatchBytes != 1<<20 || cfg.BatchTimeout != time.Second {
		t.Fatalf("unexpected batch defaults: %+v", cfg)
	}
}

func TestWithBatchingKeepsDefaultsForZeroes(t *testing.T) {
	cfg := defaultProducerConfig()
	WithBatching(0, 0, 0)(&cfg)
	if cfg.BatchSize != 100 || cfg.BatchBytes != 1<<20 || cfg.BatchTimeout != time.Second {
		t.Fatalf("zero pieces must keep defaults: %+v", cfg)
	}

	WithBatching(50, 2048, 250*time.Millisecond)(&cfg)
	if cfg.BatchSize != 50 || cfg.BatchBytes != 2048 || cfg.BatchTimeout != 250*time.Millisecond {
		t.Fatalf("batching not applied: %+v", cfg)
	}
}

func TestProducerConfigCodec(t *testing.T) {
	cases := map[string]kafka.Compression{
		"snappy":  kafka.Snappy,
		"lz4":     kafka.Lz4,
		"zstd":    kafka.Zstd,
		"gzip":    kafka.Gzip,
		"unknown": kafka.Gzip,
	}
	for name, want := range cases {
		cfg := ProducerConfig{Compression: name}
		if got := cfg.codec(); got != want {
			t.Fatalf("%s: codec %v, want %v", name, got, want)
		}
	}
}

func TestProducerConfigBalancer(t *testing.T) {
	keyed := ProducerConfig{HashByKey: true}
	if _, ok := keyed.balancer().(*kafka.Hash); !ok {
		t.Fatalf("keyed config must hash by key")
	}
	spread := ProducerConfig{}
	if _, ok := spread.balancer().(*kafka.LeastBytes); !ok {
		t.Fatalf("default balancer must spread by load")
	}
}
