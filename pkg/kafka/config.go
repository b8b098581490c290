package kafka

import (
	"time"

	"github.com/segmentio/kafka-go"
)

// ProducerOption configures Producer.
type ProducerOption func(*ProducerConfig)

// ProducerConfig holds writer settings.
type ProducerConfig struct {
	Brokers      []string
	RequiredAcks int
	Compression  string
	MaxAttempts  int
	WriteTimeout time.Duration
	ReadTimeout  time.Duration
	BatchSize    int
	BatchBytes   int
	BatchTimeout time.Duration
	Async        bool
	HashByKey    bool
}

func defaultProducerConfig() ProducerConfig {
	return ProducerConfig{
		RequiredAcks: -1,
		Compression:  "gzip",
		MaxAttempts:  3,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
		BatchSize:    100,
		BatchBytes:   1 << 20,
		BatchTimeout: time.Second,
	}
}

// codec maps the configured compression name onto the writer codec, gzip
// when the name is unknown.
func (c *ProducerConfig) codec() kafka.Compression {
	switch c.Compression {
	case "snappy":
		return kafka.Snappy
	case "lz4":
		return kafka.Lz4
	case "zstd":
		return kafka.Zstd
	default:
		return kafka.Gzip
	}
}

// balancer keys one symbol onto one partition when HashByKey is set, so
// per-symbol ordering survives; otherwise writes spread by partition load.
func (c *ProducerConfig) balancer() kafka.Balancer {
	if c.HashByKey {
		return &kafka.Hash{}
	}
	return &kafka.LeastBytes{}
}

// WithBrokers sets the broker list.
func WithBrokers(brokers []string) ProducerOption {
	return func(c *ProducerConfig) {
		c.Brokers = brokers
	}
}

// WithCompression sets the compression codec name.
func WithCompression(compression string) ProducerOption {
	return func(c *ProducerConfig) {
		c.Compression = compression
	}
}

// WithRequiredAcks sets required acknowledgements, -1 meaning all replicas.
func WithRequiredAcks(acks int) ProducerOption {
	return func(c *ProducerConfig) {
		c.RequiredAcks = acks
	}
}

// WithMaxAttempts caps writer retries.
func WithMaxAttempts(n int) ProducerOption {
	return func(c *ProducerConfig) {
		c.MaxAttempts = n
	}
}

// WithBatching tunes the writer batch: message count, aggregate bytes and
// the linger before a partial batch flushes. Non-positive pieces keep their
// defaults.
func WithBatching(size, bytes int, linger time.Duration) ProducerOption {
	return func(c *ProducerConfig) {
		if size > 0 {
			c.BatchSize = size
		}
		if bytes > 0 {
			c.BatchBytes = bytes
		}
		if linger > 0 {
			c.BatchTimeout = linger
		}
	}
}

// WithTimeouts sets writer write and read timeouts.
func WithTimeouts(write, read time.Duration) ProducerOption {
	return func(c *ProducerConfig) {
		c.WriteTimeout = write
		c.ReadTimeout = read
	}
}

// WithAsync toggles fire-and-forget writes.
func WithAsync(async bool) ProducerOption {
	return func(c *ProducerConfig) {
		c.Async = async
	}
}

// WithHashByKey switches to the key-hash balancer.
func WithHashByKey(hash bool) ProducerOption {
	return func(c *ProducerConfig) {
		c.HashByKey = hash
	}
}
