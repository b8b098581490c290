package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/segmentio/kafka-go"
)

// Producer wraps a Kafka writer with publish metrics.
type Producer struct {
	writer *kafka.Writer
	comp   string
}

// NewProducer creates a Kafka producer.
func NewProducer(opts ...ProducerOption) (*Producer, error) {
	cfg := defaultProducerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("brokers are required")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     cfg.balancer(),
		RequiredAcks: kafka.RequiredAcks(cfg.RequiredAcks),
		Compression:  cfg.codec(),
		MaxAttempts:  cfg.MaxAttempts,
		WriteTimeout: cfg.WriteTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		BatchSize:    cfg.BatchSize,
		BatchBytes:   int64(cfg.BatchBytes),
		BatchTimeout: cfg.BatchTimeout,
		Async:        cfg.Async,
	}

	producerMetricsOnce.Do(registerProducerMetrics)
	return &Producer{writer: writer, comp: cfg.Compression}, nil
}

// Publish sends one message to topic. []byte and string values go out as-is;
// anything else is JSON-encoded.
func (p *Producer) Publish(ctx context.Context, topic string, key []byte, value interface{}) error {
	start := time.Now()

	var v []byte
	switch val := value.(type) {
	case []byte:
		v = val
	case string:
		v = []byte(val)
	default:
		var err error
		v, err = json.Marshal(value)
		if err != nil {
			return fmt.Errorf("marshal value: %w", err)
		}
	}

	err := p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   key,
		Value: v,
		Time:  time.Now(),
	})
	observePublish(topic, p.comp, int64(len(v)), time.Since(start), err)
	return err
}

// Close closes the producer.
func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

var (
	producerMetricsOnce sync.Once
	producerMsgsTotal   *prometheus.CounterVec
	producerErrsTotal   *prometheus.CounterVec
	producerBytesTotal  *prometheus.CounterVec
	producerLatencyHist *prometheus.HistogramVec
)

func registerProducerMetrics() {
	producerMsgsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockcast_kafka_producer_messages_total",
			Help: "Total messages published to Kafka",
		},
		[]string{"topic", "compression", "result"},
	)
	producerErrsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockcast_kafka_producer_errors_total",
			Help: "Total producer errors",
		},
		[]string{"topic"},
	)
	producerBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockcast_kafka_producer_bytes_total",
			Help: "Total payload bytes published",
		},
		[]string{"topic", "compression"},
	)
	producerLatencyHist = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stockcast_kafka_producer_publish_seconds",
			Help:    "Publish latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"topic"},
	)
}

func observePublish(topic, comp string, bytes int64, dur time.Duration, err error) {
	if producerMsgsTotal == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
		producerErrsTotal.WithLabelValues(topic).Inc()
	}
	producerMsgsTotal.WithLabelValues(topic, comp, result).Inc()
	producerBytesTotal.WithLabelValues(topic, comp).Add(float64(bytes))
	producerLatencyHist.WithLabelValues(topic).Observe(dur.Seconds())
}
