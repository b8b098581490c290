package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"StockCast/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// QueueMode selects which halves of the queue run.
type QueueMode int

const (
	ModeProducerConsumer QueueMode = iota
	ModeProducerOnly
	ModeConsumerOnly
)

// RedisQueue is a Redis-list backed job queue with delayed retries and a
// dead letter list. One instance can produce, consume, or both.
type RedisQueue struct {
	logger    *logger.Logger
	config    *QueueConfig
	client    *redis.Client
	jobs      map[string]Job
	wg        sync.WaitGroup
	mu        sync.RWMutex
	running   bool
	stopCh    chan struct{}
	mode      QueueMode
	ctx       context.Context
	cancel    context.CancelFunc
	keyPrefix string
}

// RedisQueueOption configures RedisQueue.
type RedisQueueOption func(*RedisQueue)

// WithKeyPrefix overrides the Redis key prefix.
func WithKeyPrefix(prefix string) RedisQueueOption {
	return func(r *RedisQueue) {
		r.keyPrefix = prefix
	}
}

// NewRedisQueue creates a queue over an existing Redis client.
func NewRedisQueue(lgr *logger.Logger, config *QueueConfig, client *redis.Client, mode QueueMode, opts ...RedisQueueOption) *RedisQueue {
	if config == nil {
		config = &QueueConfig{}
	}
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = 10 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())

	rq := &RedisQueue{
		logger:    lgr,
		config:    config,
		client:    client,
		jobs:      make(map[string]Job),
		stopCh:    make(chan struct{}),
		mode:      mode,
		ctx:       ctx,
		cancel:    cancel,
		keyPrefix: "stockcast:queue",
	}

	for _, opt := range opts {
		opt(rq)
	}

	return rq
}

// RegisterJob maps a message type to its handler. No-op in producer mode.
func (r *RedisQueue) RegisterJob(job Job) {
	if r.mode == ModeProducerOnly {
		r.logger.Warn("job registration ignored in producer-only mode",
			logger.String("job", job.Name()))
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.jobs[job.Type()]; exists {
		r.logger.Warn("job already registered", logger.String("job", job.Name()))
		return
	}

	r.jobs[job.Type()] = job
	r.logger.Info("job registered",
		logger.String("job", job.Name()),
		logger.String("type", job.Type()))
}

// Start verifies the connection and launches workers plus the retry
// processor in consumer modes.
func (r *RedisQueue) Start() error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return fmt.Errorf("queue already running")
	}
	r.running = true
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.client.Ping(ctx).Err(); err != nil {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
		return fmt.Errorf("redis ping: %w", err)
	}

	if r.mode == ModeProducerOnly {
		r.logger.Info("redis publisher started",
			logger.String("addr", r.client.Options().Addr))
		return nil
	}

	for i := 0; i < r.config.Workers; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}
	r.wg.Add(1)
	go r.retryProcessor()

	r.logger.Info("redis queue started",
		logger.Int("workers", r.config.Workers),
		logger.String("addr", r.client.Options().Addr),
		logger.String("mode", r.modeString()))

	return nil
}

// Stop drains workers, bounded by ctx.
func (r *RedisQueue) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = false
	r.logger.Info("stopping redis queue...")
	r.cancel()

	if r.mode != ModeProducerOnly {
		close(r.stopCh)
	}
	r.mu.Unlock()

	doneCh := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(doneCh)
	}()

	select {
	case <-ctx.Done():
		r.logger.Warn("timeout waiting for queue workers", logger.Error(ctx.Err()))
		return fmt.Errorf("timeout: %w", ctx.Err())
	case <-doneCh:
		r.logger.Info("redis queue stopped gracefully")
		return nil
	}
}

// PublishMessage enqueues a typed payload. When QueueSize is set, publishing
// into a full queue fails instead of growing the backlog.
func (r *RedisQueue) PublishMessage(ctx context.Context, msgType string, payload interface{}) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.running {
		return fmt.Errorf("queue not running")
	}

	if r.mode != ModeProducerOnly {
		if _, exists := r.jobs[msgType]; !exists {
			return fmt.Errorf("no job registered for type: %s", msgType)
		}
	}

	if r.config.QueueSize > 0 {
		pending, err := r.client.LLen(ctx, r.queueKey()).Result()
		if err == nil && pending >= int64(r.config.QueueSize) {
			return fmt.Errorf("queue full: %d pending", pending)
		}
	}

	msg := Message{
		ID:        fmt.Sprintf("%d", time.Now().UnixNano()),
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now(),
		Attempts:  0,
	}

	msgData, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	if err := r.client.LPush(ctx, r.queueKey(), msgData).Err(); err != nil {
		return fmt.Errorf("lpush: %w", err)
	}

	return nil
}

func (r *RedisQueue) worker(id int) {
	defer r.wg.Done()
	r.logger.Info("queue worker started", logger.Int("worker_id", id))

	for {
		select {
		case <-r.stopCh:
			r.logger.Info("queue worker stopping", logger.Int("worker_id", id))
			return
		case <-r.ctx.Done():
			return
		default:
			r.processNext()
		}
	}
}

func (r *RedisQueue) processNext() {
	ctx, cancel := context.WithTimeout(r.ctx, 1*time.Second)
	defer cancel()

	result, err := r.client.BRPop(ctx, 1*time.Second, r.queueKey()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return
		}
		r.logger.Error("brpop error", logger.Error(err))
		time.Sleep(1 * time.Second)
		return
	}

	if len(result) < 2 {
		return
	}

	var msg Message
	if err := json.Unmarshal([]byte(result[1]), &msg); err != nil {
		r.logger.Error("unmarshal message", logger.Error(err))
		return
	}

	r.dispatch(msg)
}

func (r *RedisQueue) dispatch(msg Message) {
	job, exists := r.jobs[msg.Type]
	if !exists {
		r.logger.Error("no job found",
			logger.String("type", msg.Type),
			logger.String("id", msg.ID))
		return
	}

	start := time.Now()
	err := job.Handle(r.ctx, rawPayload(msg.Payload))
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(err, context.Canceled) {
			r.logger.Warn("message cancelled",
				logger.String("id", msg.ID),
				logger.String("job", job.Name()),
				logger.Int64("elapsed_ms", elapsed.Milliseconds()))
			return
		}
		r.retryOrBury(msg, job, err)
	}
}

// rawPayload re-marshals generic maps so handlers can json-decode into their
// own types via ParsePayload.
func rawPayload(payload interface{}) interface{} {
	payloadMap, ok := payload.(map[string]interface{})
	if !ok {
		return payload
	}

	jsonBytes, err := json.Marshal(payloadMap)
	if err != nil {
		return payload
	}

	return json.RawMessage(jsonBytes)
}

func (r *RedisQueue) retryOrBury(msg Message, job Job, err error) {
	r.logger.Error("message processing error",
		logger.String("id", msg.ID),
		logger.String("job", job.Name()),
		logger.Int("attempt", msg.Attempts+1),
		logger.Error(err))

	if msg.Attempts >= r.config.RetryLimit {
		r.logger.Error("max retries reached",
			logger.String("id", msg.ID),
			logger.String("job", job.Name()))
		r.bury(msg)
		return
	}

	msg.Attempts++
	retryTime := time.Now().Add(r.config.RetryDelay)

	msgData, err := json.Marshal(msg)
	if err != nil {
		r.logger.Error("marshal retry", logger.Error(err))
		return
	}

	if err := r.client.ZAdd(context.Background(), r.retryKey(), redis.Z{
		Score:  float64(retryTime.Unix()),
		Member: msgData,
	}).Err(); err != nil {
		r.logger.Error("zadd retry", logger.Error(err))
		return
	}

	r.logger.Info("scheduled retry",
		logger.String("id", msg.ID),
		logger.String("job", job.Name()),
		logger.Int("attempt", msg.Attempts),
		logger.String("retry_at", retryTime.Format(time.RFC3339)))
}

func (r *RedisQueue) bury(msg Message) {
	msgData, err := json.Marshal(msg)
	if err != nil {
		r.logger.Error("marshal dlq", logger.Error(err))
		return
	}

	if err := r.client.LPush(context.Background(), r.deadLetterKey(), msgData).Err(); err != nil {
		r.logger.Error("lpush dlq", logger.Error(err))
	}
}

// retryProcessor periodically moves due retries back onto the main list.
func (r *RedisQueue) retryProcessor() {
	defer r.wg.Done()
	r.logger.Info("retry processor started")

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			r.logger.Info("retry processor stopping")
			return
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.requeueDueRetries()
		}
	}
}

func (r *RedisQueue) requeueDueRetries() {
	now := float64(time.Now().Unix())

	result, err := r.client.ZRangeByScoreWithScores(r.ctx, r.retryKey(), &redis.ZRangeBy{
		Min: "0",
		Max: strconv.FormatFloat(now, 'f', 0, 64),
	}).Result()

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		r.logger.Error("fetch retry messages", logger.Error(err))
		return
	}

	for _, z := range result {
		select {
		case <-r.ctx.Done():
			return
		default:
		}

		msgData := z.Member.(string)

		pipe := r.client.TxPipeline()
		pipe.ZRem(r.ctx, r.retryKey(), msgData)
		pipe.LPush(r.ctx, r.queueKey(), msgData)

		if _, err := pipe.Exec(r.ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			r.logger.Error("move retry to queue", logger.Error(err))
		}
	}
}

func (r *RedisQueue) modeString() string {
	switch r.mode {
	case ModeProducerOnly:
		return "producer-only"
	case ModeConsumerOnly:
		return "consumer-only"
	default:
		return "producer-consumer"
	}
}

func (r *RedisQueue) queueKey() string {
	return fmt.Sprintf("%s:messages", r.keyPrefix)
}

func (r *RedisQueue) retryKey() string {
	return fmt.Sprintf("%s:retry", r.keyPrefix)
}

func (r *RedisQueue) deadLetterKey() string {
	return fmt.Sprintf("%s:dlq", r.keyPrefix)
}
