package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// QueueService is the producer surface. Anything that can publish a typed
// payload satisfies it, which lets the log collector reuse the job queue.
type QueueService interface {
	PublishMessage(ctx context.Context, msgType string, payload interface{}) error
}

// Job is the consumer surface: one registered handler per message type.
// Name labels the job in logs, Type selects the messages it consumes, and
// Handle processes one payload at a time.
type Job interface {
	Name() string
	Type() string
	Handle(ctx context.Context, payload interface{}) error
}

// QueueConfig holds worker pool and retry settings.
type QueueConfig struct {
	Workers    int           // worker goroutines
	QueueSize  int           // max pending messages, 0 means unbounded
	RetryLimit int           // max retries before the dead letter list
	RetryDelay time.Duration // delay between retries
}

// Message is the wire form of one queued payload.
type Message struct {
	ID        string
	Type      string
	Payload   interface{}
	Attempts  int
	Timestamp time.Time
}

// ParsePayload recovers a typed payload from whatever shape the queue
// delivered it in. Locally published payloads arrive as *T or T; payloads
// that crossed Redis arrive as json.RawMessage or a generic map.
func ParsePayload[T any](payload interface{}) (*T, error) {
	var result T

	switch p := payload.(type) {
	case *T:
		return p, nil
	case T:
		return &p, nil
	case json.RawMessage:
		if err := json.Unmarshal(p, &result); err != nil {
			return nil, fmt.Errorf("unmarshal payload: %w", err)
		}
		return &result, nil
	case map[string]interface{}, []interface{}:
		jsonData, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		if err := json.Unmarshal(jsonData, &result); err != nil {
			return nil, fmt.Errorf("unmarshal payload: %w", err)
		}
		return &result, nil
	default:
		return nil, fmt.Errorf("invalid payload type: %T", payload)
	}
}
