package logger

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Publisher receives flushed log batches. The job queue satisfies this.
type Publisher interface {
	PublishMessage(ctx context.Context, topic string, payload interface{}) error
}

// CollectionConfig tunes when the collector flushes.
type CollectionConfig struct {
	TimeInterval   time.Duration // flush interval
	CountThreshold int           // max distinct entries before an early flush
	Topic          string        // message type for published batches
	Publisher      Publisher
}

// AggregatedLogEntry is one distinct error with its occurrence window.
type AggregatedLogEntry struct {
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields"`
	Caller    string                 `json:"caller"`
	Count     int                    `json:"count"`
	FirstSeen time.Time              `json:"first_seen"`
	LastSeen  time.Time              `json:"last_seen"`
}

// LogCollector deduplicates error logs by content hash and flushes batches
// to the Publisher on a timer or when the map grows past the threshold.
type LogCollector struct {
	config  *CollectionConfig
	entries map[string]*AggregatedLogEntry
	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewLogCollector(config *CollectionConfig) *LogCollector {
	ctx, cancel := context.WithCancel(context.Background())

	c := &LogCollector{
		config:  config,
		entries: make(map[string]*AggregatedLogEntry),
		ctx:     ctx,
		cancel:  cancel,
	}

	c.wg.Add(1)
	go c.flushLoop()

	return c
}

// AddLog records one occurrence of a log line.
func (c *LogCollector) AddLog(level, message string, fields map[string]interface{}, caller string) {
	now := time.Now()
	key := entryKey(level, message, fields, caller)

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, exists := c.entries[key]; exists {
		entry.Count++
		entry.LastSeen = now
	} else {
		c.entries[key] = &AggregatedLogEntry{
			Level:     level,
			Message:   message,
			Fields:    fields,
			Caller:    caller,
			Count:     1,
			FirstSeen: now,
			LastSeen:  now,
		}
	}

	if len(c.entries) >= c.config.CountThreshold {
		c.flushLocked()
	}
}

// Close flushes pending entries and stops the loop.
func (c *LogCollector) Close() {
	c.cancel()
	c.wg.Wait()
}

func entryKey(level, message string, fields map[string]interface{}, caller string) string {
	data := struct {
		Level   string                 `json:"level"`
		Message string                 `json:"message"`
		Fields  map[string]interface{} `json:"fields"`
		Caller  string                 `json:"caller"`
	}{level, message, fields, caller}

	jsonData, _ := json.Marshal(data)
	hash := sha256.Sum256(jsonData)
	return fmt.Sprintf("%x", hash)
}

func (c *LogCollector) flushLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.TimeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			c.flushLocked()
			c.mu.Unlock()
		case <-c.ctx.Done():
			c.mu.Lock()
			c.flushLocked()
			c.mu.Unlock()
			return
		}
	}
}

// flushLocked hands the current batch to the publisher. Caller holds mu.
func (c *LogCollector) flushLocked() {
	if len(c.entries) == 0 {
		return
	}

	logs := make([]AggregatedLogEntry, 0, len(c.entries))
	for _, entry := range c.entries {
		logs = append(logs, *entry)
	}
	c.entries = make(map[string]*AggregatedLogEntry)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := c.config.Publisher.PublishMessage(ctx, c.config.Topic, logs); err != nil {
			fmt.Printf("failed to publish aggregated logs: %v\n", err)
		}
	}()
}
