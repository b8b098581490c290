package usecase

import (
	"context"
	"fmt"

	applogger "StockCast/pkg/logger"
	"StockCast/pkg/queue"
)

// AggregatedLogTopic is the message type the logger's collector publishes
// batches of deduplicated error logs under.
const AggregatedLogTopic = "logs.aggregated"

// LogDrainJob consumes aggregated error batches and re-emits them as one
// compact warn line per distinct error. Warn level keeps the drain out of
// the collector's own intake.
type LogDrainJob struct {
	log *applogger.Logger
}

func NewLogDrainJob(log *applogger.Logger) *LogDrainJob {
	return &LogDrainJob{log: log}
}

func (j *LogDrainJob) Name() string { return "log-drain" }

func (j *LogDrainJob) Type() string { return AggregatedLogTopic }

func (j *LogDrainJob) Handle(_ context.Context, payload interface{}) error {
	entries, err := queue.ParsePayload[[]applogger.AggregatedLogEntry](payload)
	if err != nil {
		return fmt.Errorf("parse aggregated logs: %w", err)
	}

	for _, e := range *entries {
		j.log.Warn("aggregated error",
			applogger.String("message", e.Message),
			applogger.String("caller", e.Caller),
			applogger.Int("count", e.Count),
			applogger.String("first_seen", e.FirstSeen.Format("15:04:05")),
			applogger.String("last_seen", e.LastSeen.Format("15:04:05")),
		)
	}
	return nil
}
