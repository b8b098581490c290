package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"StockCast/internal/domain/models"
	xcache "StockCast/pkg/cache"
	applogger "StockCast/pkg/logger"
	"StockCast/pkg/queue"
)

// LeaderboardJobType is the queue message type for async leaderboard runs.
const LeaderboardJobType = "leaderboard.run"

// leaderboardResultTTL bounds how long a finished board stays fetchable.
const leaderboardResultTTL = time.Hour

// LeaderboardJob runs a full-registry evaluation off the request path. The
// HTTP handler enqueues the request and returns immediately; the finished
// board lands in the cache under a deterministic key.
type LeaderboardJob struct {
	pipeline *PredictionPipeline
	cache    xcache.Service
	log      *applogger.Logger
}

func NewLeaderboardJob(pipeline *PredictionPipeline, cache xcache.Service, log *applogger.Logger) *LeaderboardJob {
	return &LeaderboardJob{pipeline: pipeline, cache: cache, log: log}
}

func (j *LeaderboardJob) Name() string { return "leaderboard" }

func (j *LeaderboardJob) Type() string { return LeaderboardJobType }

func (j *LeaderboardJob) Handle(ctx context.Context, payload interface{}) error {
	req, err := queue.ParsePayload[models.LeaderboardRequest](payload)
	if err != nil {
		return fmt.Errorf("leaderboard job payload: %w", err)
	}

	board, err := j.pipeline.Leaderboard(ctx, req)
	if err != nil {
		return fmt.Errorf("leaderboard job %s: %w", req.Symbol, err)
	}

	if j.cache != nil {
		b, err := json.Marshal(board)
		if err != nil {
			return fmt.Errorf("leaderboard job marshal: %w", err)
		}
		key := LeaderboardResultKey(req)
		if err := j.cache.Set(ctx, key, string(b), leaderboardResultTTL); err != nil {
			return fmt.Errorf("leaderboard job store: %w", err)
		}
	}

	if j.log != nil {
		j.log.Info("leaderboard job finished",
			applogger.String("symbol", req.Symbol),
			applogger.Int("entries", len(board.Entries)),
		)
	}
	return nil
}

// LeaderboardResultKey is where an async leaderboard run parks its result.
func LeaderboardResultKey(req *models.LeaderboardRequest) string {
	return xcache.GenerateKeyWithParams("leaderboard", req.Symbol, req.Horizon, req.Splits, req.Scaling, req.Duration)
}
