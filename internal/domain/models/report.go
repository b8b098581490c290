package models

import "time"

// Evaluation holds raw walk-forward scores before report shaping.
type Evaluation struct {
	FoldR2   []float64
	FoldMAE  []float64
	MeanR2   float64
	StdR2    float64
	MeanMAE  float64
	Degraded []string // feature columns degraded to identity scaling
}

// EvaluationReport is the walk-forward evaluation output for one model.
type EvaluationReport struct {
	Symbol      string    `json:"symbol"`
	Model       string    `json:"model"`
	Horizon     int       `json:"horizon"`
	Splits      int       `json:"splits"`
	Scaling     string    `json:"scaling"`
	FoldR2      []float64 `json:"fold_r2"`
	FoldMAE     []float64 `json:"fold_mae"`
	MeanR2      float64   `json:"mean_r2"`
	StdR2       float64   `json:"std_r2"`
	MeanMAE     float64   `json:"mean_mae"`
	Degraded    []string  `json:"degraded_features,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// ForecastPoint pairs a forward calendar date with a predicted close.
type ForecastPoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// ForecastReport is the horizon projection for one model.
type ForecastReport struct {
	Symbol      string             `json:"symbol"`
	Model       string             `json:"model"`
	Horizon     int                `json:"horizon"`
	Scaling     string             `json:"scaling"`
	Points      []ForecastPoint    `json:"points"`
	Importances map[string]float64 `json:"importances,omitempty"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// LeaderboardEntry is one model's standing after evaluating the whole registry.
type LeaderboardEntry struct {
	Model   string  `json:"model"`
	MeanR2  float64 `json:"mean_r2"`
	StdR2   float64 `json:"std_r2"`
	MeanMAE float64 `json:"mean_mae"`
	Err     string  `json:"error,omitempty"`
}

// Leaderboard ranks every registry model on one series, best mean R2 first.
type Leaderboard struct {
	Symbol      string             `json:"symbol"`
	Horizon     int                `json:"horizon"`
	Splits      int                `json:"splits"`
	Scaling     string             `json:"scaling"`
	Entries     []LeaderboardEntry `json:"entries"`
	GeneratedAt time.Time          `json:"generated_at"`
}
