package models

// Requests for pipeline HTTP endpoints. Defined in domain for consistency and reuse.

type EvaluateRequest struct {
	Symbol   string  `query:"symbol" json:"symbol" validate:"required"`
	Model    string  `query:"model" json:"model" default:"Linear Regression"`
	Horizon  int     `query:"horizon" json:"horizon" default:"5" validate:"gte=1,lte=30"`
	Splits   int     `query:"splits" json:"splits" default:"5" validate:"gte=2,lte=20"`
	Scaling  string  `query:"scaling" json:"scaling" default:"standard" validate:"oneof=none standard robust minmax"`
	Duration int     `query:"duration" json:"duration" default:"365" validate:"gte=30,lte=3650"`
	Holdout  float64 `query:"holdout" json:"holdout" default:"0" validate:"gte=0,lt=1"`
}

type ForecastRequest struct {
	Symbol   string `query:"symbol" json:"symbol" validate:"required"`
	Model    string `query:"model" json:"model" default:"Linear Regression"`
	Horizon  int    `query:"horizon" json:"horizon" default:"5" validate:"gte=1,lte=30"`
	Scaling  string `query:"scaling" json:"scaling" default:"standard" validate:"oneof=none standard robust minmax"`
	Duration int    `query:"duration" json:"duration" default:"365" validate:"gte=30,lte=3650"`
}

type LeaderboardRequest struct {
	Symbol   string `query:"symbol" json:"symbol" validate:"required"`
	Horizon  int    `query:"horizon" json:"horizon" default:"5" validate:"gte=1,lte=30"`
	Splits   int    `query:"splits" json:"splits" default:"5" validate:"gte=2,lte=20"`
	Scaling  string `query:"scaling" json:"scaling" default:"standard" validate:"oneof=none standard robust minmax"`
	Duration int    `query:"duration" json:"duration" default:"365" validate:"gte=30,lte=3650"`
	Async    bool   `query:"async" json:"async" default:"false"`
}

type RecentRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	N      int    `query:"n" json:"n" default:"10" validate:"gte=1,lte=500"`
	From   string `query:"from" json:"from,omitempty"`
}
