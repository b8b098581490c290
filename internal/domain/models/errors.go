package models

import "errors"

// Pipeline failure taxonomy. All pipeline stages wrap these sentinels with
// stage/model/fold context so callers can errors.Is on them.
var (
	// ErrInvalidSeries marks non-monotonic or duplicate dates in the input.
	ErrInvalidSeries = errors.New("invalid series")

	// ErrInsufficientHistory marks too few rows for the requested
	// lookback, horizon or split count.
	ErrInsufficientHistory = errors.New("insufficient history")

	// ErrUnknownModel marks a registry lookup with a bad model name.
	ErrUnknownModel = errors.New("unknown model")
)
