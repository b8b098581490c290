package models

import (
	"fmt"
	"time"
)

// Bar represents a single daily OHLCV record.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Series is an ordered daily bar sequence for one instrument.
// Bars must be strictly increasing by date with no duplicates.
type Series struct {
	Symbol string `json:"symbol"`
	Bars   []Bar  `json:"bars"`
}

// Len returns the number of bars.
func (s Series) Len() int { return len(s.Bars) }

// Closes returns the close-price column.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// LastDate returns the date of the most recent bar, or zero time if empty.
func (s Series) LastDate() time.Time {
	if len(s.Bars) == 0 {
		return time.Time{}
	}
	return s.Bars[len(s.Bars)-1].Date
}

// Validate checks the fundamental series invariant: strictly increasing
// dates, no duplicates, non-negative volume.
func (s Series) Validate() error {
	for i, b := range s.Bars {
		if b.Volume < 0 {
			return fmt.Errorf("%w: negative volume at %s", ErrInvalidSeries, b.Date.Format("2006-01-02"))
		}
		if i == 0 {
			continue
		}
		prev := s.Bars[i-1].Date
		if !b.Date.After(prev) {
			if b.Date.Equal(prev) {
				return fmt.Errorf("%w: duplicate date %s", ErrInvalidSeries, b.Date.Format("2006-01-02"))
			}
			return fmt.Errorf("%w: dates out of order at index %d", ErrInvalidSeries, i)
		}
	}
	return nil
}

// Quote is a realtime price tick used for cache invalidation.
type Quote struct {
	Symbol string    `json:"symbol"`
	Price  float64   `json:"price"`
	Time   time.Time `json:"time"`
}
