package models

import (
	"errors"
	"testing"
	"time"
)

func day(n int) time.Time {
	return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestSeriesValidate(t *testing.T) {
	s := Series{Symbol: "OK", Bars: []Bar{
		{Date: day(0), Close: 10, Volume: 1},
		{Date: day(1), Close: 11, Volume: 2},
		{Date: day(3), Close: 12, Volume: 0}, // gaps are fine
	}}
	if err := s.Validate(); err != nil {
		t.Fatalf("valid series rejected: %v", err)
	}
}

func TestSeriesValidateDuplicateDate(t *testing.T) {
	s := Series{Bars: []Bar{
		{Date: day(0), Close: 10},
		{Date: day(0), Close: 11},
	}}
	if err := s.Validate(); !errors.Is(err, ErrInvalidSeries) {
		t.Fatalf("expected ErrInvalidSeries, got %v", err)
	}
}

func TestSeriesValidateOutOfOrder(t *testing.T) {
	s := Series{Bars: []Bar{
		{Date: day(5), Close: 10},
		{Date: day(2), Close: 11},
	}}
	if err := s.Validate(); !errors.Is(err, ErrInvalidSeries) {
		t.Fatalf("expected ErrInvalidSeries, got %v", err)
	}
}

func TestSeriesValidateNegativeVolume(t *testing.T) {
	s := Series{Bars: []Bar{{Date: day(0), Close: 10, Volume: -5}}}
	if err := s.Validate(); !errors.Is(err, ErrInvalidSeries) {
		t.Fatalf("expected ErrInvalidSeries, got %v", err)
	}
}

func TestSeriesAccessors(t *testing.T) {
	var empty Series
	if !empty.LastDate().IsZero() {
		t.Fatalf("empty series should report zero last date")
	}

	s := Series{Bars: []Bar{
		{Date: day(0), Close: 10},
		{Date: day(1), Close: 20},
	}}
	if s.Len() != 2 {
		t.Fatalf("len %d, want 2", s.Len())
	}
	closes := s.Closes()
	if closes[0] != 10 || closes[1] != 20 {
		t.Fatalf("closes %v", closes)
	}
	if !s.LastDate().Equal(day(1)) {
		t.Fatalf("last date %v", s.LastDate())
	}
}
