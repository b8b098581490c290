package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
)

// ClickHouseBarStore persists daily OHLCV bars in ClickHouse. The table is
// keyed by (symbol, date) with ReplacingMergeTree semantics, so re-storing a
// downloaded range is idempotent.
type ClickHouseBarStore struct {
	db    *sql.DB
	table string
}

// NewClickHouseBarStore creates a bar store over an open ClickHouse handle.
func NewClickHouseBarStore(db *sql.DB, table string) domrepo.BarStore {
	if table == "" {
		table = "daily_bars"
	}
	return &ClickHouseBarStore{db: db, table: table}
}

func (s *ClickHouseBarStore) Init(ctx context.Context) error {
	q := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		symbol String,
		date Date,
		open Float64,
		high Float64,
		low Float64,
		close Float64,
		volume Float64
	) ENGINE = ReplacingMergeTree ORDER BY (symbol, date)`, s.table)
	_, err := s.db.ExecContext(ctx, q)
	if err != nil {
		return fmt.Errorf("bar store init: %w", err)
	}
	return nil
}

func (s *ClickHouseBarStore) Store(ctx context.Context, symbol string, bars []models.Bar) error {
	if len(bars) == 0 {
		return nil
	}
	// Multi-row VALUES insert to keep round-trips down.
	const chunkSize = 2000
	for start := 0; start < len(bars); start += chunkSize {
		end := start + chunkSize
		if end > len(bars) {
			end = len(bars)
		}
		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*7)
		for _, b := range bars[start:end] {
			values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
			args = append(args, symbol, b.Date, b.Open, b.High, b.Low, b.Close, b.Volume)
		}
		q := fmt.Sprintf("INSERT INTO %s (symbol, date, open, high, low, close, volume) VALUES %s",
			s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("bar store insert: %w", err)
		}
	}
	return nil
}

func (s *ClickHouseBarStore) GetDaily(ctx context.Context, symbol string, from, to time.Time) ([]models.Bar, error) {
	q := fmt.Sprintf("SELECT date, open, high, low, close, volume FROM %s FINAL WHERE symbol = ? AND date >= ? AND date <= ? ORDER BY date ASC", s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, from, to)
	if err != nil {
		return nil, fmt.Errorf("bar store query: %w", err)
	}
	defer rows.Close()
	return scanBars(rows)
}

func (s *ClickHouseBarStore) GetLatestN(ctx context.Context, symbol string, n int) ([]models.Bar, error) {
	q := fmt.Sprintf("SELECT date, open, high, low, close, volume FROM %s FINAL WHERE symbol = ? ORDER BY date DESC LIMIT ?", s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, n)
	if err != nil {
		return nil, fmt.Errorf("bar store query: %w", err)
	}
	defer rows.Close()
	bars, err := scanBars(rows)
	if err != nil {
		return nil, err
	}
	// Query returns newest first; callers expect chronological order.
	for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
		bars[i], bars[j] = bars[j], bars[i]
	}
	return bars, nil
}

func (s *ClickHouseBarStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseBarStore) Close() error {
	return nil // connection owned by pkg client
}

func scanBars(rows *sql.Rows) ([]models.Bar, error) {
	var bars []models.Bar
	for rows.Next() {
		var b models.Bar
		if err := rows.Scan(&b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}
