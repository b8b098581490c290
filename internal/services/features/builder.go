package features

import (
	"fmt"
	"math"
	"sort"
	"time"

	"StockCast/internal/domain/models"
)

// Lag and rolling window conventions. The lag set follows a Fibonacci-like
// spacing to cover several memory scales without stacking highly correlated
// columns; MaxLookback is the largest window any feature reaches back.
var (
	LagOffsets  = []int{1, 2, 3, 5, 8, 13, 21}
	RollWindows = []int{5, 7, 14, 20, 30}
)

const (
	MomentumOffset = 5
	VolWindow      = 20
	MaxLookback    = 30
)

// Builder derives a feature matrix and aligned target from a daily series.
// Row i of the matrix anchors at bar MaxLookback+i; its target is the close
// price horizon bars later. A row exists only when every feature and the
// target are defined, so for a series of length L the matrix has exactly
// L - MaxLookback - horizon rows.
type Builder struct {
	// External holds precomputed indicator columns aligned 1:1 with the
	// series. When set it replaces the locally computed indicator block;
	// rows where an external column is NaN are dropped.
	External map[string][]float64
}

func NewBuilder() *Builder { return &Builder{} }

// Build constructs the dataset for the given horizon.
func (b *Builder) Build(series models.Series, horizon int) (*models.Dataset, error) {
	if horizon < 1 {
		return nil, fmt.Errorf("features: horizon must be positive, got %d", horizon)
	}
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("features: %w", err)
	}

	n := series.Len()
	rows := n - MaxLookback - horizon
	if rows < 1 {
		return nil, fmt.Errorf("features: %w: %d bars, need more than %d for horizon %d",
			models.ErrInsufficientHistory, n, MaxLookback+horizon, horizon)
	}

	closes := series.Closes()

	// Simple daily returns; index 0 undefined.
	rets := nanSlice(n)
	for i := 1; i < n; i++ {
		if closes[i-1] != 0 {
			rets[i] = closes[i]/closes[i-1] - 1
		}
	}
	vol := RollingStd(rets, VolWindow)

	rollMeans := make([][]float64, len(RollWindows))
	for k, w := range RollWindows {
		rollMeans[k] = SMA(closes, w)
	}

	indNames, indCols, err := b.indicatorBlock(closes, n)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(LagOffsets)+len(RollWindows)+2+len(indNames))
	for _, l := range LagOffsets {
		names = append(names, fmt.Sprintf("lag_%d", l))
	}
	for _, w := range RollWindows {
		names = append(names, fmt.Sprintf("roll_mean_%d", w))
	}
	names = append(names, fmt.Sprintf("momentum_%d", MomentumOffset))
	names = append(names, fmt.Sprintf("volatility_%d", VolWindow))
	names = append(names, indNames...)

	X := make([][]float64, 0, rows)
	y := make([]float64, 0, rows)
	dates := make([]time.Time, 0, rows)

	for i := MaxLookback; i+horizon < n; i++ {
		row := make([]float64, 0, len(names))
		for _, l := range LagOffsets {
			row = append(row, closes[i-l])
		}
		for k := range RollWindows {
			row = append(row, rollMeans[k][i])
		}
		row = append(row, closes[i]-closes[i-MomentumOffset])
		row = append(row, vol[i])
		for _, col := range indCols {
			row = append(row, col[i])
		}
		if rowHasNaN(row) {
			// Only possible with sparse external indicator columns.
			continue
		}
		X = append(X, row)
		y = append(y, closes[i+horizon])
		dates = append(dates, series.Bars[i].Date)
	}

	if len(X) < 1 {
		return nil, fmt.Errorf("features: %w: no fully defined rows", models.ErrInsufficientHistory)
	}

	return &models.Dataset{
		Features: X,
		Target:   y,
		Names:    names,
		Dates:    dates,
		LastDate: series.LastDate(),
		Horizon:  horizon,
	}, nil
}

func (b *Builder) indicatorBlock(closes []float64, n int) ([]string, [][]float64, error) {
	if len(b.External) > 0 {
		names := make([]string, 0, len(b.External))
		for name := range b.External {
			names = append(names, name)
		}
		sort.Strings(names)
		cols := make([][]float64, 0, len(names))
		for _, name := range names {
			col := b.External[name]
			if len(col) != n {
				return nil, nil, fmt.Errorf("features: external column %q has %d values, series has %d", name, len(col), n)
			}
			cols = append(cols, col)
		}
		return names, cols, nil
	}

	bbUp, bbLo := Bollinger(closes, 20, 2.0)
	names := []string{"sma_14", "ema_14", "rsi_14", "bb_upper_20", "bb_lower_20", "macd_12_26"}
	cols := [][]float64{
		SMA(closes, 14),
		EMA(closes, 14),
		RSI(closes, 14),
		bbUp,
		bbLo,
		MACD(closes, 12, 26),
	}
	return names, cols, nil
}

func rowHasNaN(row []float64) bool {
	for _, v := range row {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
