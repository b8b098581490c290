package models

import "time"

// Dataset is a feature matrix with its aligned target vector. Rows are
// chronological and must never be permuted; all temporal splitting is done
// on row positions.
type Dataset struct {
	// Features is row-major: Features[i][j] is feature j at anchor i.
	Features [][]float64
	// Target[i] is the close price Horizon steps past anchor i.
	Target []float64
	// Names holds one column name per feature, aligned with Features rows.
	Names []string
	// Dates holds the anchor date of each row.
	Dates []time.Time
	// LastDate is the date of the final bar of the source series.
	LastDate time.Time
	// Horizon is the target shift the dataset was built with.
	Horizon int
}

// Rows returns the number of feature rows.
func (d *Dataset) Rows() int { return len(d.Features) }

// Cols returns the feature width, or 0 for an empty dataset.
func (d *Dataset) Cols() int {
	if len(d.Features) == 0 {
		return 0
	}
	return len(d.Features[0])
}

// Tail returns the last n rows as a new slice header (shared backing).
func (d *Dataset) Tail(n int) [][]float64 {
	if n > len(d.Features) {
		n = len(d.Features)
	}
	return d.Features[len(d.Features)-n:]
}
