package scaling

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Kind selects the normalization variant.
type Kind string

const (
	None     Kind = "none"
	Standard Kind = "standard"
	Robust   Kind = "robust"
	MinMax   Kind = "minmax"
)

// ParseKind maps a configuration string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case None, Standard, Robust, MinMax:
		return Kind(s), nil
	case "":
		return None, nil
	default:
		return None, fmt.Errorf("scaling: unknown kind %q", s)
	}
}

type column struct {
	shift    float64
	scale    float64
	degraded bool
}

// Scaler normalizes feature columns using statistics learned in Fit.
// Fit must only ever see training rows; Transform applies the same
// statistics to any rows. A column with zero spread degrades to identity
// and is flagged rather than aborting the run.
type Scaler struct {
	kind   Kind
	cols   []column
	fitted bool
}

func New(kind Kind) *Scaler { return &Scaler{kind: kind} }

// Fit learns per-column statistics from the training rows.
func (s *Scaler) Fit(X [][]float64) {
	s.fitted = true
	if s.kind == None || len(X) == 0 {
		s.cols = nil
		return
	}
	d := len(X[0])
	s.cols = make([]column, d)
	buf := make([]float64, len(X))
	for j := 0; j < d; j++ {
		for i := range X {
			buf[i] = X[i][j]
		}
		s.cols[j] = s.fitColumn(buf)
	}
}

func (s *Scaler) fitColumn(col []float64) column {
	switch s.kind {
	case Standard:
		mean := stat.Mean(col, nil)
		sd := stat.StdDev(col, nil)
		if len(col) < 2 || sd == 0 {
			return column{shift: 0, scale: 1, degraded: true}
		}
		return column{shift: mean, scale: sd}
	case Robust:
		sorted := append([]float64(nil), col...)
		sort.Float64s(sorted)
		med := stat.Quantile(0.5, stat.Empirical, sorted, nil)
		iqr := stat.Quantile(0.75, stat.Empirical, sorted, nil) - stat.Quantile(0.25, stat.Empirical, sorted, nil)
		if iqr == 0 {
			return column{shift: 0, scale: 1, degraded: true}
		}
		return column{shift: med, scale: iqr}
	case MinMax:
		lo := floats.Min(col)
		hi := floats.Max(col)
		if hi == lo {
			return column{shift: 0, scale: 1, degraded: true}
		}
		return column{shift: lo, scale: hi - lo}
	default:
		return column{shift: 0, scale: 1}
	}
}

// Transform returns a scaled copy of X using the fitted statistics.
func (s *Scaler) Transform(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	if s.kind == None || s.cols == nil {
		for i, row := range X {
			out[i] = append([]float64(nil), row...)
		}
		return out
	}
	for i, row := range X {
		scaled := make([]float64, len(row))
		for j, v := range row {
			c := s.cols[j]
			scaled[j] = (v - c.shift) / c.scale
		}
		out[i] = scaled
	}
	return out
}

// FitTransform fits on X and returns its scaled copy.
func (s *Scaler) FitTransform(X [][]float64) [][]float64 {
	s.Fit(X)
	return s.Transform(X)
}

// Fitted reports whether Fit has been called.
func (s *Scaler) Fitted() bool { return s.fitted }

// Degraded returns the indices of columns that fell back to identity
// scaling because of zero spread in the training data.
func (s *Scaler) Degraded() []int {
	var out []int
	for j, c := range s.cols {
		if c.degraded {
			out = append(out, j)
		}
	}
	return out
}
