package regress

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// LinearRegression is ordinary least squares with an intercept, solved via
// regularized normal equations. A tiny ridge term keeps the factorization
// stable when feature columns are nearly collinear (lag features often are).
type LinearRegression struct {
	coef      []float64
	intercept float64
}

func NewLinearRegression() *LinearRegression { return &LinearRegression{} }

const ridgeEps = 1e-8

func (l *LinearRegression) Fit(X [][]float64, y []float64) error {
	n := len(X)
	if n == 0 || n != len(y) {
		return fmt.Errorf("linear: bad shapes: %d rows, %d targets", n, len(y))
	}
	d := len(X[0])

	// Design matrix with a leading bias column.
	a := mat.NewDense(n, d+1, nil)
	for i, row := range X {
		a.Set(i, 0, 1)
		for j, v := range row {
			a.Set(i, j+1, v)
		}
	}
	b := mat.NewVecDense(n, append([]float64(nil), y...))

	var ata mat.SymDense
	ata.SymOuterK(1, a.T())
	for j := 0; j <= d; j++ {
		ata.SetSym(j, j, ata.At(j, j)+ridgeEps)
	}

	var atb mat.VecDense
	atb.MulVec(a.T(), b)

	var chol mat.Cholesky
	if ok := chol.Factorize(&ata); !ok {
		return fmt.Errorf("linear: singular design matrix")
	}
	var w mat.VecDense
	if err := chol.SolveVecTo(&w, &atb); err != nil {
		return fmt.Errorf("linear: solve: %w", err)
	}

	l.intercept = w.AtVec(0)
	l.coef = make([]float64, d)
	for j := 0; j < d; j++ {
		l.coef[j] = w.AtVec(j + 1)
	}
	return nil
}

func (l *LinearRegression) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, row := range X {
		p := l.intercept
		for j, v := range row {
			p += l.coef[j] * v
		}
		out[i] = p
	}
	return out
}
