package features

import "math"

// Local technical indicator block, used when no precomputed indicator
// columns are supplied. All functions return a slice aligned 1:1 with the
// input, with NaN before the warmup window is satisfied.

// SMA computes a simple moving average over window w.
func SMA(x []float64, w int) []float64 {
	out := nanSlice(len(x))
	if w <= 0 || len(x) < w {
		return out
	}
	sum := 0.0
	for i, v := range x {
		sum += v
		if i >= w {
			sum -= x[i-w]
		}
		if i >= w-1 {
			out[i] = sum / float64(w)
		}
	}
	return out
}

// EMA computes an exponential moving average seeded with the SMA of the
// first w values.
func EMA(x []float64, w int) []float64 {
	out := nanSlice(len(x))
	if w <= 0 || len(x) < w {
		return out
	}
	seed := 0.0
	for i := 0; i < w; i++ {
		seed += x[i]
	}
	seed /= float64(w)
	out[w-1] = seed
	alpha := 2.0 / (float64(w) + 1.0)
	for i := w; i < len(x); i++ {
		out[i] = alpha*x[i] + (1-alpha)*out[i-1]
	}
	return out
}

// RSI computes Wilder's relative strength index over window w.
func RSI(x []float64, w int) []float64 {
	out := nanSlice(len(x))
	if w <= 0 || len(x) <= w {
		return out
	}
	var gain, loss float64
	for i := 1; i <= w; i++ {
		d := x[i] - x[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	avgGain := gain / float64(w)
	avgLoss := loss / float64(w)
	out[w] = rsiValue(avgGain, avgLoss)
	for i := w + 1; i < len(x); i++ {
		d := x[i] - x[i-1]
		g, l := 0.0, 0.0
		if d > 0 {
			g = d
		} else {
			l = -d
		}
		avgGain = (avgGain*float64(w-1) + g) / float64(w)
		avgLoss = (avgLoss*float64(w-1) + l) / float64(w)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// Bollinger computes upper and lower bands at k standard deviations around
// the w-period SMA.
func Bollinger(x []float64, w int, k float64) (upper, lower []float64) {
	upper = nanSlice(len(x))
	lower = nanSlice(len(x))
	mid := SMA(x, w)
	sd := RollingStd(x, w)
	for i := range x {
		if math.IsNaN(mid[i]) || math.IsNaN(sd[i]) {
			continue
		}
		upper[i] = mid[i] + k*sd[i]
		lower[i] = mid[i] - k*sd[i]
	}
	return upper, lower
}

// MACD computes the moving average convergence/divergence line
// (fast EMA minus slow EMA).
func MACD(x []float64, fast, slow int) []float64 {
	out := nanSlice(len(x))
	ef := EMA(x, fast)
	es := EMA(x, slow)
	for i := range x {
		if math.IsNaN(ef[i]) || math.IsNaN(es[i]) {
			continue
		}
		out[i] = ef[i] - es[i]
	}
	return out
}

// RollingStd computes the population standard deviation over window w.
// NaN inputs inside the window propagate as NaN output.
func RollingStd(x []float64, w int) []float64 {
	out := nanSlice(len(x))
	if w <= 1 || len(x) < w {
		return out
	}
	for i := w - 1; i < len(x); i++ {
		sum, sum2 := 0.0, 0.0
		bad := false
		for j := i - w + 1; j <= i; j++ {
			if math.IsNaN(x[j]) {
				bad = true
				break
			}
			sum += x[j]
			sum2 += x[j] * x[j]
		}
		if bad {
			continue
		}
		n := float64(w)
		mean := sum / n
		variance := sum2/n - mean*mean
		if variance < 0 {
			variance = 0
		}
		out[i] = math.Sqrt(variance)
	}
	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
