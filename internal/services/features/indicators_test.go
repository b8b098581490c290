package features

import (
	"math"
	"testing"
)

func TestSMAWarmupAndValues(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	got := SMA(x, 3)
	for i := 0; i < 2; i++ {
		if !math.IsNaN(got[i]) {
			t.Fatalf("expected NaN before warmup at %d, got %v", i, got[i])
		}
	}
	want := []float64{2, 3, 4}
	for i, w := range want {
		if math.Abs(got[i+2]-w) > 1e-12 {
			t.Fatalf("sma[%d] = %v, want %v", i+2, got[i+2], w)
		}
	}
}

func TestEMAConstantSeries(t *testing.T) {
	x := make([]float64, 20)
	for i := range x {
		x[i] = 7
	}
	got := EMA(x, 5)
	for i := 4; i < len(x); i++ {
		if math.Abs(got[i]-7) > 1e-12 {
			t.Fatalf("ema[%d] = %v, want 7", i, got[i])
		}
	}
}

func TestRSIMonotonicGains(t *testing.T) {
	x := make([]float64, 30)
	for i := range x {
		x[i] = float64(i)
	}
	got := RSI(x, 14)
	if !math.IsNaN(got[13]) {
		t.Fatalf("expected NaN before warmup")
	}
	for i := 14; i < len(x); i++ {
		if got[i] != 100 {
			t.Fatalf("rsi[%d] = %v, want 100 for all-gain series", i, got[i])
		}
	}
}

func TestBollingerConstantSeries(t *testing.T) {
	x := make([]float64, 25)
	for i := range x {
		x[i] = 50
	}
	up, lo := Bollinger(x, 20, 2)
	if math.Abs(up[24]-50) > 1e-12 || math.Abs(lo[24]-50) > 1e-12 {
		t.Fatalf("bands should collapse on constant series, got %v/%v", up[24], lo[24])
	}
}

func TestRollingStdKnownValue(t *testing.T) {
	x := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	got := RollingStd(x, 8)
	// Population std of the classic example is exactly 2.
	if math.Abs(got[7]-2) > 1e-12 {
		t.Fatalf("std = %v, want 2", got[7])
	}
}

func TestMACDWarmup(t *testing.T) {
	x := make([]float64, 40)
	for i := range x {
		x[i] = 10 + float64(i)
	}
	got := MACD(x, 12, 26)
	if !math.IsNaN(got[24]) {
		t.Fatalf("expected NaN before slow warmup")
	}
	if math.IsNaN(got[26]) {
		t.Fatalf("expected value after slow warmup")
	}
}
