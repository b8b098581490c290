package ratelimit

import "testing"

func TestLimiterBurstThenDry(t *testing.T) {
	l := New()

	allowed := 0
	for i := 0; i < 10; i++ {
		if l.Allow("k", 3, 0.0001) {
			allowed++
		}
	}
	if allowed != 3 {
		t.Fatalf("expected burst of 3, got %d", allowed)
	}
}

func TestLimiterKeysIndependent(t *testing.T) {
	l := New()

	for i := 0; i < 3; i++ {
		l.Allow("a", 1, 0.0001)
	}
	if !l.Allow("b", 1, 0.0001) {
		t.Fatalf("draining key a should not affect key b")
	}
}
