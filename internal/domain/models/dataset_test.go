package models

import "testing"

func TestDatasetTail(t *testing.T) {
	d := &Dataset{Features: [][]float64{{1}, {2}, {3}}}

	tail := d.Tail(2)
	if len(tail) != 2 || tail[0][0] != 2 || tail[1][0] != 3 {
		t.Fatalf("tail rows wrong: %v", tail)
	}
	if got := d.Tail(10); len(got) != 3 {
		t.Fatalf("oversized n must clamp to every row, got %d", len(got))
	}
}

func TestDatasetShape(t *testing.T) {
	d := &Dataset{}
	if d.Rows() != 0 || d.Cols() != 0 {
		t.Fatalf("empty dataset reports %dx%d", d.Rows(), d.Cols())
	}
	d.Features = [][]float64{{1, 2, 3}, {4, 5, 6}}
	if d.Rows() != 2 || d.Cols() != 3 {
		t.Fatalf("dataset reports %dx%d, want 2x3", d.Rows(), d.Cols())
	}
}
