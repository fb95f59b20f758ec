package features

import (
	"math"
	"testing"
)

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("index %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestMovingAverageWindowOne(t *testing.T) {
	in := []float64{1, 2, 3}
	got := MovingAverage(in, 1)
	got[0] = 99
	if in[0] != 1 {
		t.Fatalf("input must not be aliased")
	}
}
