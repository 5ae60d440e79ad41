package util

import (
	"math"
	"testing"
)

// TestNewStats tests the summary statistics
func TestNewStats(t *testing.T) {
	s := NewStats([]float64{2, 4, 4, 4, 5, 5, 7, 9})

	if s.Count != 8 {
		t.Errorf("Expected count 8, got %d", s.Count)
	}
	if s.Sum != 40 {
		t.Errorf("Expected sum 40, got %f", s.Sum)
	}
	if s.Mean != 5 {
		t.Errorf("Expected mean 5, got %f", s.Mean)
	}
	if s.StdDeviation != 2 {
		t.Errorf("Expected standard deviation 2, got %f", s.StdDeviation)
	}
	if s.Min != 2 || s.Max != 9 {
		t.Errorf("Expected min 2 and max 9, got %f and %f", s.Min, s.Max)
	}
	if math.Abs(s.MinMaxRatio-2.0/9.0) > 1e-12 {
		t.Errorf("Expected min/max ratio 2/9, got %f", s.MinMaxRatio)
	}

	if empty := NewStats(nil); empty != (Stats{}) {
		t.Errorf("Expected zero stats for no values, got %+v", empty)
	}
}

// TestSumEqual tests the tolerant sum comparison
func TestSumEqual(t *testing.T) {
	a := NewStats([]float64{0.1, 0.2, 0.3})
	b := NewStats([]float64{0.3, 0.2, 0.1})
	c := NewStats([]float64{0.6})

	if !SumEqual(a, b) || !SumEqual(a, c) {
		t.Errorf("Expected sums to be equal: %f, %f, %f", a.Sum, b.Sum, c.Sum)
	}
	if SumEqual(a, NewStats([]float64{0.7})) {
		t.Errorf("Expected sums to differ")
	}
}

// TestNewDistributionStats tests the group distribution quality
func TestNewDistributionStats(t *testing.T) {
	even := NewDistributionStats([]float64{3, 3, 3})
	if even.DistributionQuality != 1 {
		t.Errorf("Expected quality 1 for even groups, got %f", even.DistributionQuality)
	}

	skewed := NewDistributionStats([]float64{1, 1, 10})
	if skewed.DistributionQuality >= even.DistributionQuality {
		t.Errorf("Expected skewed groups to have a lower quality, got %f", skewed.DistributionQuality)
	}
}

// TestFingerprint tests that fingerprints depend on keys and their order
func TestFingerprint(t *testing.T) {
	base := Fingerprint([]string{"a", "b", "c"})

	if base != Fingerprint([]string{"a", "b", "c"}) {
		t.Errorf("Fingerprint is not deterministic")
	}
	if base == Fingerprint([]string{"a", "c", "b"}) {
		t.Errorf("Fingerprint should depend on the order of the keys")
	}
	if Fingerprint([]string{"ab", "c"}) == Fingerprint([]string{"a", "bc"}) {
		t.Errorf("Fingerprint should separate keys")
	}
	if Fingerprint(nil) != 0 {
		t.Errorf("Expected 0 for no keys")
	}
}
