package util

import (
	"math"
)

// ----------------------------------------------------------------------------
// Stats
// ----------------------------------------------------------------------------

type Stats struct {
	Count        int     `json:"count"`
	Sum          float64 `json:"sum"`
	StdDeviation float64 `json:"std_deviation"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Mean         float64 `json:"mean"`
	MinMaxRatio  float64 `json:"min_max_ratio"`
}

// NewStats computes count, sum, mean, standard deviation, minimum, and maximum
// from an array of float64 values.
func NewStats(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}

	// initialize min and max with the first value
	min := values[0]
	max := values[0]

	var sum float64
	for _, v := range values {
		sum += v

		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	mean := sum / float64(len(values))

	var sumSquaredDiffs float64
	for _, v := range values {
		diff := v - mean
		sumSquaredDiffs += diff * diff
	}

	// population standard deviation
	stdDev := math.Sqrt(sumSquaredDiffs / float64(len(values)))

	var minMaxRatio float64 = 1.0
	if max > 0 {
		minMaxRatio = min / max
	}

	return Stats{
		Count:        len(values),
		Sum:          sum,
		StdDeviation: stdDev,
		Min:          min,
		Max:          max,
		Mean:         mean,
		MinMaxRatio:  minMaxRatio,
	}
}

// SumEqual reports whether the sums of a and b are equal within a relative tolerance
// that absorbs floating point reordering errors.
func SumEqual(a, b Stats) bool {
	scale := math.Max(1, math.Max(math.Abs(a.Sum), math.Abs(b.Sum)))
	return math.Abs(a.Sum-b.Sum) <= 1e-9*scale
}

// ----------------------------------------------------------------------------
// Group distribution
// ----------------------------------------------------------------------------

type DistributionStats struct {
	Stats
	DistributionQuality float64 `json:"distribution_quality"`
}

// NewDistributionStats computes quality metrics for a set of group sizes
// (e.g. the number of entries merged into each surviving entry).
func NewDistributionStats(groupSizes []float64) DistributionStats {
	stats := NewStats(groupSizes)

	// coefficient of variation
	var cv float64
	if stats.Mean > 0 {
		cv = stats.StdDeviation / stats.Mean
	}

	// lower CV and higher min/max ratio indicate more even groups
	distributionQuality := (1.0-math.Min(1.0, cv))*0.5 + stats.MinMaxRatio*0.5

	return DistributionStats{
		Stats:               stats,
		DistributionQuality: distributionQuality,
	}
}
