package util

import "sort"

// NumPercentiles is the number of weighted percentiles calculated by
// CalculatePercentilesByWeight: 10th, 25th, 50th, 75th and 90th.
const NumPercentiles = 5

// WeightedValue is a sample value with an associated weight, typically a
// fee rate weighted by transaction size.
type WeightedValue struct {
	Value  float64
	Weight int64
}

// CalculatePercentilesByWeight fills result with the weighted 10th, 25th,
// 50th, 75th and 90th percentiles of the given samples. The sample slice is
// sorted in place by value. Percentiles whose weight threshold is never
// reached are left at zero.
func CalculatePercentilesByWeight(result *[NumPercentiles]float64, samples []WeightedValue, totalWeight int64) {
	if totalWeight <= 0 {
		return
	}

	sort.Slice(samples, func(i, j int) bool {
		return samples[i].Value < samples[j].Value
	})

	thresholds := [NumPercentiles]float64{
		float64(totalWeight) / 10.0,
		float64(totalWeight) / 4.0,
		float64(totalWeight) / 2.0,
		float64(totalWeight) * 3.0 / 4.0,
		float64(totalWeight) * 9.0 / 10.0,
	}

	next := 0
	cumulative := int64(0)

	for _, sample := range samples {
		cumulative += sample.Weight

		// One sample may carry the cumulative weight past several
		// thresholds at once.
		for next < NumPercentiles && float64(cumulative) >= thresholds[next] {
			result[next] = sample.Value
			next++
		}

		if next == NumPercentiles {
			break
		}
	}
}
