package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculatePercentilesByWeight(t *testing.T) {
	var samples []WeightedValue
	for i := 0; i < 100; i++ {
		samples = append(samples, WeightedValue{Value: 1, Weight: 1})
	}

	for i := 0; i < 100; i++ {
		samples = append(samples, WeightedValue{Value: 2, Weight: 1})
	}

	var result [NumPercentiles]float64
	CalculatePercentilesByWeight(&result, samples, 200)

	assert.Equal(t, [NumPercentiles]float64{1, 1, 1, 2, 2}, result)
}

func TestCalculatePercentilesByWeightOverlapping(t *testing.T) {
	samples := []WeightedValue{
		{Value: 1, Weight: 9},
		{Value: 2, Weight: 16}, // 10th and 25th
		{Value: 4, Weight: 50}, // 50th and 75th
		{Value: 5, Weight: 10},
		{Value: 9, Weight: 15}, // 90th
	}

	var result [NumPercentiles]float64
	CalculatePercentilesByWeight(&result, samples, 100)

	assert.Equal(t, [NumPercentiles]float64{2, 2, 4, 4, 9}, result)
}

func TestCalculatePercentilesByWeightSplitPair(t *testing.T) {
	samples := []WeightedValue{
		{Value: 1, Weight: 9},
		{Value: 2, Weight: 11}, // 10th
		{Value: 2, Weight: 5},  // 25th
		{Value: 4, Weight: 50}, // 50th and 75th
		{Value: 5, Weight: 10},
		{Value: 9, Weight: 15}, // 90th
	}

	var result [NumPercentiles]float64
	CalculatePercentilesByWeight(&result, samples, 100)

	assert.Equal(t, [NumPercentiles]float64{2, 2, 4, 4, 9}, result)
}

func TestCalculatePercentilesByWeightSingleDominantSample(t *testing.T) {
	samples := []WeightedValue{
		{Value: 1, Weight: 100},
		{Value: 2, Weight: 1},
		{Value: 3, Weight: 1},
		{Value: 3, Weight: 1},
		{Value: 999999, Weight: 1},
	}

	var result [NumPercentiles]float64
	CalculatePercentilesByWeight(&result, samples, 104)

	assert.Equal(t, [NumPercentiles]float64{1, 1, 1, 1, 1}, result)
}

func TestCalculatePercentilesByWeightEmpty(t *testing.T) {
	var result [NumPercentiles]float64

	CalculatePercentilesByWeight(&result, nil, 0)
	assert.Equal(t, [NumPercentiles]float64{}, result)

	// total weight larger than the sample weights leaves tail percentiles
	// unreached
	samples := []WeightedValue{{Value: 7, Weight: 10}}
	CalculatePercentilesByWeight(&result, samples, 1000)
	assert.Equal(t, [NumPercentiles]float64{}, result)
}
