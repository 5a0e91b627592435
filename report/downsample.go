package report

import "github.com/Crowley723/server-tracker/store"

// DefaultMaxPoints bounds the number of points drawn on a chart.
const DefaultMaxPoints = 48

// Downsample keeps every len/max-th sample starting at the first one when
// the series is longer than max, otherwise it returns all samples.
func Downsample(samples []store.Sample, max int) []store.Sample {
	if max < 1 {
		max = DefaultMaxPoints
	}

	if len(samples) <= max {
		result := make([]store.Sample, len(samples))
		copy(result, samples)
		return result
	}

	stride := len(samples) / max
	result := make([]store.Sample, 0, len(samples)/stride+1)
	for i := 0; i < len(samples); i += stride {
		result = append(result, samples[i])
	}
	return result
}
