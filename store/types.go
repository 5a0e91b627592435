package store

import (
	"math"
	"time"

	"github.com/pkg/errors"
)

// ErrEmptySeries is returned when aggregates are requested for a host
// without any recorded sample in the current cycle.
var ErrEmptySeries = errors.New("series has no samples")

// Sample is a single observation of the online player count.
type Sample struct {
	Timestamp time.Time `json:"timestamp"`
	Value     int       `json:"value"`
}

// Summary holds the aggregates derived from a host series.
type Summary struct {
	Average int `json:"average"`
	Peak    int `json:"peak"`
	Count   int `json:"count"`
}

// Summarize computes the rounded average and the peak of samples.
func Summarize(samples []Sample) (Summary, error) {
	if len(samples) == 0 {
		return Summary{}, ErrEmptySeries
	}

	sum := 0
	peak := samples[0].Value
	for _, s := range samples {
		sum += s.Value
		if s.Value > peak {
			peak = s.Value
		}
	}

	return Summary{
		Average: int(math.Round(float64(sum) / float64(len(samples)))),
		Peak:    peak,
		Count:   len(samples),
	}, nil
}
