package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/Crowley723/server-tracker/store"
)

var start = time.Date(2024, time.May, 4, 0, 0, 0, 0, time.UTC)

func series(n int) []store.Sample {
	samples := make([]store.Sample, n)
	for i := range samples {
		samples[i] = store.Sample{
			Timestamp: start.Add(time.Duration(i) * 5 * time.Minute),
			Value:     i,
		}
	}
	return samples
}

func TestDownsample(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		max      int
		expected int
	}{
		{"hundred samples", 100, 48, 100 / (100 / 48)},
		{"ten samples unchanged", 10, 48, 10},
		{"exactly max", 48, 48, 48},
		{"one over max", 49, 48, 49},
		{"many samples", 288, 48, 48},
		{"uneven stride", 150, 48, 50},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)
			input := series(test.count)
			points := Downsample(input, test.max)
			require.Len(points, test.expected)

			// strict ordered subsequence of the input
			j := 0
			for _, p := range points {
				for j < len(input) && input[j] != p {
					j++
				}
				require.Less(j, len(input), "point %v not found in order", p)
				j++
			}
		})
	}
}

func TestDownsampleKeepsAllWhenShort(t *testing.T) {
	input := series(10)
	require.Equal(t, input, Downsample(input, 48))
}

func TestPlanDeterministic(t *testing.T) {
	require := require.New(t)
	r := NewRenderer(48, time.UTC)
	input := series(100)

	first, err := r.Plan(input)
	require.NoError(err)
	second, err := r.Plan(input)
	require.NoError(err)

	require.Equal(first, second)
	require.Len(first.Points, 50)
	require.Equal(input[0], first.Points[0])
	require.Equal(input[98], first.Points[49])
	require.Equal(float64(start.Unix()), first.XMin)
	require.Equal(float64(input[98].Timestamp.Unix()), first.XMax)
	require.Equal(float64(0), first.YMin)
	require.Equal(float64(109), first.YMax)
}

func TestPlanSingleSample(t *testing.T) {
	require := require.New(t)
	r := NewRenderer(48, time.UTC)

	chart, err := r.Plan([]store.Sample{{Timestamp: start, Value: 0}})
	require.NoError(err)
	require.Equal(chart.XMin+60, chart.XMax)
	require.Equal(float64(1), chart.YMax)
}

func TestRenderEmpty(t *testing.T) {
	r := NewRenderer(48, time.UTC)
	_, err := r.Render("play.example.com", nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, store.ErrEmptySeries))
}

func TestRender(t *testing.T) {
	require := require.New(t)
	r := NewRenderer(48, time.UTC)

	samples := []store.Sample{
		{Timestamp: start, Value: 10},
		{Timestamp: start.Add(time.Hour), Value: 20},
		{Timestamp: start.Add(2 * time.Hour), Value: 30},
	}

	rep, err := r.Render("play.example.com", samples)
	require.NoError(err)
	require.Equal("play.example.com", rep.Host)
	require.Equal(store.Summary{Average: 20, Peak: 30, Count: 3}, rep.Summary)
	require.Len(rep.Chart.Points, 3)
	require.True(bytes.HasPrefix(rep.Image, []byte("\x89PNG")))
	require.Contains(rep.Description, "IP: `play.example.com`")
	require.Contains(rep.Description, "> Average Online: `20`")
	require.Contains(rep.Description, "> Peak Online: `30`")
}

func TestDescribeFormatsThousands(t *testing.T) {
	text := Describe("big.example.com", store.Summary{Average: 1234, Peak: 56789, Count: 3})
	require.Contains(t, text, "`1,234`")
	require.Contains(t, text, "`56,789`")
}
