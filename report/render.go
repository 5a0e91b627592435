package report

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/Crowley723/server-tracker/config"
	"github.com/Crowley723/server-tracker/store"
)

const (
	chartWidth  = 10 * vg.Inch
	chartHeight = 5 * vg.Inch
	yHeadroom   = 1.1
)

var lineColor = color.RGBA{R: 88, G: 101, B: 242, A: 255}

type Renderer struct {
	maxPoints int
	location  *time.Location
}

func NewRenderer(maxPoints int, location *time.Location) *Renderer {
	if maxPoints < 1 {
		maxPoints = DefaultMaxPoints
	}
	if location == nil {
		location = time.Local
	}
	return &Renderer{maxPoints: maxPoints, location: location}
}

// NewRendererFromConfig builds a renderer from the report section.
func NewRendererFromConfig(cfg *config.Config) (*Renderer, error) {
	location, err := cfg.Report.Location()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load report timezone")
	}
	return NewRenderer(cfg.Report.MaxPoints, location), nil
}

// Plan selects the points and axis ranges for samples.
func (r *Renderer) Plan(samples []store.Sample) (Chart, error) {
	summary, err := store.Summarize(samples)
	if err != nil {
		return Chart{}, err
	}

	points := Downsample(samples, r.maxPoints)

	xMin := unixSeconds(points[0].Timestamp)
	xMax := unixSeconds(points[len(points)-1].Timestamp)
	if xMax <= xMin {
		xMax = xMin + time.Minute.Seconds()
	}

	yMax := math.Max(1, math.Ceil(float64(summary.Peak)*yHeadroom))

	return Chart{
		Points: points,
		XMin:   xMin,
		XMax:   xMax,
		YMin:   0,
		YMax:   yMax,
	}, nil
}

// Render plans, draws and describes the series of host.
func (r *Renderer) Render(host string, samples []store.Sample) (*Report, error) {
	summary, err := store.Summarize(samples)
	if err != nil {
		return nil, errors.Wrapf(err, "host %s", host)
	}

	chart, err := r.Plan(samples)
	if err != nil {
		return nil, errors.Wrapf(err, "host %s", host)
	}

	image, err := r.draw(host, chart)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to draw chart for %s", host)
	}

	return &Report{
		Host:        host,
		Summary:     summary,
		Chart:       chart,
		Image:       image,
		Description: Describe(host, summary),
	}, nil
}

func (r *Renderer) draw(host string, chart Chart) ([]byte, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Online players: %s", host)
	p.X.Label.Text = "Time"
	p.Y.Label.Text = "Online"
	p.X.Tick.Marker = plot.TimeTicks{
		Format: "15:04",
		Time: func(t float64) time.Time {
			return time.Unix(int64(t), 0).In(r.location)
		},
	}

	xys := make(plotter.XYs, len(chart.Points))
	for i, point := range chart.Points {
		xys[i].X = unixSeconds(point.Timestamp)
		xys[i].Y = float64(point.Value)
	}

	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build line")
	}
	line.LineStyle.Color = lineColor
	line.LineStyle.Width = vg.Points(2)

	p.Add(plotter.NewGrid(), line)

	// fixed after Add, which widens ranges to fit the data
	p.X.Min, p.X.Max = chart.XMin, chart.XMax
	p.Y.Min, p.Y.Max = chart.YMin, chart.YMax

	writer, err := p.WriterTo(chartWidth, chartHeight, "png")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create png canvas")
	}

	var buf bytes.Buffer
	if _, err := writer.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, "failed to encode png")
	}
	return buf.Bytes(), nil
}

// Describe formats the markdown summary sent alongside the chart.
func Describe(host string, summary store.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "IP: `%s`\n", host)
	fmt.Fprintf(&b, "> Average Online: `%s`\n", humanize.Comma(int64(summary.Average)))
	fmt.Fprintf(&b, "> Peak Online: `%s`\n", humanize.Comma(int64(summary.Peak)))
	fmt.Fprintf(&b, "> Samples: `%s`\n", humanize.Comma(int64(summary.Count)))
	return b.String()
}

func unixSeconds(t time.Time) float64 {
	return float64(t.Unix())
}
