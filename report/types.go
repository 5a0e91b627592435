package report

import (
	"github.com/Crowley723/server-tracker/store"
)

// Chart is the data selection behind a rendered image. Identical input
// samples always yield an identical Chart.
type Chart struct {
	Points []store.Sample
	XMin   float64
	XMax   float64
	YMin   float64
	YMax   float64
}

// Report is the rendered daily summary of one host.
type Report struct {
	Host        string
	Summary     store.Summary
	Chart       Chart
	Image       []byte
	Description string
}

// ImageFilename is the attachment name used for the chart.
const ImageFilename = "chart.png"
