package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Crowley723/server-tracker/metrics"
	"github.com/Crowley723/server-tracker/notify"
	"github.com/Crowley723/server-tracker/report"
	"github.com/Crowley723/server-tracker/store"
)

// State is the current phase of a scheduler loop.
type State int

const (
	StateIdle State = iota
	StatePolling
	StateWaiting
	StateReporting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePolling:
		return "polling"
	case StateWaiting:
		return "waiting"
	case StateReporting:
		return "reporting"
	default:
		return "unknown"
	}
}

// Fetcher retrieves and records the online count of one host.
type Fetcher interface {
	Fetch(ctx context.Context, host string) (int, error)
}

// Renderer turns a host series into a report.
type Renderer interface {
	Render(host string, samples []store.Sample) (*report.Report, error)
}

// Poller drives the fetcher over every configured host on a fixed interval.
type Poller struct {
	hosts    []string
	interval time.Duration
	fetcher  Fetcher
	clock    Clock
	logger   *slog.Logger

	mu    sync.RWMutex
	state State
	ticks uint64
}

// Reporter sends the daily report of every host and resets the store.
type Reporter struct {
	hosts         []string
	trigger       *Trigger
	checkInterval time.Duration
	title         string
	color         int
	store         *store.Store
	renderer      Renderer
	notifier      notify.Notifier
	metrics       *metrics.Metrics
	clock         Clock
	logger        *slog.Logger

	mu        sync.RWMutex
	state     State
	lastFired time.Time
}
