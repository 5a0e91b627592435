package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/Crowley723/server-tracker/config"
	"github.com/Crowley723/server-tracker/metrics"
	"github.com/Crowley723/server-tracker/notify"
	"github.com/Crowley723/server-tracker/report"
	"github.com/Crowley723/server-tracker/store"
)

const (
	deliverySent    = "sent"
	deliveryFailed  = "failed"
	deliverySkipped = "skipped"
)

func NewReporter(
	cfg *config.Config,
	st *store.Store,
	renderer Renderer,
	notifier notify.Notifier,
	m *metrics.Metrics,
	clock Clock,
	logger *slog.Logger,
) (*Reporter, error) {
	schedule, err := cfg.Report.ParseSchedule()
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse report schedule")
	}

	location, err := cfg.Report.Location()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load report timezone")
	}

	return &Reporter{
		hosts:         cfg.Hosts(),
		trigger:       NewTrigger(schedule, location),
		checkInterval: cfg.Report.CheckIntervalDuration(),
		title:         cfg.Report.Title,
		color:         cfg.Report.Color,
		store:         st,
		renderer:      renderer,
		notifier:      notifier,
		metrics:       m,
		clock:         clock,
		logger:        logger.With("component", "reporter"),
		state:         StateWaiting,
	}, nil
}

// Start checks the trigger every check interval until ctx is done.
func (r *Reporter) Start(ctx context.Context) {
	r.logger.Info("starting report loop",
		"check_interval", r.checkInterval,
		"hosts", len(r.hosts))

	for {
		r.Check(ctx)

		if err := r.clock.Sleep(ctx, r.checkInterval); err != nil {
			r.logger.Info("report loop stopped")
			return
		}
	}
}

// Check runs a report cycle when the current minute matches the trigger.
// It returns whether a cycle ran. A minute fires at most once.
func (r *Reporter) Check(ctx context.Context) bool {
	now := r.clock.Now()
	if !r.trigger.Matches(now) {
		return false
	}

	minute := now.Truncate(time.Minute)
	r.mu.Lock()
	if r.lastFired.Equal(minute) {
		r.mu.Unlock()
		return false
	}
	r.lastFired = minute
	r.mu.Unlock()

	if err := r.RunCycle(ctx); err != nil {
		r.logger.Error("report cycle finished with errors", "error", err)
	}
	return true
}

// RunCycle reports every host in listed order and then clears the store.
// Hosts without samples are skipped. A failed delivery is logged and the
// next host is still reported; the store is cleared regardless.
func (r *Reporter) RunCycle(ctx context.Context) error {
	r.setState(StateReporting)
	defer r.setState(StateWaiting)

	cycle := uuid.NewString()
	logger := r.logger.With("cycle", cycle)
	logger.Info("report cycle started", "hosts", len(r.hosts))

	var result *multierror.Error
	sent := 0
	for _, host := range r.hosts {
		err := r.reportHost(ctx, logger, host)
		switch {
		case err == nil:
			sent++
			r.metrics.ObserveDelivery(host, deliverySent)
		case errors.Is(err, store.ErrEmptySeries):
			r.metrics.ObserveDelivery(host, deliverySkipped)
			logger.Warn("no samples recorded, skipping host", "host", host)
		default:
			r.metrics.ObserveDelivery(host, deliveryFailed)
			logger.Error("failed to deliver report", "host", host, "error", err)
			result = multierror.Append(result, errors.Wrapf(err, "host %s", host))
		}
	}

	r.store.Reset()
	r.metrics.ObserveCycle()

	logger.Info("report cycle complete",
		"sent", sent,
		"hosts", len(r.hosts))

	return result.ErrorOrNil()
}

func (r *Reporter) reportHost(ctx context.Context, logger *slog.Logger, host string) error {
	if _, err := r.store.Summarize(host); err != nil {
		return err
	}

	rep, err := r.renderer.Render(host, r.store.Snapshot(host))
	if err != nil {
		return errors.Wrap(err, "failed to render chart")
	}

	msg := notify.Message{
		Title:       r.title,
		Description: rep.Description,
		Color:       r.color,
		Footer:      host,
		Timestamp:   r.clock.Now(),
		Attachment: &notify.Attachment{
			Filename:    report.ImageFilename,
			ContentType: "image/png",
			Data:        rep.Image,
		},
	}

	if err := r.notifier.Notify(ctx, msg); err != nil {
		return err
	}

	logger.Info("report delivered",
		"host", host,
		"average", rep.Summary.Average,
		"peak", rep.Summary.Peak,
		"samples", rep.Summary.Count)
	return nil
}

func (r *Reporter) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.state
}

func (r *Reporter) setState(state State) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state = state
}
