package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/Crowley723/server-tracker/config"
)

func NewPoller(cfg *config.Config, fetcher Fetcher, clock Clock, logger *slog.Logger) *Poller {
	return &Poller{
		hosts:    cfg.Hosts(),
		interval: cfg.PollInterval(),
		fetcher:  fetcher,
		clock:    clock,
		logger:   logger.With("component", "poller"),
		state:    StateIdle,
	}
}

// Start polls immediately and then once every interval until ctx is done.
func (p *Poller) Start(ctx context.Context) {
	p.logger.Info("starting poll loop",
		"interval", p.interval,
		"hosts", len(p.hosts))

	for {
		p.Tick(ctx)

		if err := p.clock.Sleep(ctx, p.interval); err != nil {
			p.logger.Info("poll loop stopped")
			return
		}
	}
}

// Tick fetches every host once in listed order. A failing host never
// prevents the remaining ones from being fetched.
func (p *Poller) Tick(ctx context.Context) {
	p.setState(StatePolling)
	defer p.setState(StateIdle)

	started := p.clock.Now()
	failed := 0
	for _, host := range p.hosts {
		if ctx.Err() != nil {
			return
		}

		if _, err := p.fetcher.Fetch(ctx, host); err != nil {
			failed++
			p.logger.Warn("failed to fetch host", "host", host, "error", err)
		}
	}

	p.mu.Lock()
	p.ticks++
	tick := p.ticks
	p.mu.Unlock()

	p.logger.Debug("poll tick complete",
		"tick", tick,
		"hosts", len(p.hosts),
		"failed", failed,
		"took", p.clock.Now().Sub(started).Round(time.Millisecond))
}

func (p *Poller) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.state
}

// Ticks returns how many ticks have completed.
func (p *Poller) Ticks() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.ticks
}

func (p *Poller) setState(state State) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state = state
}
