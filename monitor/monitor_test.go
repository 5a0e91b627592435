package monitor

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/Crowley723/server-tracker/config"
	"github.com/Crowley723/server-tracker/metrics"
	"github.com/Crowley723/server-tracker/notify"
	"github.com/Crowley723/server-tracker/report"
	"github.com/Crowley723/server-tracker/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeClock advances its time by every requested sleep and cancels the
// loop once maxSleeps is reached.
type fakeClock struct {
	mu        sync.Mutex
	now       time.Time
	sleeps    []time.Duration
	maxSleeps int
	cancel    context.CancelFunc
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.mu.Lock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	done := c.maxSleeps > 0 && len(c.sleeps) >= c.maxSleeps
	c.mu.Unlock()

	if done && c.cancel != nil {
		c.cancel()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return nil
}

type fakeFetcher struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool
}

func (f *fakeFetcher) Fetch(_ context.Context, host string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, host)
	if f.fail[host] {
		return 0, errors.New("attempts exhausted")
	}
	return 7, nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []notify.Message
	fail     map[string]bool
}

func (n *fakeNotifier) Notify(_ context.Context, msg notify.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.messages = append(n.messages, msg)
	if n.fail[msg.Footer] {
		return errors.Wrap(notify.ErrDelivery, "status 500")
	}
	return nil
}

func testConfig(hosts ...string) *config.Config {
	return &config.Config{
		WebhookURL:   "https://example.com/hook",
		TrackingTime: 300,
		ServerIPs:    hosts,
		Monitor:      config.DefaultMonitorConfig,
		Report:       config.DefaultReportConfig,
	}
}

func at(hour, minute, second int) time.Time {
	return time.Date(2026, 3, 14, hour, minute, second, 0, time.Local)
}

func newTestReporter(t *testing.T, cfg *config.Config, st *store.Store, n notify.Notifier, clock Clock) *Reporter {
	t.Helper()

	r, err := NewReporter(cfg, st, report.NewRenderer(48, time.Local), n, metrics.New(), clock, discardLogger())
	require.NoError(t, err)
	return r
}

func seed(st *store.Store, host string, values ...int) {
	start := at(12, 0, 0)
	for i, v := range values {
		st.RecordAt(host, v, start.Add(time.Duration(i)*5*time.Minute))
	}
}

func TestTickFetchesEveryHostInOrder(t *testing.T) {
	f := &fakeFetcher{fail: map[string]bool{"b.example.com": true}}
	p := NewPoller(testConfig("a.example.com", "b.example.com", "c.example.com"), f, &fakeClock{now: at(8, 0, 0)}, discardLogger())

	p.Tick(context.Background())

	require.Equal(t, []string{"a.example.com", "b.example.com", "c.example.com"}, f.calls)
	require.Equal(t, StateIdle, p.State())
	require.EqualValues(t, 1, p.Ticks())
}

func TestPollerStartLoopsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := &fakeClock{now: at(8, 0, 0), maxSleeps: 3, cancel: cancel}
	f := &fakeFetcher{}
	p := NewPoller(testConfig("a.example.com"), f, clock, discardLogger())

	p.Start(ctx)

	require.Len(t, f.calls, 3)
	require.Equal(t, []time.Duration{300 * time.Second, 300 * time.Second, 300 * time.Second}, clock.sleeps)
}

func TestTickStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := &fakeFetcher{}
	p := NewPoller(testConfig("a.example.com", "b.example.com"), f, &fakeClock{now: at(8, 0, 0)}, discardLogger())

	p.Tick(ctx)

	require.Empty(t, f.calls)
}

func TestTriggerMatchesMinute(t *testing.T) {
	trigger, err := ParseTrigger("0 0 * * *", time.Local)
	require.NoError(t, err)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"midnight", at(0, 0, 0), true},
		{"within midnight minute", at(0, 0, 59), true},
		{"one minute late", at(0, 1, 0), false},
		{"noon", at(12, 0, 0), false},
		{"just before midnight", at(23, 59, 59), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, trigger.Matches(tt.now))
		})
	}
}

func TestParseTriggerRejectsInvalid(t *testing.T) {
	_, err := ParseTrigger("every night", time.Local)
	require.Error(t, err)
}

func TestRunCycleReportsAndResets(t *testing.T) {
	st := store.New()
	seed(st, "play.example.com", 10, 20, 30)

	n := &fakeNotifier{}
	r := newTestReporter(t, testConfig("play.example.com"), st, n, &fakeClock{now: at(0, 0, 0)})

	require.NoError(t, r.RunCycle(context.Background()))

	require.Len(t, n.messages, 1)
	msg := n.messages[0]
	require.Equal(t, "Server Tracker", msg.Title)
	require.Equal(t, "play.example.com", msg.Footer)
	require.Contains(t, msg.Description, "IP: `play.example.com`")
	require.Contains(t, msg.Description, "> Average Online: `20`")
	require.Contains(t, msg.Description, "> Peak Online: `30`")
	require.NotNil(t, msg.Attachment)
	require.Equal(t, report.ImageFilename, msg.Attachment.Filename)
	require.Equal(t, "image/png", msg.Attachment.ContentType)
	require.NotEmpty(t, msg.Attachment.Data)

	require.Zero(t, st.Len("play.example.com"))
	require.Equal(t, StateWaiting, r.State())
}

func TestRunCycleDeliveryFailureDoesNotBlockOthers(t *testing.T) {
	st := store.New()
	seed(st, "a.example.com", 1, 2)
	seed(st, "b.example.com", 3, 4)

	n := &fakeNotifier{fail: map[string]bool{"a.example.com": true}}
	r := newTestReporter(t, testConfig("a.example.com", "b.example.com"), st, n, &fakeClock{now: at(0, 0, 0)})

	err := r.RunCycle(context.Background())
	require.Error(t, err)
	require.True(t, errors.Is(err, notify.ErrDelivery))
	require.Contains(t, err.Error(), "a.example.com")

	require.Len(t, n.messages, 2)
	require.Equal(t, "b.example.com", n.messages[1].Footer)
	require.Zero(t, st.Len("a.example.com"))
	require.Zero(t, st.Len("b.example.com"))
}

func TestRunCycleSkipsEmptyHosts(t *testing.T) {
	st := store.New()
	seed(st, "b.example.com", 5)

	n := &fakeNotifier{}
	r := newTestReporter(t, testConfig("a.example.com", "b.example.com"), st, n, &fakeClock{now: at(0, 0, 0)})

	require.NoError(t, r.RunCycle(context.Background()))
	require.Len(t, n.messages, 1)
	require.Equal(t, "b.example.com", n.messages[0].Footer)
}

func TestCheckFiresOncePerMinute(t *testing.T) {
	st := store.New()
	seed(st, "a.example.com", 5)

	clock := &fakeClock{now: at(0, 0, 10)}
	n := &fakeNotifier{}
	r := newTestReporter(t, testConfig("a.example.com"), st, n, clock)

	require.True(t, r.Check(context.Background()))

	seed(st, "a.example.com", 6)
	clock.now = at(0, 0, 40)
	require.False(t, r.Check(context.Background()))

	clock.now = at(0, 1, 0)
	require.False(t, r.Check(context.Background()))

	require.Len(t, n.messages, 1)
	require.Equal(t, 1, st.Len("a.example.com"))
}

func TestReporterStartFiresAtMidnight(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := store.New()
	seed(st, "a.example.com", 10, 20)

	clock := &fakeClock{now: at(23, 58, 0), maxSleeps: 4, cancel: cancel}
	n := &fakeNotifier{}
	r := newTestReporter(t, testConfig("a.example.com"), st, n, clock)

	r.Start(ctx)

	require.Len(t, clock.sleeps, 4)
	require.Len(t, n.messages, 1)
	require.Zero(t, st.Len("a.example.com"))
}

func TestStateString(t *testing.T) {
	require.Equal(t, "idle", StateIdle.String())
	require.Equal(t, "polling", StatePolling.String())
	require.Equal(t, "waiting", StateWaiting.String())
	require.Equal(t, "reporting", StateReporting.String())
	require.Equal(t, "unknown", State(42).String())
}
