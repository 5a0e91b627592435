package store

import (
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Store keeps the per host series for the current cycle. All methods are
// safe for concurrent use, mutations and reads never interleave.
type Store struct {
	mu     sync.RWMutex
	series map[string][]Sample
	since  time.Time
	now    func() time.Time
}

func New() *Store {
	return NewWithClock(time.Now)
}

// NewWithClock returns a store that stamps samples using now.
func NewWithClock(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		series: make(map[string][]Sample),
		since:  now(),
		now:    now,
	}
}

// Record appends value for host stamped with the current time and returns
// the running summary of that host.
func (s *Store) Record(host string, value int) Summary {
	return s.RecordAt(host, value, s.now())
}

func (s *Store) RecordAt(host string, value int, ts time.Time) Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.series[host] = append(s.series[host], Sample{Timestamp: ts, Value: value})

	// cannot fail, the series is non-empty here
	summary, _ := Summarize(s.series[host])
	return summary
}

func (s *Store) Summarize(host string) (Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary, err := Summarize(s.series[host])
	if err != nil {
		return Summary{}, errors.Wrapf(err, "host %s", host)
	}
	return summary, nil
}

// Snapshot returns a copy of the host series in chronological order.
func (s *Store) Snapshot(host string) []Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()

	series := s.series[host]
	result := make([]Sample, len(series))
	copy(result, series)
	return result
}

// Len returns the number of samples recorded for host.
func (s *Store) Len(host string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.series[host])
}

// Hosts returns the hosts that have samples, sorted by name.
func (s *Store) Hosts() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hosts := make([]string, 0, len(s.series))
	for host := range s.series {
		hosts = append(hosts, host)
	}
	sort.Strings(hosts)
	return hosts
}

// Since returns the start of the current cycle.
func (s *Store) Since() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.since
}

// Reset discards every series and starts a new cycle.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.series = make(map[string][]Sample)
	s.since = s.now()
}
