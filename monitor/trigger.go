package monitor

import (
	"time"

	"github.com/robfig/cron/v3"
)

// Trigger decides whether a wall-clock minute is a report instant.
//
// Matching is done at minute resolution against the time of each check.
// A check loop that wakes up off alignment can step over the matching
// minute, in which case that day's report is skipped.
type Trigger struct {
	schedule cron.Schedule
	location *time.Location
}

func NewTrigger(schedule cron.Schedule, location *time.Location) *Trigger {
	if location == nil {
		location = time.Local
	}
	return &Trigger{schedule: schedule, location: location}
}

// ParseTrigger builds a trigger from a five field cron expression.
func ParseTrigger(expr string, location *time.Location) (*Trigger, error) {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, err
	}
	return NewTrigger(schedule, location), nil
}

// Matches reports whether now falls in a minute selected by the schedule.
func (t *Trigger) Matches(now time.Time) bool {
	minute := now.In(t.location).Truncate(time.Minute)
	return t.schedule.Next(minute.Add(-time.Second)).Equal(minute)
}
