package config

import (
	"time"

	"github.com/robfig/cron/v3"
)

// PollInterval returns tracking_time as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.TrackingTime) * time.Second
}

// Hosts returns a copy of the configured server list in listed order.
func (c *Config) Hosts() []string {
	hosts := make([]string, len(c.ServerIPs))
	copy(hosts, c.ServerIPs)
	return hosts
}

// TimeoutDuration returns the per-attempt request timeout.
// Values are validated on load, a parse failure here yields zero.
func (c *MonitorConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// RetryDelayDuration returns the fixed delay between fetch attempts.
func (c *MonitorConfig) RetryDelayDuration() time.Duration {
	d, _ := time.ParseDuration(c.RetryDelay)
	return d
}

// CheckIntervalDuration returns how often the report trigger is checked.
func (c *ReportConfig) CheckIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.CheckInterval)
	return d
}

// Location resolves the timezone used for the trigger and chart labels.
func (c *ReportConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// ParseSchedule parses the daily trigger as a standard five field cron expression.
func (c *ReportConfig) ParseSchedule() (cron.Schedule, error) {
	return cron.ParseStandard(c.Schedule)
}
