package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

type Validator interface {
	validateTrackerConfig() error
	validateMonitorConfig() error
	validateReportConfig() error
	validateAPIConfig() error
}

func validateConfig(config Validator) error {
	if err := config.validateTrackerConfig(); err != nil {
		return err
	}

	if err := config.validateMonitorConfig(); err != nil {
		return err
	}

	if err := config.validateReportConfig(); err != nil {
		return err
	}

	return config.validateAPIConfig()
}

func (c *Config) validateTrackerConfig() error {
	if c == nil {
		return fmt.Errorf(fmtErrEmptyConfig, "config")
	}

	if c.WebhookURL == "" {
		return fmt.Errorf(fmtErrEmptyConfigOption, "webhook_url")
	}

	u, err := url.Parse(c.WebhookURL)
	if err != nil {
		return errors.Wrap(err, "webhook_url is not a valid url")
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return errors.New("webhook_url must use http or https")
	}

	if c.TrackingTime <= 0 {
		return fmt.Errorf(fmtErrInvalidMinimum, "tracking_time", 1)
	}

	return nil
}

func (c *Config) validateMonitorConfig() error {
	if c == nil {
		return fmt.Errorf(fmtErrEmptyConfig, "config")
	}

	if c.Monitor.Endpoint == "" {
		return fmt.Errorf(fmtErrEmptyConfigOption, "monitor.endpoint")
	}

	if c.Monitor.Timeout == "" {
		return fmt.Errorf(fmtErrEmptyConfigOption, "monitor.timeout")
	}
	if !positiveDuration(c.Monitor.Timeout) {
		return fmt.Errorf(fmtErrInvalidDuration, "monitor.timeout")
	}

	if c.Monitor.RetryDelay == "" {
		return fmt.Errorf(fmtErrEmptyConfigOption, "monitor.retry_delay")
	}
	if !positiveDuration(c.Monitor.RetryDelay) {
		return fmt.Errorf(fmtErrInvalidDuration, "monitor.retry_delay")
	}

	if c.Monitor.MaxAttempts < 1 {
		return fmt.Errorf(fmtErrInvalidMinimum, "monitor.max_attempts", 1)
	}

	if c.Monitor.UserAgent == "" {
		return fmt.Errorf(fmtErrEmptyConfigOption, "monitor.user_agent")
	}

	return nil
}

func (c *Config) validateReportConfig() error {
	if c == nil {
		return fmt.Errorf(fmtErrEmptyConfig, "config")
	}

	if c.Report.Schedule == "" {
		return fmt.Errorf(fmtErrEmptyConfigOption, "report.schedule")
	}
	if _, err := c.Report.ParseSchedule(); err != nil {
		return errors.Wrap(err, "report.schedule is not a valid cron expression")
	}

	if !positiveDuration(c.Report.CheckInterval) {
		return fmt.Errorf(fmtErrInvalidDuration, "report.check_interval")
	}

	if c.Report.MaxPoints < 1 {
		return fmt.Errorf(fmtErrInvalidMinimum, "report.max_points", 1)
	}

	if c.Report.Color < 0 || c.Report.Color > 0xFFFFFF {
		return errors.New("report.color must be an RGB value between 0x000000 and 0xFFFFFF")
	}

	if _, err := c.Report.Location(); err != nil {
		return errors.Wrap(err, "report.timezone is not a known location")
	}

	return nil
}

func (c *Config) validateAPIConfig() error {
	if c == nil {
		return fmt.Errorf(fmtErrEmptyConfig, "config")
	}

	if !c.API.Enabled {
		return nil
	}

	if c.API.Port <= 0 || c.API.Port > 65535 {
		return errors.New("api.port must be in the range 1-65535")
	}

	return nil
}

func positiveDuration(value string) bool {
	d, err := time.ParseDuration(value)
	return err == nil && d > 0
}
