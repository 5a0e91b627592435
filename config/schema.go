package config

type Config struct {
	WebhookURL   string        `yaml:"webhook_url"`
	TrackingTime int           `yaml:"tracking_time"`
	ServerIPs    []string      `yaml:"server_ips"`
	Monitor      MonitorConfig `yaml:"monitor"`
	Report       ReportConfig  `yaml:"report"`
	API          APIConfig     `yaml:"api"`
	Logging      LoggingConfig `yaml:"logging"`
}

// DefaultTrackingTime is the poll interval in seconds used when the file omits it.
const DefaultTrackingTime = 300

type MonitorConfig struct {
	Endpoint    string `yaml:"endpoint"`
	Timeout     string `yaml:"timeout"`
	RetryDelay  string `yaml:"retry_delay"`
	MaxAttempts int    `yaml:"max_attempts"`
	UserAgent   string `yaml:"user_agent"`
}

var DefaultMonitorConfig = MonitorConfig{
	Endpoint:    "https://api.mcsrvstat.us/3/",
	Timeout:     `10s`,
	RetryDelay:  `3s`,
	MaxAttempts: 3,
	UserAgent:   "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
}

type ReportConfig struct {
	Schedule      string `yaml:"schedule"`
	CheckInterval string `yaml:"check_interval"`
	MaxPoints     int    `yaml:"max_points"`
	Title         string `yaml:"title"`
	Username      string `yaml:"username"`
	Color         int    `yaml:"color"`
	Timezone      string `yaml:"timezone"`
}

var DefaultReportConfig = ReportConfig{
	Schedule:      "0 0 * * *",
	CheckInterval: `60s`,
	MaxPoints:     48,
	Title:         "Server Tracker",
	Username:      "Server Tracker",
	Color:         0x000000,
	Timezone:      "Local",
}

type APIConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

var DefaultAPIConfig = APIConfig{
	Enabled: false,
	Port:    8080,
}

type LoggingConfig struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

var DefaultLoggingConfig = LoggingConfig{
	Level: "info",
}
