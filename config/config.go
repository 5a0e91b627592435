package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config file path is required (use --config or -c)")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	return ParseConfig(data)
}

// ParseConfig decodes and validates a YAML document, filling unset
// sections with their defaults.
func ParseConfig(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}

	if err := validateConfig(&config); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &config, nil
}

func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	type raw Config
	r := raw{
		TrackingTime: DefaultTrackingTime,
		Monitor:      DefaultMonitorConfig,
		Report:       DefaultReportConfig,
		API:          DefaultAPIConfig,
		Logging:      DefaultLoggingConfig,
	}

	if err := value.Decode(&r); err != nil {
		return err
	}

	*c = Config(r)

	return nil
}
