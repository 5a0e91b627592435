package utils

import (
	"log/slog"
	"os"
)

// GetHostname prefers $HOSTNAME and falls back to the kernel hostname.
func GetHostname(logger *slog.Logger) string {
	hostname := os.Getenv("HOSTNAME")
	if hostname == "" {
		osHostname, err := os.Hostname()
		if err != nil {
			logger.Warn("failed to read hostname", "error", err)
			return "unknown"
		}
		hostname = osHostname
	}

	return hostname
}
