package config

const (
	fmtErrEmptyConfig       = "config %s cannot be empty"
	fmtErrEmptyConfigOption = "config field '%s' cannot be empty"
	fmtErrInvalidDuration   = "config field '%s' must be a positive duration"
	fmtErrInvalidMinimum    = "config field '%s' must be at least %d"
)
