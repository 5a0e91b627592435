package fetcher

import (
	"github.com/Crowley723/server-tracker/store"
	"github.com/pkg/errors"
)

var (
	// ErrTransient covers connection errors, timeouts and non-2xx statuses.
	ErrTransient = errors.New("transient fetch error")
	// ErrMalformedResponse is returned when the body is not JSON or lacks players.online.
	ErrMalformedResponse = errors.New("malformed status response")
	// ErrAttemptsExhausted is returned once every attempt of a fetch failed.
	ErrAttemptsExhausted = errors.New("fetch attempts exhausted")
)

// Outcome classifies a single attempt.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeRetryable
	OutcomeFatal
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRetryable:
		return "retryable"
	case OutcomeFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Result is the outcome of one request to the status endpoint.
type Result struct {
	Outcome Outcome
	Online  int
	Err     error
}

func success(online int) Result {
	return Result{Outcome: OutcomeSuccess, Online: online}
}

func retryable(err error) Result {
	return Result{Outcome: OutcomeRetryable, Err: err}
}

func fatal(err error) Result {
	return Result{Outcome: OutcomeFatal, Err: err}
}

// Recorder receives successfully fetched values.
type Recorder interface {
	Record(host string, value int) store.Summary
}

// statusResponse is the subset of the mcsrvstat.us v3 body we read.
type statusResponse struct {
	Online  bool           `json:"online"`
	Players *playersStatus `json:"players"`
}

type playersStatus struct {
	Online *int `json:"online"`
	Max    int  `json:"max"`
}
