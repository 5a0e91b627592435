package api

import (
	"time"
)

type HealthResponse struct {
	Hostname string `json:"hostname"`
	Status   string `json:"status"`
	Uptime   string `json:"uptime"`
}

type HostSummary struct {
	Host    string `json:"host"`
	Average int    `json:"average"`
	Peak    int    `json:"peak"`
	Count   int    `json:"count"`
}

type StatusResponse struct {
	Since time.Time     `json:"since"`
	Hosts []HostSummary `json:"hosts"`
}

type SampleResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Value     int       `json:"value"`
}

type HostStatusResponse struct {
	HostSummary
	Since   time.Time        `json:"since"`
	Samples []SampleResponse `json:"samples"`
}
