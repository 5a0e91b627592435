package api

import (
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/Crowley723/server-tracker/providers"
	"github.com/Crowley723/server-tracker/report"
	"github.com/Crowley723/server-tracker/store"
	"github.com/Crowley723/server-tracker/utils"
)

// handleHealthGET reports liveness and uptime
func handleHealthGET(ctx *providers.AppContext) {
	ctx.WriteJSON(http.StatusOK, HealthResponse{
		Hostname: utils.GetHostname(ctx.Logger),
		Status:   "ok",
		Uptime:   time.Since(ctx.StartedAt).Round(time.Second).String(),
	})
}

// handleStatusGET returns the running summary of every configured host.
// Hosts without samples report zero counts.
func handleStatusGET(ctx *providers.AppContext) {
	hosts := make([]HostSummary, 0, len(ctx.Config.ServerIPs))
	for _, host := range ctx.Config.ServerIPs {
		summary, err := ctx.Store.Summarize(host)
		if err != nil && !errors.Is(err, store.ErrEmptySeries) {
			ctx.Logger.Error("failed to summarize host", "host", host, "err", err)
			ctx.SetJSONError(http.StatusInternalServerError, "Internal server error")
			return
		}
		hosts = append(hosts, toHostSummary(host, summary))
	}

	ctx.WriteJSON(http.StatusOK, StatusResponse{
		Since: ctx.Store.Since(),
		Hosts: hosts,
	})
}

// handleHostStatusGET returns the summary and samples of one host
func handleHostStatusGET(ctx *providers.AppContext) {
	host := ctx.Request.PathValue("host")
	if !ctx.IsMonitored(host) {
		ctx.SetJSONError(http.StatusNotFound, "Unknown host")
		return
	}

	samples := ctx.Store.Snapshot(host)
	summary, err := store.Summarize(samples)
	if err != nil && !errors.Is(err, store.ErrEmptySeries) {
		ctx.Logger.Error("failed to summarize host", "host", host, "err", err)
		ctx.SetJSONError(http.StatusInternalServerError, "Internal server error")
		return
	}

	resp := HostStatusResponse{
		HostSummary: toHostSummary(host, summary),
		Since:       ctx.Store.Since(),
		Samples:     make([]SampleResponse, 0, len(samples)),
	}
	for _, s := range samples {
		resp.Samples = append(resp.Samples, SampleResponse{Timestamp: s.Timestamp, Value: s.Value})
	}

	ctx.WriteJSON(http.StatusOK, resp)
}

// handleHostChartGET renders the current series of one host as a PNG
func handleHostChartGET(ctx *providers.AppContext) {
	host := ctx.Request.PathValue("host")
	if !ctx.IsMonitored(host) {
		ctx.SetJSONError(http.StatusNotFound, "Unknown host")
		return
	}

	rep, err := ctx.Renderer.Render(host, ctx.Store.Snapshot(host))
	if errors.Is(err, store.ErrEmptySeries) {
		ctx.SetJSONError(http.StatusNotFound, "No samples recorded")
		return
	}
	if err != nil {
		ctx.Logger.Error("failed to render chart", "host", host, "err", err)
		ctx.SetJSONError(http.StatusInternalServerError, "Internal server error")
		return
	}

	ctx.Response.Header().Set("Content-Disposition", "inline; filename="+report.ImageFilename)
	ctx.WriteBytes(http.StatusOK, "image/png", rep.Image)
}

func toHostSummary(host string, summary store.Summary) HostSummary {
	return HostSummary{
		Host:    host,
		Average: summary.Average,
		Peak:    summary.Peak,
		Count:   summary.Count,
	}
}
