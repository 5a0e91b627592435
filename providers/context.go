package providers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/Crowley723/server-tracker/config"
	"github.com/Crowley723/server-tracker/metrics"
	"github.com/Crowley723/server-tracker/report"
	"github.com/Crowley723/server-tracker/store"
)

type AppContext struct {
	context.Context
	Config    *config.Config
	Logger    *slog.Logger
	Store     *store.Store
	Renderer  *report.Renderer
	Metrics   *metrics.Metrics
	StartedAt time.Time
	Request   *http.Request
	Response  http.ResponseWriter
}

type contextKey string

const appContextKey contextKey = "appContext"

type AppHandler func(*AppContext)

// AppContextMiddleware injects AppContext into the request context
func AppContextMiddleware(baseCtx *AppContext) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestCtx := &AppContext{
				Context:   r.Context(),
				Config:    baseCtx.Config,
				Logger:    baseCtx.Logger,
				Store:     baseCtx.Store,
				Renderer:  baseCtx.Renderer,
				Metrics:   baseCtx.Metrics,
				StartedAt: baseCtx.StartedAt,
				Request:   r,
				Response:  w,
			}
			ctx := context.WithValue(r.Context(), appContextKey, requestCtx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Wrap converts an AppHandler to http.HandlerFunc
func Wrap(handler AppHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appCtx := GetAppContext(r)
		if appCtx == nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		handler(appCtx)
	}
}

// NewAppContext creates the base context shared by every request.
func NewAppContext(ctx context.Context, cfg *config.Config, logger *slog.Logger, st *store.Store, renderer *report.Renderer, m *metrics.Metrics) *AppContext {
	return &AppContext{
		Context:   ctx,
		Config:    cfg,
		Logger:    logger,
		Store:     st,
		Renderer:  renderer,
		Metrics:   m,
		StartedAt: time.Now(),
	}
}

// GetAppContext retrieves AppContext from request
func GetAppContext(r *http.Request) *AppContext {
	if ctx, ok := r.Context().Value(appContextKey).(*AppContext); ok {
		return ctx
	}
	return nil
}

func (ctx *AppContext) WriteJSON(status int, data interface{}) {
	ctx.Response.Header().Set("Content-Type", "application/json")
	ctx.Response.WriteHeader(status)
	if err := json.NewEncoder(ctx.Response).Encode(data); err != nil {
		ctx.Logger.Error("failed to encode json", "error", err)
	}
}

func (ctx *AppContext) SetJSONError(status int, message string) {
	ctx.WriteJSON(status, map[string]string{
		"error": message,
	})
}

func (ctx *AppContext) WriteBytes(status int, contentType string, bytes []byte) {
	ctx.Response.Header().Set("Content-Type", contentType)
	ctx.Response.WriteHeader(status)
	if _, err := ctx.Response.Write(bytes); err != nil {
		ctx.Logger.Error("failed to write response", "err", err)
	}
}

// IsMonitored reports whether host is one of the configured servers.
func (ctx *AppContext) IsMonitored(host string) bool {
	for _, h := range ctx.Config.ServerIPs {
		if h == host {
			return true
		}
	}
	return false
}
