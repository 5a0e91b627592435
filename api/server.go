package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/Crowley723/server-tracker/providers"
)

// NewHandler builds the routed status API around appCtx.
func NewHandler(appCtx *providers.AppContext) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", providers.Wrap(handleHealthGET))
	mux.HandleFunc("GET /status", providers.Wrap(handleStatusGET))
	mux.HandleFunc("GET /status/{host}", providers.Wrap(handleHostStatusGET))
	mux.HandleFunc("GET /status/{host}/chart.png", providers.Wrap(handleHostChartGET))
	mux.Handle("GET /metrics", appCtx.Metrics.Handler())

	return providers.AppContextMiddleware(appCtx)(RequestLogger(mux))
}

// StartServer serves the status API until ctx is cancelled, then shuts
// down gracefully.
func StartServer(ctx context.Context, appCtx *providers.AppContext) error {
	logger := appCtx.Logger
	address := fmt.Sprintf(":%d", appCtx.Config.API.Port)

	server := &http.Server{
		Addr:              address,
		Handler:           NewHandler(appCtx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Listening on address", "addr", address)

	done := make(chan error, 1)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			done <- err
			return
		}
		done <- nil
	}()

	select {
	case err := <-done:
		return errors.Wrap(err, "status api stopped")
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
		return err
	}

	return <-done
}
