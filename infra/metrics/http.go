package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kilianp07/pitwall/infra/logger"
)

// StartPromServer exposes the Prometheus scrape endpoint on addr until the
// context is cancelled. A dedicated mux keeps the endpoint off
// http.DefaultServeMux, so a host embedding the race loop keeps its own
// handlers untouched.
func StartPromServer(ctx context.Context, addr string) error {
	log := logger.New("prom-server")

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("scrape endpoint shutdown: %v", err)
		}
	}()

	log.Infof("serving metrics on %s/metrics", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
