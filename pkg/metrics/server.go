package metrics

import (
	"context"
	"fmt"
	"net/http"

	"rtos-scheduler/pkg/config"
	"rtos-scheduler/pkg/logger"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsServer provides the HTTP endpoint for Prometheus scrapes
type MetricsServer struct {
	server *http.Server
	config *config.MetricsConfig
}

// NewMetricsServer creates a new metrics HTTP server
func NewMetricsServer(cfg *config.MetricsConfig) *MetricsServer {
	mux := http.NewServeMux()

	ms := &MetricsServer{
		config: cfg,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Port),
			Handler: mux,
		},
	}

	mux.Handle(cfg.Path, promhttp.Handler())
	mux.HandleFunc("/health", ms.handleHealth)

	return ms
}

// Start starts the metrics HTTP server
func (ms *MetricsServer) Start() error {
	if !ms.config.Enabled {
		logger.GetLogger().Info("Metrics server disabled")
		return nil
	}

	logger.GetLogger().Infof("Starting metrics server on port %d", ms.config.Port)

	go func() {
		if err := ms.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.GetLogger().Errorf("Metrics server error: %v", err)
		}
	}()

	return nil
}

// Stop gracefully stops the metrics server
func (ms *MetricsServer) Stop(ctx context.Context) error {
	if !ms.config.Enabled {
		return nil
	}

	logger.GetLogger().Info("Stopping metrics server...")
	return ms.server.Shutdown(ctx)
}

// handleHealth serves a simple health check
func (ms *MetricsServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, `{"status":"healthy"}`)
}
