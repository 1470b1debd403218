package app

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// healthHandler reports liveness.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// progressHandler exposes the current job's advisory progress. Before a job
// has started reporting, the payload marks the converter idle.
func (a *App) progressHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	payload := map[string]any{"idle": true}
	if j := a.current; j != nil {
		if pct, active := j.Progress(); active {
			payload = map[string]any{
				"idle":     false,
				"progress": pct,
				"status":   j.Status().String(),
			}
		}
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.logger.Error("Failed to encode progress payload", "error", err)
	}
}

// startHealthcheckServer initializes and runs the health check HTTP server.
func (a *App) startHealthcheckServer(port int) {
	a.logger.Debug("Configuring health check server.")
	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)
	mux.HandleFunc("/progress", a.progressHandler)

	addr := fmt.Sprintf(":%d", port)

	go func() {
		a.logger.Info("🩺 Health check server starting", "address", fmt.Sprintf("http://localhost%s/health", addr))
		if err := http.ListenAndServe(addr, mux); err != nil {
			a.logger.Error("Health check server failed", "error", err)
		}
	}()
}
