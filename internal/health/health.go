// Package health serves the liveness and readiness probes. Both respond
// JSON like every other endpoint of the service.
package health

import "net/http"

// Healthz is the liveness probe: the process is up and serving.
func Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}` + "\n"))
}

// Readyz is the readiness probe. The service has no deferred startup work:
// once the listener is up, propagation and catalog fetches are available, so
// readiness mirrors liveness.
func Readyz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}` + "\n"))
}
