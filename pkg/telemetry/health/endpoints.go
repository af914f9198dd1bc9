package health

import (
	"encoding/json"
	"net/http"
	"runtime"
)

// VersionInfo contains build and version information.
type VersionInfo struct {
	// Version is the semantic version (e.g., "1.0.0")
	Version string `json:"version"`

	// Commit is the git commit hash
	Commit string `json:"commit"`

	// BuildTime is when the binary was built
	BuildTime string `json:"build_time"`

	// GoVersion is the Go version used to build
	GoVersion string `json:"go_version"`
}

// LivenessHandler returns an HTTP handler for the liveness probe endpoint.
//
// Example response:
//
//	{
//	    "status": "ok",
//	    "timestamp": "2024-03-01T10:30:00Z"
//	}
func (c *Checker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		writeJSON(w, r, http.StatusOK, c.CheckLiveness(r.Context()))
	}
}

// ReadinessHandler returns an HTTP handler for the readiness probe endpoint.
// It responds 200 when every component check passes and 503 otherwise.
//
// Example response (degraded):
//
//	{
//	    "status": "degraded",
//	    "checks": {
//	        "store": {"status": "unhealthy", "message": "database is locked", "duration_ms": 5000},
//	        "scheduler": {"status": "ok", "duration_ms": 0.01}
//	    },
//	    "timestamp": "2024-03-01T10:30:00Z"
//	}
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		status := c.CheckReadiness(r.Context())

		code := http.StatusOK
		if status.Status != StatusReady {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, r, code, status)
	}
}

// VersionHandler returns an HTTP handler reporting build information.
func VersionHandler(version, commit, buildTime string) http.HandlerFunc {
	info := VersionInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		writeJSON(w, r, http.StatusOK, info)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)

	if r.Method != http.MethodHead {
		_ = json.NewEncoder(w).Encode(v)
	}
}
