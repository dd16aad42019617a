package adminserver

import (
	"encoding/json"
	"net/http"

	"github.com/tcpgate/tcpgate/internal/infra/buildinfo"
	"github.com/tcpgate/tcpgate/internal/telemetry/logger"
)

// NewRouter builds the admin route handler.
func NewRouter(cfg *Config) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/version", handleVersion)
	if cfg.Metrics != nil {
		mux.Handle("/metrics", cfg.Metrics.Handler())
	}

	return Chain(mux,
		Logging(log),
		BearerAuth(cfg.AuthToken),
	)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(buildinfo.Get())
}
