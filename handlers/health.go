package handlers

import (
	"net/http"

	"github.com/mseongj/jiga-news/logger"
)

type healthResponse struct {
	Status  string                 `json:"status"`
	Metrics logger.MetricsSnapshot `json:"metrics"`
}

// Health는 GET /health. 프로세스가 살아 있으면 항상 200.
func Health(log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{
			Status:  "ok",
			Metrics: log.GetMetrics(),
		})
	}
}
