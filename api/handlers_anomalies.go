package api

import (
	"net/http"

	"flytxt-analytics/database"
)

// handleGetAnomalies returns flagged deviations, strongest first
func (s *Server) handleGetAnomalies(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	if kind != "" && !database.ValidAnomalyKind(kind) {
		respondWithError(w, http.StatusBadRequest, "unknown anomaly kind", nil)
		return
	}

	minScore := getFloatParam(r, "min_score", 0)
	since := sinceParam(r, 7)

	anomalies, err := s.repo.GetAnomalies(kind, minScore, since)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to fetch anomalies", err)
		return
	}

	respondJSON(w, map[string]interface{}{
		"anomalies": anomalies,
		"count":     len(anomalies),
		"min_score": minScore,
	})
}
