package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"flytxt-analytics/database"
)

// summaryCacheKey is where the composer caches the latest KPI snapshot
const summaryCacheKey = "summary:latest"

// handleGetSummary returns the latest composed KPI snapshot.
// Redis first, Postgres as fallback.
func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	if s.redis != nil {
		var cached map[string]interface{}
		if err := s.redis.Get(r.Context(), summaryCacheKey, &cached); err == nil {
			respondJSON(w, map[string]interface{}{
				"summary": cached,
				"source":  "cache",
			})
			return
		}
	}

	summary, err := s.repo.GetLatestSummary()
	if err != nil {
		var notFound *database.NotFoundError
		if errors.As(err, &notFound) {
			respondWithError(w, http.StatusNotFound, "no summary computed yet", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "failed to fetch summary", err)
		return
	}

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(summary.Payload), &payload); err != nil {
		respondWithError(w, http.StatusInternalServerError, "corrupt summary payload", err)
		return
	}

	respondJSON(w, map[string]interface{}{
		"summary":      payload,
		"generated_at": summary.GeneratedAt,
		"source":       "database",
	})
}
