package api

import (
	"net/http"

	"flytxt-analytics/database"
)

// handleGetCorrelations returns stored country pair correlations with
// strong positive/negative pair classification.
func (s *Server) handleGetCorrelations(w http.ResponseWriter, r *http.Request) {
	country := getCountryParam(r)
	if country != "" && !database.ValidCountry(country) {
		respondWithError(w, http.StatusBadRequest, "unknown country", nil)
		return
	}
	limit := getIntParam(r, "limit", 20)

	correlations, err := s.repo.GetCorrelations(country, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to fetch correlations", err)
		return
	}

	var strongPositive, strongNegative []database.CountryCorrelation
	for _, c := range correlations {
		switch {
		case c.Coefficient > s.analysis.StrongPositiveCutoff:
			strongPositive = append(strongPositive, c)
		case c.Coefficient < s.analysis.StrongNegativeCutoff:
			strongNegative = append(strongNegative, c)
		}
	}

	respondJSON(w, map[string]interface{}{
		"correlations":    correlations,
		"count":           len(correlations),
		"strong_positive": strongPositive,
		"strong_negative": strongNegative,
	})
}
