package api

import (
	"net/http"
	"time"

	"flytxt-analytics/database"
	"flytxt-analytics/stats"
)

// handleGetTrends returns stored trend fits plus the daily series and
// its rolling mean for the requested scope.
func (s *Server) handleGetTrends(w http.ResponseWriter, r *http.Request) {
	country := getCountryParam(r)
	since := sinceParam(r, s.analysis.TrendWindowDays)

	results, err := s.repo.GetTrendResults()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to fetch trends", err)
		return
	}

	var aggregates []database.DailyAggregate
	if country == "" {
		aggregates, err = s.repo.GlobalDailyAggregates(since)
	} else {
		if !database.ValidCountry(country) {
			respondWithError(w, http.StatusBadRequest, "unknown country", nil)
			return
		}
		aggregates, err = s.repo.DailyAggregates(country, since)
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to fetch daily series", err)
		return
	}

	points := make([]stats.DailyPoint, len(aggregates))
	series := make([]map[string]interface{}, len(aggregates))
	for i, a := range aggregates {
		points[i] = stats.DailyPoint{Date: a.Date, Value: float64(a.RecordCount)}
	}
	rolling := stats.RollingMean(points, s.analysis.RollingWindowDays)
	for i, a := range aggregates {
		series[i] = map[string]interface{}{
			"date":         a.Date.Format(time.DateOnly),
			"records":      a.RecordCount,
			"volume":       a.TotalVolume,
			"rolling_mean": rolling[i],
		}
	}

	respondJSON(w, map[string]interface{}{
		"trends": results,
		"scope":  scopeName(country),
		"series": series,
	})
}

// handleGetCountries returns per-country totals and volume share
func (s *Server) handleGetCountries(w http.ResponseWriter, r *http.Request) {
	since := sinceParam(r, s.analysis.TrendWindowDays)

	totals, err := s.repo.CountryTotals(since)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to fetch country totals", err)
		return
	}

	var grandTotal int64
	for _, t := range totals {
		grandTotal += t.RecordCount
	}

	countries := make([]map[string]interface{}, len(totals))
	for i, t := range totals {
		share := 0.0
		if grandTotal > 0 {
			share = float64(t.RecordCount) / float64(grandTotal) * 100
		}
		countries[i] = map[string]interface{}{
			"country":      t.Country,
			"record_count": t.RecordCount,
			"total_volume": t.TotalVolume,
			"share_pct":    share,
		}
	}

	respondJSON(w, map[string]interface{}{
		"countries":     countries,
		"total_records": grandTotal,
	})
}

func scopeName(country string) string {
	if country == "" {
		return database.ScopeGlobal
	}
	return country
}
