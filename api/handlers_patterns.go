package api

import (
	"net/http"
	"time"

	"flytxt-analytics/database"
	"flytxt-analytics/stats"
)

// handleGetWeekdays returns the stored weekday profiles for a scope
func (s *Server) handleGetWeekdays(w http.ResponseWriter, r *http.Request) {
	scope := scopeName(getCountryParam(r))

	profiles, err := s.repo.GetWeekdayProfiles(scope)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to fetch weekday profiles", err)
		return
	}

	respondJSON(w, map[string]interface{}{
		"scope":    scope,
		"weekdays": profiles,
	})
}

// handleGetHours returns the hourly load profile and efficiency windows
func (s *Server) handleGetHours(w http.ResponseWriter, r *http.Request) {
	country := getCountryParam(r)
	if country != "" && !database.ValidCountry(country) {
		respondWithError(w, http.StatusBadRequest, "unknown country", nil)
		return
	}
	since := sinceParam(r, s.analysis.TrendWindowDays)

	counts, err := s.repo.HourlyTotals(country, since)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to fetch hourly totals", err)
		return
	}

	hours := make([]map[string]interface{}, 0, len(counts))
	for hour := 0; hour < 24; hour++ {
		if v, ok := counts[hour]; ok {
			hours = append(hours, map[string]interface{}{"hour": hour, "records": v})
		}
	}

	respondJSON(w, map[string]interface{}{
		"scope":     scopeName(country),
		"hours":     hours,
		"breakdown": stats.HourlyWindows(counts),
	})
}

// handleGetForecast projects the next day's volume and compares it
// against the matching weekday's historical mean.
func (s *Server) handleGetForecast(w http.ResponseWriter, r *http.Request) {
	since := sinceParam(r, s.analysis.TrendWindowDays)

	aggregates, err := s.repo.GlobalDailyAggregates(since)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to fetch daily series", err)
		return
	}

	points := make([]stats.DailyPoint, len(aggregates))
	for i, a := range aggregates {
		points[i] = stats.DailyPoint{Date: a.Date, Value: float64(a.RecordCount)}
	}

	forecast := stats.Forecast(points)
	response := map[string]interface{}{
		"forecast": forecast,
	}

	if forecast.Valid && len(points) > 0 {
		nextDay := points[len(points)-1].Date.AddDate(0, 0, 1)
		response["next_date"] = nextDay.Format(time.DateOnly)

		// Historical mean of the same weekday, when the profile exists
		if profiles, err := s.repo.GetWeekdayProfiles(database.ScopeGlobal); err == nil {
			for _, p := range profiles {
				if p.Weekday == int(nextDay.Weekday()) {
					response["weekday_mean"] = p.MeanVolume
					break
				}
			}
		}
	}

	respondJSON(w, response)
}
