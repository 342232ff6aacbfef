package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// getIntParam reads an integer query parameter with a default
func getIntParam(r *http.Request, name string, defaultValue int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

// getFloatParam reads a float query parameter with a default
func getFloatParam(r *http.Request, name string, defaultValue float64) float64 {
	if v := r.URL.Query().Get(name); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getCountryParam reads and normalizes the optional country filter
func getCountryParam(r *http.Request) string {
	return strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("country")))
}

// sinceParam converts a "days" query parameter into a cutoff time
func sinceParam(r *http.Request, defaultDays int) time.Time {
	days := getIntParam(r, "days", defaultDays)
	return time.Now().AddDate(0, 0, -days)
}

func respondJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("❌ Failed to encode response: %v", err)
	}
}

func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	if err != nil {
		log.Printf("❌ %s: %v", message, err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
