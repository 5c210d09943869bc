package main

import (
	"encoding/json"
	"net/http"
)

// --- Response helpers ---
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeInvalidQuery reports the query parameters that failed validation.
func writeInvalidQuery(w http.ResponseWriter, fields []string) {
	writeJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":  "invalid_query",
		"fields": fields,
	})
}
