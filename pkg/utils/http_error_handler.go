package utils

import (
	"encoding/json"
	"net/http"
)

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func WriteError(w http.ResponseWriter, message string, statusCode int) {
	WriteFieldError(w, "", message, statusCode)
}

// WriteFieldError is WriteError with the offending request field named.
func WriteFieldError(w http.ResponseWriter, field, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(errorResponse{
		Status:  "error",
		Message: message,
		Field:   field,
	}); err != nil {
		Logger.WithError(err).Error("failed to encode error response")
	}
}
