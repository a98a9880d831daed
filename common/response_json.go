package common

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the body written by OutputError.
type ErrorResponse struct {
	Code   int    `json:"code"`
	Reason string `json:"reason"`
}

// OutputJSON encodes data to JSON and writes it to the http.ResponseWriter
func OutputJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	return json.NewEncoder(w).Encode(data)
}

func OutputError(w http.ResponseWriter, status int, reason string) error {
	return OutputJSON(w, status, ErrorResponse{Code: status, Reason: reason})
}
