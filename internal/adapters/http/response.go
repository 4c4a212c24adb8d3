package http

import (
	"encoding/json"
	"net/http"
)

type successEnvelope struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
}

type errorEnvelope struct {
	Status string       `json:"status"`
	Error  errorPayload `json:"error"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, successEnvelope{Status: "success", Data: data})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, successEnvelope{Status: "success", Data: map[string]string{"message": message}})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Status: "error", Error: errorPayload{Code: code, Message: message}})
}
