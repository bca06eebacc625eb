package rpc

import (
	"encoding/json"
	"net/http"
)

// Error codes carried in the error envelope.
const (
	codeBadRequest         = "BAD_REQUEST"
	codeConflict           = "CONFLICT"
	codeNotFound           = "NOT_FOUND"
	codeMethodNotSupported = "METHOD_NOT_SUPPORTED"
	codeInternal           = "INTERNAL_SERVER_ERROR"
)

type envelope struct {
	Data any `json:"data"`
}

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func writeError(w http.ResponseWriter, status int, code, message string, details map[string]string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message, Details: details}})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck // headers are already sent
}
