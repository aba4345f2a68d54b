package api

import (
	"encoding/json"
	"net/http"

	"github.com/luuthuong/go-ecommerce-order/internal/domain"
)

// apiResponse is the uniform response envelope.
type apiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, apiResponse{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), apiResponse{Success: false, Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// statusFor maps domain error codes to HTTP statuses. Terminal rejections map
// to 4xx; infrastructure and post-commit projection failures map to 5xx so
// callers know a retry or a re-read may help.
func statusFor(err error) int {
	switch domain.CodeOf(err) {
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeInvalidArgument:
		return http.StatusBadRequest
	case domain.CodeInvalidState, domain.CodeVersionConflict:
		return http.StatusConflict
	case domain.CodeStorageFailure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
