// internal/app/features/shared/respond/respond.go

// Package respond writes JSON success payloads. Error envelopes live in
// the apierrors feature.
package respond

import (
	"encoding/json"
	"net/http"
)

// JSON writes v as the response body with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Data wraps v in the {"success":true,"data":...} envelope.
func Data(w http.ResponseWriter, status int, v any) {
	JSON(w, status, map[string]any{"success": true, "data": v})
}

// OK sends {"success":true,"message":...} for mutations with no payload.
func OK(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusOK, map[string]any{"success": true, "message": msg})
}
