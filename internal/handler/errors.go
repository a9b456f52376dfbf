package handler

import (
	"encoding/json"
	"net/http"
	"strings"
)

// errorDetail is the machine-readable error body.
type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorResponse wraps errorDetail as the top-level error JSON shape.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

// writeJSON serializes v with the given status. Encoding failures are
// ignored — the status line has already been written.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeNotFound renders a 404 with the given message.
// The caller supplies the human-readable message (e.g. "shop not found")
// because the handler is the layer that knows what was being looked up.
func writeNotFound(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusNotFound, errorResponse{Error: errorDetail{Code: "not_found", Message: message}})
}

// writeValidation renders a 422 for a domain validation failure.
func writeValidation(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: errorDetail{Code: "validation_error", Message: unwrapMessage(err)}})
}

// writeBadRequest renders a 422 for a request rejected before reaching any
// service (e.g. malformed body, unknown field name).
func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: errorDetail{Code: "validation_error", Message: message}})
}

// writeInternal renders a 500 with a generic body; the real error goes to
// the log, not the client.
func writeInternal(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: errorDetail{Code: "internal", Message: "internal error"}})
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel
// error, e.g. "service.ShopService.Save: validation error: category is
// required on update" → "category is required on update".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if i := strings.LastIndex(msg, "validation error: "); i >= 0 {
		return msg[i+len("validation error: "):]
	}
	return msg
}
