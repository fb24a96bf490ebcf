package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"wastechart/internal/core"
	"wastechart/internal/export"
	"wastechart/internal/log"
)

const contentTypePNG = "image/png"

type successResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorResponse struct {
	Success bool         `json:"success"`
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to encode response", log.FieldError, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// writeData answers {"success": true, "data": data}.
func writeData(w http.ResponseWriter, r *http.Request, data any) {
	writeJSON(w, r, http.StatusOK, successResponse{Success: true, Data: data})
}

// writePipelineError answers {"success": false, "error": msg} with status 200.
// The body's success flag is the only failure signal for pipeline errors.
func writePipelineError(w http.ResponseWriter, r *http.Request, err error) {
	writeJSON(w, r, http.StatusOK, errorResponse{Error: err.Error()})
}

func writeValidationError(w http.ResponseWriter, r *http.Request, verr *ValidationError) {
	writeJSON(w, r, http.StatusUnprocessableEntity, errorResponse{Error: verr.Error(), Details: verr.Fields})
}

func writeNotFound(w http.ResponseWriter, r *http.Request, msg string) {
	writeJSON(w, r, http.StatusNotFound, errorResponse{Error: msg})
}

func writePNG(w http.ResponseWriter, img []byte) {
	w.Header().Set("Content-Type", contentTypePNG)
	w.Header().Set("Content-Length", strconv.Itoa(len(img)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

func writeWorkbook(w http.ResponseWriter, p core.Period, data []byte) {
	w.Header().Set("Content-Type", export.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="sampah-%d-%02d.xlsx"`, p.Year, p.Month))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
