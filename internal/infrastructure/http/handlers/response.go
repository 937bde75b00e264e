// Package handlers provides HTTP handlers for the coach REST API
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/fitpantry/coach/internal/infrastructure/http/middleware"
	"github.com/fitpantry/coach/pkg/errors"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const maxJSONBody = 1 << 20

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func writeJSON(logger *zap.Logger, w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

func writeOK(logger *zap.Logger, w http.ResponseWriter, data interface{}, message string) {
	writeJSON(logger, w, http.StatusOK, APIResponse{Success: true, Data: data, Message: message})
}

// writeError renders any error as the structured error envelope
func writeError(logger *zap.Logger, w http.ResponseWriter, r *http.Request, err error) {
	appErr := errors.Wrap(err, "request failed")
	status := appErr.StatusCode()

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("path", r.URL.Path),
			zap.String("code", string(appErr.Code)),
			zap.Error(err))
	} else {
		logger.Debug("Request rejected",
			zap.String("path", r.URL.Path),
			zap.String("code", string(appErr.Code)),
			zap.String("details", appErr.Details))
	}

	writeJSON(logger, w, status, errors.ToErrorResponse(appErr, chimiddleware.GetReqID(r.Context())))
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if stderrors.Is(err, io.EOF) {
			return errors.NewBadRequestError("Request body is required")
		}
		return errors.NewBadRequestError("Invalid JSON body").WithCause(err)
	}
	return nil
}

// decodeOptionalJSON accepts an empty body
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !stderrors.Is(err, io.EOF) {
		return errors.NewBadRequestError("Invalid JSON body").WithCause(err)
	}
	return nil
}

func sessionID(r *http.Request) (string, error) {
	id, ok := middleware.SessionIDFromContext(r.Context())
	if !ok {
		return "", errors.NewUnauthorizedError("")
	}
	return id, nil
}

func slotParams(r *http.Request) (string, int, error) {
	day := chi.URLParam(r, "day")
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		return "", 0, errors.NewBadRequestError("index must be an integer")
	}
	return day, index, nil
}
