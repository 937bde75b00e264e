package handlers

import (
	"net/http"
	"net/url"

	"github.com/fitpantry/coach/internal/ports/inbound"
	"github.com/fitpantry/coach/pkg/errors"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TokenIssuer signs session bearer tokens
type TokenIssuer interface {
	Issue(sessionID string) (string, error)
}

// CoachHandlers exposes the coach service over HTTP. The session comes from the bearer token.
type CoachHandlers struct {
	coach     inbound.CoachService
	tokens    TokenIssuer
	maxUpload int64
	logger    *zap.Logger
}

// NewCoachHandlers creates the coach API handlers
func NewCoachHandlers(coach inbound.CoachService, tokens TokenIssuer, maxUpload int64, logger *zap.Logger) *CoachHandlers {
	if maxUpload <= 0 {
		maxUpload = 10 << 20
	}
	return &CoachHandlers{
		coach:     coach,
		tokens:    tokens,
		maxUpload: maxUpload,
		logger:    logger.Named("coach-api"),
	}
}

// StartSession handles POST /api/v1/sessions
func (h *CoachHandlers) StartSession(w http.ResponseWriter, r *http.Request) {
	dto, err := h.coach.StartSession(r.Context())
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	token, err := h.tokens.Issue(dto.ID)
	if err != nil {
		// the session exists but is unreachable without a token
		_ = h.coach.EndSession(r.Context(), dto.ID)
		writeError(h.logger, w, r, errors.NewInternalError("failed to issue session token").WithCause(err))
		return
	}
	dto.Token = token

	writeJSON(h.logger, w, http.StatusCreated, APIResponse{Success: true, Data: dto, Message: "Session started"})
}

// GetSession handles GET /api/v1/session
func (h *CoachHandlers) GetSession(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	dto, err := h.coach.GetSession(r.Context(), id)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	writeOK(h.logger, w, dto, "")
}

// EndSession handles DELETE /api/v1/session
func (h *CoachHandlers) EndSession(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	if err := h.coach.EndSession(r.Context(), id); err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateProfile handles PUT /api/v1/session/profile
func (h *CoachHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	var body inbound.ProfileCommand
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	dto, err := h.coach.UpdateProfile(r.Context(), inbound.UpdateProfileCommand{SessionID: id, Profile: body})
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	writeOK(h.logger, w, dto, "Profile updated")
}

// Calibrate handles POST /api/v1/session/calibration
func (h *CoachHandlers) Calibrate(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	var cmd inbound.CalibrateCommand
	if err := decodeJSON(w, r, &cmd); err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	cmd.SessionID = id

	dto, err := h.coach.Calibrate(r.Context(), cmd)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	writeOK(h.logger, w, dto, "Calibration saved")
}

// AcquireInventory handles POST /api/v1/session/inventory/{channel}.
// Manual and voice entries may send {"text": "..."}; media arrives as multipart "file" or a raw body.
func (h *CoachHandlers) AcquireInventory(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	upload, err := h.readUpload(w, r)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	result, err := h.coach.AcquireInventory(r.Context(), inbound.AcquireInventoryCommand{
		SessionID: id,
		Channel:   chi.URLParam(r, "channel"),
		Text:      upload.Text,
		Media:     upload.Data,
		MIMEType:  upload.MIMEType,
	})
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	writeOK(h.logger, w, result, "Inventory updated")
}

// RemoveInventoryItem handles DELETE /api/v1/session/inventory/items/{item}
func (h *CoachHandlers) RemoveInventoryItem(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	item, err := url.PathUnescape(chi.URLParam(r, "item"))
	if err != nil {
		writeError(h.logger, w, r, errors.NewBadRequestError("invalid item name"))
		return
	}

	dto, err := h.coach.RemoveInventoryItem(r.Context(), id, item)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	writeOK(h.logger, w, dto, "Item removed")
}
