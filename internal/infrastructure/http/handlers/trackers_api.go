package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fitpantry/coach/internal/domain/session"
	"github.com/fitpantry/coach/internal/ports/inbound"
	"github.com/fitpantry/coach/pkg/errors"
)

// AddWater handles POST /api/v1/session/water
func (h *CoachHandlers) AddWater(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	var cmd inbound.AddWaterCommand
	if err := decodeJSON(w, r, &cmd); err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	cmd.SessionID = id

	dto, err := h.coach.AddWater(r.Context(), cmd)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	writeOK(h.logger, w, dto, "Water logged")
}

// LogMeasurement handles POST /api/v1/session/measurements
func (h *CoachHandlers) LogMeasurement(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	var cmd inbound.LogMeasurementCommand
	if err := decodeJSON(w, r, &cmd); err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	cmd.SessionID = id

	dto, err := h.coach.LogMeasurement(r.Context(), cmd)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	writeOK(h.logger, w, dto, "Measurement logged")
}

// RecoveryProtocol handles POST /api/v1/session/recovery
func (h *CoachHandlers) RecoveryProtocol(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	dto, err := h.coach.RecoveryProtocol(r.Context(), id)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	writeOK(h.logger, w, dto, "Recovery protocol applied")
}

// AnalyzeBloodWork handles POST /api/v1/session/clinic/bloodwork
func (h *CoachHandlers) AnalyzeBloodWork(w http.ResponseWriter, r *http.Request) {
	h.analyze(w, r, h.coach.AnalyzeBloodWork)
}

// AnalyzeInjuryReport handles POST /api/v1/session/clinic/injury
func (h *CoachHandlers) AnalyzeInjuryReport(w http.ResponseWriter, r *http.Request) {
	h.analyze(w, r, h.coach.AnalyzeInjuryReport)
}

func (h *CoachHandlers) analyze(
	w http.ResponseWriter,
	r *http.Request,
	run func(ctx context.Context, cmd inbound.ClinicCommand) (*session.MedicalHistory, error),
) {
	id, err := sessionID(r)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	up, err := h.readUpload(w, r)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	history, err := run(r.Context(), inbound.ClinicCommand{SessionID: id, Image: up.Data, MIMEType: up.MIMEType})
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	writeOK(h.logger, w, history, "Document analyzed")
}

// ExportBackup handles GET /api/v1/session/backup?format=json|yaml
func (h *CoachHandlers) ExportBackup(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	doc, err := h.coach.ExportBackup(r.Context(), id, r.URL.Query().Get("format"))
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="fitpantry-backup.%s"`, doc.Format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Data)
}

// ImportBackup handles POST /api/v1/session/backup. The format comes from ?format= or the Content-Type.
func (h *CoachHandlers) ImportBackup(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(h.logger, w, r, uploadError(err))
		return
	}
	if len(data) == 0 {
		writeError(h.logger, w, r, errors.NewBadRequestError("Backup document is required"))
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" && strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		format = "yaml"
	}

	result, err := h.coach.ImportBackup(r.Context(), inbound.ImportBackupCommand{SessionID: id, Format: format, Data: data})
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	writeOK(h.logger, w, result, "Backup imported")
}
