package coach

import (
	"context"
	"strings"

	"github.com/fitpantry/coach/internal/domain/session"
	"github.com/fitpantry/coach/internal/ports/inbound"
	"github.com/fitpantry/coach/internal/ports/outbound"
	"github.com/fitpantry/coach/pkg/errors"
	"go.uber.org/zap"
)

// AddWater adds to today's hydration
func (s *Service) AddWater(ctx context.Context, cmd inbound.AddWaterCommand) (*inbound.SessionDTO, error) {
	if err := s.validate(cmd); err != nil {
		return nil, err
	}
	st, err := s.mutate(ctx, cmd.SessionID, "add_water", func(draft *session.State) error {
		return draft.AddWater(cmd.Liters)
	})
	if err != nil {
		return nil, err
	}
	return s.toSessionDTO(st), nil
}

// LogMeasurement appends a body measurement
func (s *Service) LogMeasurement(ctx context.Context, cmd inbound.LogMeasurementCommand) (*inbound.SessionDTO, error) {
	if err := s.validate(cmd); err != nil {
		return nil, err
	}
	m := session.Measurement{
		Date:       s.now().UTC(),
		WeightKg:   cmd.WeightKg,
		WaistCm:    cmd.WaistCm,
		BodyFatPct: cmd.BodyFatPct,
	}
	if cmd.Date != nil {
		m.Date = cmd.Date.UTC()
	}

	st, err := s.mutate(ctx, cmd.SessionID, "log_measurement", func(draft *session.State) error {
		return draft.LogMeasurement(m)
	})
	if err != nil {
		return nil, err
	}
	return s.toSessionDTO(st), nil
}

// RecoveryProtocol resets streaks and hydration and raises the hydration target
func (s *Service) RecoveryProtocol(ctx context.Context, sessionID string) (*inbound.SessionDTO, error) {
	st, err := s.mutate(ctx, sessionID, "recovery_protocol", func(draft *session.State) error {
		draft.RecoveryProtocol()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Recovery protocol applied",
		zap.String("session_id", sessionID),
		zap.Float64("hydration_target", st.Hydration.Target),
	)
	return s.toSessionDTO(st), nil
}

// AnalyzeBloodWork interprets a blood test image and stores it in the medical history
func (s *Service) AnalyzeBloodWork(ctx context.Context, cmd inbound.ClinicCommand) (*session.MedicalHistory, error) {
	return s.analyzeDocument(ctx, cmd, "analyze_blood_work", bloodWorkInstruction, (*session.State).RecordBloodAnalysis)
}

// AnalyzeInjuryReport interprets a physiotherapy report and stores it in the medical history
func (s *Service) AnalyzeInjuryReport(ctx context.Context, cmd inbound.ClinicCommand) (*session.MedicalHistory, error) {
	return s.analyzeDocument(ctx, cmd, "analyze_injury_report", injuryInstruction, (*session.State).RecordInjuryReport)
}

func (s *Service) analyzeDocument(
	ctx context.Context,
	cmd inbound.ClinicCommand,
	action, instruction string,
	record func(*session.State, string),
) (*session.MedicalHistory, error) {
	if err := s.validate(cmd); err != nil {
		return nil, err
	}

	st, err := s.mutate(ctx, cmd.SessionID, action, func(draft *session.State) error {
		text, err := s.generate(ctx, action, instruction, outbound.Attachment{MIMEType: cmd.MIMEType, Data: cmd.Image})
		if err != nil {
			return err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return s.parseFailed("text", "empty response")
		}
		record(draft, text)
		return nil
	})
	if err != nil {
		return nil, err
	}
	history := st.MedicalHistory
	return &history, nil
}

// ExportBackup encodes the backup keys of the session
func (s *Service) ExportBackup(ctx context.Context, sessionID, format string) (*inbound.BackupDocument, error) {
	f, err := session.ParseFormat(format)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	st, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	data, err := session.EncodeSnapshot(st.Export(), f)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode backup")
	}
	return &inbound.BackupDocument{Format: string(f), ContentType: f.ContentType(), Data: data}, nil
}

// ImportBackup overwrites the keys present in the document. Malformed input leaves the session untouched.
func (s *Service) ImportBackup(ctx context.Context, cmd inbound.ImportBackupCommand) (*inbound.ImportResult, error) {
	if err := s.validate(cmd); err != nil {
		return nil, err
	}
	f, err := session.ParseFormat(cmd.Format)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	snap, err := session.DecodeSnapshot(cmd.Data, f)
	if err != nil {
		return nil, errors.NewValidationError(err.Error()).WithCause(err)
	}

	var keys []string
	st, err := s.mutate(ctx, cmd.SessionID, "import_backup", func(draft *session.State) error {
		keys = draft.Import(snap)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Backup imported",
		zap.String("session_id", cmd.SessionID),
		zap.Strings("keys", keys),
	)
	return &inbound.ImportResult{Keys: keys, Session: s.toSessionDTO(st)}, nil
}
