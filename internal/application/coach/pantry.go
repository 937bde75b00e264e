package coach

import (
	"context"
	"net/http"
	"strings"

	"github.com/fitpantry/coach/internal/domain/pantry"
	"github.com/fitpantry/coach/internal/domain/session"
	"github.com/fitpantry/coach/internal/ports/inbound"
	"github.com/fitpantry/coach/internal/ports/outbound"
	"github.com/fitpantry/coach/pkg/errors"
	"go.uber.org/zap"
)

// AcquireInventory sends one channel's input through the gateway and unions the
// parsed names into the pantry. A failed call leaves the pantry untouched.
func (s *Service) AcquireInventory(ctx context.Context, cmd inbound.AcquireInventoryCommand) (*inbound.InventoryResult, error) {
	if err := s.validate(cmd); err != nil {
		return nil, err
	}
	channel := pantry.Channel(cmd.Channel)

	var parsed, added []string
	st, err := s.mutate(ctx, cmd.SessionID, "acquire_"+cmd.Channel, func(draft *session.State) error {
		names, err := s.readChannel(ctx, channel, cmd)
		if err != nil {
			return err
		}
		parsed = names
		added = draft.AddInventory(channel, names)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Inventory acquired",
		zap.String("session_id", cmd.SessionID),
		zap.String("channel", cmd.Channel),
		zap.Int("parsed", len(parsed)),
		zap.Int("added", len(added)),
	)

	return &inbound.InventoryResult{
		Channel:   cmd.Channel,
		Parsed:    parsed,
		Added:     added,
		Inventory: st.Inventory.Items(),
	}, nil
}

func (s *Service) readChannel(ctx context.Context, channel pantry.Channel, cmd inbound.AcquireInventoryCommand) ([]string, error) {
	prompt := channelInstructions[channel]

	var attachments []outbound.Attachment
	if channel == pantry.ChannelManual {
		if strings.TrimSpace(cmd.Text) == "" {
			return nil, errors.NewValidationError("manual entry requires text")
		}
		prompt += "\nTexto: " + cmd.Text
	} else {
		if len(cmd.Media) == 0 {
			return nil, errors.NewValidationError("channel " + cmd.Channel + " requires a media upload")
		}
		mimeType := cmd.MIMEType
		if mimeType == "" {
			mimeType = http.DetectContentType(cmd.Media)
		}
		if cmd.Text != "" {
			prompt += "\nNota del usuario: " + cmd.Text
		}
		attachments = append(attachments, outbound.Attachment{MIMEType: mimeType, Data: cmd.Media})
	}

	raw, err := s.generate(ctx, "acquire_"+cmd.Channel, prompt, attachments...)
	if err != nil {
		return nil, err
	}
	res := ParseIngredientList(raw)
	if !res.Ok() {
		return nil, s.parseFailed(ShapeList, res.Reason())
	}
	return res.Value(), nil
}

// RemoveInventoryItem deletes one pantry entry
func (s *Service) RemoveInventoryItem(ctx context.Context, sessionID, name string) (*inbound.SessionDTO, error) {
	if pantry.Normalize(name) == "" {
		return nil, errors.NewValidationError("item name is required")
	}
	st, err := s.mutate(ctx, sessionID, "remove_item", func(draft *session.State) error {
		return draft.RemoveInventoryItem(name)
	})
	if err != nil {
		return nil, err
	}
	return s.toSessionDTO(st), nil
}
