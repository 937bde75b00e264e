// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/fitpantry/coach/internal/domain/nutrition"
	"github.com/fitpantry/coach/internal/domain/session"
)

// Attachment is a media payload sent alongside a prompt
type Attachment struct {
	MIMEType string
	Data     []byte
}

// Gateway is the generative AI collaborator: prompt text plus optional media in, free text out.
// Errors mean the call itself failed (network, auth, quota); no retries are attempted.
type Gateway interface {
	Generate(ctx context.Context, prompt string, attachments ...Attachment) (string, error)
	Name() string
}

// ErrSessionNotFound is returned by repositories for unknown session IDs
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository persists one state record per session
type SessionRepository interface {
	Create(ctx context.Context, state *session.State) error
	Load(ctx context.Context, id string) (*session.State, error)
	Save(ctx context.Context, state *session.State) error
	Delete(ctx context.Context, id string) error
}

// Pinger is implemented by repositories backed by a remote store
type Pinger interface {
	Ping(ctx context.Context) error
}

// CalendarExporter renders a plan as an iCalendar document
type CalendarExporter interface {
	Export(plan nutrition.Plan, now time.Time) ([]byte, error)
}
