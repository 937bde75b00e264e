package ai

import (
	"context"
	"time"

	"github.com/fitpantry/coach/internal/ports/outbound"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// CallRecorder receives one observation per gateway call
type CallRecorder interface {
	RecordGatewayCall(provider string, err error, duration time.Duration)
}

// InstrumentedGateway wraps a gateway with a span, a metric and a log line per call
type InstrumentedGateway struct {
	next     outbound.Gateway
	recorder CallRecorder
	tracer   trace.Tracer
	logger   *zap.Logger
}

// NewInstrumentedGateway decorates next. recorder may be nil.
func NewInstrumentedGateway(next outbound.Gateway, recorder CallRecorder, tracer trace.Tracer, logger *zap.Logger) *InstrumentedGateway {
	return &InstrumentedGateway{
		next:     next,
		recorder: recorder,
		tracer:   tracer,
		logger:   logger.Named("ai-gateway"),
	}
}

var _ outbound.Gateway = (*InstrumentedGateway)(nil)

// Name returns the wrapped provider name
func (g *InstrumentedGateway) Name() string {
	return g.next.Name()
}

// Generate forwards to the wrapped gateway
func (g *InstrumentedGateway) Generate(ctx context.Context, prompt string, attachments ...outbound.Attachment) (string, error) {
	ctx, span := g.tracer.Start(ctx, "ai.generate",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("ai.provider", g.next.Name()),
			attribute.Int("ai.prompt_length", len(prompt)),
			attribute.Int("ai.attachments", len(attachments)),
		),
	)
	defer span.End()

	start := time.Now()
	text, err := g.next.Generate(ctx, prompt, attachments...)
	duration := time.Since(start)

	if g.recorder != nil {
		g.recorder.RecordGatewayCall(g.next.Name(), err, duration)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		g.logger.Warn("Gateway call failed",
			zap.String("provider", g.next.Name()),
			zap.Duration("duration", duration),
			zap.Error(err))
		return "", err
	}

	span.SetAttributes(attribute.Int("ai.response_length", len(text)))
	g.logger.Debug("Gateway call completed",
		zap.String("provider", g.next.Name()),
		zap.Duration("duration", duration),
		zap.Int("response_length", len(text)))
	return text, nil
}
