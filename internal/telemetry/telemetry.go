// Package telemetry carries the observability side of the client: the
// tracer used for outgoing requests and the reporter that failures of
// workspace operations are sent to.
package telemetry

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName = "showmetasks"

	// EventName is the span event recorded for every reported failure.
	EventName = "observability.event"

	// EventDomain tags reported events.
	EventDomain = "showmetasks.workspace"
)

// Tracer returns the tracer for the module. It resolves the global
// provider on each call so tests can swap it.
func Tracer() trace.Tracer {
	return otel.GetTracerProvider().Tracer(instrumentationName)
}

// StatusCoder is implemented by errors that carry an HTTP status.
type StatusCoder interface {
	HTTPStatus() int
}

// Reporter receives failures of workspace operations.
type Reporter interface {
	Report(ctx context.Context, op string, err error)
}

// LogReporter reports through logrus and, when the context carries a
// recording span, as a span event.
type LogReporter struct {
	Logger *log.Logger
}

// NewLogReporter returns a reporter writing to logger, or to the logrus
// standard logger when logger is nil.
func NewLogReporter(logger *log.Logger) *LogReporter {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &LogReporter{Logger: logger}
}

// Report implements Reporter.
func (r *LogReporter) Report(ctx context.Context, op string, err error) {
	if err == nil {
		return
	}
	fields := log.Fields{
		"op":    op,
		"error": err.Error(),
	}
	var sc StatusCoder
	if errors.As(err, &sc) {
		fields["status"] = sc.HTTPStatus()
	}
	if errors.Is(err, context.Canceled) {
		r.Logger.WithFields(fields).Debug("workspace.op.cancelled")
	} else {
		r.Logger.WithFields(fields).Error("workspace.op.failed")
	}

	_, span := Tracer().Start(ctx, "workspace."+op)
	defer span.End()
	attrs := []attribute.KeyValue{
		attribute.String("event.name", op),
		attribute.String("event.domain", EventDomain),
		attribute.String("severity_text", "ERROR"),
		attribute.String("error.message", err.Error()),
	}
	if sc != nil {
		attrs = append(attrs, attribute.Int("http.status_code", sc.HTTPStatus()))
	}
	span.AddEvent(EventName, trace.WithAttributes(attrs...))
	span.SetStatus(codes.Error, err.Error())
}

// Discard is a Reporter that drops everything.
type Discard struct{}

// Report implements Reporter.
func (Discard) Report(context.Context, string, error) {}
