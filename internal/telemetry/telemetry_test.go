package telemetry_test

import (
	"context"
	"errors"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"showmetasks/internal/telemetry"
)

type statusErr struct{ code int }

func (e statusErr) Error() string   { return "Default task list cannot be deleted." }
func (e statusErr) HTTPStatus() int { return e.code }

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return sr
}

func TestLogReporter_LogsAndRecordsEvent(t *testing.T) {
	sr := withRecorder(t)
	logger, hook := test.NewNullLogger()
	r := telemetry.NewLogReporter(logger)

	r.Report(context.Background(), "soft_delete_list", statusErr{code: 400})

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("expected a log entry")
	}
	if entry.Level != log.ErrorLevel {
		t.Errorf("expected error level, got %s", entry.Level)
	}
	if entry.Message != "workspace.op.failed" {
		t.Errorf("unexpected message %q", entry.Message)
	}
	if entry.Data["op"] != "soft_delete_list" {
		t.Errorf("expected op field, got %v", entry.Data["op"])
	}
	if entry.Data["status"] != 400 {
		t.Errorf("expected status 400, got %v", entry.Data["status"])
	}

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	span := spans[0]
	if span.Name() != "workspace.soft_delete_list" {
		t.Errorf("unexpected span name %q", span.Name())
	}
	if span.Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", span.Status().Code)
	}
	events := span.Events()
	if len(events) != 1 || events[0].Name != telemetry.EventName {
		t.Fatalf("expected one %s event, got %+v", telemetry.EventName, events)
	}
	attrs := map[string]string{}
	for _, kv := range events[0].Attributes {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	if attrs["event.name"] != "soft_delete_list" {
		t.Errorf("expected event.name attribute, got %q", attrs["event.name"])
	}
	if attrs["error.message"] != "Default task list cannot be deleted." {
		t.Errorf("expected error.message attribute, got %q", attrs["error.message"])
	}
	if attrs["http.status_code"] != "400" {
		t.Errorf("expected http.status_code 400, got %q", attrs["http.status_code"])
	}
}

func TestLogReporter_CancelledIsDebug(t *testing.T) {
	withRecorder(t)
	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.DebugLevel)
	r := telemetry.NewLogReporter(logger)

	r.Report(context.Background(), "fetch_lists", context.Canceled)

	entry := hook.LastEntry()
	if entry == nil || entry.Level != log.DebugLevel {
		t.Fatalf("expected a debug entry, got %+v", entry)
	}
	if entry.Message != "workspace.op.cancelled" {
		t.Errorf("unexpected message %q", entry.Message)
	}
}

func TestLogReporter_NilErrorIgnored(t *testing.T) {
	sr := withRecorder(t)
	logger, hook := test.NewNullLogger()
	telemetry.NewLogReporter(logger).Report(context.Background(), "x", nil)

	if len(hook.AllEntries()) != 0 {
		t.Errorf("expected no log entries, got %d", len(hook.AllEntries()))
	}
	if len(sr.Ended()) != 0 {
		t.Errorf("expected no spans, got %d", len(sr.Ended()))
	}
}

func TestDiscard(t *testing.T) {
	var r telemetry.Reporter = telemetry.Discard{}
	r.Report(context.Background(), "x", errors.New("boom"))
}
