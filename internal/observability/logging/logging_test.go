package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

func TestValidateAndExtractRequestID(t *testing.T) {
	valid := uuid.NewString()
	if got := ValidateAndExtractRequestID(valid); got != valid {
		t.Errorf("ValidateAndExtractRequestID(%q) = %q, want unchanged", valid, got)
	}

	for _, in := range []string{"", "not-a-uuid"} {
		got := ValidateAndExtractRequestID(in)
		if _, err := uuid.Parse(got); err != nil {
			t.Errorf("ValidateAndExtractRequestID(%q) = %q, not a uuid", in, got)
		}
	}
}

func TestHandlerAddsContextFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(Config{
		Service:       ServiceInfo{Name: "agent", Version: "test"},
		Environment:   EnvProd,
		Level:         slog.LevelInfo,
		DefaultModule: Module("pollination"),
		Writer:        &buf,
	}))

	ctx := WithRequestID(context.Background(), "req-1")
	logger.InfoContext(ctx, "hello", slog.String("k", "v"))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}

	want := map[string]any{
		"message":    "hello",
		"severity":   "INFO",
		"request_id": "req-1",
		"module":     "pollination",
		"k":          "v",
		"env":        "prod",
	}
	for k, v := range want {
		if rec[k] != v {
			t.Errorf("record[%q] = %v, want %v", k, rec[k], v)
		}
	}
}

func TestHandlerModuleOverride(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(Config{
		Environment:   EnvProd,
		DefaultModule: Module("default"),
		Writer:        &buf,
	}))

	logger.InfoContext(WithModule(context.Background(), Module("reconcile")), "x")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if rec["module"] != "reconcile" {
		t.Errorf("module = %v, want reconcile", rec["module"])
	}
}

func TestHandlerAddsTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(Config{Environment: EnvProd, Writer: &buf}))

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x01, 0x02, 0x03},
		SpanID:     trace.SpanID{0x0a},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	logger.InfoContext(ctx, "traced")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if rec["trace_id"] != sc.TraceID().String() {
		t.Errorf("trace_id = %v, want %s", rec["trace_id"], sc.TraceID())
	}
	if rec["span_id"] != sc.SpanID().String() {
		t.Errorf("span_id = %v, want %s", rec["span_id"], sc.SpanID())
	}
}
