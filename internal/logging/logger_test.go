package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"kitcrate/internal/services"
)

func newBufferedConsoleLogger(buf *bytes.Buffer, level slog.Level) *slog.Logger {
	levelVar := new(slog.LevelVar)
	levelVar.Set(level)
	return slog.New(newConsoleHandler(buf, levelVar, false))
}

func TestConsoleHandlerPullsComponentIntoPrefix(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferedConsoleLogger(&buf, slog.LevelInfo)

	logger.With(String(FieldComponent, "analysis")).Info("tempo corrected",
		String("method", "halved"),
		Float64("bpm", 87.5),
	)

	line := buf.String()
	if !strings.Contains(line, "analysis: tempo corrected") {
		t.Fatalf("component prefix missing: %q", line)
	}
	if !strings.Contains(line, "method=halved") {
		t.Fatalf("attribute missing: %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should not render as attribute: %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferedConsoleLogger(&buf, slog.LevelInfo)

	logger.Info("sample rejected", String("reason", "duration below minimum"))

	if !strings.Contains(buf.String(), `reason="duration below minimum"`) {
		t.Fatalf("expected quoted value: %q", buf.String())
	}
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferedConsoleLogger(&buf, slog.LevelWarn)

	logger.Info("ignored")
	logger.Warn("kept")

	line := buf.String()
	if strings.Contains(line, "ignored") {
		t.Fatalf("info record should be filtered: %q", line)
	}
	if !strings.Contains(line, "WARN kept") {
		t.Fatalf("warn record missing: %q", line)
	}
}

func TestWithContextAddsSampleFields(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferedConsoleLogger(&buf, slog.LevelInfo)

	ctx := services.WithSampleID(context.Background(), 42)
	ctx = services.WithStep(ctx, "extracting")
	WithContext(ctx, logger).Info("working")

	line := buf.String()
	if !strings.Contains(line, "sample_id=42") {
		t.Fatalf("sample_id missing: %q", line)
	}
	if !strings.Contains(line, "step=extracting") {
		t.Fatalf("step missing: %q", line)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
