package export

import (
	"strings"
	"testing"

	"kitcrate/internal/testsupport"
	"kitcrate/internal/waveform"
)

func testPolicy() Policy {
	return Policy{}.withDefaults()
}

func TestPrepareConformingSourceIsOK(t *testing.T) {
	validator := NewValidator(testPolicy())
	wave := testsupport.Sine(440, 0.5, 48000)

	item := validator.Prepare(Source{SampleID: 1, Path: "/in/clap.wav"}, wave)
	if item.ValidationStatus != ValidationOK {
		t.Fatalf("status = %q (%s), want ok", item.ValidationStatus, item.RejectionReason)
	}
	if item.SanitizedFilename != "clap.wav" {
		t.Fatalf("sanitized filename = %q", item.SanitizedFilename)
	}
	if item.SampleRateHz != 48000 || item.BitDepth != 16 {
		t.Fatalf("target format %d Hz / %d bit", item.SampleRateHz, item.BitDepth)
	}
}

func TestPrepareNonTargetRateIsCorrected(t *testing.T) {
	validator := NewValidator(testPolicy())
	wave := testsupport.Sine(440, 0.5, 44100)
	wave.BitDepth = 24

	item := validator.Prepare(Source{SampleID: 2, Path: "/in/pad.wav"}, wave)
	if item.ValidationStatus != ValidationCorrected {
		t.Fatalf("status = %q, want corrected", item.ValidationStatus)
	}
	if item.RejectionReason != "" {
		t.Fatalf("corrected items carry no rejection reason, got %q", item.RejectionReason)
	}
}

func TestPrepareTooShortIsRejected(t *testing.T) {
	validator := NewValidator(testPolicy())
	wave := testsupport.Sine(440, 0.05, 48000)

	item := validator.Prepare(Source{SampleID: 3, Path: "/in/tick.wav"}, wave)
	if item.ValidationStatus != ValidationRejected {
		t.Fatalf("status = %q, want rejected", item.ValidationStatus)
	}
	if !strings.Contains(item.RejectionReason, "duration") {
		t.Fatalf("reason %q should mention duration", item.RejectionReason)
	}
}

func TestPrepareUndecodableIsRejected(t *testing.T) {
	validator := NewValidator(testPolicy())

	item := validator.Prepare(Source{SampleID: 4, Path: "/in/bad.wav"}, nil)
	if item.ValidationStatus != ValidationRejected {
		t.Fatalf("status = %q, want rejected", item.ValidationStatus)
	}
	if !strings.Contains(item.RejectionReason, "not decodable") {
		t.Fatalf("unexpected reason %q", item.RejectionReason)
	}
}

func TestPrepareJoinsIndependentReasons(t *testing.T) {
	validator := NewValidator(testPolicy())
	wave := testsupport.Sine(440, 0.05, 48000)
	wave.Container = waveform.Container("FLAC")

	item := validator.Prepare(Source{SampleID: 5, Path: "/in/odd.flac"}, wave)
	if item.ValidationStatus != ValidationRejected {
		t.Fatalf("status = %q, want rejected", item.ValidationStatus)
	}
	if !strings.Contains(item.RejectionReason, "; ") {
		t.Fatalf("expected multiple reasons joined with semicolons, got %q", item.RejectionReason)
	}
	if !strings.Contains(item.RejectionReason, "container") || !strings.Contains(item.RejectionReason, "duration") {
		t.Fatalf("expected both rule violations recorded, got %q", item.RejectionReason)
	}
}
