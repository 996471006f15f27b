package orchestrator

import (
	"context"
	"errors"
	"testing"

	"kitcrate/internal/analysis"
	"kitcrate/internal/logging"
	"kitcrate/internal/services"
	"kitcrate/internal/testsupport"
	"kitcrate/internal/vibe"
	"kitcrate/internal/waveform"
)

type fakeSource struct {
	wave *waveform.Waveform
	err  error
}

func (s *fakeSource) Load(string) (*waveform.Waveform, error) {
	return s.wave, s.err
}

type fakeExtractor struct {
	features analysis.AudioFeatures
	err      error
}

func (e *fakeExtractor) Extract(*waveform.Waveform) (analysis.AudioFeatures, error) {
	return e.features, e.err
}

type fakeClassifier struct {
	result *vibe.VibeResult
	err    error
	calls  int
	ctx    context.Context
}

func (c *fakeClassifier) Classify(ctx context.Context, _ vibe.Sample) (*vibe.VibeResult, error) {
	c.calls++
	c.ctx = ctx
	return c.result, c.err
}

func ptrString(s string) *string { return &s }
func ptrInt(v int) *int          { return &v }
func ptrFloat(v float64) *float64 { return &v }

func goodFeatures() analysis.AudioFeatures {
	return analysis.AudioFeatures{
		TempoBPM:        ptrFloat(128),
		TempoConfidence: ptrInt(85),
		Key:             ptrString("A minor"),
		KeyConfidence:   ptrInt(60),
		Shape:           analysis.ShapeLoop,
		DurationSeconds: 4.0,
	}
}

func goodVibe() *vibe.VibeResult {
	return &vibe.VibeResult{
		Label:      ptrString("techno"),
		Confidence: ptrInt(80),
		Category:   ptrString(vibe.CategoryTechno),
	}
}

func newOrchestrator(extractor FeatureExtractor, classifier VibeClassifier) *Orchestrator {
	source := &fakeSource{wave: testsupport.ClickTrack(120, 2, 8000)}
	return New(source, extractor, classifier, logging.NewNop())
}

func TestAnalyzePolicyDisabledSkipsClassification(t *testing.T) {
	classifier := &fakeClassifier{result: goodVibe()}
	orch := newOrchestrator(&fakeExtractor{features: goodFeatures()}, classifier)

	result, err := orch.Analyze(context.Background(), Request{SampleID: 1, Path: "kick.wav"}, Policy{ClassifyVibe: false})
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if result.Status != StatusComplete {
		t.Fatalf("status = %q, want complete", result.Status)
	}
	if result.Vibe != nil {
		t.Fatalf("vibe = %+v, want nil when skipped by policy", result.Vibe)
	}
	if classifier.calls != 0 {
		t.Fatalf("classifier called %d times despite policy", classifier.calls)
	}
	if reason := result.Metadata.SkippedSteps[StepClassification]; reason != SkipReasonPolicy {
		t.Fatalf("skip reason = %q, want %q", reason, SkipReasonPolicy)
	}
	if result.Metadata.RunID == "" {
		t.Fatal("expected a run id")
	}
}

func TestAnalyzeClassifierFailureIsNonTerminal(t *testing.T) {
	classifier := &fakeClassifier{err: services.ErrClassifierUnavailable}
	orch := newOrchestrator(&fakeExtractor{features: goodFeatures()}, classifier)

	result, err := orch.Analyze(context.Background(), Request{SampleID: 2, Path: "loop.wav"}, Policy{ClassifyVibe: true})
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if result.Status != StatusComplete {
		t.Fatalf("status = %q, want complete despite classifier failure", result.Status)
	}
	if result.Vibe != nil {
		t.Fatal("vibe must be nil after classifier failure")
	}
	if result.Features.TempoBPM == nil {
		t.Fatal("features must survive classifier failure")
	}
	if reason := result.Metadata.SkippedSteps[StepClassification]; reason != SkipReasonFailure {
		t.Fatalf("skip reason = %q, want %q", reason, SkipReasonFailure)
	}
	if result.Metadata.ClassifierError == "" {
		t.Fatal("expected classifier error recorded in metadata")
	}
}

func TestAnalyzeExtractionFailureIsTerminal(t *testing.T) {
	extractErr := services.Wrap(services.ErrExtraction, "analysis", "extract", "undecodable", nil)
	extractor := &fakeExtractor{
		features: analysis.AudioFeatures{Shape: analysis.ShapeLoop},
		err:      extractErr,
	}
	orch := newOrchestrator(extractor, &fakeClassifier{result: goodVibe()})

	result, err := orch.Analyze(context.Background(), Request{SampleID: 3, Path: "corrupt.wav"}, Policy{ClassifyVibe: true})
	if err == nil {
		t.Fatal("expected terminal error")
	}
	if !errors.Is(err, services.ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
	if result.Status != StatusFailed {
		t.Fatalf("status = %q, want failed", result.Status)
	}
	if result.FailureReason == "" {
		t.Fatal("expected failure reason")
	}
	if result.Vibe != nil {
		t.Fatal("failed results carry no vibe")
	}
}

func TestAnalyzeLoadFailureIsTerminal(t *testing.T) {
	source := &fakeSource{err: errors.New("no such file")}
	orch := New(source, &fakeExtractor{}, nil, logging.NewNop())

	result, err := orch.Analyze(context.Background(), Request{SampleID: 4, Path: "missing.wav"}, Policy{})
	if err == nil {
		t.Fatal("expected load error")
	}
	if result.Status != StatusFailed {
		t.Fatalf("status = %q, want failed", result.Status)
	}
	if result.Features.Shape != analysis.ShapeLoop {
		t.Fatalf("shape = %q, want the fail-soft loop shape", result.Features.Shape)
	}
	if result.Features.TempoBPM != nil || result.Features.Key != nil {
		t.Fatal("failed results must not carry feature values")
	}
}

func TestAnalyzeClassifierSeesAnnotatedContext(t *testing.T) {
	classifier := &fakeClassifier{result: goodVibe()}
	orch := newOrchestrator(&fakeExtractor{features: goodFeatures()}, classifier)

	result, err := orch.Analyze(context.Background(), Request{SampleID: 42, Path: "loop.wav"}, Policy{ClassifyVibe: true})
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if classifier.ctx == nil {
		t.Fatal("classifier never received a context")
	}
	if id, ok := services.SampleIDFromContext(classifier.ctx); !ok || id != 42 {
		t.Fatalf("sample id from context = %d/%t, want 42", id, ok)
	}
	if rid, ok := services.RequestIDFromContext(classifier.ctx); !ok || rid != result.Metadata.RunID {
		t.Fatalf("request id from context = %q, want run id %q", rid, result.Metadata.RunID)
	}
	if step, ok := services.StepFromContext(classifier.ctx); !ok || step != StepClassification {
		t.Fatalf("step from context = %q, want %q", step, StepClassification)
	}
}

func TestAnalyzeTerminalClassifierErrorFails(t *testing.T) {
	classifier := &fakeClassifier{err: errors.New("ledger storage gone")}
	orch := newOrchestrator(&fakeExtractor{features: goodFeatures()}, classifier)

	result, err := orch.Analyze(context.Background(), Request{SampleID: 8, Path: "loop.wav"}, Policy{ClassifyVibe: true})
	if err == nil {
		t.Fatal("expected terminal error for an unmarked classifier failure")
	}
	if result.Status != StatusFailed {
		t.Fatalf("status = %q, want failed", result.Status)
	}
}

func TestAnalyzeFusionKeepsSourcesDisjoint(t *testing.T) {
	orch := newOrchestrator(&fakeExtractor{features: goodFeatures()}, &fakeClassifier{result: goodVibe()})

	result, err := orch.Analyze(context.Background(), Request{SampleID: 5, Path: "loop.wav"}, Policy{ClassifyVibe: true})
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if result.Features.TempoBPM == nil || *result.Features.TempoBPM != 128 {
		t.Fatalf("tempo = %v, want extractor's 128", result.Features.TempoBPM)
	}
	if result.Vibe == nil || *result.Vibe.Label != "techno" {
		t.Fatalf("vibe = %+v, want classifier's verdict", result.Vibe)
	}
}

func TestAnalyzeConfidenceFloorsNullOutFields(t *testing.T) {
	lowVibe := goodVibe()
	lowVibe.Confidence = ptrInt(30)
	orch := newOrchestrator(&fakeExtractor{features: goodFeatures()}, &fakeClassifier{result: lowVibe})

	policy := Policy{
		ClassifyVibe:        true,
		KeyConfidenceFloor:  70,
		VibeConfidenceFloor: 50,
	}
	result, err := orch.Analyze(context.Background(), Request{SampleID: 6, Path: "loop.wav"}, policy)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if result.Features.Key != nil || result.Features.KeyConfidence != nil {
		t.Fatalf("key %v below floor must be nulled", result.Features.Key)
	}
	if result.Features.TempoBPM == nil {
		t.Fatal("tempo above floor must survive")
	}
	if result.Vibe != nil {
		t.Fatalf("vibe below floor must be dropped, got %+v", result.Vibe)
	}
	if reason := result.Metadata.SkippedSteps[StepClassification]; reason != SkipReasonConfidenceFloor {
		t.Fatalf("skip reason = %q, want %q", reason, SkipReasonConfidenceFloor)
	}
}

func TestAnalyzeStateHistory(t *testing.T) {
	orch := newOrchestrator(&fakeExtractor{features: goodFeatures()}, &fakeClassifier{result: goodVibe()})

	result, err := orch.Analyze(context.Background(), Request{SampleID: 7, Path: "loop.wav"}, Policy{ClassifyVibe: true})
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	want := []Status{StatusPending, StatusExtractingFeatures, StatusClassifyingVibe, StatusFusing, StatusComplete}
	if len(result.Metadata.StateHistory) != len(want) {
		t.Fatalf("state history %v, want %v", result.Metadata.StateHistory, want)
	}
	for i, status := range want {
		if result.Metadata.StateHistory[i] != status {
			t.Fatalf("state history %v, want %v", result.Metadata.StateHistory, want)
		}
	}
	if result.Metadata.CompletedAt.Before(result.Metadata.StartedAt) {
		t.Fatal("completion must not precede start")
	}
}
