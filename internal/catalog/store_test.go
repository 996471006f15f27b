package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"kitcrate/internal/analysis"
	"kitcrate/internal/orchestrator"
	"kitcrate/internal/vibe"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenPath(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleResult(completedAt time.Time) orchestrator.AnalysisResult {
	bpm := 126.0
	confidence := 88
	label := "techno"
	return orchestrator.AnalysisResult{
		Status: orchestrator.StatusComplete,
		Features: analysis.AudioFeatures{
			TempoBPM:        &bpm,
			TempoConfidence: &confidence,
			Shape:           analysis.ShapeLoop,
			DurationSeconds: 4.0,
		},
		Vibe: &vibe.VibeResult{Label: &label},
		Metadata: orchestrator.Metadata{
			RunID:       "run-1",
			CompletedAt: completedAt,
		},
	}
}

func TestAddSampleIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.AddSample(ctx, "/audio/kick.wav")
	if err != nil {
		t.Fatalf("add sample: %v", err)
	}
	second, err := store.AddSample(ctx, "/audio/kick.wav")
	if err != nil {
		t.Fatalf("re-add sample: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("re-adding a path created a new row: %d vs %d", first.ID, second.ID)
	}
	if second.Filename != "kick.wav" {
		t.Fatalf("filename = %q", second.Filename)
	}
}

func TestSaveResultRoundTrips(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sample, err := store.AddSample(ctx, "/audio/loop.wav")
	if err != nil {
		t.Fatalf("add sample: %v", err)
	}
	want := sampleResult(time.Now().UTC().Truncate(time.Millisecond))
	if err := store.SaveResult(ctx, sample.ID, want); err != nil {
		t.Fatalf("save result: %v", err)
	}

	got, err := store.SampleByID(ctx, sample.ID)
	if err != nil {
		t.Fatalf("fetch sample: %v", err)
	}
	if got.Result == nil {
		t.Fatal("expected stored result")
	}
	if got.Result.Status != orchestrator.StatusComplete {
		t.Fatalf("status = %q", got.Result.Status)
	}
	if got.Result.Features.TempoBPM == nil || *got.Result.Features.TempoBPM != 126.0 {
		t.Fatalf("tempo = %v, want 126", got.Result.Features.TempoBPM)
	}
	if got.Result.Vibe == nil || *got.Result.Vibe.Label != "techno" {
		t.Fatalf("vibe = %+v", got.Result.Vibe)
	}
	if got.AnalyzedAt == nil {
		t.Fatal("expected analyzed_at to be set")
	}
}

func TestSaveResultReplacesPrior(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sample, err := store.AddSample(ctx, "/audio/loop.wav")
	if err != nil {
		t.Fatalf("add sample: %v", err)
	}
	if err := store.SaveResult(ctx, sample.ID, sampleResult(time.Now())); err != nil {
		t.Fatalf("save first result: %v", err)
	}

	replacement := sampleResult(time.Now())
	replacement.Vibe = nil
	if err := store.SaveResult(ctx, sample.ID, replacement); err != nil {
		t.Fatalf("save replacement: %v", err)
	}

	got, err := store.SampleByID(ctx, sample.ID)
	if err != nil {
		t.Fatalf("fetch sample: %v", err)
	}
	if got.Result.Vibe != nil {
		t.Fatal("replacement result must fully replace the prior one")
	}
}

func TestSaveResultUnknownSample(t *testing.T) {
	store := newTestStore(t)
	err := store.SaveResult(context.Background(), 9999, sampleResult(time.Now()))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListAnalyzedOrdersByRecency(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	older, _ := store.AddSample(ctx, "/audio/older.wav")
	newer, _ := store.AddSample(ctx, "/audio/newer.wav")
	pending, _ := store.AddSample(ctx, "/audio/pending.wav")

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	if err := store.SaveResult(ctx, older.ID, sampleResult(base)); err != nil {
		t.Fatalf("save older: %v", err)
	}
	if err := store.SaveResult(ctx, newer.ID, sampleResult(base.Add(time.Hour))); err != nil {
		t.Fatalf("save newer: %v", err)
	}

	analyzed, err := store.ListAnalyzed(ctx)
	if err != nil {
		t.Fatalf("list analyzed: %v", err)
	}
	if len(analyzed) != 2 {
		t.Fatalf("analyzed count = %d, want 2 (pending sample %d excluded)", len(analyzed), pending.ID)
	}
	if analyzed[0].ID != newer.ID {
		t.Fatalf("most recent analysis must come first, got sample %d", analyzed[0].ID)
	}
}

func TestUsageLedger(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entries := []vibe.LedgerEntry{
		{SampleID: 1, Model: "demo", Latency: 120 * time.Millisecond, Outcome: "ok"},
		{SampleID: 2, Model: "demo", Latency: 80 * time.Millisecond, Outcome: "error", Detail: "timeout"},
	}
	for _, entry := range entries {
		if err := store.Record(ctx, entry); err != nil {
			t.Fatalf("record entry: %v", err)
		}
	}

	summary, err := store.Usage(ctx)
	if err != nil {
		t.Fatalf("usage summary: %v", err)
	}
	if summary.Calls != 2 || summary.Errors != 1 {
		t.Fatalf("summary = %+v, want 2 calls / 1 error", summary)
	}
	if summary.AvgLatencyMs() != 100 {
		t.Fatalf("avg latency = %d, want 100", summary.AvgLatencyMs())
	}
}
