package catalog

import (
	"context"
	"fmt"
	"time"

	"kitcrate/internal/vibe"
)

// Record appends one classification attempt to the usage ledger. The
// store satisfies the classifier's Ledger interface directly.
func (s *Store) Record(ctx context.Context, entry vibe.LedgerEntry) error {
	at := entry.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	_, err := s.execWithRetry(ensureContext(ctx),
		`INSERT INTO usage_ledger
		 (sample_id, model, prompt_chars, response_chars, latency_ms, outcome, detail, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.SampleID,
		entry.Model,
		entry.PromptChars,
		entry.ResponseChars,
		entry.Latency.Milliseconds(),
		entry.Outcome,
		entry.Detail,
		at.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record usage: %w", err)
	}
	return nil
}

// UsageSummary aggregates the ledger for operational visibility.
type UsageSummary struct {
	Calls          int64
	Errors         int64
	TotalLatencyMs int64
}

// AvgLatencyMs reports the mean call latency, zero when no calls exist.
func (u UsageSummary) AvgLatencyMs() int64 {
	if u.Calls == 0 {
		return 0
	}
	return u.TotalLatencyMs / u.Calls
}

// Usage summarizes the classification ledger.
func (s *Store) Usage(ctx context.Context) (UsageSummary, error) {
	var summary UsageSummary
	err := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT COUNT(1),
		        COALESCE(SUM(CASE WHEN outcome != 'ok' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(latency_ms), 0)
		 FROM usage_ledger`,
	).Scan(&summary.Calls, &summary.Errors, &summary.TotalLatencyMs)
	if err != nil {
		return UsageSummary{}, fmt.Errorf("summarize usage: %w", err)
	}
	return summary, nil
}
