package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"kitcrate/internal/orchestrator"
)

// ErrNotFound indicates the requested sample does not exist.
var ErrNotFound = errors.New("sample not found")

// Sample is one catalog row. Result is nil until the sample has been
// analyzed; a re-analysis replaces the stored result wholesale.
type Sample struct {
	ID         int64
	Path       string
	Filename   string
	AddedAt    time.Time
	AnalyzedAt *time.Time
	Result     *orchestrator.AnalysisResult
}

// AddSample registers a file in the catalog, returning the existing row
// when the path is already known.
func (s *Store) AddSample(ctx context.Context, path string) (Sample, error) {
	ctx = ensureContext(ctx)
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.execWithRetry(ctx,
		`INSERT INTO samples (path, filename, added_at) VALUES (?, ?, ?)
		 ON CONFLICT(path) DO NOTHING`,
		path, filepath.Base(path), now,
	)
	if err != nil {
		return Sample{}, fmt.Errorf("add sample: %w", err)
	}
	return s.SampleByPath(ctx, path)
}

// SampleByPath looks a sample up by source path.
func (s *Store) SampleByPath(ctx context.Context, path string) (Sample, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT id, path, filename, added_at, analyzed_at, analysis_json
		 FROM samples WHERE path = ?`, path)
	return scanSample(row)
}

// SampleByID looks a sample up by identifier.
func (s *Store) SampleByID(ctx context.Context, id int64) (Sample, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT id, path, filename, added_at, analyzed_at, analysis_json
		 FROM samples WHERE id = ?`, id)
	return scanSample(row)
}

// SaveResult stores the analysis result for a sample, replacing any
// prior result.
func (s *Store) SaveResult(ctx context.Context, sampleID int64, result orchestrator.AnalysisResult) error {
	encoded, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode analysis result: %w", err)
	}
	analyzedAt := result.Metadata.CompletedAt
	if analyzedAt.IsZero() {
		analyzedAt = time.Now().UTC()
	}
	res, err := s.execWithRetry(ensureContext(ctx),
		`UPDATE samples SET analysis_json = ?, analyzed_at = ? WHERE id = ?`,
		string(encoded), analyzedAt.UTC().Format(time.RFC3339Nano), sampleID,
	)
	if err != nil {
		return fmt.Errorf("save analysis result: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save analysis result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAnalyzed returns all samples with a stored result, most recently
// analyzed first.
func (s *Store) ListAnalyzed(ctx context.Context) ([]Sample, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT id, path, filename, added_at, analyzed_at, analysis_json
		 FROM samples WHERE analysis_json IS NOT NULL
		 ORDER BY analyzed_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list analyzed samples: %w", err)
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		sample, err := scanSample(rows)
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}
	return samples, rows.Err()
}

// ListAll returns every registered sample, newest registration first.
func (s *Store) ListAll(ctx context.Context) ([]Sample, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT id, path, filename, added_at, analyzed_at, analysis_json
		 FROM samples ORDER BY added_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list samples: %w", err)
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		sample, err := scanSample(rows)
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}
	return samples, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSample(row rowScanner) (Sample, error) {
	var (
		sample     Sample
		addedAt    string
		analyzedAt sql.NullString
		resultJSON sql.NullString
	)
	err := row.Scan(&sample.ID, &sample.Path, &sample.Filename, &addedAt, &analyzedAt, &resultJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return Sample{}, ErrNotFound
	}
	if err != nil {
		return Sample{}, fmt.Errorf("scan sample: %w", err)
	}

	if parsed, err := time.Parse(time.RFC3339Nano, addedAt); err == nil {
		sample.AddedAt = parsed
	}
	if analyzedAt.Valid {
		if parsed, err := time.Parse(time.RFC3339Nano, analyzedAt.String); err == nil {
			sample.AnalyzedAt = &parsed
		}
	}
	if resultJSON.Valid && resultJSON.String != "" {
		var result orchestrator.AnalysisResult
		if err := json.Unmarshal([]byte(resultJSON.String), &result); err != nil {
			return Sample{}, fmt.Errorf("decode analysis result: %w", err)
		}
		sample.Result = &result
	}
	return sample, nil
}
