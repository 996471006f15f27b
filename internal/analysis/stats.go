package analysis

import "sync"

// Stats tracks process-lifetime extraction counters. Create one at service
// start and inject it into the extractor; Reset is explicit and nothing
// resets counters implicitly.
type Stats struct {
	mu                 sync.Mutex
	totalAnalyzed      int64
	correctionsApplied int64
	byMethod           map[string]int64
}

// NewStats returns an empty counter set.
func NewStats() *Stats {
	return &Stats{byMethod: make(map[string]int64)}
}

// StatsSnapshot is a read-only copy of the counters.
type StatsSnapshot struct {
	TotalAnalyzed      int64            `json:"total_analyzed"`
	CorrectionsApplied int64            `json:"corrections_applied"`
	ByMethod           map[string]int64 `json:"corrections_by_method"`
}

func (s *Stats) recordAnalysis(correctionMethod string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalAnalyzed++
	if correctionMethod != "" {
		s.correctionsApplied++
		s.byMethod[correctionMethod]++
	}
}

// Snapshot returns a copy of the current counters.
func (s *Stats) Snapshot() StatsSnapshot {
	if s == nil {
		return StatsSnapshot{ByMethod: map[string]int64{}}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	byMethod := make(map[string]int64, len(s.byMethod))
	for method, count := range s.byMethod {
		byMethod[method] = count
	}
	return StatsSnapshot{
		TotalAnalyzed:      s.totalAnalyzed,
		CorrectionsApplied: s.correctionsApplied,
		ByMethod:           byMethod,
	}
}

// Reset zeroes all counters.
func (s *Stats) Reset() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalAnalyzed = 0
	s.correctionsApplied = 0
	s.byMethod = make(map[string]int64)
}
