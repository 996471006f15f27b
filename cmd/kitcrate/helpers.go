package main

import (
	"kitcrate/internal/catalog"
	"kitcrate/internal/export"
	"kitcrate/internal/kit"
	"kitcrate/internal/orchestrator"
)

// exportSource maps a cataloged sample onto an export candidate. Genre
// prefers the mapped target-device category over the raw label.
func exportSource(sample catalog.Sample) export.Source {
	src := export.Source{
		SampleID: sample.ID,
		Path:     sample.Path,
	}
	if sample.Result == nil {
		return src
	}
	src.TempoBPM = sample.Result.Features.TempoBPM
	if v := sample.Result.Vibe; v != nil {
		switch {
		case v.Category != nil:
			src.Genre = *v.Category
		case v.Label != nil:
			src.Genre = *v.Label
		}
	}
	return src
}

// kitCandidate maps a cataloged sample onto a recommendation candidate.
func kitCandidate(sample catalog.Sample) kit.Candidate {
	candidate := kit.Candidate{
		SampleID: sample.ID,
		Path:     sample.Path,
		Filename: sample.Filename,
	}
	if sample.AnalyzedAt != nil {
		candidate.AnalyzedAt = *sample.AnalyzedAt
	}
	if sample.Result != nil {
		candidate.Features = sample.Result.Features
		candidate.Vibe = sample.Result.Vibe
	}
	return candidate
}

// analyzedPool filters the catalog down to completed analyses.
func analyzedPool(samples []catalog.Sample) []catalog.Sample {
	out := make([]catalog.Sample, 0, len(samples))
	for _, sample := range samples {
		if sample.Result != nil && sample.Result.Status == orchestrator.StatusComplete {
			out = append(out, sample)
		}
	}
	return out
}
