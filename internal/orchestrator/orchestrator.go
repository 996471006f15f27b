package orchestrator

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"kitcrate/internal/analysis"
	"kitcrate/internal/logging"
	"kitcrate/internal/services"
	"kitcrate/internal/vibe"
	"kitcrate/internal/waveform"
)

// FeatureExtractor derives local audio features from a waveform.
type FeatureExtractor interface {
	Extract(w *waveform.Waveform) (analysis.AudioFeatures, error)
}

// VibeClassifier obtains a genre/mood verdict for a sample.
type VibeClassifier interface {
	Classify(ctx context.Context, sample vibe.Sample) (*vibe.VibeResult, error)
}

// Policy decides which optional steps run and which confidence floors
// gate acceptance of individual features. A floor of zero disables the
// gate for that feature.
type Policy struct {
	ClassifyVibe         bool
	TempoConfidenceFloor int
	KeyConfidenceFloor   int
	VibeConfidenceFloor  int
}

// Request identifies one sample to analyze.
type Request struct {
	SampleID int64
	Path     string
}

// Orchestrator runs analysis requests. It persists nothing; the caller
// stores the returned AnalysisResult.
type Orchestrator struct {
	source     waveform.Source
	extractor  FeatureExtractor
	classifier VibeClassifier
	logger     *slog.Logger
	now        func() time.Time
}

// New constructs an orchestrator. The classifier may be nil when remote
// classification is not configured; policy then behaves as if
// ClassifyVibe were false.
func New(source waveform.Source, extractor FeatureExtractor, classifier VibeClassifier, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		source:     source,
		extractor:  extractor,
		classifier: classifier,
		logger:     logging.NewComponentLogger(logger, "orchestrator"),
		now:        time.Now,
	}
}

// Analyze runs the request through the state machine and returns the
// fused result. The returned error is non-nil only for terminal
// (extraction) failures, mirroring the result's Failed status.
func (o *Orchestrator) Analyze(ctx context.Context, req Request, policy Policy) (AnalysisResult, error) {
	result := AnalysisResult{
		SampleID: req.SampleID,
		Status:   StatusPending,
		Metadata: Metadata{
			RunID:        uuid.NewString(),
			StartedAt:    o.now().UTC(),
			SkippedSteps: map[string]string{},
		},
	}
	result.Metadata.StateHistory = append(result.Metadata.StateHistory, StatusPending)

	ctx = services.WithSampleID(ctx, req.SampleID)
	ctx = services.WithRequestID(ctx, result.Metadata.RunID)
	logger := logging.WithContext(ctx, o.logger)

	wave, err := o.source.Load(req.Path)
	if err != nil {
		// Mirror the extractor's fail-soft features: permissive loop
		// shape, everything else unset.
		result.Features = analysis.AudioFeatures{Shape: analysis.ShapeLoop}
		return o.fail(result, services.Wrap(
			services.ErrExtraction, "orchestrator", "load",
			"load waveform", err,
		)), err
	}

	classify := policy.ClassifyVibe && o.classifier != nil

	var (
		features    analysis.AudioFeatures
		extractErr  error
		vibeResult  *vibe.VibeResult
		classifyErr error
	)

	result.advance(StatusExtractingFeatures)
	if classify {
		result.advance(StatusClassifyingVibe)
		done := make(chan struct{})
		sample := vibe.Sample{
			ID:       req.SampleID,
			Filename: filepath.Base(req.Path),
			Features: analysis.AudioFeatures{DurationSeconds: wave.Duration()},
		}
		classifyCtx := services.WithStep(ctx, StepClassification)
		go func() {
			defer close(done)
			vibeResult, classifyErr = o.classifier.Classify(classifyCtx, sample)
		}()
		features, extractErr = o.extractor.Extract(wave)
		<-done
	} else {
		result.advance(StatusSkippingVibe)
		result.Metadata.SkippedSteps[StepClassification] = SkipReasonPolicy
		features, extractErr = o.extractor.Extract(wave)
	}

	result.Features = features
	result.Metadata.AnalyzersRun = append(result.Metadata.AnalyzersRun, StepExtraction)
	if classify {
		result.Metadata.AnalyzersRun = append(result.Metadata.AnalyzersRun, StepClassification)
	}

	if extractErr != nil {
		return o.fail(result, extractErr), extractErr
	}

	if classify && classifyErr != nil {
		if services.IsTerminal(classifyErr) {
			return o.fail(result, classifyErr), classifyErr
		}
		// Non-terminal: proceed with local features only.
		result.Metadata.SkippedSteps[StepClassification] = SkipReasonFailure
		result.Metadata.ClassifierError = classifyErr.Error()
		vibeResult = nil
		logger.Warn("vibe classification unavailable", logging.Error(classifyErr))
	}

	result.advance(StatusFusing)
	result.Vibe = vibeResult
	o.fuse(&result, policy)

	result.advance(StatusComplete)
	result.Metadata.CompletedAt = o.now().UTC()
	logger.Info("analysis complete",
		logging.String("shape", string(result.Features.Shape)),
		logging.Bool("vibe", result.Vibe != nil),
	)
	return result, nil
}

// fuse applies confidence floors. Fields below their floor are nulled
// out; the sources stay disjoint, nothing is blended.
func (o *Orchestrator) fuse(result *AnalysisResult, policy Policy) {
	features := &result.Features
	if policy.TempoConfidenceFloor > 0 && features.TempoConfidence != nil &&
		*features.TempoConfidence < policy.TempoConfidenceFloor {
		features.TempoBPM = nil
		features.TempoConfidence = nil
		features.RawTempoBPM = nil
		features.TempoWasCorrected = false
		features.CorrectionMethod = ""
	}
	if policy.KeyConfidenceFloor > 0 && features.KeyConfidence != nil &&
		*features.KeyConfidence < policy.KeyConfidenceFloor {
		features.Key = nil
		features.KeyConfidence = nil
	}
	if policy.VibeConfidenceFloor > 0 && result.Vibe != nil &&
		result.Vibe.Confidence != nil && *result.Vibe.Confidence < policy.VibeConfidenceFloor {
		result.Vibe = nil
		result.Metadata.SkippedSteps[StepClassification] = SkipReasonConfidenceFloor
	}
	result.Metadata.CorrectionMethod = features.CorrectionMethod
}

func (o *Orchestrator) fail(result AnalysisResult, err error) AnalysisResult {
	result.advance(StatusFailed)
	result.FailureReason = err.Error()
	result.Vibe = nil
	result.Metadata.CompletedAt = o.now().UTC()
	o.logger.Error("analysis failed",
		logging.Int64(logging.FieldSampleID, result.SampleID),
		logging.Error(err),
	)
	return result
}

func (r *AnalysisResult) advance(status Status) {
	r.Status = status
	r.Metadata.StateHistory = append(r.Metadata.StateHistory, status)
}
