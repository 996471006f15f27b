package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"kitcrate/internal/fileutil"
	"kitcrate/internal/logging"
	"kitcrate/internal/services"
	"kitcrate/internal/textutil"
	"kitcrate/internal/waveform"
)

// lockFileName is the advisory lock guarding a library directory.
const lockFileName = ".kitcrate.lock"

// lockRetryDelay is how often a batch re-attempts the library lock while
// another batch holds it.
const lockRetryDelay = 250 * time.Millisecond

// Outcome records what happened to one item during a batch.
type Outcome struct {
	Item         Item   `json:"item"`
	TargetPath   string `json:"target_path,omitempty"`
	BytesWritten int64  `json:"bytes_written"`
	Error        string `json:"error,omitempty"`
}

// Manifest aggregates a batch: per-item outcomes plus counts. It is the
// only record of the batch that survives the export call.
type Manifest struct {
	BatchID      string    `json:"batch_id"`
	CreatedAt    time.Time `json:"created_at"`
	LibraryDir   string    `json:"library_dir"`
	OKCount      int       `json:"ok_count"`
	Corrected    int       `json:"corrected_count"`
	Rejected     int       `json:"rejected_count"`
	Failed       int       `json:"failed_count"`
	BytesWritten int64     `json:"bytes_written"`
	Outcomes     []Outcome `json:"outcomes"`
}

// Exporter runs export batches against one library directory.
type Exporter struct {
	policy     Policy
	validator  *Validator
	source     waveform.Source
	libraryDir string
	logger     *slog.Logger
}

// NewExporter constructs an exporter writing into libraryDir.
func NewExporter(policy Policy, source waveform.Source, libraryDir string, logger *slog.Logger) *Exporter {
	policy = policy.withDefaults()
	return &Exporter{
		policy:     policy,
		validator:  NewValidator(policy),
		source:     source,
		libraryDir: libraryDir,
		logger:     logging.NewComponentLogger(logger, "export"),
	}
}

// Export runs the sources through validation and conversion into the
// library. One failing item never aborts the batch; the error return is
// reserved for batch-level preconditions (lock, free space).
func (e *Exporter) Export(ctx context.Context, sources []Source) (Manifest, error) {
	jobs := make([]job, len(sources))
	for i, src := range sources {
		jobs[i] = job{source: src}
	}
	return e.run(ctx, jobs)
}

// KitSlot places one source on a specific pad of a kit.
type KitSlot struct {
	Bank   string
	Pad    int
	Source Source
}

// ExportKit writes a kit into the library preserving the bank/pad folder
// structure the sampler imports from: <kit>/bank-a/pad-01/<file>.
func (e *Exporter) ExportKit(ctx context.Context, kitName string, slots []KitSlot) (Manifest, error) {
	kitDir := textutil.SanitizeToken(kitName)
	jobs := make([]job, len(slots))
	for i, slot := range slots {
		jobs[i] = job{
			source: slot.Source,
			orgPath: filepath.Join(
				kitDir,
				"bank-"+slot.Bank,
				fmt.Sprintf("pad-%02d", slot.Pad),
			),
			hasOrgPath: true,
		}
	}
	return e.run(ctx, jobs)
}

type job struct {
	source     Source
	orgPath    string
	hasOrgPath bool
}

func (e *Exporter) run(ctx context.Context, jobs []job) (Manifest, error) {
	manifest := Manifest{
		BatchID:    uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		LibraryDir: e.libraryDir,
	}

	if err := os.MkdirAll(e.libraryDir, 0o755); err != nil {
		return manifest, services.Wrap(
			services.ErrConfiguration, "export", "batch",
			"create library directory", err,
		)
	}

	lock := flock.New(filepath.Join(e.libraryDir, lockFileName))
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return manifest, services.Wrap(
			services.ErrTransient, "export", "batch",
			"acquire library lock", err,
		)
	}
	if !locked {
		return manifest, services.Wrap(
			services.ErrTransient, "export", "batch",
			"library directory is locked by another export", nil,
		)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	if e.policy.MinFreeSpace > 0 {
		if err := fileutil.EnsureFreeSpace(e.libraryDir, e.policy.MinFreeSpace); err != nil {
			return manifest, services.Wrap(
				services.ErrTransient, "export", "batch",
				"free space preflight", err,
			)
		}
	}

	outcomes := make([]Outcome, len(jobs))
	indexes := make(chan int)
	var wg sync.WaitGroup

	workers := e.policy.Workers
	if workers > len(jobs) {
		workers = len(jobs)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				if ctx.Err() != nil {
					outcomes[i] = Outcome{
						Item:  Item{SourceSampleID: jobs[i].source.SampleID, SourcePath: jobs[i].source.Path},
						Error: ctx.Err().Error(),
					}
					continue
				}
				outcomes[i] = e.processOne(jobs[i])
			}
		}()
	}
	for i := range jobs {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	for _, outcome := range outcomes {
		manifest.BytesWritten += outcome.BytesWritten
		switch {
		case outcome.Error != "":
			manifest.Failed++
		case outcome.Item.ValidationStatus == ValidationOK:
			manifest.OKCount++
		case outcome.Item.ValidationStatus == ValidationCorrected:
			manifest.Corrected++
		default:
			manifest.Rejected++
		}
	}
	manifest.Outcomes = outcomes

	e.logger.Info("export batch finished",
		logging.String("batch_id", manifest.BatchID),
		logging.Int("ok", manifest.OKCount),
		logging.Int("corrected", manifest.Corrected),
		logging.Int("rejected", manifest.Rejected),
		logging.Int("failed", manifest.Failed),
		logging.Int64("bytes", manifest.BytesWritten),
	)
	return manifest, nil
}

func (e *Exporter) processOne(j job) Outcome {
	src := j.source

	wave, loadErr := e.source.Load(src.Path)
	if loadErr != nil {
		wave = nil
	}
	item := e.validator.Prepare(src, wave)
	if j.hasOrgPath {
		item.OrganizationPath = j.orgPath
	}
	outcome := Outcome{Item: item}

	if loadErr != nil {
		outcome.Error = loadErr.Error()
		e.logger.Warn("export item undecodable",
			logging.Int64(logging.FieldSampleID, src.SampleID),
			logging.Error(loadErr),
		)
		return outcome
	}
	if item.ValidationStatus == ValidationRejected {
		e.logger.Debug("export item rejected",
			logging.Int64(logging.FieldSampleID, src.SampleID),
			logging.String("reason", item.RejectionReason),
		)
		return outcome
	}

	targetDir := filepath.Join(e.libraryDir, item.OrganizationPath)
	targetPath := filepath.Join(targetDir, item.SanitizedFilename)
	outcome.TargetPath = targetPath

	if item.ValidationStatus == ValidationOK {
		if err := os.MkdirAll(targetDir, 0o755); err != nil {
			outcome.Error = err.Error()
			return outcome
		}
		if err := fileutil.CopyFileVerified(src.Path, targetPath); err != nil {
			outcome.Error = err.Error()
			return outcome
		}
		if info, err := os.Stat(targetPath); err == nil {
			outcome.BytesWritten = info.Size()
		}
		return outcome
	}

	converted, err := Convert(wave, e.policy.TargetSampleRate, e.policy.TargetBitDepth)
	if err != nil {
		outcome.Error = err.Error()
		return outcome
	}
	written, err := writeWaveform(targetPath, converted, e.policy.TargetBitDepth)
	if err != nil {
		outcome.Error = err.Error()
		return outcome
	}
	outcome.BytesWritten = written
	return outcome
}
