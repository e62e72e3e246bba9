package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/azqeurio/sd-to-c-sort/internal/config"
	"github.com/azqeurio/sd-to-c-sort/internal/domain"
	apperrors "github.com/azqeurio/sd-to-c-sort/internal/errors"
	"github.com/azqeurio/sd-to-c-sort/internal/logging"
)

// ProgressFunc reports per-stage progress.
type ProgressFunc func(current, total int)

// Pipeline runs one organizing pass: discover files, read metadata, plan
// destination paths, resolve duplicates, transfer, and aggregate results.
// Every discovered file ends in exactly one PlacementResult. Per-file
// failures never abort the run; only configuration preconditions do.
type Pipeline struct {
	FS       FileSystem
	Metadata MetadataReader
	Decider  DecisionProvider
	Logger   logging.Logger

	// MetaWorkers bounds the metadata-extraction pool, NumCPU by default.
	MetaWorkers int

	OnScanProgress     ProgressFunc
	OnTransferProgress func(current, total int, file string)
}

func (p *Pipeline) Run(ctx context.Context, cfg config.Config) (domain.RunSummary, error) {
	if p.FS == nil || p.Metadata == nil {
		return domain.RunSummary{}, apperrors.Wrap(apperrors.Internal, "run", "", errors.New("pipeline requires FS and Metadata"))
	}

	stop := p.Logger.Measure("Organizing run")
	defer stop()

	if err := p.checkPreconditions(cfg); err != nil {
		return domain.RunSummary{}, err
	}

	start := time.Now()
	summary := domain.RunSummary{}

	paths, err := p.discover(cfg)
	if err != nil {
		return domain.RunSummary{}, apperrors.Wrap(apperrors.TransferFailure, "scan", cfg.SourceDir, err)
	}
	p.Logger.Verbosef("Discovered %d files in %s", len(paths), cfg.SourceDir)

	metas := p.readMetadata(ctx, paths, &summary)

	pendings := p.resolveAll(ctx, cfg, metas, &summary)

	p.transferAll(ctx, cfg, pendings, &summary)

	summary.Elapsed = time.Since(start)
	p.Logger.Verbosef("Finished: %d placed, %d renamed, %d skipped, %d failed, %d not removed",
		summary.Placed, summary.Renamed, summary.Skipped, summary.Failed, summary.NotRemoved)

	return summary, nil
}

// checkPreconditions fails fast before any file is touched. These are the
// only fatal errors a run can produce.
func (p *Pipeline) checkPreconditions(cfg config.Config) error {
	info, err := p.FS.Stat(cfg.SourceDir)
	if err != nil {
		return apperrors.Wrap(apperrors.NotFound, "stat", cfg.SourceDir, err)
	}
	if !info.IsDir() {
		return apperrors.Wrap(apperrors.InvalidConfig, "stat", cfg.SourceDir, errors.New("source is not a directory"))
	}
	if cfg.DryRun {
		return nil
	}
	if err := p.FS.MkdirAll(cfg.DestRoot, 0o755); err != nil {
		return apperrors.Wrap(apperrors.InvalidConfig, "mkdir", cfg.DestRoot, err)
	}
	if err := p.FS.Writable(cfg.DestRoot); err != nil {
		return apperrors.Wrap(apperrors.InvalidConfig, "probe", cfg.DestRoot, errors.New("destination is not writable"))
	}
	return nil
}

// discover walks the source tree in lexical order. Discovery order is what
// makes rename suffixes deterministic. Dotfiles are ignored, and so is
// anything already under the destination root.
func (p *Pipeline) discover(cfg config.Config) ([]string, error) {
	source := filepath.Clean(cfg.SourceDir)
	dest := filepath.Clean(cfg.DestRoot)

	var paths []string
	err := p.FS.WalkDir(source, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if path == source {
				return nil
			}
			if !cfg.Recursive || path == dest || strings.HasPrefix(path, dest+string(filepath.Separator)) {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	return paths, err
}

type scanResult struct {
	idx     int
	meta    domain.FileMeta
	warning string
	err     error
}

// readMetadata runs the extraction pool and returns metadata in discovery
// order. Files whose metadata stage failed outright (stat errors) are
// recorded as error results here and excluded from the returned slice.
func (p *Pipeline) readMetadata(ctx context.Context, paths []string, summary *domain.RunSummary) []domain.FileMeta {
	workerCount := p.MetaWorkers
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	if workerCount < 1 {
		workerCount = 1
	}
	p.Logger.Verbosef("Using %d metadata workers", workerCount)

	jobs := make(chan int)
	// Buffered so workers can always finish their in-flight job and exit,
	// even when a cancellation stops the receive loop early.
	results := make(chan scanResult, len(paths))

	for i := 0; i < workerCount; i++ {
		go func() {
			for idx := range jobs {
				results <- p.readOne(ctx, idx, paths[idx])
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range paths {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	collected := make([]scanResult, len(paths))
	filled := make([]bool, len(paths))
	total := len(paths)
	seen := 0
receive:
	for seen < total {
		select {
		case <-ctx.Done():
			break receive
		case res := <-results:
			collected[res.idx] = res
			filled[res.idx] = true
			seen++
			if p.OnScanProgress != nil {
				p.OnScanProgress(seen, total)
			}
		}
	}

	var metas []domain.FileMeta
	for i, path := range paths {
		if !filled[i] {
			summary.Record(domain.PlacementResult{
				Source:  domain.NewFileMeta(path, time.Time{}),
				Outcome: domain.OutcomeSkipped,
				Detail:  "stop requested",
			})
			continue
		}
		res := collected[i]
		if res.err != nil {
			summary.Record(domain.PlacementResult{
				Source:  domain.NewFileMeta(path, time.Time{}),
				Outcome: domain.OutcomeError,
				Detail:  res.err.Error(),
			})
			continue
		}
		if res.warning != "" {
			summary.Warn(res.warning)
		}
		metas = append(metas, res.meta)
	}
	return metas
}

func (p *Pipeline) readOne(ctx context.Context, idx int, path string) scanResult {
	res := scanResult{idx: idx}

	info, err := p.FS.Stat(path)
	if err != nil {
		res.err = err
		return res
	}

	im, err := p.Metadata.Read(ctx, path)
	takenAt := im.TakenAt
	fallback := false
	if err != nil || takenAt.IsZero() {
		takenAt = info.ModTime()
		fallback = true
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		res.warning = fmt.Sprintf("no metadata for %s, using file attributes", filepath.Base(path))
	}

	meta := domain.NewFileMeta(path, takenAt)
	meta.TimeFallback = fallback
	if im.Camera != "" {
		meta.Camera = im.Camera
	}
	if im.Lens != "" {
		meta.Lens = im.Lens
	}
	res.meta = meta
	return res
}

type pendingTransfer struct {
	meta    domain.FileMeta
	dest    string
	outcome domain.Outcome
	detail  string
}

// resolveAll plans and reserves destination paths sequentially, in discovery
// order. Reservation here, before any transfer is dispatched, is what keeps
// concurrent transfers from ever targeting the same path.
func (p *Pipeline) resolveAll(ctx context.Context, cfg config.Config, metas []domain.FileMeta, summary *domain.RunSummary) []pendingTransfer {
	resolver := NewResolver(p.FS, cfg.Policy, p.Decider, cfg.SkipIdentical)

	var pendings []pendingTransfer
	stopped := false
	for _, meta := range metas {
		if stopped || ctx.Err() != nil {
			summary.Record(domain.PlacementResult{Source: meta, Outcome: domain.OutcomeSkipped, Detail: "stop requested"})
			continue
		}

		dest := filepath.Join(cfg.DestRoot, DestinationPath(meta, cfg.GroupBy, cfg.SeparateRawJpg))

		resolution, err := resolver.Resolve(ctx, meta, dest)
		if err != nil {
			summary.Record(domain.PlacementResult{Source: meta, DestPath: dest, Outcome: domain.OutcomeError, Detail: err.Error()})
			continue
		}

		switch resolution.Action {
		case ActionSkip:
			summary.Record(domain.PlacementResult{Source: meta, DestPath: resolution.DestPath, Outcome: domain.OutcomeSkipped, Detail: resolution.Detail})
		case ActionStop:
			stopped = true
			summary.Record(domain.PlacementResult{Source: meta, DestPath: resolution.DestPath, Outcome: domain.OutcomeSkipped, Detail: resolution.Detail})
		case ActionRenamed:
			pendings = append(pendings, pendingTransfer{meta: meta, dest: resolution.DestPath, outcome: domain.OutcomeRenamed, detail: resolution.Detail})
		default:
			pendings = append(pendings, pendingTransfer{meta: meta, dest: resolution.DestPath, outcome: domain.OutcomePlaced})
		}
	}
	return pendings
}

// transferAll copies or moves the reserved files. The pool is bounded by
// cfg.Workers and forced to one worker under the ask policy so prompts never
// overlap in-flight writes.
func (p *Pipeline) transferAll(ctx context.Context, cfg config.Config, pendings []pendingTransfer, summary *domain.RunSummary) {
	if len(pendings) == 0 {
		return
	}

	executor := &Executor{FS: p.FS, Mode: cfg.Mode, DryRun: cfg.DryRun}

	workerCount := cfg.Workers
	if workerCount < 1 {
		workerCount = 1
	}
	if cfg.Policy == domain.PolicyAsk {
		workerCount = 1
	}
	p.Logger.Verbosef("Transferring %d files with %d workers", len(pendings), workerCount)

	jobs := make(chan pendingTransfer)
	results := make(chan domain.PlacementResult)

	for i := 0; i < workerCount; i++ {
		go func() {
			for job := range jobs {
				results <- executor.Transfer(job.meta, job.dest, job.outcome, job.detail)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, job := range pendings {
			select {
			case <-ctx.Done():
				// A requested stop finishes in-flight files but schedules
				// nothing new; the rest is reported as skipped.
				results <- domain.PlacementResult{Source: job.meta, DestPath: job.dest, Outcome: domain.OutcomeSkipped, Detail: "stop requested"}
			case jobs <- job:
			}
		}
	}()

	total := len(pendings)
	for i := 0; i < total; i++ {
		res := <-results
		summary.Record(res)
		if p.OnTransferProgress != nil {
			p.OnTransferProgress(i+1, total, res.Source.Name)
		}
	}
}
