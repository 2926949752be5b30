package processor

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/moontasirabtahee/image-resizer-tool/internal/filter"
	"github.com/moontasirabtahee/image-resizer-tool/internal/sizing"
)

// Engine resizes and filters one batch of images, one file at a time.
// An Engine is meant for a single batch: once stopped it stays stopped.
type Engine struct {
	opts Options
	log  *zap.Logger
	flag stopFlag
}

func NewEngine(opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{opts: opts, log: log}
}

// Stop asks the batch to end. It may be called from any goroutine, any
// number of times, before or during Run. Work already started on a file
// stage is not interrupted; the next checkpoint sees the request.
func (e *Engine) Stop() {
	if !e.flag.isSet() {
		e.log.Info("stop requested")
	}
	e.flag.set()
}

// Stopped reports whether Stop has been called.
func (e *Engine) Stopped() bool {
	return e.flag.isSet()
}

// Status returns the current state of the batch.
func (e *Engine) Status() Status {
	return e.flag.getStatus()
}

// Run validates files, then resizes, filters and writes every valid one in
// input order. Only configuration problems are returned as errors; per-file
// failures end up in Outcome.FailedFiles. Cancelling ctx has the same effect
// as calling Stop.
func (e *Engine) Run(ctx context.Context, files []string, policy sizing.Policy, spec filter.Spec, progress ProgressFunc) (Outcome, error) {
	if err := sizing.Check(policy); err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if err := spec.Validate(); err != nil {
		return Outcome{}, fmt.Errorf("%w: filters: %w", ErrConfiguration, err)
	}
	if e.opts.OutputDir == "" {
		return Outcome{}, fmt.Errorf("%w: output directory required", ErrConfiguration)
	}
	if err := os.MkdirAll(e.opts.OutputDir, 0o755); err != nil {
		return Outcome{}, fmt.Errorf("%w: output directory: %w", ErrConfiguration, err)
	}

	if ctx != nil {
		if ctx.Err() != nil {
			e.Stop()
		}
		release := context.AfterFunc(ctx, e.Stop)
		defer release()
	}

	e.log.Info("batch started",
		zap.Int("files", len(files)),
		zap.Stringer("size", policy),
		zap.Any("filters", spec.Enabled()),
		zap.String("output", e.opts.OutputDir),
	)

	e.flag.setStatus(Status{State: StateValidating})
	valid, invalid := Validate(files)
	rejected := lo.Map(invalid, func(path string, _ int) string { return filepath.Base(path) })
	e.log.Debug("validated", zap.Int("valid", len(valid)), zap.Strings("invalid", rejected))

	if len(valid) == 0 {
		e.flag.setStatus(Status{State: StateCompleted})
		e.log.Warn("no valid images")
		return Outcome{FailedFiles: rejected}, nil
	}

	outcome := Outcome{Total: len(valid), FailedFiles: []string{}}
	for i, path := range valid {
		e.flag.setStatus(Status{State: StateProcessing, Current: i + 1, Total: len(valid)})

		job := Job{
			Path:   path,
			Name:   filepath.Base(path),
			Output: filepath.Join(e.opts.OutputDir, outputName(e.opts.Prefix, path)),
		}
		started := time.Now()
		if err := e.process(job, policy, spec); err != nil {
			outcome.FailedFiles = append(outcome.FailedFiles, job.Name)
			e.log.Warn("file failed", zap.String("file", job.Name), zap.Error(err))
		} else {
			outcome.Succeeded++
			e.log.Debug("file done",
				zap.String("file", job.Name),
				zap.String("output", job.Output),
				zap.Duration("elapsed", time.Since(started)),
			)
		}

		if progress != nil {
			progress(i+1, len(valid), job.Name)
		}
	}
	outcome.FailedFiles = append(outcome.FailedFiles, rejected...)

	e.flag.setStatus(Status{State: StateCompleted, Current: len(valid), Total: len(valid)})
	e.log.Info("batch complete",
		zap.Int("succeeded", outcome.Succeeded),
		zap.Int("total", outcome.Total),
		zap.Int("failed", len(outcome.FailedFiles)),
	)
	return outcome, nil
}

func (e *Engine) process(job Job, policy sizing.Policy, spec filter.Spec) (err error) {
	defer func() {
		if p := recover(); p != nil {
			if perr, ok := p.(error); ok {
				err = perr
			} else {
				err = fmt.Errorf("recovered: %v", p)
			}
		}
	}()

	if e.Stopped() {
		return errStopped
	}

	src, err := imaging.Open(job.Path, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	b := src.Bounds()
	size, err := sizing.Resolve(image.Pt(b.Dx(), b.Dy()), policy)
	if err != nil {
		return err
	}
	e.log.Debug("resizing",
		zap.String("file", job.Name),
		zap.Int("from_w", b.Dx()), zap.Int("from_h", b.Dy()),
		zap.Int("to_w", size.X), zap.Int("to_h", size.Y),
	)
	resized := imaging.Resize(src, size.X, size.Y, imaging.Lanczos)

	filtered, err := filter.Apply(resized, spec, e)
	if err != nil {
		return err
	}

	if err := writeImage(filtered, job.Output, e.opts.JPEGQuality); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
