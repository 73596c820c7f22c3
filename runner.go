package stencilbuilder

import (
	"fmt"
	"image"
	"image/color"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Job bundles everything one pipeline run needs.
type Job struct {
	Image      image.Image
	Palette    []color.RGBA
	Assignment []int
	Options    Options
}

// Outcome is the single completion signal of a run: a full Result or an
// error, never both.
type Outcome struct {
	Result *Result
	Err    error
}

// Runner executes pipeline runs on a dedicated goroutine, at most one
// at a time. Overlapping submissions are rejected with ErrBusy rather
// than queued, since a queued run would deliver a result for state the
// caller has already moved past.
type Runner struct {
	Logger *zap.Logger
	busy   atomic.Bool
}

func NewRunner(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{Logger: logger}
}

// Submit validates the job, snapshots its inputs synchronously, and
// starts the worker. Once Submit returns, the caller may mutate the
// image, palette, and assignment it passed in; the run works on private
// copies. The returned channel is buffered and delivers exactly one
// Outcome. There is no cancellation and no timeout; very large images
// or high color counts may run long.
func (r *Runner) Submit(job Job) (<-chan Outcome, error) {
	if err := job.Options.Validate(); err != nil {
		return nil, err
	}
	if err := validateJob(job.Palette, job.Assignment, job.Options); err != nil {
		return nil, err
	}
	if !r.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	log := r.Logger.With(zap.String("run", uuid.NewString()))
	sb := NewStencilBuilder(job.Image, job.Palette, job.Assignment)
	sb.Logger = log
	if err := sb.snapshot(job.Options); err != nil {
		r.busy.Store(false)
		return nil, err
	}
	done := make(chan Outcome, 1)
	go func() {
		out := execute(sb, job.Options, log)
		r.busy.Store(false)
		done <- out
	}()
	return done, nil
}

// execute runs the remaining pipeline stages, converting any panic
// into a failed Outcome so worker faults never reach the caller's
// control flow.
func execute(sb *StencilBuilder, opt Options, log *zap.Logger) (out Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("run failed", zap.Any("panic", rec))
			out = Outcome{Err: fmt.Errorf("stencilbuilder: run failed: %v", rec)}
		}
	}()
	log.Info("run started",
		zap.Int("width", sb.Rgb.W),
		zap.Int("height", sb.Rgb.H),
		zap.Int("palette", len(sb.Palette)))
	res := sb.run(opt)
	log.Info("run finished", zap.Int("layers", len(res.Layers)))
	return Outcome{Result: res}
}
