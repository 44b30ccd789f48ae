package boxart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"retroconv/internal/batch"
	"retroconv/internal/fileutil"
)

// Converter performs one planned conversion, writing job.Destination only
// on success.
type Converter interface {
	Name() string
	Convert(ctx context.Context, job ConversionJob, plan TransformPlan) error
}

// Options is the immutable configuration of one run.
type Options struct {
	Dimensions Dimensions
	Mode       FitMode
	Background Background
	Target     OutputTarget
	Suffix     SuffixStyle
	Workers    int
	// Force reprocesses items whose destination already exists.
	Force bool
}

// Slot is one item of a prepared run. Pending slots still need converting;
// the others already carry their final outcome.
type Slot struct {
	Job     ConversionJob
	Item    batch.Item
	Pending bool
}

// Prepared is a fully resolved run that has not touched the filesystem.
type Prepared struct {
	Plan  TransformPlan
	Slots []Slot
	Found int
}

// Runner drives classify, resolve, plan and convert over a list of inputs.
type Runner struct {
	conv     Converter
	opts     Options
	logger   *slog.Logger
	resolver OutputResolver
	// Start, when set, receives the number of results Run will report.
	Start func(total int)
	// Observe, when set, receives every result as it is decided.
	Observe func(Result)
}

// NewRunner builds a Runner. conv may be nil when only Prepare is used.
func NewRunner(conv Converter, opts Options, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		conv:     conv,
		opts:     opts,
		logger:   logger,
		resolver: OutputResolver{Suffix: opts.Suffix},
	}
}

type expanded struct {
	entry fileutil.Entry
	batch bool
}

// Prepare classifies inputs in caller order and resolves every destination.
// Fatal errors (bad plan, ambiguous or invalid output) are returned before
// any file is written.
func (r *Runner) Prepare(inputs []string) (Prepared, error) {
	plan, err := Plan(r.opts.Dimensions, r.opts.Mode, r.opts.Background)
	if err != nil {
		return Prepared{}, err
	}

	exclude := ""
	if r.opts.Target.Kind == OutputDirectory {
		exclude = r.opts.Target.Path
	}

	var (
		slots     []Slot
		work      []expanded
		workSlots []int
		sawDir    bool
	)
	for _, input := range inputs {
		classified, err := Classify(input, exclude)
		if err != nil {
			var nf *NotFoundError
			switch {
			case errors.As(err, &nf) && LooksLikeOutput(input):
				slots = append(slots, Slot{Job: ConversionJob{Source: input}, Item: batch.Skipped(input, "",
					"no such input; it looks like an output path, pass it with --out")})
			default:
				slots = append(slots, Slot{Job: ConversionJob{Source: input}, Item: batch.Failed(input, "", err)})
			}
			continue
		}

		switch classified.Kind {
		case InputNotImage:
			slots = append(slots, Slot{Job: ConversionJob{Source: input}, Item: batch.Skipped(input, "", "not an image")})
		case InputDirectory:
			sawDir = true
			fallthrough
		default:
			for _, entry := range classified.Entries {
				work = append(work, expanded{entry: entry, batch: classified.Kind == InputDirectory})
				workSlots = append(workSlots, len(slots))
				slots = append(slots, Slot{})
			}
		}
	}

	if r.opts.Target.Kind == OutputFile {
		if sawDir {
			return Prepared{}, &AmbiguousOutputError{Output: r.opts.Target.Path, Inputs: len(work)}
		}
		if len(work) > 1 {
			return Prepared{}, &AmbiguousOutputError{Output: r.opts.Target.Path, Inputs: len(work)}
		}
	}

	claimed := make(map[string]string, len(work))
	for i, w := range work {
		src := w.entry.Path
		dest, err := r.resolver.Resolve(w.entry, r.opts.Target, w.batch)
		job := ConversionJob{
			Source:      src,
			Destination: dest,
			Dimensions:  plan.Canvas,
			Mode:        plan.Mode,
			Background:  plan.Background,
		}
		slot := &slots[workSlots[i]]
		slot.Job = job

		if errors.Is(err, errSameAsSource) {
			if r.opts.Target.Kind == OutputFile {
				return Prepared{}, &ConfigError{Field: "output", Value: dest, Msg: "refusing to overwrite the source file"}
			}
			slot.Item = batch.Skipped(src, dest, err.Error())
			continue
		}
		if err != nil {
			return Prepared{}, err
		}

		key := dest
		if abs, absErr := filepath.Abs(dest); absErr == nil {
			key = abs
		}
		if owner, ok := claimed[key]; ok {
			slot.Item = batch.Skipped(src, dest, "destination already produced by "+owner)
			continue
		}
		claimed[key] = src

		if !r.opts.Force && fileutil.Exists(dest) {
			slot.Item = batch.Skipped(src, dest, "destination exists")
			continue
		}
		slot.Item = batch.Item{Source: src, Destination: dest}
		slot.Pending = true
	}

	return Prepared{Plan: plan, Slots: slots, Found: len(work)}, nil
}

// Run prepares and executes a batch. Per-item failures are recorded in the
// result; only setup problems are returned as errors.
func (r *Runner) Run(ctx context.Context, inputs []string) (BatchResult, error) {
	prepared, err := r.Prepare(inputs)
	if err != nil {
		return BatchResult{}, err
	}
	if r.conv == nil {
		return BatchResult{}, &BackendMissingError{}
	}

	if r.Start != nil {
		r.Start(len(prepared.Slots))
	}
	results := make([]Result, len(prepared.Slots))
	seq := batch.NewSequencer(len(results), func(i int) { r.report(results[i]) })
	var pending []int
	for i, slot := range prepared.Slots {
		results[i] = Result{Item: slot.Item, Job: slot.Job}
		if slot.Pending {
			pending = append(pending, i)
			continue
		}
		seq.Done(i)
	}

	r.logger.Info("boxart batch starting",
		slog.String("backend", r.conv.Name()),
		slog.String("size", prepared.Plan.Canvas.String()),
		slog.String("mode", prepared.Plan.Mode.String()),
		slog.String("background", prepared.Plan.Background.String()),
		slog.Int("found", prepared.Found),
		slog.Int("pending", len(pending)),
	)

	items := batch.Execute(ctx, pending, r.opts.Workers,
		func(idx int) (string, string) {
			return prepared.Slots[idx].Job.Source, prepared.Slots[idx].Job.Destination
		},
		func(ctx context.Context, idx int) batch.Item {
			return r.convertOne(ctx, prepared.Slots[idx].Job, prepared.Plan)
		},
		func(n int, item batch.Item) {
			idx := pending[n]
			results[idx].Item = item
			seq.Done(idx)
		},
	)
	for n, item := range items {
		results[pending[n]].Item = item
	}

	return BatchResult{Results: results, Found: prepared.Found}, nil
}

func (r *Runner) convertOne(ctx context.Context, job ConversionJob, plan TransformPlan) batch.Item {
	if err := ctx.Err(); err != nil {
		return batch.Skipped(job.Source, job.Destination, "cancelled before start")
	}
	// MkdirAll tolerates concurrent creation of shared parents.
	if err := os.MkdirAll(filepath.Dir(job.Destination), 0o755); err != nil {
		return batch.Failed(job.Source, job.Destination, fmt.Errorf("create output directory: %w", err))
	}
	if err := r.conv.Convert(ctx, job, plan); err != nil {
		return batch.Failed(job.Source, job.Destination, &ConversionError{Source: job.Source, Cause: err})
	}

	item := batch.Item{Source: job.Source, Destination: job.Destination, Outcome: batch.OutcomeOK}
	if info, err := os.Stat(job.Destination); err == nil {
		item.Bytes = info.Size()
	}
	return item
}

func (r *Runner) report(res Result) {
	attrs := []any{
		slog.String("source", res.Source),
		slog.String("destination", res.Destination),
	}
	switch res.Outcome {
	case batch.OutcomeOK:
		r.logger.Debug("converted", attrs...)
	case batch.OutcomeSkipped:
		r.logger.Warn("skipped", append(attrs, slog.String("reason", res.Reason))...)
	default:
		r.logger.Error("conversion failed", append(attrs, slog.String("error", res.Reason))...)
	}
	if r.Observe != nil {
		r.Observe(res)
	}
}
