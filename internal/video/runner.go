package video

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"retroconv/internal/batch"
	"retroconv/internal/deps"
	"retroconv/internal/fileutil"
)

// Extensions lists the containers the video command accepts.
var Extensions = map[string]struct{}{
	"mkv": {}, "mp4": {}, "m4v": {}, "avi": {}, "mov": {}, "webm": {},
	"ts": {}, "m2ts": {}, "mpg": {}, "mpeg": {}, "vob": {}, "wmv": {}, "flv": {},
}

// Options configures one video run.
type Options struct {
	FFmpeg    string
	FFprobe   string
	Languages []string
	Settings  Settings
	OutDir    string
	Workers   int
	Force     bool
}

// Transcoder converts video files to mp4.
type Transcoder struct {
	opts   Options
	logger *slog.Logger
	run    Runner
	// Start, when set, receives the number of items Run will report.
	Start func(total int)
	// Observe, when set, receives every item as it is decided.
	Observe func(batch.Item)
}

// NewTranscoder builds a Transcoder. run defaults to deps.Run.
func NewTranscoder(opts Options, run Runner, logger *slog.Logger) *Transcoder {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.FFmpeg == "" {
		opts.FFmpeg = "ffmpeg"
	}
	if opts.FFprobe == "" {
		opts.FFprobe = "ffprobe"
	}
	if run == nil {
		run = deps.Run
	}
	return &Transcoder{opts: opts, logger: logger, run: run}
}

// Run transcodes every video found under inputs. The second result counts
// matched files.
func (t *Transcoder) Run(ctx context.Context, inputs []string) ([]batch.Item, int, error) {
	if _, err := Encoder(t.opts.Settings.HWAccel); err != nil {
		return nil, 0, err
	}

	slots, found := batch.Collect(inputs, batch.CollectOptions{
		Match:  func(p string) bool { return fileutil.HasExt(p, Extensions) },
		Noun:   "a video",
		OutDir: t.opts.OutDir,
		Ext:    ".mp4",
		Force:  t.opts.Force,
	})

	t.logger.Info("video batch starting", "inputs", len(inputs), "found", found, "hwaccel", t.opts.Settings.HWAccel)
	if t.Start != nil {
		t.Start(len(slots))
	}
	items := batch.RunSlots(ctx, slots, t.opts.Workers, t.transcode, t.report)
	return items, found, nil
}

func (t *Transcoder) transcode(ctx context.Context, slot batch.Slot) batch.Item {
	src, dest := slot.Entry.Path, slot.Destination

	probe, err := Inspect(ctx, t.run, t.opts.FFprobe, src)
	if err != nil {
		return batch.Failed(src, dest, err)
	}
	sel, err := SelectTracks(probe.Streams, t.opts.Languages)
	if err != nil {
		return batch.Failed(src, dest, err)
	}
	for _, d := range sel.Dropped {
		t.logger.Warn("dropping image-based subtitle", "source", src, "stream", d.Index, "codec", d.CodecName, "language", d.Language())
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return batch.Failed(src, dest, err)
	}

	err = fileutil.WriteAtomic(dest, ".retroconv-*.mp4", func(tmp string) error {
		args, err := BuildArgs(Job{Source: src, Output: tmp, Selection: sel}, t.opts.Settings)
		if err != nil {
			return err
		}
		_, err = t.run(ctx, t.opts.FFmpeg, args...)
		return err
	})
	if err != nil {
		return batch.Failed(src, dest, err)
	}

	item := batch.Item{Source: src, Destination: dest, Outcome: batch.OutcomeOK}
	if info, statErr := os.Stat(dest); statErr == nil {
		item.Bytes = info.Size()
	}
	return item
}

func (t *Transcoder) report(item batch.Item) {
	switch item.Outcome {
	case batch.OutcomeOK:
		t.logger.Debug("video converted", "source", item.Source, "destination", item.Destination, "bytes", item.Bytes)
	case batch.OutcomeSkipped:
		t.logger.Debug("video skipped", "source", item.Source, "reason", item.Reason)
	default:
		t.logger.Error("video failed", "source", item.Source, "error", item.Err)
	}
	if t.Observe != nil {
		t.Observe(item)
	}
}
