// Package disc converts cue sheets and CHD images to ISO files via chdman.
package disc

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"retroconv/internal/batch"
	"retroconv/internal/fileutil"
)

var sourceExts = map[string]struct{}{"cue": {}, "chd": {}}

// Options configures one disc run.
type Options struct {
	OutDir  string
	KeepCHD bool
	// CD treats .chd inputs as CD images (extractraw instead of extractdvd).
	CD      bool
	Workers int
	Force   bool
}

// Converter turns disc images into ISO files.
type Converter struct {
	tool   Chdman
	opts   Options
	logger *slog.Logger
	// Start, when set, receives the number of items Run will report.
	Start func(total int)
	// Observe, when set, receives every item as it is decided.
	Observe func(batch.Item)
}

func NewConverter(tool Chdman, opts Options, logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{tool: tool, opts: opts, logger: logger}
}

// Run converts every cue sheet and CHD image found under inputs. ISO inputs
// are skipped. The second result counts matched files.
func (c *Converter) Run(ctx context.Context, inputs []string) ([]batch.Item, int, error) {
	if c.tool == nil {
		return nil, 0, fmt.Errorf("chdman is not available")
	}

	var slots []batch.Slot
	found := 0
	for _, input := range inputs {
		if strings.EqualFold(filepath.Ext(input), ".iso") {
			slots = append(slots, batch.Slot{Item: batch.Skipped(input, "", "already an ISO")})
			continue
		}
		s, n := batch.Collect([]string{input}, batch.CollectOptions{
			Match:  func(p string) bool { return fileutil.HasExt(p, sourceExts) },
			Noun:   "a cue sheet or CHD image",
			OutDir: c.opts.OutDir,
			Ext:    ".iso",
			Force:  c.opts.Force,
		})
		slots = append(slots, s...)
		found += n
	}
	dedupe(slots)

	c.logger.Info("disc batch starting", "inputs", len(inputs), "found", found, "keep_chd", c.opts.KeepCHD)
	if c.Start != nil {
		c.Start(len(slots))
	}
	items := batch.RunSlots(ctx, slots, c.opts.Workers, c.convert, c.report)
	return items, found, nil
}

// dedupe re-checks destinations across separately collected inputs.
func dedupe(slots []batch.Slot) {
	claimed := map[string]string{}
	for i := range slots {
		s := &slots[i]
		if s.Destination == "" {
			continue
		}
		key := s.Destination
		if abs, err := filepath.Abs(key); err == nil {
			key = abs
		}
		if owner, ok := claimed[key]; ok && s.Pending {
			s.Pending = false
			s.Item = batch.Skipped(s.Entry.Path, s.Destination, "destination already produced by "+owner)
			continue
		}
		if _, ok := claimed[key]; !ok {
			claimed[key] = s.Entry.Path
		}
	}
}

func (c *Converter) convert(ctx context.Context, slot batch.Slot) batch.Item {
	src, dest := slot.Entry.Path, slot.Destination
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return batch.Failed(src, dest, err)
	}

	var err error
	if strings.EqualFold(filepath.Ext(src), ".cue") {
		err = c.fromCue(ctx, src, dest)
	} else {
		err = fileutil.WriteAtomic(dest, ".retroconv-*.iso", func(tmp string) error {
			if c.opts.CD {
				return c.tool.ExtractRaw(ctx, src, tmp)
			}
			return c.tool.ExtractDVD(ctx, src, tmp)
		})
	}
	if err != nil {
		return batch.Failed(src, dest, err)
	}

	item := batch.Item{Source: src, Destination: dest, Outcome: batch.OutcomeOK}
	if info, statErr := os.Stat(dest); statErr == nil {
		item.Bytes = info.Size()
	}
	return item
}

// fromCue builds an intermediate CHD next to dest and extracts it.
func (c *Converter) fromCue(ctx context.Context, cue, dest string) error {
	chd, err := fileutil.TempSibling(dest, ".retroconv-*.chd")
	if err != nil {
		return err
	}
	defer os.Remove(chd)

	if err := c.tool.CreateCD(ctx, cue, chd); err != nil {
		return fmt.Errorf("createcd: %w", err)
	}
	err = fileutil.WriteAtomic(dest, ".retroconv-*.iso", func(tmp string) error {
		return c.tool.ExtractRaw(ctx, chd, tmp)
	})
	if err != nil {
		return fmt.Errorf("extractraw: %w", err)
	}

	if c.opts.KeepCHD {
		kept := filepath.Join(filepath.Dir(dest), fileutil.Stem(dest)+".chd")
		if fileutil.Exists(kept) && !c.opts.Force {
			c.logger.Warn("keeping existing chd", "path", kept)
			return nil
		}
		if err := os.Chmod(chd, 0o644); err != nil {
			return err
		}
		if err := fileutil.ReplaceFile(chd, kept); err != nil {
			return fmt.Errorf("keep chd: %w", err)
		}
	}
	return nil
}

func (c *Converter) report(item batch.Item) {
	switch item.Outcome {
	case batch.OutcomeOK:
		c.logger.Debug("disc converted", "source", item.Source, "destination", item.Destination, "bytes", item.Bytes)
	case batch.OutcomeSkipped:
		c.logger.Debug("disc skipped", "source", item.Source, "reason", item.Reason)
	default:
		c.logger.Error("disc failed", "source", item.Source, "error", item.Err)
	}
	if c.Observe != nil {
		c.Observe(item)
	}
}
