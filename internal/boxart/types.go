package boxart

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"retroconv/internal/batch"
)

// Dimensions is a target size in pixels.
type Dimensions struct {
	Width  int
	Height int
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// MaxDimension bounds each side of a canvas.
const MaxDimension = 1 << 16

// Valid reports whether both sides are positive and at most MaxDimension.
func (d Dimensions) Valid() bool {
	return d.Width > 0 && d.Height > 0 && d.Width <= MaxDimension && d.Height <= MaxDimension
}

// FitMode selects how the source aspect ratio is reconciled with the canvas.
type FitMode int

const (
	ModePad FitMode = iota
	ModeCrop
	ModeStretch
)

var fitModeNames = []string{"pad", "crop", "stretch"}

func (m FitMode) String() string {
	if int(m) >= 0 && int(m) < len(fitModeNames) {
		return fitModeNames[m]
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseFitMode maps a mode name to a FitMode.
func ParseFitMode(value string) (FitMode, error) {
	name := strings.ToLower(strings.TrimSpace(value))
	for i, candidate := range fitModeNames {
		if name == candidate {
			return FitMode(i), nil
		}
	}
	return 0, &ConfigError{
		Field: "mode",
		Value: value,
		Msg:   "unknown fit mode (valid: " + strings.Join(fitModeNames, ", ") + ")",
	}
}

// SuffixStyle controls the output file name when no output target is given.
type SuffixStyle int

const (
	// SuffixSame writes <stem>.png next to the source.
	SuffixSame SuffixStyle = iota
	// SuffixResized writes <stem>-resized.png next to the source.
	SuffixResized
)

func (s SuffixStyle) String() string {
	if s == SuffixResized {
		return "resized"
	}
	return "same"
}

// FileName returns the output file name for stem.
func (s SuffixStyle) FileName(stem string) string {
	if s == SuffixResized {
		return stem + "-resized.png"
	}
	return stem + ".png"
}

// ParseSuffixStyle maps "same" or "resized" to a SuffixStyle.
func ParseSuffixStyle(value string) (SuffixStyle, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "same":
		return SuffixSame, nil
	case "resized":
		return SuffixResized, nil
	default:
		return 0, &ConfigError{Field: "suffix", Value: value, Msg: "unknown suffix style (valid: same, resized)"}
	}
}

// OutputKind distinguishes the three output target forms.
type OutputKind int

const (
	OutputUnset OutputKind = iota
	OutputDirectory
	OutputFile
)

// OutputTarget is the parsed --out value.
type OutputTarget struct {
	Kind OutputKind
	Path string
}

// ParseOutputTarget classifies raw as unset, a directory (existing, or
// written with a trailing separator) or an explicit .png file.
func ParseOutputTarget(raw string) (OutputTarget, error) {
	if strings.TrimSpace(raw) == "" {
		return OutputTarget{Kind: OutputUnset}, nil
	}
	if strings.HasSuffix(raw, "/") || strings.HasSuffix(raw, string(filepath.Separator)) {
		return OutputTarget{Kind: OutputDirectory, Path: filepath.Clean(raw)}, nil
	}
	if info, err := os.Stat(raw); err == nil && info.IsDir() {
		return OutputTarget{Kind: OutputDirectory, Path: filepath.Clean(raw)}, nil
	}
	if !hasPNGExt(raw) {
		return OutputTarget{}, &InvalidOutputError{Path: raw}
	}
	return OutputTarget{Kind: OutputFile, Path: filepath.Clean(raw)}, nil
}

// ConversionJob is one fully resolved source-to-destination conversion.
type ConversionJob struct {
	Source      string
	Destination string
	Dimensions  Dimensions
	Mode        FitMode
	Background  Background
}

// Result pairs a job with its outcome.
type Result struct {
	batch.Item
	Job ConversionJob
}

// BatchResult is the ordered outcome of a run.
type BatchResult struct {
	Results []Result
	// Found counts image files discovered across all inputs.
	Found int
}

// Items returns the per-item outcomes in order.
func (b BatchResult) Items() []batch.Item {
	items := make([]batch.Item, len(b.Results))
	for i, r := range b.Results {
		items[i] = r.Item
	}
	return items
}

// Summary aggregates the outcomes.
func (b BatchResult) Summary() batch.Summary {
	return batch.Summarize(b.Items())
}

func hasPNGExt(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".png")
}
