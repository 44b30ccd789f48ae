package video

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"retroconv/internal/deps"
	"retroconv/internal/language"
)

// Stream describes a single stream in the media container.
type Stream struct {
	Index       int               `json:"index"`
	CodecName   string            `json:"codec_name"`
	CodecType   string            `json:"codec_type"`
	Width       int               `json:"width"`
	Height      int               `json:"height"`
	Channels    int               `json:"channels"`
	Tags        map[string]string `json:"tags"`
	Disposition Disposition       `json:"disposition"`
}

// Disposition carries the ffprobe flags retroconv cares about.
type Disposition struct {
	Default int `json:"default"`
	Forced  int `json:"forced"`
}

// Language returns the stream's ISO 639-1 language, or "".
func (s Stream) Language() string {
	return language.FromTags(s.Tags)
}

func (s Stream) IsDefault() bool { return s.Disposition.Default == 1 }

// Probe is the parsed ffprobe output.
type Probe struct {
	Streams []Stream `json:"streams"`
	Format  struct {
		Duration string `json:"duration"`
		Size     string `json:"size"`
	} `json:"format"`
}

// Runner executes an external command and returns stdout.
type Runner func(ctx context.Context, tool string, args ...string) ([]byte, error)

// Inspect runs ffprobe against path and decodes the JSON response.
func Inspect(ctx context.Context, run Runner, binary, path string) (Probe, error) {
	if run == nil {
		run = deps.Run
	}
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	if strings.TrimSpace(path) == "" {
		return Probe{}, errors.New("ffprobe inspect: empty path")
	}

	out, err := run(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	if err != nil {
		return Probe{}, fmt.Errorf("ffprobe inspect: %w", err)
	}
	return ParseProbe(out)
}

// ParseProbe decodes ffprobe JSON.
func ParseProbe(data []byte) (Probe, error) {
	var p Probe
	if err := json.Unmarshal(data, &p); err != nil {
		return Probe{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return p, nil
}
