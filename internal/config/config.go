package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/sethvargo/go-envconfig"
)

// Size is a width/height pair as written in the config file.
type Size struct {
	Width  int `toml:"width" validate:"gte=1,lte=65536"`
	Height int `toml:"height" validate:"gte=1,lte=65536"`
}

// Boxart holds defaults for the boxart command.
type Boxart struct {
	Width      int             `toml:"width" validate:"gte=1,lte=65536"`
	Height     int             `toml:"height" validate:"gte=1,lte=65536"`
	Mode       string          `toml:"mode" validate:"oneof=pad crop stretch"`
	Background string          `toml:"background"`
	Suffix     string          `toml:"suffix" validate:"oneof=same resized"`
	Backend    string          `toml:"backend" validate:"oneof=auto magick convert native"`
	Workers    int             `toml:"workers" validate:"gte=1,lte=64"`
	Profiles   map[string]Size `toml:"profiles" validate:"dive"`
}

// Video holds transcode settings. The numeric encode parameters can be
// overridden from the environment.
type Video struct {
	Languages     []string `toml:"languages" validate:"min=1,dive,required"`
	HWAccel       string   `toml:"hwaccel" validate:"oneof=none vaapi nvenc qsv"`
	VAAPIDevice   string   `toml:"vaapi_device"`
	FFmpeg        string   `toml:"ffmpeg" validate:"required"`
	FFprobe       string   `toml:"ffprobe" validate:"required"`
	Workers       int      `toml:"workers" validate:"gte=1,lte=16"`
	BitrateK      int      `toml:"video_bitrate_k" env:"RETROCONV_VIDEO_BITRATE_K, overwrite" validate:"gte=100"`
	MaxrateK      int      `toml:"video_maxrate_k" env:"RETROCONV_VIDEO_MAXRATE_K, overwrite" validate:"gtefield=BitrateK"`
	BufsizeK      int      `toml:"video_bufsize_k" env:"RETROCONV_VIDEO_BUFSIZE_K, overwrite" validate:"gtefield=MaxrateK"`
	Height        int      `toml:"height" env:"RETROCONV_VIDEO_HEIGHT, overwrite" validate:"gte=144,lte=2160"`
	AudioBitrateK int      `toml:"audio_bitrate_k" env:"RETROCONV_AUDIO_BITRATE_K, overwrite" validate:"gte=32,lte=512"`
}

// Disc holds chdman settings.
type Disc struct {
	Chdman  string `toml:"chdman" validate:"required"`
	KeepCHD bool   `toml:"keep_chd"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format" validate:"oneof=console json"`
	Level  string `toml:"level" validate:"oneof=debug info warn error"`
}

// Config is the full retroconv configuration.
type Config struct {
	Boxart  Boxart  `toml:"boxart"`
	Video   Video   `toml:"video"`
	Disc    Disc    `toml:"disc"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path of the default config file.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/retroconv/config.toml")
}

// Load locates, parses, and validates a configuration file. A missing file
// is not an error; defaults and environment overrides still apply. The
// second and third results are the resolved path and whether it existed.
func Load(path string) (*Config, string, bool, error) {
	return load(path, envconfig.OsLookuper())
}

func load(path string, env envconfig.Lookuper) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file).DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, "", false, fmt.Errorf("parse config: %s", strict.String())
			}
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(context.Background(), env); err != nil {
		return nil, "", false, err
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func (c *Config) applyEnv(ctx context.Context, env envconfig.Lookuper) error {
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &c.Video,
		Lookuper: env,
	}); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	return nil
}

func (c *Config) normalize() {
	c.Boxart.Mode = strings.ToLower(strings.TrimSpace(c.Boxart.Mode))
	c.Boxart.Suffix = strings.ToLower(strings.TrimSpace(c.Boxart.Suffix))
	c.Boxart.Backend = strings.ToLower(strings.TrimSpace(c.Boxart.Backend))
	if len(c.Boxart.Profiles) > 0 {
		profiles := make(map[string]Size, len(c.Boxart.Profiles))
		for name, size := range c.Boxart.Profiles {
			profiles[strings.ToLower(strings.TrimSpace(name))] = size
		}
		c.Boxart.Profiles = profiles
	}

	langs := c.Video.Languages[:0]
	for _, lang := range c.Video.Languages {
		if trimmed := strings.ToLower(strings.TrimSpace(lang)); trimmed != "" {
			langs = append(langs, trimmed)
		}
	}
	c.Video.Languages = langs
	c.Video.HWAccel = strings.ToLower(strings.TrimSpace(c.Video.HWAccel))

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", false, err
		}
		path = defaultPath
	}

	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %s is a directory", expanded)
	}
	return expanded, true, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}
