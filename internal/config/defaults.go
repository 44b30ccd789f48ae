package config

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Boxart: Boxart{
			Width:      250,
			Height:     288,
			Mode:       "pad",
			Background: "none",
			Suffix:     "same",
			Backend:    "auto",
			Workers:    1,
		},
		Video: Video{
			Languages:     []string{"en"},
			HWAccel:       "none",
			VAAPIDevice:   "/dev/dri/renderD128",
			FFmpeg:        "ffmpeg",
			FFprobe:       "ffprobe",
			Workers:       1,
			BitrateK:      2500,
			MaxrateK:      3000,
			BufsizeK:      6000,
			Height:        720,
			AudioBitrateK: 160,
		},
		Disc: Disc{
			Chdman: "chdman",
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}
