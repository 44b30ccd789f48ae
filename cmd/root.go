package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"retroconv/internal/config"
	"retroconv/internal/logging"
)

var (
	configPath string
	logLevel   string
	logFormat  string
)

// Loaded by the root PersistentPreRunE.
var (
	cfg    *config.Config
	logger *slog.Logger
)

var errNothingFound = errors.New("no matching input files found")

// exitError carries a process exit status with the error to print.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func usageError(err error) error {
	return &exitError{code: 1, err: err}
}

var rootCmd = &cobra.Command{
	Use:           "retroconv",
	Short:         "retroconv - prepare boxart, video and disc images for retro handhelds",
	Long:          "retroconv normalizes cover art to fixed-size RGBA PNGs, transcodes video to mp4 and converts disc images to ISO.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, path, exists, err := config.Load(configPath)
		if err != nil {
			return usageError(err)
		}
		if cmd.Flags().Changed("log-level") {
			loaded.Logging.Level = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			loaded.Logging.Format = logFormat
		}

		base, err := logging.New(logging.Options{Level: loaded.Logging.Level, Format: loaded.Logging.Format})
		if err != nil {
			return usageError(err)
		}
		logger = logging.WithRun(base, logging.NewRunID(), cmd.Name())
		logger.Debug("config loaded", "path", path, "exists", exists)

		cfg = loaded
		cmd.SetContext(logging.WithContext(cmd.Context(), logger))
		return nil
	},
}

// Execute runs the root command and exits with 1 for usage and setup
// errors or 2 when no input matched.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "retroconv:", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	return 1
}

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/retroconv/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format: console or json")
}
