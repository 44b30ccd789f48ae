package cmd

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"retroconv/internal/backend"
	"retroconv/internal/boxart"
)

var (
	boxartMode       string
	boxartBackground string
	boxartOut        string
	boxartSuffix     string
	boxartBackend    string
	boxartWorkers    int
	boxartForce      bool
)

var boxartCmd = &cobra.Command{
	Use:   "boxart [WIDTH HEIGHT | PROFILE] <inputs...>",
	Short: "Resize cover art to fixed-size 32-bit PNG",
	Long: "boxart scales images onto a WIDTHxHEIGHT canvas (pad, crop or stretch) and writes RGBA PNGs.\n" +
		"Directories are scanned recursively. Profiles: " + strings.Join(boxart.DefaultProfiles().Names(), ", ") + ".",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolution, opts, err := boxartOptions(cmd, args)
		if err != nil {
			return usageError(err)
		}

		conv, err := backend.Select(pick(cmd, "backend", boxartBackend, cfg.Boxart.Backend))
		if err != nil {
			return usageError(err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		rep := newReporter(cmd.OutOrStdout(), "retroconv boxart")
		runner := boxart.NewRunner(conv, opts, logger.With("backend", conv.Name()))
		runner.Start = rep.Start
		runner.Observe = func(res boxart.Result) { rep.Item(res.Item) }

		result, err := runner.Run(ctx, resolution.Inputs)
		rep.Stop()
		if err != nil {
			return usageError(err)
		}
		return rep.finish(result.Found)
	},
}

// boxartOptions merges positional arguments, flags and config into one
// immutable run configuration.
func boxartOptions(cmd *cobra.Command, args []string) (boxart.Resolution, boxart.Options, error) {
	resolver := boxart.NewProfileResolver(configProfiles(), boxart.Dimensions{Width: cfg.Boxart.Width, Height: cfg.Boxart.Height})
	resolution, err := resolver.Resolve(args)
	if err != nil {
		return boxart.Resolution{}, boxart.Options{}, err
	}

	mode, err := boxart.ParseFitMode(pick(cmd, "mode", boxartMode, cfg.Boxart.Mode))
	if err != nil {
		return boxart.Resolution{}, boxart.Options{}, err
	}
	bg, err := boxart.ParseBackground(pick(cmd, "bg", boxartBackground, cfg.Boxart.Background))
	if err != nil {
		return boxart.Resolution{}, boxart.Options{}, err
	}
	suffix, err := boxart.ParseSuffixStyle(pick(cmd, "suffix", boxartSuffix, cfg.Boxart.Suffix))
	if err != nil {
		return boxart.Resolution{}, boxart.Options{}, err
	}
	target, err := boxart.ParseOutputTarget(boxartOut)
	if err != nil {
		return boxart.Resolution{}, boxart.Options{}, err
	}

	workers := cfg.Boxart.Workers
	if cmd.Flags().Changed("workers") {
		workers = boxartWorkers
	}

	return resolution, boxart.Options{
		Dimensions: resolution.Dimensions,
		Mode:       mode,
		Background: bg,
		Target:     target,
		Suffix:     suffix,
		Workers:    workers,
		Force:      boxartForce,
	}, nil
}

func configProfiles() boxart.Profiles {
	extra := make(map[string]boxart.Dimensions, len(cfg.Boxart.Profiles))
	for name, size := range cfg.Boxart.Profiles {
		extra[name] = boxart.Dimensions{Width: size.Width, Height: size.Height}
	}
	return boxart.DefaultProfiles().With(extra)
}

// pick returns the flag value when set on the command line, else fallback.
func pick(cmd *cobra.Command, flag, value, fallback string) string {
	if cmd.Flags().Changed(flag) {
		return value
	}
	return fallback
}

func init() {
	boxartCmd.Flags().StringVarP(&boxartMode, "mode", "m", "pad", "fit mode: pad, crop or stretch")
	boxartCmd.Flags().StringVar(&boxartBackground, "bg", "none", "pad colour: none, a colour name or #RRGGBB[AA]")
	boxartCmd.Flags().StringVarP(&boxartOut, "out", "o", "", "output directory (trailing /) or single .png file")
	boxartCmd.Flags().StringVar(&boxartSuffix, "suffix", "same", "output name when writing beside the source: same or resized")
	boxartCmd.Flags().StringVar(&boxartBackend, "backend", "auto", "image backend: "+strings.Join(backend.Names(), ", "))
	boxartCmd.Flags().IntVarP(&boxartWorkers, "workers", "j", 1, "parallel conversions")
	boxartCmd.Flags().BoolVarP(&boxartForce, "force", "f", false, "overwrite existing outputs")

	rootCmd.AddCommand(boxartCmd)
}
