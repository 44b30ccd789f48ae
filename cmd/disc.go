package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"retroconv/internal/deps"
	"retroconv/internal/disc"
)

var (
	discOut     string
	discKeepCHD bool
	discCD      bool
	discWorkers int
	discForce   bool
)

var discCmd = &cobra.Command{
	Use:   "disc <inputs...>",
	Short: "Convert .cue and .chd disc images to .iso with chdman",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, ok := deps.FirstAvailable(cfg.Disc.Chdman); !ok {
			return usageError(fmt.Errorf("chdman not found (looked for %q)", cfg.Disc.Chdman))
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		keep := cfg.Disc.KeepCHD
		if cmd.Flags().Changed("keep-chd") {
			keep = discKeepCHD
		}

		rep := newReporter(cmd.OutOrStdout(), "retroconv disc")
		conv := disc.NewConverter(disc.NewExec(cfg.Disc.Chdman), disc.Options{
			OutDir:  discOut,
			KeepCHD: keep,
			CD:      discCD,
			Workers: discWorkers,
			Force:   discForce,
		}, logger)
		conv.Start = rep.Start
		conv.Observe = rep.Item

		_, found, err := conv.Run(ctx, args)
		rep.Stop()
		if err != nil {
			return usageError(err)
		}
		return rep.finish(found)
	},
}

func init() {
	discCmd.Flags().StringVarP(&discOut, "out", "o", "", "output directory (default: beside each source)")
	discCmd.Flags().BoolVar(&discKeepCHD, "keep-chd", false, "keep the intermediate CHD built from .cue inputs")
	discCmd.Flags().BoolVar(&discCD, "cd", false, "extract .chd inputs as CD images (extractraw)")
	discCmd.Flags().IntVarP(&discWorkers, "workers", "j", 1, "parallel conversions")
	discCmd.Flags().BoolVarP(&discForce, "force", "f", false, "overwrite existing outputs")

	rootCmd.AddCommand(discCmd)
}
