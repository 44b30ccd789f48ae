package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"retroconv/internal/language"
	"retroconv/internal/video"
)

var (
	videoOut     string
	videoLangs   []string
	videoHWAccel string
	videoWorkers int
	videoForce   bool
)

var videoCmd = &cobra.Command{
	Use:   "video <inputs...>",
	Short: "Transcode videos to H.264/AAC mp4 with preferred audio and subtitles",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		langs := cfg.Video.Languages
		if cmd.Flags().Changed("lang") {
			langs = videoLangs
		}
		langs = language.NormalizeList(langs)

		workers := cfg.Video.Workers
		if cmd.Flags().Changed("workers") {
			workers = videoWorkers
		}

		settings := video.Settings{
			HWAccel:       pick(cmd, "hwaccel", videoHWAccel, cfg.Video.HWAccel),
			VAAPIDevice:   cfg.Video.VAAPIDevice,
			BitrateK:      cfg.Video.BitrateK,
			MaxrateK:      cfg.Video.MaxrateK,
			BufsizeK:      cfg.Video.BufsizeK,
			Height:        cfg.Video.Height,
			AudioBitrateK: cfg.Video.AudioBitrateK,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		rep := newReporter(cmd.OutOrStdout(), "retroconv video")
		tr := video.NewTranscoder(video.Options{
			FFmpeg:    cfg.Video.FFmpeg,
			FFprobe:   cfg.Video.FFprobe,
			Languages: langs,
			Settings:  settings,
			OutDir:    videoOut,
			Workers:   workers,
			Force:     videoForce,
		}, nil, logger)
		tr.Start = rep.Start
		tr.Observe = rep.Item

		_, found, err := tr.Run(ctx, args)
		rep.Stop()
		if err != nil {
			return usageError(err)
		}
		return rep.finish(found)
	},
}

func init() {
	videoCmd.Flags().StringVarP(&videoOut, "out", "o", "", "output directory (default: beside each source)")
	videoCmd.Flags().StringSliceVar(&videoLangs, "lang", nil, "preferred audio/subtitle languages in order, e.g. ja,en")
	videoCmd.Flags().StringVar(&videoHWAccel, "hwaccel", "none", "encoder: none, vaapi, nvenc or qsv")
	videoCmd.Flags().IntVarP(&videoWorkers, "workers", "j", 1, "parallel transcodes")
	videoCmd.Flags().BoolVarP(&videoForce, "force", "f", false, "overwrite existing outputs")

	rootCmd.AddCommand(videoCmd)
}
