package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"retroconv/internal/deps"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Report which external tools are available",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reqs := deps.Requirements()
		for i := range reqs {
			switch reqs[i].Command {
			case "ffmpeg":
				reqs[i].Command = cfg.Video.FFmpeg
			case "ffprobe":
				reqs[i].Command = cfg.Video.FFprobe
			case "chdman":
				reqs[i].Command = cfg.Disc.Chdman
			}
		}
		statuses := deps.CheckBinaries(reqs)

		rows := make([][]string, 0, len(statuses))
		for _, s := range statuses {
			state := "ok"
			detail := s.Path
			if !s.Available {
				state = "missing"
				detail = s.Detail
			}
			rows = append(rows, []string{s.Name, s.Command, state, s.Description, detail})
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, renderTable(
			[]string{"Tool", "Command", "Status", "Used for", "Detail"},
			rows,
			nil,
			shouldColorize(out),
		))

		if _, ok := deps.FirstAvailable("magick", "convert"); !ok {
			fmt.Fprintln(out, "No ImageMagick found: boxart needs --backend native.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
