package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"retroconv/internal/backend"
	"retroconv/internal/boxart"
	"retroconv/internal/tui"
)

var planCmd = &cobra.Command{
	Use:   "plan [WIDTH HEIGHT | PROFILE] <inputs...>",
	Short: "Show where boxart would write and how each image would be placed",
	Long:  "plan runs the boxart resolution steps without converting anything. It accepts the boxart flags.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolution, opts, err := boxartOptions(cmd, args)
		if err != nil {
			return usageError(err)
		}

		prepared, err := boxart.NewRunner(nil, opts, logger).Prepare(resolution.Inputs)
		if err != nil {
			return usageError(err)
		}

		out := cmd.OutOrStdout()
		color := shouldColorize(out)
		render := func(style lipgloss.Style, s string) string {
			if color {
				return style.Render(s)
			}
			return s
		}

		fmt.Fprintf(out, "%s %s, %s, background %s\n",
			render(planTitleStyle, "canvas"),
			prepared.Plan.Canvas, prepared.Plan.Mode, prepared.Plan.Background)

		for _, slot := range prepared.Slots {
			if !slot.Pending {
				fmt.Fprintln(out, tui.ItemLine(slot.Item, color))
				continue
			}
			fmt.Fprintf(out, "%s %s\n", render(planFileStyle, slot.Job.Source), render(planDimStyle, "-> "+slot.Job.Destination))
			fmt.Fprintf(out, "  %s\n", render(planValueStyle, describeLayout(prepared.Plan, slot.Job.Source)))
		}

		if prepared.Found == 0 {
			return &exitError{code: 2, err: errNothingFound}
		}
		return nil
	},
}

func describeLayout(plan boxart.TransformPlan, source string) string {
	dims, err := backend.SourceDimensions(source)
	if err != nil {
		return "size unknown: " + err.Error()
	}
	layout, err := plan.Layout(dims)
	if err != nil {
		return err.Error()
	}
	switch plan.Mode {
	case boxart.ModePad:
		return fmt.Sprintf("%s scaled to %s at +%d+%d", dims, layout.Scaled, layout.OffsetX, layout.OffsetY)
	case boxart.ModeCrop:
		return fmt.Sprintf("%s scaled to %s, cropped from +%d+%d", dims, layout.Scaled, layout.CropX, layout.CropY)
	default:
		return fmt.Sprintf("%s stretched to %s", dims, layout.Scaled)
	}
}

var (
	planTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(tui.ColorAccent)
	planFileStyle  = lipgloss.NewStyle().Bold(true).Foreground(tui.ColorAccentAlt)
	planValueStyle = lipgloss.NewStyle().Foreground(tui.ColorInk)
	planDimStyle   = lipgloss.NewStyle().Foreground(tui.ColorDim)
)

func init() {
	planCmd.Flags().AddFlagSet(boxartCmd.Flags())
	rootCmd.AddCommand(planCmd)
}
