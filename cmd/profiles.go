package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"retroconv/internal/boxart"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List boxart size profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		profiles := configProfiles()
		builtin := boxart.DefaultProfiles()

		rows := make([][]string, 0, len(profiles)+1)
		for _, name := range profiles.Names() {
			dims, _ := profiles.Lookup(name)
			source := "built-in"
			if _, ok := builtin[name]; !ok {
				source = "config"
			}
			rows = append(rows, []string{name, strconv.Itoa(dims.Width), strconv.Itoa(dims.Height), source})
		}
		rows = append(rows, []string{"(default)", strconv.Itoa(cfg.Boxart.Width), strconv.Itoa(cfg.Boxart.Height), "config"})

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, renderTable(
			[]string{"Profile", "Width", "Height", "Source"},
			rows,
			[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft},
			shouldColorize(out),
		))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}
