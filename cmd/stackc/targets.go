package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"omibyte.io/stackc/targets"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List the supported targets",
	RunE: func(cmd *cobra.Command, args []string) error {
		all := targets.All()
		for _, name := range all.Names() {
			info, err := all.FindByName(name)
			if err != nil {
				return err
			}
			line := name
			if len(info.Aliases) > 0 {
				line += " (" + strings.Join(info.Aliases, ", ") + ")"
			}
			if len(info.Description) > 0 {
				line += ": " + info.Description
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		return nil
	},
}
