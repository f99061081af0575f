package main

import (
	"github.com/spf13/cobra"

	"omibyte.io/stackc/builder"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Print stackc environment information",
	Run: func(cmd *cobra.Command, args []string) {
		builder.Environment().Print(cmd.OutOrStdout())
	},
}
