package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stackc",
	Short: "stackc compiles Go functions for a stack machine",
	Long: `stackc compiles the package level functions of Go packages into
assembler listings for a stack based virtual machine.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(buildCmd, envCmd, targetsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
