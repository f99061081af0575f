package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"omibyte.io/stackc/builder"
	"omibyte.io/stackc/compiler"
)

var (
	buildOpts = struct {
		output   string
		target   string
		verbose  string
		dumpIR   bool
		strict   bool
		switches bool
	}{}

	buildCmd = &cobra.Command{
		Use:   "build [packages]",
		Short: "Build packages",
		Long:  "Build packages and write one assembler listing per package",
		RunE: func(cmd *cobra.Command, args []string) error {
			verbosity, err := parseVerbosity(buildOpts.verbose)
			if err != nil {
				return err
			}

			builderOptions := builder.Options{
				Packages:        args,
				Output:          buildOpts.output,
				Target:          buildOpts.target,
				Environment:     builder.Environment(),
				Verbosity:       verbosity,
				DumpIR:          buildOpts.dumpIR,
				Strict:          buildOpts.strict,
				RecoverSwitches: buildOpts.switches,
			}

			// Build the current directory by default
			if len(builderOptions.Packages) == 0 {
				builderOptions.Packages = []string{"."}
			}

			result, err := builder.Build(cmd.Context(), builderOptions)
			if err != nil {
				if errors.Is(err, builder.ErrParserError) {
					return fmt.Errorf("build error: %w", err)
				}
				return fmt.Errorf("compiler error: %w", err)
			}

			for _, fname := range result.Files {
				fmt.Fprintln(cmd.OutOrStdout(), fname)
			}
			if len(result.Skipped) > 0 && verbosity >= compiler.Warning {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped: %s\n", strings.Join(result.Skipped, ", "))
			}
			return nil
		},
	}
)

func init() {
	buildCmd.Flags().StringVarP(&buildOpts.output, "output", "o", "", "output directory (default $STACKCOUT)")
	buildCmd.Flags().StringVarP(&buildOpts.target, "target", "t", "", "target machine (default $STACKCTARGET)")
	buildCmd.Flags().StringVarP(&buildOpts.verbose, "verbose", "v", "warning", "verbosity level")
	buildCmd.Flags().BoolVar(&buildOpts.dumpIR, "dump-ir", false, "dump the IR")
	buildCmd.Flags().BoolVar(&buildOpts.strict, "strict", false, "fail on the first unsupported function")
	buildCmd.Flags().BoolVar(&buildOpts.switches, "switches", true, "turn comparison chains into switches")
}

func parseVerbosity(s string) (compiler.Verbosity, error) {
	switch strings.ToLower(s) {
	case "quiet":
		return compiler.Quiet, nil
	case "info":
		return compiler.Info, nil
	case "", "warning":
		return compiler.Warning, nil
	case "debug":
		return compiler.Debug, nil
	}
	return compiler.Quiet, fmt.Errorf("unknown verbosity %q", s)
}
