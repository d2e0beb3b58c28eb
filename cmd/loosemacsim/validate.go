package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/357r4bd/loosemac/internal/loader"
)

var validateYAMLFlag bool

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Parse a network description and report errors without running it",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateYAMLFlag, "yaml", false, "parse the input as a YAML scenario instead of the plain-text grammar")
}

func runValidate(cmd *cobra.Command, args []string) error {
	in, err := openInput(args)
	if err != nil {
		return err
	}
	defer in.Close()

	var lambda int
	var n int
	if validateYAMLFlag {
		l, specs, err := loader.LoadYAML(in)
		if err != nil {
			return fmt.Errorf("invalid: %w", err)
		}
		lambda, n = l, len(specs)
	} else {
		l, specs, err := loader.Load(in)
		if err != nil {
			return fmt.Errorf("invalid: %w", err)
		}
		lambda, n = l, len(specs)
	}

	fmt.Fprintf(os.Stdout, "ok: %d node(s), lambda=%d\n", n, lambda)
	return nil
}
