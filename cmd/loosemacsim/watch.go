package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/357r4bd/loosemac"
	"github.com/357r4bd/loosemac/internal/loader"
	rngsrc "github.com/357r4bd/loosemac/internal/rng"
	"github.com/357r4bd/loosemac/internal/tui"
)

var watchYAMLFlag bool

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Run a network description with a live, redrawing terminal view",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchYAMLFlag, "yaml", false, "parse the input as a YAML scenario instead of the plain-text grammar")
}

func runWatch(cmd *cobra.Command, args []string) error {
	in, err := openInput(args)
	if err != nil {
		return err
	}
	defer in.Close()

	var lambda int
	var specs []loosemac.NodeSpec
	if watchYAMLFlag {
		lambda, specs, err = loader.LoadYAML(in)
	} else {
		lambda, specs, err = loader.Load(in)
	}
	if err != nil {
		return fmt.Errorf("loading network description: %w", err)
	}

	rng := rngsrc.New(seedIfSet())
	sim, err := loosemac.NewSimulation(lambda, specs, loosemac.WithRNG(rng))
	if err != nil {
		return fmt.Errorf("building simulation: %w", err)
	}

	tick, err := tui.NewWatch(sim).Run(maxTicksFlag)
	if err != nil {
		return err
	}

	fmt.Printf("converged at tick %d\n", tick)
	return nil
}
