package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/357r4bd/loosemac"
	"github.com/357r4bd/loosemac/internal/loader"
	"github.com/357r4bd/loosemac/internal/report"
	rngsrc "github.com/357r4bd/loosemac/internal/rng"
)

var (
	runYAMLFlag bool
	runDotFlag  string
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a network description to convergence and report the result",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runYAMLFlag, "yaml", false, "parse the input as a YAML scenario instead of the plain-text grammar")
	runCmd.Flags().StringVar(&runDotFlag, "dot", "", "write the topology as a DOT graph to this file before running")
}

func runRun(cmd *cobra.Command, args []string) error {
	in, err := openInput(args)
	if err != nil {
		return err
	}
	defer in.Close()

	var lambda int
	var specs []loosemac.NodeSpec
	if runYAMLFlag {
		lambda, specs, err = loader.LoadYAML(in)
	} else {
		lambda, specs, err = loader.Load(in)
	}
	if err != nil {
		return fmt.Errorf("loading network description: %w", err)
	}

	runID := uuid.New().String()
	entry := setupLogger(runID)

	rng := rngsrc.New(seedIfSet())
	sim, err := loosemac.NewSimulation(lambda, specs, loosemac.WithRNG(rng), loosemac.WithTraceSink(func(ev loosemac.TraceEvent) {
		logTraceEvent(entry, ev)
	}))
	if err != nil {
		return fmt.Errorf("building simulation: %w", err)
	}

	if runDotFlag != "" {
		if err := os.WriteFile(runDotFlag, []byte(report.Topology(sim)), 0o644); err != nil {
			return fmt.Errorf("writing topology: %w", err)
		}
	}

	tick, err := sim.Run(maxTicksFlag)
	if err != nil {
		entry.WithError(err).Warn("simulation did not converge")
		return err
	}

	entry.Infof("converged at tick %d", tick)
	report.StatusTable(os.Stdout, sim)
	report.Roster(os.Stdout, sim)
	return nil
}

// logTraceEvent writes one colorized trace line per event.
func logTraceEvent(entry interface{ Infof(string, ...interface{}) }, ev loosemac.TraceEvent) {
	colorFor := color.New(color.FgCyan)
	switch ev.Event {
	case "marking-conflict", "collision":
		colorFor = color.New(color.FgRed)
	case "ready":
		colorFor = color.New(color.FgGreen)
	}
	entry.Infof("%s", colorFor.Sprintf("tick %d node %d %s: %s", ev.Tick, ev.NodeID, ev.Event, ev.Detail))
}

func openInput(args []string) (*os.File, error) {
	if len(args) == 0 || args[0] == "-" {
		return os.Stdin, nil
	}
	return os.Open(args[0])
}

func seedIfSet() int64 {
	if seedFlag != 0 {
		return seedFlag
	}
	return time.Now().UTC().UnixNano()
}
