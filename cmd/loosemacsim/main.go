// Command loosemacsim drives the LooseMAC simulator from the command
// line: load a network description, run it to convergence (or a tick
// cap), and report what happened.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	petname "github.com/dustinkirkland/golang-petname"
)

var (
	seedFlag     int64
	maxTicksFlag int
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "loosemacsim",
	Short: "Serial, discrete-time simulator for the LooseMAC slot-allocation protocol",
}

func main() {
	rootCmd.PersistentFlags().Int64Var(&seedFlag, "seed", 0, "seed the RNG for a reproducible run (0 picks a fresh seed)")
	rootCmd.PersistentFlags().IntVar(&maxTicksFlag, "max-ticks", 1000, "abort with non-convergence after this many ticks (0 disables the cap)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "info", "trace log level: debug, info, warn")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(watchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogger builds the run-scoped logrus entry used by the run
// subcommand, tagged with a fresh run id and a human-friendly nickname.
func setupLogger(runID string) *logrus.Entry {
	logger := logrus.New()
	level, err := logrus.ParseLevel(logLevelFlag)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	petname.NonDeterministicMode()
	return logger.WithFields(logrus.Fields{
		"run_id":   runID,
		"nickname": petname.Generate(2, "-"),
	})
}
