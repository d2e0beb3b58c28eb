// Package tui drives the interactive "watch" mode: a redrawing terminal
// view of a running Simulation, one line per node. Grounded on
// flashbots-builder-playground's own interactive display (spinner +
// lipgloss styling with manual cursor control), which is itself how far
// that example goes — bubbletea's full Model/Update/View program loop is
// never directly imported anywhere in this pack, only pulled in
// transitively by bubbles, so this package follows the same restraint
// rather than reaching past what the pack actually exercises.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	"github.com/357r4bd/loosemac"
)

var (
	readyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	waitingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	notReadyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Watch drives sim to completion (or until maxTicks is exceeded),
// redrawing a one-line-per-node view after every tick.
type Watch struct {
	sim      *loosemac.Simulation
	spinners map[int]spinner.Model
	lines    int
}

// NewWatch builds a Watch over sim, with one spinner per node.
func NewWatch(sim *loosemac.Simulation) *Watch {
	w := &Watch{
		sim:      sim,
		spinners: make(map[int]spinner.Model, sim.NodeCount()),
	}
	for _, n := range sim.Nodes() {
		sp := spinner.New()
		sp.Spinner = spinner.Dot
		w.spinners[n.ID] = sp
	}
	return w
}

// Run steps the simulation to completion, printing one redraw per tick.
// It returns the tick convergence was reached at, or a
// *loosemac.NonConvergenceError if maxTicks is exceeded.
func (w *Watch) Run(maxTicks int) (int, error) {
	for {
		tick, done := w.sim.Step()
		w.redraw(tick)
		if done {
			return tick, nil
		}
		if maxTicks > 0 && tick >= maxTicks {
			notReady := make([]int, 0)
			for _, n := range w.sim.Nodes() {
				if n.State != loosemac.Ready {
					notReady = append(notReady, n.ID)
				}
			}
			return tick, &loosemac.NonConvergenceError{Ticks: tick, NotReadyIDs: notReady}
		}
	}
}

func (w *Watch) redraw(tick int) {
	if w.lines > 0 {
		fmt.Printf("\033[%dA", w.lines)
		fmt.Print("\033[J")
	}

	fmt.Printf("tick %d\n", tick)
	w.lines = 1

	for _, n := range w.sim.Nodes() {
		sp := w.spinners[n.ID]
		sp, _ = sp.Update(sp.Tick())
		w.spinners[n.ID] = sp

		style := notReadyStyle
		switch n.State {
		case loosemac.Ready:
			style = readyStyle
		case loosemac.Waiting:
			style = waitingStyle
		}

		fmt.Println(style.Render(fmt.Sprintf("%s node %d  slot %d  %s", sp.View(), n.ID, n.Slot, n.State)))
		w.lines++
	}
}
