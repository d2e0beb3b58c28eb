// Package report renders a Simulation's per-tick status as a
// human-readable table and its topology as a DOT graph. The core engine
// only exposes the accessors this package reads — it never formats
// output itself.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/olekukonko/tablewriter"

	"github.com/357r4bd/loosemac"
)

// StatusTable writes one row per node — id, state, slot, adjacency,
// pending send flags, and the marking vector — to w.
func StatusTable(w io.Writer, sim *loosemac.Simulation) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "STATE", "SLOT", "NEIGHBORS", "HELLO", "ERROR", "VECTORS"})

	for _, n := range sim.Nodes() {
		table.Append([]string{
			fmt.Sprintf("%d", n.ID),
			n.State.String(),
			fmt.Sprintf("%d", n.Slot),
			fmt.Sprintf("%v", n.Neighbors),
			fmt.Sprintf("%t", n.SndHello),
			fmt.Sprintf("%t", n.SndError),
			formatVectors(n.Vectors()),
		})
	}
	table.Render()
}

// Roster writes the NOTREADY/WAITING/READY rosters to w.
func Roster(w io.Writer, sim *loosemac.Simulation) {
	byState := map[loosemac.NodeState][]int{}
	for _, n := range sim.Nodes() {
		byState[n.State] = append(byState[n.State], n.ID)
	}

	for _, state := range []loosemac.NodeState{loosemac.NotReady, loosemac.Waiting, loosemac.Ready} {
		fmt.Fprintf(w, "%s: %v\n", state, byState[state])
	}
}

func formatVectors(v map[int]int) string {
	slots := make([]int, 0, len(v))
	for s := range v {
		slots = append(slots, s)
	}
	sort.Ints(slots)

	out := "{"
	for i, s := range slots {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%d->%d", s, v[s])
	}
	return out + "}"
}
