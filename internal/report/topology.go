package report

import (
	"fmt"

	"github.com/emicklei/dot"

	"github.com/357r4bd/loosemac"
)

// Topology renders the simulation's adjacency graph as DOT source,
// one undirected edge per neighbor pair, labeled with each node's
// current state and slot.
func Topology(sim *loosemac.Simulation) string {
	g := dot.NewGraph(dot.Undirected)
	g.Attr("rankdir", "LR")

	nodes := make(map[int]dot.Node, sim.NodeCount())
	for _, n := range sim.Nodes() {
		gn := g.Node(fmt.Sprintf("%d", n.ID)).
			Label(fmt.Sprintf("%d\\n%s slot %d", n.ID, n.State, n.Slot))
		nodes[n.ID] = gn
	}

	drawn := make(map[[2]int]bool)
	for _, n := range sim.Nodes() {
		for _, nb := range n.Neighbors {
			key := [2]int{n.ID, nb}
			if n.ID > nb {
				key = [2]int{nb, n.ID}
			}
			if drawn[key] {
				continue
			}
			drawn[key] = true
			g.Edge(nodes[n.ID], nodes[nb])
		}
	}

	return g.String()
}
