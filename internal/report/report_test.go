package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/357r4bd/loosemac"
)

func newTestSimulation(t *testing.T) *loosemac.Simulation {
	t.Helper()
	sim, err := loosemac.NewSimulation(2, []loosemac.NodeSpec{
		{ID: 1, Neighbors: []int{2}, DefaultSlots: []int{1}},
		{ID: 2, Neighbors: []int{1}, DefaultSlots: []int{2}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return sim
}

func TestStatusTableListsEveryNode(t *testing.T) {
	sim := newTestSimulation(t)
	var buf bytes.Buffer
	StatusTable(&buf, sim)

	out := buf.String()
	if !strings.Contains(out, "NOTREADY") {
		t.Errorf("expected initial NOTREADY state in table, got:\n%s", out)
	}
	if !strings.Contains(out, "1") || !strings.Contains(out, "2") {
		t.Errorf("expected both node ids in table, got:\n%s", out)
	}
}

func TestRosterGroupsByState(t *testing.T) {
	sim := newTestSimulation(t)
	var buf bytes.Buffer
	Roster(&buf, sim)

	out := buf.String()
	if !strings.Contains(out, "NOTREADY: [1 2]") {
		t.Errorf("expected both nodes in the NOTREADY roster, got:\n%s", out)
	}
}

func TestTopologyRendersEveryEdgeOnce(t *testing.T) {
	sim := newTestSimulation(t)
	dot := Topology(sim)

	if !strings.Contains(dot, "graph") {
		t.Errorf("expected DOT graph output, got:\n%s", dot)
	}
	if strings.Count(dot, "--") != 1 {
		t.Errorf("expected exactly one undirected edge, got:\n%s", dot)
	}
}
