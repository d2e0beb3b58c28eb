package loosemac

import "testing"

// seqRNG returns a fixed, repeating sequence of draws — enough control
// to make slot-reassignment scenarios fully deterministic in tests.
type seqRNG struct {
	vals []int
	i    int
}

func (s *seqRNG) Intn(n int) int {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	if v >= n {
		v %= n
	}
	return v
}

// S1 — two isolated nodes, no neighbors, no default slots.
func TestScenarioTwoIsolatedNodes(t *testing.T) {
	sim, err := NewSimulation(2, []NodeSpec{{ID: 1}, {ID: 2}}, WithRNG(&seqRNG{vals: []int{0, 1}}))
	if err != nil {
		t.Fatal(err)
	}

	n1, _ := sim.Node(1)
	n2, _ := sim.Node(2)
	if n1.Slot != 1 || n2.Slot != 2 {
		t.Fatalf("initial slots = (%d, %d), want (1, 2)", n1.Slot, n2.Slot)
	}

	tick, err := sim.Run(20)
	if err != nil {
		t.Fatalf("expected convergence, got %v", err)
	}
	if tick != 4 {
		t.Errorf("converged at tick %d, want 4", tick)
	}
	if n1.Slot != 1 || n2.Slot != 2 {
		t.Errorf("final slots = (%d, %d), want (1, 2)", n1.Slot, n2.Slot)
	}
	if n1.State != Ready || n2.State != Ready {
		t.Errorf("both nodes should be READY, got %v, %v", n1.State, n2.State)
	}
}

// S2 — two adjacent nodes, distinct default slots: clean handshake, no
// conflict.
func TestScenarioTwoAdjacentDistinctSlots(t *testing.T) {
	specs := []NodeSpec{
		{ID: 1, Neighbors: []int{2}, DefaultSlots: []int{1}},
		{ID: 2, Neighbors: []int{1}, DefaultSlots: []int{2}},
	}
	sim, err := NewSimulation(2, specs)
	if err != nil {
		t.Fatal(err)
	}

	tick, err := sim.Run(20)
	if err != nil {
		t.Fatalf("expected convergence, got %v", err)
	}
	if tick != 4 {
		t.Errorf("converged at tick %d, want 4", tick)
	}

	n1, _ := sim.Node(1)
	n2, _ := sim.Node(2)
	if n1.Slot != 1 || n2.Slot != 2 {
		t.Errorf("final slots = (%d, %d), want (1, 2)", n1.Slot, n2.Slot)
	}

	wantVectors := map[int]int{1: 1, 2: 2}
	if !mapsEqual(n1.Vectors(), wantVectors) || !mapsEqual(n2.Vectors(), wantVectors) {
		t.Errorf("vectors = %v / %v, want %v for both", n1.Vectors(), n2.Vectors(), wantVectors)
	}
}

// S3 — two adjacent nodes sharing a default slot. Two mutually-adjacent
// nodes each transmitting only to their one neighbor never produces two
// writes to the same mailbox recipient in this topology, so no CORRUPT
// arises; instead both sides independently detect a *marking conflict*
// in heardBeacon (their own self-entry already occupies the shared
// slot), which sets SndError the same way.
func TestScenarioSharedDefaultSlotConflict(t *testing.T) {
	specs := []NodeSpec{
		{ID: 1, Neighbors: []int{2}, DefaultSlots: []int{1}},
		{ID: 2, Neighbors: []int{1}, DefaultSlots: []int{1}},
	}
	// Deterministic draws for the two getNewSlot calls during tick 3's
	// conflict resolution: node 1 (processed first) picks index 1 of
	// its free set, node 2 picks index 0, landing them on distinct
	// slots (2 and 1) on the first retry.
	sim, err := NewSimulation(2, specs, WithRNG(&seqRNG{vals: []int{1, 0}}))
	if err != nil {
		t.Fatal(err)
	}

	n1, _ := sim.Node(1)
	n2, _ := sim.Node(2)

	sim.Step() // tick 1
	if !n1.SndError || !n2.SndError {
		t.Fatalf("both nodes should flag a marking conflict after tick 1, got %v / %v", n1.SndError, n2.SndError)
	}
	if n1.State != Waiting || n2.State != Waiting {
		t.Fatalf("both nodes should have transmitted and moved to WAITING, got %v / %v", n1.State, n2.State)
	}

	sim.Step() // tick 2: both hold their slot until it recurs, mailbox stays empty
	if !sim.MailboxEmpty() {
		t.Fatal("mailbox should be empty on a tick neither node transmits")
	}

	tick, err := sim.Run(30)
	if err != nil {
		t.Fatalf("expected eventual convergence, got %v", err)
	}
	if n1.Slot == n2.Slot {
		t.Fatalf("adjacent nodes must not converge on the same slot, both got %d at tick %d", n1.Slot, tick)
	}
	if n1.State != Ready || n2.State != Ready {
		t.Errorf("both nodes should be READY, got %v, %v", n1.State, n2.State)
	}
}

// S4 — triangle, three mutually adjacent nodes with distinct default
// slots: no collisions, converges cleanly.
func TestScenarioTriangleDistinctSlots(t *testing.T) {
	specs := []NodeSpec{
		{ID: 1, Neighbors: []int{2, 3}, DefaultSlots: []int{1}},
		{ID: 2, Neighbors: []int{1, 3}, DefaultSlots: []int{2}},
		{ID: 3, Neighbors: []int{1, 2}, DefaultSlots: []int{3}},
	}
	sim, err := NewSimulation(3, specs)
	if err != nil {
		t.Fatal(err)
	}

	tick, err := sim.Run(20)
	if err != nil {
		t.Fatalf("expected convergence, got %v", err)
	}
	if tick < 1+3 || tick > 3+3 {
		t.Errorf("converged at tick %d, want in [4, 6]", tick)
	}

	for i, want := range map[int]int{1: 1, 2: 2, 3: 3} {
		n, _ := sim.Node(i)
		if n.Slot != want {
			t.Errorf("node %d slot = %d, want %d", i, n.Slot, want)
		}
		if n.State != Ready {
			t.Errorf("node %d state = %v, want READY", i, n.State)
		}
	}
}

// S6 — star: one center, three leaves, non-overlapping default slots.
func TestScenarioStar(t *testing.T) {
	specs := []NodeSpec{
		{ID: 1, Neighbors: []int{2, 3, 4}, DefaultSlots: []int{1}},
		{ID: 2, Neighbors: []int{1}, DefaultSlots: []int{2}},
		{ID: 3, Neighbors: []int{1}, DefaultSlots: []int{3}},
		{ID: 4, Neighbors: []int{1}, DefaultSlots: []int{4}},
	}
	sim, err := NewSimulation(4, specs)
	if err != nil {
		t.Fatal(err)
	}

	tick, err := sim.Run(20)
	if err != nil {
		t.Fatalf("expected convergence, got %v", err)
	}
	if tick < 1+4 || tick > 4+4 {
		t.Errorf("converged at tick %d, want in [5, 8]", tick)
	}
	for _, id := range []int{1, 2, 3, 4} {
		n, _ := sim.Node(id)
		if n.State != Ready {
			t.Errorf("node %d state = %v, want READY", id, n.State)
		}
	}
}

// Single-node graph: a node with no neighbors converges on its own once
// its wait elapses, with nothing ever touching its marking vector.
func TestScenarioSingleNodeNoNeighbors(t *testing.T) {
	sim, err := NewSimulation(3, []NodeSpec{{ID: 1, DefaultSlots: []int{2}}})
	if err != nil {
		t.Fatal(err)
	}

	n, _ := sim.Node(1)
	if n.Slot != 2 {
		t.Fatalf("initial slot = %d, want 2", n.Slot)
	}

	tick, err := sim.Run(10)
	if err != nil {
		t.Fatalf("expected convergence, got %v", err)
	}
	if tick != n.Slot+3 { // own_slot + lambda, lambda == 3 here
		t.Errorf("converged at tick %d, want %d", tick, n.Slot+3)
	}
}

// Lambda = 1 with two mutually adjacent nodes: convergence is
// impossible (both must always share the single slot), the simulator
// must report non-convergence rather than a false success.
func TestScenarioLambdaOneNeverConverges(t *testing.T) {
	specs := []NodeSpec{
		{ID: 1, Neighbors: []int{2}},
		{ID: 2, Neighbors: []int{1}},
	}
	sim, err := NewSimulation(1, specs, WithRNG(&seqRNG{vals: []int{0}}))
	if err != nil {
		t.Fatal(err)
	}

	_, err = sim.Run(200)
	if err == nil {
		t.Fatal("expected a NonConvergenceError, got nil")
	}
	var ncErr *NonConvergenceError
	if _, ok := err.(*NonConvergenceError); !ok {
		t.Fatalf("got %T, want *NonConvergenceError", err)
	} else {
		ncErr = err.(*NonConvergenceError)
	}
	if ncErr.Ticks != 200 {
		t.Errorf("Ticks = %d, want 200", ncErr.Ticks)
	}
}

func mapsEqual(a, b map[int]int) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
