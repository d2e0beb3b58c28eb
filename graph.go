package loosemac

import (
	"fmt"
	"sort"

	petname "github.com/dustinkirkland/golang-petname"
)

// NodeSpec is the minimal description of one node needed to build a
// Simulation: its id, its one-hop neighbors, and any preferred default
// slots. It is the seam between this package and an external collaborator
// that knows how to parse an input format (internal/loader) — this
// package never reads input itself. Name is optional; if the input
// format didn't supply one, NewSimulation synthesizes one.
type NodeSpec struct {
	ID           int
	Name         string
	Neighbors    []int
	DefaultSlots []int
}

// NewSimulation builds a Simulation from a frame length and a set of
// node specs. Lambda defaults to len(specs) if zero or negative. Every
// node starts NOTREADY with an empty marking vector, snd_hello set,
// snd_error clear, and an initial slot chosen via getNewSlot.
func NewSimulation(lambda int, specs []NodeSpec, opts ...Option) (*Simulation, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("loosemac: at least one node is required")
	}
	if lambda <= 0 {
		lambda = len(specs)
	}

	seen := make(map[int]bool, len(specs))
	for _, spec := range specs {
		if seen[spec.ID] {
			return nil, fmt.Errorf("loosemac: duplicate node id %d", spec.ID)
		}
		seen[spec.ID] = true
	}
	for _, spec := range specs {
		for _, nb := range spec.Neighbors {
			if !seen[nb] {
				return nil, fmt.Errorf("loosemac: node %d references undeclared neighbor %d", spec.ID, nb)
			}
		}
	}

	s := &Simulation{
		Lambda:  lambda,
		mailbox: NewMailbox(),
		rng:     defaultRNG{},
		index:   make(map[int]*Node, len(specs)),
	}
	for _, opt := range opts {
		opt(s)
	}

	ordered := make([]NodeSpec, len(specs))
	copy(ordered, specs)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	petname.NonDeterministicMode()

	for _, spec := range ordered {
		name := spec.Name
		if name == "" {
			name = petname.Generate(2, "-")
		}
		n := &Node{
			ID:        spec.ID,
			Name:      name,
			Neighbors: append([]int(nil), spec.Neighbors...),
			State:     NotReady,
			SndHello:  true,
			SndError:  false,
			vectors:   newSlotVector(lambda),
			readyTime: noReadyTime,
		}
		n.defaultSlots = wrapSlots(spec.DefaultSlots, lambda)

		getNewSlot(n, lambda, s.rng, 0)

		s.nodes = append(s.nodes, n)
		s.index[n.ID] = n
	}

	return s, nil
}

// wrapSlots reduces every slot value > lambda modulo lambda into
// [1, lambda].
func wrapSlots(slots []int, lambda int) []int {
	out := make([]int, len(slots))
	for i, v := range slots {
		if v > lambda {
			v = ((v - 1) % lambda) + 1
		}
		if v < 1 {
			v = 1
		}
		out[i] = v
	}
	return out
}

// SetName overrides a node's display name. Cosmetic only; the FSM never
// consults it.
func (n *Node) SetName(name string) {
	n.Name = name
}
