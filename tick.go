package loosemac

import "fmt"

// TraceEvent is one observable occurrence within a tick — a send, a
// delivery, a conflict, a collision, a slot reassignment, or a
// promotion. The core engine only produces these values; formatting and
// sinking them to a terminal or log is left to whoever consumes them.
type TraceEvent struct {
	Tick   int
	NodeID int
	Event  string
	Detail string
}

// TraceSink receives trace events as they happen. A nil sink is valid
// and simply discards them.
type TraceSink func(TraceEvent)

// NonConvergenceError is returned by Run when the tick cap is exceeded
// before every node reaches READY.
type NonConvergenceError struct {
	Ticks        int
	NotReadyIDs  []int
}

func (e *NonConvergenceError) Error() string {
	return fmt.Sprintf("loosemac: simulation did not converge within %d ticks (%d node(s) still not READY)", e.Ticks, len(e.NotReadyIDs))
}

// Simulation owns the node table, the mailbox, and the tick counter. It
// is the sole mutable handle onto the run, advanced one tick at a time
// via Step or to completion via Run.
type Simulation struct {
	Lambda int

	nodes []*Node // indexed by position, ascending id order
	index map[int]*Node

	mailbox    *Mailbox
	tick       int
	readyCount int

	rng  RNG
	sink TraceSink
}

// Option configures a Simulation at construction time.
type Option func(*Simulation)

// WithRNG overrides the random source used by getNewSlot's random
// branch. Supplying a seeded RNG makes a run deterministic.
func WithRNG(rng RNG) Option {
	return func(s *Simulation) { s.rng = rng }
}

// WithTraceSink registers a sink for trace events as the tick loop
// produces them.
func WithTraceSink(sink TraceSink) Option {
	return func(s *Simulation) { s.sink = sink }
}

func (s *Simulation) trace(tick, nodeID int, event, format string, args ...interface{}) {
	if s.sink == nil {
		return
	}
	s.sink(TraceEvent{
		Tick:   tick,
		NodeID: nodeID,
		Event:  event,
		Detail: fmt.Sprintf(format, args...),
	})
}

// Tick returns the number of the next tick to be run (ticks are
// 1-indexed; before the first Step this is 1).
func (s *Simulation) Tick() int { return s.tick + 1 }

// ReadyCount returns how many nodes currently hold state READY.
func (s *Simulation) ReadyCount() int { return s.readyCount }

// NodeCount returns the number of nodes in the simulation.
func (s *Simulation) NodeCount() int { return len(s.nodes) }

// Nodes returns the nodes in ascending id order. Callers must not
// mutate them directly; the Simulation is the sole owner.
func (s *Simulation) Nodes() []*Node {
	return s.nodes
}

// Node looks up a node by id.
func (s *Simulation) Node(id int) (*Node, bool) {
	n, ok := s.index[id]
	return n, ok
}

// Done reports whether every node has reached READY.
func (s *Simulation) Done() bool {
	return s.readyCount == len(s.nodes)
}

// MailboxEmpty reports whether the mailbox holds no entries. The mailbox
// keeps a tick's entries until the next Step resets it, so after a Step
// this is true only if no node transmitted during that tick.
func (s *Simulation) MailboxEmpty() bool {
	return s.mailbox.Empty()
}

// Step advances the simulation by exactly one tick, running its four
// phases in order: send, deliver, ready-check, termination. It returns
// the tick number just executed and whether the simulation is now Done.
func (s *Simulation) Step() (tick int, done bool) {
	s.tick++
	t := s.tick

	s.mailbox.Reset()
	s.phaseSend(t)
	s.phaseDeliver(t)
	s.phaseReadyCheck(t)

	return t, s.Done()
}

// phaseSend is the tick's first phase: every node scheduled to
// transmit in the current slot does so.
func (s *Simulation) phaseSend(t int) {
	for _, n := range s.nodes {
		if n.State == Ready {
			continue
		}
		if n.Slot != TimeToSlot(t, s.Lambda) {
			continue
		}

		switch {
		case !n.SndHello && n.SndError:
			// Conflict report path deliberately bypasses the FSM
			// dispatcher: it does not schedule readiness and does not
			// change state.
			msg := Message{Kind: ConflictReport, From: n.ID}
			for _, nb := range n.Neighbors {
				s.mailbox.Put(nb, msg)
			}
			n.SndError = false
			s.trace(t, n.ID, "sent", "CONFLICT_REPORT")

		case n.SndHello && !n.SndError:
			dispatch(dispatchCtx{sim: s, node: n, tick: t, msg: Message{Kind: Beacon, From: n.ID}}, SentMsg)

		case n.SndHello && n.SndError:
			dispatch(dispatchCtx{sim: s, node: n, tick: t, msg: Message{Kind: BeaconConflict, From: n.ID}}, SentMsg)

		default:
			// !SndHello && !SndError: silent this slot.
		}
	}
}

// phaseDeliver is the tick's second phase: every node with a mailbox
// entry reacts to what it received.
func (s *Simulation) phaseDeliver(t int) {
	for _, n := range s.nodes {
		msg, corrupt, ok := s.mailbox.Get(n.ID)
		if !ok {
			continue
		}

		if corrupt {
			dispatch(dispatchCtx{sim: s, node: n, tick: t}, DetectedCollision)
			continue
		}

		switch msg.Kind {
		case Beacon:
			dispatch(dispatchCtx{sim: s, node: n, tick: t, sender: msg.From}, HeardBeacon)
		case ConflictReport:
			dispatch(dispatchCtx{sim: s, node: n, tick: t, sender: msg.From}, HeardConflict)
		case BeaconConflict:
			dispatch(dispatchCtx{sim: s, node: n, tick: t, sender: msg.From}, HeardBeacon)
			dispatch(dispatchCtx{sim: s, node: n, tick: t, sender: msg.From}, HeardConflict)
		}
	}
}

// phaseReadyCheck is the tick's third phase: any node whose wait has
// elapsed promotes to READY.
func (s *Simulation) phaseReadyCheck(t int) {
	for _, n := range s.nodes {
		if _, scheduled := n.ReadyTime(); scheduled {
			dispatch(dispatchCtx{sim: s, node: n, tick: t}, WaitIsOver)
		}
	}
}

// Run drives the simulation tick by tick until every node reaches READY
// or until maxTicks is exceeded, whichever comes first. maxTicks <= 0
// means no cap. It returns *NonConvergenceError if the cap is hit.
func (s *Simulation) Run(maxTicks int) (int, error) {
	for {
		t, done := s.Step()
		if done {
			return t, nil
		}
		if maxTicks > 0 && t >= maxTicks {
			notReady := make([]int, 0)
			for _, n := range s.nodes {
				if n.State != Ready {
					notReady = append(notReady, n.ID)
				}
			}
			return t, &NonConvergenceError{Ticks: t, NotReadyIDs: notReady}
		}
	}
}
