package loosemac

// handlerSentMsg is invoked when the tick loop has determined a node
// must transmit this tick.
func handlerSentMsg(ctx dispatchCtx) {
	n := ctx.node
	for _, nb := range n.Neighbors {
		ctx.sim.mailbox.Put(nb, ctx.msg)
	}
	n.SndHello = false
	if ctx.msg.Kind == BeaconConflict {
		n.SndError = false
	}
	n.readyTime = ctx.tick + ctx.sim.Lambda
	n.State = Waiting

	ctx.sim.trace(ctx.tick, n.ID, "sent", ctx.msg.Kind.String())
}

// handlerHeardBeacon records a beacon arriving at the receiver.
func handlerHeardBeacon(ctx dispatchCtx) {
	n := ctx.node
	sigma := TimeToSlot(ctx.tick, ctx.sim.Lambda)

	if n.vectors.get(sigma) == noOwner {
		// Senders move: drop any stale entry recorded under another slot.
		n.vectors.clearOwnedBy(ctx.sender)
		n.vectors.set(sigma, ctx.sender, ctx.tick)
		ctx.sim.trace(ctx.tick, n.ID, "heard-beacon", "slot %d <- %d", sigma, ctx.sender)
		return
	}

	// Marking conflict: slot already claimed, and not by sender.
	n.SndError = true
	ctx.sim.trace(ctx.tick, n.ID, "marking-conflict", "slot %d already claimed, beacon from %d", sigma, ctx.sender)
}

// handlerHeardConflict resets a WAITING node on a conflict report.
func handlerHeardConflict(ctx dispatchCtx) {
	n := ctx.node
	n.readyTime = noReadyTime
	n.State = NotReady
	newSlot := getNewSlot(n, ctx.sim.Lambda, ctx.sim.rng, ctx.tick)
	n.SndHello = true

	ctx.sim.trace(ctx.tick, n.ID, "heard-conflict", "from %d, reassigned to slot %d", ctx.sender, newSlot)
}

// handlerCollisionNoReset flags a collision without touching state.
func handlerCollisionNoReset(ctx dispatchCtx) {
	ctx.node.SndError = true
	ctx.sim.trace(ctx.tick, ctx.node.ID, "collision", "snd_error set (%s)", ctx.node.State)
}

// handlerCollisionReset flags a collision and resets the node.
func handlerCollisionReset(ctx dispatchCtx) {
	handlerCollisionNoReset(ctx)

	n := ctx.node
	n.readyTime = noReadyTime
	n.State = NotReady
	newSlot := getNewSlot(n, ctx.sim.Lambda, ctx.sim.rng, ctx.tick)
	n.SndHello = true

	ctx.sim.trace(ctx.tick, n.ID, "collision", "reset, reassigned to slot %d", newSlot)
}

// handlerMakeReady promotes a WAITING node once its wait is over.
func handlerMakeReady(ctx dispatchCtx) {
	n := ctx.node
	if tick, scheduled := n.ReadyTime(); scheduled && tick == ctx.tick {
		n.State = Ready
		ctx.sim.readyCount++
		ctx.sim.trace(ctx.tick, n.ID, "ready", "slot %d stable", n.Slot)
	}
}

// getNewSlot reassigns n's slot. It removes the node's self-entry, then
// either pops the next preferred default slot or draws uniformly from
// the free slots in the marking vector. If the vector is saturated
// (every slot claimed by someone) it first evicts the
// least-recently-confirmed non-self entry, so a node can always make
// forward progress instead of stalling with nowhere left to claim.
func getNewSlot(n *Node, lambda int, rng RNG, tick int) int {
	if n.Slot != 0 {
		n.vectors.clear(n.Slot)
	}

	var newSlot int
	if len(n.defaultSlots) > 0 {
		newSlot = n.defaultSlots[0]
		n.defaultSlots = n.defaultSlots[1:]
	} else {
		if n.vectors.saturated() {
			if evict := n.vectors.oldestNonSelf(n.Slot); evict != -1 {
				n.vectors.clear(evict)
			}
		}

		free := make([]int, 0, lambda)
		for sigma := 1; sigma <= lambda; sigma++ {
			if n.vectors.get(sigma) == noOwner {
				free = append(free, sigma)
			}
		}

		if len(free) == 0 {
			// Unreachable in practice: clearing the self-entry above
			// always frees at least one slot. Kept as a safe fallback
			// rather than a panic.
			newSlot = n.Slot
		} else {
			newSlot = free[rng.Intn(len(free))]
		}
	}

	n.Slot = newSlot
	n.vectors.set(newSlot, n.ID, tick)
	return newSlot
}
