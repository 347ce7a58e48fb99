package server

import "sync"

// noSeat marks an empty pending-reconnect slot.
const noSeat = -1

// rendezvous is the per-game disconnect/rejoin meeting point. The turn
// loop parks the disconnected seat and waits on the delivery channel with
// a deadline; the reconnect handler waits on the condition variable until
// its claimed seat is the pending one, then delivers the replacement
// socket. Each game has exactly one pending slot, matching the rule that
// only the seat whose turn it is can be mid-disconnect.
type rendezvous struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending int
	// delivery carries the replacement connection from the handler to the
	// parked turn loop. Buffered so a delivery racing the deadline is
	// never lost; the turn loop drains it once more after a timeout.
	delivery chan *playerConn
}

func newRendezvous() *rendezvous {
	rv := &rendezvous{
		pending:  noSeat,
		delivery: make(chan *playerConn, 1),
	}
	rv.cond = sync.NewCond(&rv.mu)
	return rv
}

// park publishes seat as pending and wakes handlers waiting to claim it.
func (rv *rendezvous) park(seat int) {
	rv.mu.Lock()
	rv.pending = seat
	rv.mu.Unlock()
	rv.cond.Broadcast()
}

// clear empties the pending slot after the turn loop stops waiting.
func (rv *rendezvous) clear() {
	rv.mu.Lock()
	rv.pending = noSeat
	rv.mu.Unlock()
}

// wake unblocks every waiting handler so it can observe the finished
// game. Called from game teardown. The broadcast happens under the
// mutex: a handler holds it from its finished-check until it is inside
// Wait, so the wakeup cannot land in that gap and be lost.
func (rv *rendezvous) wake() {
	rv.mu.Lock()
	rv.cond.Broadcast()
	rv.mu.Unlock()
}

// awaitSeat blocks the reconnect handler until the claimed seat is the
// pending one, claiming it exclusively, or until finished reports true.
func (rv *rendezvous) awaitSeat(seat int, finished func() bool) bool {
	rv.mu.Lock()
	defer rv.mu.Unlock()
	for rv.pending != seat {
		if finished() {
			return false
		}
		rv.cond.Wait()
	}
	// Claim the slot so a second client presenting the same rid waits
	// instead of double-delivering.
	rv.pending = noSeat
	return true
}

// deliver hands the replacement connection to the parked turn loop.
func (rv *rendezvous) deliver(pc *playerConn) {
	rv.delivery <- pc
}
