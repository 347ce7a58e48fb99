package server

import (
	"log"
	"sync"
	"time"

	"go.uber.org/atomic"

	"austerity/internal/game"
	"austerity/internal/history"
	"austerity/internal/protocol"
)

const eogLine = protocol.EOG

// turnResult is the outcome of one seat's turn.
type turnResult int

const (
	turnOK turnResult = iota
	turnDisconnected
	turnMisbehaved
)

// gameInstance binds a pure game state to its player sockets and
// reconnect rendezvous. The turn loop task owns all state mutation; mu
// exists for cross-task readers (scoreboard, reconnect catchup).
type gameInstance struct {
	srv     *Server
	counter int

	// mu guards state and conns. The turn loop is the only writer; the
	// scoreboard and reconnect catchup take it to read a stable picture.
	mu    sync.Mutex
	state *game.Game
	conns []*playerConn

	finished atomic.Bool
	done     chan struct{} // closed exactly once, when finished is set
	rv       *rendezvous
}

func newGameInstance(srv *Server, state *game.Game, counter int, conns []*playerConn) *gameInstance {
	return &gameInstance{
		srv:     srv,
		counter: counter,
		state:   state,
		conns:   conns,
		done:    make(chan struct{}),
		rv:      newRendezvous(),
	}
}

// run is the per-game task: send the opening messages, reveal the initial
// board, then drive the turn loop until a terminal condition.
func (gi *gameInstance) run() {
	defer gi.srv.gamesWG.Done()

	gi.mu.Lock()
	for seat, pc := range gi.conns {
		pc.sendLine(protocol.ReconnectID{Name: gi.state.Name, Counter: gi.counter, Seat: seat}.Encode())
		pc.sendLine(protocol.PlayInfo{Seat: seat, Players: len(gi.conns)}.Encode())
		pc.sendLine(protocol.Tokens{Count: gi.state.InitialTokens}.Encode())
	}
	for i := 0; i < game.BoardSize; i++ {
		gi.reveal()
	}
	gi.mu.Unlock()

	result, seat := gi.loop()
	gi.finalize(result, seat)
}

// loop iterates rounds of turns until a player reaches the win threshold
// (the round is allowed to finish), the board runs dry, a disconnect goes
// unreclaimed, or a seat earns its second strike. It returns the terminal
// result and the offending seat for disco/invalid endings.
func (gi *gameInstance) loop() (turnResult, int) {
	for !gi.isOver() {
		for seat := 0; seat < len(gi.conns) && gi.cardsLeft(); seat++ {
			if result := gi.takeTurn(seat); result != turnOK {
				return result, seat
			}
		}
		if !gi.cardsLeft() {
			break // deck exhausted, nothing left to play for
		}
	}
	return turnOK, 0
}

func (gi *gameInstance) isOver() bool {
	gi.mu.Lock()
	defer gi.mu.Unlock()
	return gi.state.IsOver()
}

func (gi *gameInstance) cardsLeft() bool {
	gi.mu.Lock()
	defer gi.mu.Unlock()
	return gi.state.CardsLeft()
}

// takeTurn prompts one seat and applies its response. A syntactically or
// semantically bad message earns a strike and a fresh prompt; the second
// strike in one turn ends the game. EOF hands the seat to the reconnect
// rendezvous.
func (gi *gameInstance) takeTurn(seat int) turnResult {
	strikes := 0
	for {
		gi.conns[seat].sendLine(protocol.DoWhat)

		line, err := gi.conns[seat].readLine()
		if err != nil {
			if gi.waitForReconnect(seat) {
				continue
			}
			return turnDisconnected
		}

		if gi.applyAction(seat, line) {
			return turnOK
		}
		strikes++
		if strikes >= 2 {
			return turnMisbehaved
		}
	}
}

// applyAction validates and applies one turn line, broadcasting the
// public announcement on success. A purchase also reveals the next card.
func (gi *gameInstance) applyAction(seat int, line string) bool {
	gi.mu.Lock()
	defer gi.mu.Unlock()

	player := gi.state.Players[seat]

	switch protocol.ClassifyFromPlayer(line) {
	case protocol.PlWild:
		gi.state.TakeWild(player)
		gi.broadcast(protocol.TookWild{Seat: seat}.Encode())
		return true

	case protocol.PlTake:
		msg, err := protocol.ParseTake(line)
		if err != nil || !gi.state.ValidTake(msg.Tokens) {
			return false
		}
		gi.state.TakeTokens(player, msg.Tokens)
		gi.broadcast(protocol.Took{Seat: seat, Taken: msg.Tokens}.Encode())
		return true

	case protocol.PlPurchase:
		msg, err := protocol.ParsePurchase(line)
		if err != nil || !gi.state.ValidPurchase(player, msg.Card, msg.Tokens) {
			return false
		}
		gi.state.Purchase(player, msg.Card, msg.Tokens)
		gi.broadcast(protocol.Purchased{Seat: seat, Card: msg.Card, Paid: msg.Tokens}.Encode())
		gi.reveal()
		return true
	}
	return false
}

// reveal draws the next card onto the board and announces it. Caller
// holds the state lock.
func (gi *gameInstance) reveal() {
	if card, ok := gi.state.Reveal(); ok {
		gi.broadcast(protocol.NewCard{Card: card}.Encode())
	}
}

// broadcast writes one line to every seat. Write failures are ignored;
// a dead peer surfaces as EOF on its next turn.
func (gi *gameInstance) broadcast(line string) {
	for _, pc := range gi.conns {
		pc.sendLine(line)
	}
}

// waitForReconnect parks the seat on the rendezvous and waits up to the
// server's grace window for a replacement socket. With no grace window,
// or once the game is finished, it fails immediately.
func (gi *gameInstance) waitForReconnect(seat int) bool {
	if gi.srv.timeout == 0 || gi.finished.Load() {
		return false
	}

	gi.rv.park(seat)
	defer gi.rv.clear()

	timer := time.NewTimer(gi.srv.timeout)
	defer timer.Stop()

	select {
	case pc := <-gi.rv.delivery:
		return gi.adoptDelivered(seat, pc)
	case <-timer.C:
		// The handler may have delivered in the instant the timer fired;
		// honour a delivery that is already queued.
		select {
		case pc := <-gi.rv.delivery:
			return gi.adoptDelivered(seat, pc)
		default:
			return false
		}
	case <-gi.done:
		return false
	}
}

// adoptDelivered installs a replacement socket unless the game finished
// while it was in flight. Shutdown closes every player socket; adopting
// one afterwards would leave the turn loop playing a dead game.
func (gi *gameInstance) adoptDelivered(seat int, pc *playerConn) bool {
	if gi.finished.Load() {
		pc.close()
		return false
	}
	gi.installConn(seat, pc)
	return true
}

func (gi *gameInstance) installConn(seat int, pc *playerConn) {
	gi.mu.Lock()
	gi.conns[seat].close()
	gi.conns[seat] = pc
	gi.mu.Unlock()
}

// sendCatchup streams the current game picture to a reconnecting client:
// playinfo and the initial pile size, a newcard line per face-up card,
// then one player line per seat. Called only while the turn loop is
// parked on this seat's rendezvous.
func (gi *gameInstance) sendCatchup(pc *playerConn, seat int) {
	gi.mu.Lock()
	defer gi.mu.Unlock()

	pc.sendLine(protocol.PlayInfo{Seat: seat, Players: len(gi.conns)}.Encode())
	pc.sendLine(protocol.Tokens{Count: gi.state.InitialTokens}.Encode())
	for _, card := range gi.state.Board {
		pc.sendLine(protocol.NewCard{Card: card}.Encode())
	}
	for _, p := range gi.state.Players {
		pc.sendLine(protocol.PlayerState{
			Seat:      p.Seat,
			Score:     p.Score,
			Discounts: p.Discounts,
			Wallet:    p.Wallet,
		}.Encode())
	}
}

// finalize ends the game through exactly one code path: under the
// server's shutdown lock, and only if SIGTERM shutdown has not already
// finalised it, broadcast the terminal message and tear down.
func (gi *gameInstance) finalize(result turnResult, seat int) {
	gi.srv.shutdownMu.Lock()
	defer gi.srv.shutdownMu.Unlock()

	if gi.finished.Load() {
		return
	}
	switch result {
	case turnOK:
		gi.broadcast(eogLine)
	case turnDisconnected:
		gi.broadcast(protocol.Disco{Seat: seat}.Encode())
	case turnMisbehaved:
		gi.broadcast(protocol.Invalid{Seat: seat}.Encode())
	}
	gi.markFinished()
}

// markFinished flips the finished flag, closes every player socket, wakes
// any reconnect waiter, and records the result. Caller holds shutdownMu.
func (gi *gameInstance) markFinished() {
	gi.finished.Store(true)
	close(gi.done)
	for _, pc := range gi.conns {
		pc.close()
	}
	gi.rv.wake()
	// A replacement socket delivered after the grace window expired is
	// orphaned in the channel buffer; close it too.
	select {
	case pc := <-gi.rv.delivery:
		pc.close()
	default:
	}
	gi.recordHistory()
}

func (gi *gameInstance) recordHistory() {
	if gi.srv.store == nil {
		return
	}
	res := history.GameResult{
		Name:       gi.state.Name,
		Counter:    gi.counter,
		FinishedAt: time.Now(),
	}
	for _, p := range gi.state.Players {
		res.Players = append(res.Players, history.PlayerResult{
			Seat:   p.Seat,
			Name:   p.Name,
			Score:  p.Score,
			Tokens: p.TokenCount(),
		})
	}
	if err := gi.srv.store.Record(res); err != nil {
		log.Printf("game %s.%d: record result: %v", gi.state.Name, gi.counter, err)
	}
}
