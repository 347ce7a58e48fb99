// Package server implements the austerity game host: the acceptor pool,
// per-connection authentication and dispatch, lobby matchmaking, the
// per-game turn loop with its reconnect rendezvous, the scoreboard, and
// the signal-driven lifecycle.
package server

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/atomic"

	"austerity/internal/config"
	"austerity/internal/deck"
	"austerity/internal/history"
)

// Sentinel errors Run maps to the server's exit codes.
var (
	ErrBadStatfile  = errors.New("bad statfile")
	ErrFailedListen = errors.New("failed listen")
)

// Server owns all games, lobbies and listeners for one process. It is
// passed explicitly to every task; there is no package-level state.
type Server struct {
	key     string
	deck    []deck.Card
	timeout time.Duration
	store   *history.Store // optional results log, may be nil

	// joinMu guards the lobby and game tables. The critical section spans
	// lookup-or-create-lobby, join, and fill-triggered game creation so a
	// lobby can never fill twice.
	joinMu  sync.Mutex
	lobbies []*lobby
	games   []*gameInstance

	// shutdownMu serialises the finished transition of every game between
	// its owning turn loop and SIGTERM-driven shutdown.
	shutdownMu  sync.Mutex
	terminating atomic.Bool

	gamesWG sync.WaitGroup

	// diag receives the bound-ports line; stderr in production.
	diag io.Writer
}

// New creates a server hosting games drawn from cards, authenticated by
// key, with the given disconnect grace window (0 means no grace). store
// may be nil to skip result logging.
func New(key string, cards []deck.Card, timeout time.Duration, store *history.Store) *Server {
	return &Server{
		key:     key,
		deck:    cards,
		timeout: timeout,
		store:   store,
		diag:    os.Stderr,
	}
}

// Run is the lifecycle controller. It loads the statfile, binds every
// port, prints the bound-ports line and accepts connections until a
// signal arrives: SIGINT closes the listeners and repeats the cycle with
// a freshly loaded statfile (running games are untouched); SIGTERM ends
// the loop and finalises every live game with "eog".
func (s *Server) Run(statfilePath string) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	for !s.terminating.Load() {
		// A reload failure is fatal, but live games still deserve their
		// "eog" before the process exits.
		entries, err := config.LoadStatfile(statfilePath)
		if err != nil {
			s.shutdownGames()
			return fmt.Errorf("%w: %v", ErrBadStatfile, err)
		}

		pool, err := listenAll(entries)
		if err != nil {
			s.shutdownGames()
			return fmt.Errorf("%w: %v", ErrFailedListen, err)
		}
		fmt.Fprintln(s.diag, pool.portsLine())

		pool.start(s)

		if sig := <-sigCh; sig == syscall.SIGTERM {
			s.terminating.Store(true)
		}

		pool.stop()
	}

	s.shutdownGames()
	return nil
}

// shutdownGames finalises every live game with "eog" and waits for their
// turn loops to exit.
func (s *Server) shutdownGames() {
	s.joinMu.Lock()
	games := append([]*gameInstance(nil), s.games...)
	s.joinMu.Unlock()

	s.shutdownMu.Lock()
	for _, gi := range games {
		if !gi.finished.Load() {
			gi.broadcast(eogLine)
			gi.markFinished()
		}
	}
	s.shutdownMu.Unlock()

	s.gamesWG.Wait()
}

// findOpenGame returns the unfinished game with the given name and game
// counter, or nil.
func (s *Server) findOpenGame(name string, counter int) *gameInstance {
	s.joinMu.Lock()
	defer s.joinMu.Unlock()
	for _, gi := range s.games {
		if gi.state.Name == name && gi.counter == counter && !gi.finished.Load() {
			return gi
		}
	}
	return nil
}
