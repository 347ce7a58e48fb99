package server

import (
	"fmt"
	"net"
	"strings"
	"sync"

	"austerity/internal/config"
)

// portListener is one statfile entry bound to a live TCP listener. The
// entry's port is the actually bound port, so ephemeral (0) entries carry
// the kernel-chosen value.
type portListener struct {
	cfg config.StatEntry
	ln  net.Listener
}

// listenerPool is the set of acceptors for one listen cycle.
type listenerPool struct {
	listeners []*portListener
	wg        sync.WaitGroup
}

// listenAll binds every statfile entry in order. On any failure the
// already-bound listeners are closed before the error is reported.
func listenAll(entries []config.StatEntry) (*listenerPool, error) {
	pool := &listenerPool{}
	for _, entry := range entries {
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", entry.Port))
		if err != nil {
			for _, pl := range pool.listeners {
				pl.ln.Close()
			}
			return nil, fmt.Errorf("port %d: %w", entry.Port, err)
		}
		entry.Port = ln.Addr().(*net.TCPAddr).Port
		pool.listeners = append(pool.listeners, &portListener{cfg: entry, ln: ln})
	}
	return pool, nil
}

// portsLine renders the bound ports, space-separated in statfile order.
func (p *listenerPool) portsLine() string {
	parts := make([]string, len(p.listeners))
	for i, pl := range p.listeners {
		parts[i] = fmt.Sprintf("%d", pl.cfg.Port)
	}
	return strings.Join(parts, " ")
}

// start launches one acceptor task per listener. Each accepted socket is
// handed to a short-lived connection handler along with the port's game
// parameters.
func (p *listenerPool) start(s *Server) {
	for _, pl := range p.listeners {
		p.wg.Add(1)
		go func(pl *portListener) {
			defer p.wg.Done()
			for {
				conn, err := pl.ln.Accept()
				if err != nil {
					return // listener closed
				}
				go s.handleConn(conn, pl.cfg)
			}
		}(pl)
	}
}

// stop closes the listen sockets and waits for the acceptor tasks to
// drain. In-flight client connections are not touched.
func (p *listenerPool) stop() {
	for _, pl := range p.listeners {
		pl.ln.Close()
	}
	p.wg.Wait()
}
