package server

import (
	"bufio"
	"log"
	"net"
	"strings"

	"github.com/google/uuid"

	"austerity/internal/config"
	"austerity/internal/protocol"
)

// playerConn wraps one client socket with buffered line I/O. Ownership
// starts with the connection handler and, for players, transfers to the
// game that seats them; the handler then exits without closing it.
type playerConn struct {
	conn net.Conn
	r    *bufio.Reader
	w    *bufio.Writer
}

func newPlayerConn(conn net.Conn) *playerConn {
	return &playerConn{
		conn: conn,
		r:    bufio.NewReader(conn),
		w:    bufio.NewWriter(conn),
	}
}

// readLine reads one newline-terminated line and strips the terminator.
// EOF before the newline is an error; nothing else is trimmed, so stray
// trailing whitespace survives to fail parsing downstream.
func (pc *playerConn) readLine() (string, error) {
	line, err := pc.r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(line, "\n"), nil
}

// sendLine writes one line and flushes. Write errors are returned but
// broadcast callers ignore them; a dead peer is discovered on the next
// read from it.
func (pc *playerConn) sendLine(line string) error {
	if _, err := pc.w.WriteString(line + "\n"); err != nil {
		return err
	}
	return pc.w.Flush()
}

func (pc *playerConn) close() {
	pc.conn.Close()
}

// handleConn authenticates one accepted socket and dispatches it: new
// players go to the lobby manager, reconnecting players to the reconnect
// coordinator, scores requests get the CSV table. The socket stays open
// only when a game has taken ownership of it.
func (s *Server) handleConn(conn net.Conn, cfg config.StatEntry) {
	connID := uuid.NewString()
	pc := newPlayerConn(conn)

	line, err := pc.readLine()
	if err != nil {
		pc.close()
		return
	}

	intent, key := protocol.ClassifyAuth(line)
	authed := intent == protocol.AuthScores ||
		((intent == protocol.AuthPlay || intent == protocol.AuthReconnect) && key == s.key)

	if !authed {
		pc.sendLine(protocol.No)
		pc.close()
		return
	}
	pc.sendLine(protocol.Yes)

	keepOpen := false
	switch intent {
	case protocol.AuthPlay:
		keepOpen = s.joinGame(pc, cfg)
	case protocol.AuthReconnect:
		keepOpen = s.reconnectGame(pc)
	case protocol.AuthScores:
		if err := s.writeScores(pc.w); err != nil {
			log.Printf("conn %s: write scores: %v", connID, err)
		}
	}

	if !keepOpen {
		pc.close()
	}
}

// joinGame reads the client's requested game name and player name and
// hands the connection to the lobby manager. It reports whether the
// connection should stay open.
func (s *Server) joinGame(pc *playerConn, cfg config.StatEntry) bool {
	gameName, err := pc.readLine()
	if err != nil {
		return false
	}
	playerName, err := pc.readLine()
	if err != nil {
		return false
	}
	if gameName == "" || playerName == "" ||
		!protocol.ValidName(gameName) || !protocol.ValidName(playerName) {
		return false
	}

	s.addToLobby(gameName, playerName, pc, cfg)
	return true
}

// reconnectGame handles a reconnect-intent client per the rendezvous
// contract: parse the rid, find the open game, wait for the turn loop to
// park the claimed seat, send catchup, deliver the replacement socket.
func (s *Server) reconnectGame(pc *playerConn) bool {
	line, err := pc.readLine()
	if err != nil {
		return false
	}
	rid, err := protocol.ParseReconnectID(line)
	if err != nil {
		pc.sendLine(protocol.No)
		return false
	}

	gi := s.findOpenGame(rid.Name, rid.Counter)
	if gi == nil || rid.Seat >= len(gi.conns) {
		pc.sendLine(protocol.No)
		return false
	}

	if !gi.rv.awaitSeat(rid.Seat, gi.finished.Load) {
		pc.sendLine(protocol.No)
		return false
	}

	// The turn loop is parked waiting for this delivery, so the game
	// state is stable while catchup is written.
	pc.sendLine(protocol.Yes)
	gi.sendCatchup(pc, rid.Seat)
	gi.rv.deliver(pc)
	return true
}
