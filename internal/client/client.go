// Package client implements the interactive player client: the auth
// handshake, the setup and catchup message sequences, a local mirror of
// the game state, and the turn loop that prompts the user on each
// "dowhat". The binary in cmd/player maps the sentinel errors here onto
// its exit codes.
package client

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"austerity/internal/deck"
	"austerity/internal/game"
	"austerity/internal/protocol"
)

// Terminal conditions of a client session, mapped to exit codes by the
// player binary.
var (
	ErrConnect         = errors.New("failed to connect")
	ErrAuth            = errors.New("bad auth")
	ErrReconnectID     = errors.New("bad reconnect id")
	ErrComm            = errors.New("communication error")
	ErrOpponentGone    = errors.New("game ended by disconnect")
	ErrOpponentInvalid = errors.New("game ended by invalid message")
)

// Session is one connection to the game server plus the user's terminal.
// Out carries prompts and the reconnect-id echo; Diag carries the running
// game picture and the end-of-game report.
type Session struct {
	conn net.Conn
	r    *bufio.Reader
	w    *bufio.Writer

	In   *bufio.Reader // user input, normally stdin
	Out  io.Writer     // prompts and rid echo, normally stdout
	Diag io.Writer     // game state display, normally stderr

	seat  int
	state *game.Game
}

// Dial connects to the server on localhost at the given port.
func Dial(port string) (*Session, error) {
	conn, err := net.Dial("tcp", net.JoinHostPort("localhost", port))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnect, err)
	}
	return &Session{
		conn: conn,
		r:    bufio.NewReader(conn),
		w:    bufio.NewWriter(conn),
	}, nil
}

func (s *Session) Close() error {
	return s.conn.Close()
}

func (s *Session) readLine() (string, error) {
	line, err := s.r.ReadString('\n')
	if err != nil {
		return "", ErrComm
	}
	return strings.TrimSuffix(line, "\n"), nil
}

func (s *Session) sendLine(line string) error {
	if _, err := s.w.WriteString(line + "\n"); err != nil {
		return ErrComm
	}
	if err := s.w.Flush(); err != nil {
		return ErrComm
	}
	return nil
}

// expectYes reads one line and maps anything but "yes" to reject.
func (s *Session) expectYes(reject error) error {
	line, err := s.readLine()
	if err != nil {
		return err
	}
	if line != protocol.Yes {
		return reject
	}
	return nil
}

// Join authenticates with the key and enters the named game under the
// given player name. On success the server's rid payload has been echoed
// to Out and the opening playinfo/tokens messages consumed.
func (s *Session) Join(key, gameName, playerName string) error {
	if err := s.sendLine("play" + key); err != nil {
		return err
	}
	if err := s.expectYes(ErrAuth); err != nil {
		return err
	}
	if err := s.sendLine(gameName); err != nil {
		return err
	}
	if err := s.sendLine(playerName); err != nil {
		return err
	}

	line, err := s.readLine()
	if err != nil {
		return err
	}
	rid, ok := strings.CutPrefix(line, "rid")
	if !ok || rid == "" {
		return ErrComm
	}
	fmt.Fprintf(s.Out, "%s\n", rid)

	return s.setup()
}

// Reconnect authenticates with the key and resumes the seat named by the
// reconnect id, consuming the catchup sequence.
func (s *Session) Reconnect(key, reconnectID string) error {
	if err := s.sendLine("reconnect" + key); err != nil {
		return err
	}
	if err := s.expectYes(ErrAuth); err != nil {
		return err
	}
	if err := s.sendLine("rid" + reconnectID); err != nil {
		return err
	}
	if err := s.expectYes(ErrReconnectID); err != nil {
		return err
	}

	if err := s.setup(); err != nil {
		return err
	}
	return s.catchup()
}

// setup consumes the playinfo and tokens messages common to both entry
// paths and initialises the local game mirror.
func (s *Session) setup() error {
	line, err := s.readLine()
	if err != nil {
		return err
	}
	info, err := protocol.ParsePlayInfo(line)
	if err != nil {
		return ErrComm
	}

	line, err = s.readLine()
	if err != nil {
		return err
	}
	tokens, err := protocol.ParseTokens(line)
	if err != nil {
		return ErrComm
	}

	players := make([]*game.Player, info.Players)
	for seat := range players {
		players[seat] = &game.Player{Seat: seat}
	}
	s.seat = info.Seat
	s.state = game.New("", nil, players, tokens.Count, 0)
	s.displayState()
	return nil
}

// catchup consumes the reconnect snapshot: newcard lines until the first
// player line, then one player line per seat in order.
func (s *Session) catchup() error {
	line, err := s.readLine()
	if err != nil {
		return err
	}
	for strings.HasPrefix(line, "newcard") {
		msg, err := protocol.ParseNewCard(line)
		if err != nil || len(s.state.Board) >= game.BoardSize {
			return ErrComm
		}
		s.state.Board = append(s.state.Board, msg.Card)
		if line, err = s.readLine(); err != nil {
			return err
		}
	}

	for seat := range s.state.Players {
		if seat > 0 {
			if line, err = s.readLine(); err != nil {
				return err
			}
		}
		msg, err := protocol.ParsePlayerState(line)
		if err != nil || msg.Seat != seat {
			return ErrComm
		}
		p := s.state.Players[seat]
		p.Score = msg.Score
		p.Discounts = msg.Discounts
		p.Wallet = msg.Wallet
		// The snapshot tokens came out of the piles.
		for colour := 0; colour < deck.NumColours; colour++ {
			s.state.Piles[colour] -= msg.Wallet[colour]
		}
	}
	s.displayState()
	return nil
}

// Play runs the message loop until the game ends one way or another. A
// nil return is a normal "eog" ending; the winners line has been written
// to Diag.
func (s *Session) Play() error {
	for {
		line, err := s.readLine()
		if err != nil {
			return err
		}

		switch protocol.ClassifyFromServer(line) {
		case protocol.SvDoWhat:
			fmt.Fprintf(s.Out, "Received dowhat\n")
			if err := s.takeTurn(); err != nil {
				return err
			}

		case protocol.SvNewCard:
			msg, err := protocol.ParseNewCard(line)
			if err != nil || len(s.state.Board) >= game.BoardSize {
				return ErrComm
			}
			s.state.Board = append(s.state.Board, msg.Card)
			s.displayState()

		case protocol.SvPurchased:
			if err := s.applyPurchased(line); err != nil {
				return err
			}
			s.displayState()

		case protocol.SvTook:
			msg, err := protocol.ParseTook(line)
			if err != nil || msg.Seat >= len(s.state.Players) {
				return ErrComm
			}
			s.state.TakeTokens(s.state.Players[msg.Seat], msg.Taken)
			s.displayState()

		case protocol.SvTookWild:
			msg, err := protocol.ParseTookWild(line)
			if err != nil || msg.Seat >= len(s.state.Players) {
				return ErrComm
			}
			s.state.TakeWild(s.state.Players[msg.Seat])
			s.displayState()

		case protocol.SvEOG:
			fmt.Fprintf(s.Diag, "Game over. Winners are %s\n", s.state.Winners())
			return nil

		case protocol.SvDisco:
			msg, err := protocol.ParseDisco(line)
			if err != nil {
				return ErrComm
			}
			fmt.Fprintf(s.Diag, "Player %c disconnected\n", protocol.SeatLetter(msg.Seat))
			return ErrOpponentGone

		case protocol.SvInvalid:
			msg, err := protocol.ParseInvalid(line)
			if err != nil {
				return ErrComm
			}
			fmt.Fprintf(s.Diag, "Player %c sent invalid message\n", protocol.SeatLetter(msg.Seat))
			return ErrOpponentInvalid

		default:
			return ErrComm
		}
	}
}

func (s *Session) applyPurchased(line string) error {
	msg, err := protocol.ParsePurchased(line)
	if err != nil || msg.Seat >= len(s.state.Players) ||
		msg.Card >= len(s.state.Board) {
		return ErrComm
	}
	s.state.Purchase(s.state.Players[msg.Seat], msg.Card, msg.Paid)
	return nil
}

// displayState writes the board and every player's standing to Diag.
func (s *Session) displayState() {
	for i, card := range s.state.Board {
		fmt.Fprintf(s.Diag, "Card %d:%c/%d/%d,%d,%d,%d\n", i,
			deck.ColourChar(card.Discount), card.Value,
			card.Price[0], card.Price[1], card.Price[2], card.Price[3])
	}
	for _, p := range s.state.Players {
		fmt.Fprintf(s.Diag,
			"Player %c:%d:Discounts=%d,%d,%d,%d:Tokens=%d,%d,%d,%d,%d\n",
			protocol.SeatLetter(p.Seat), p.Score,
			p.Discounts[0], p.Discounts[1], p.Discounts[2], p.Discounts[3],
			p.Wallet[0], p.Wallet[1], p.Wallet[2], p.Wallet[3], p.Wallet[4])
	}
}
