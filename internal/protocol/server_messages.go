package protocol

import (
	"fmt"
	"strings"

	"austerity/internal/deck"
)

// Simple acknowledgement and control lines.
const (
	Yes    = "yes"
	No     = "no"
	DoWhat = "dowhat"
	EOG    = "eog"
)

// ReconnectID identifies a player slot in a running game: game name,
// game counter and 0-based seat. Sent as "rid<name>,<gc>,<seat>" at game
// start and presented back by a reconnecting client.
type ReconnectID struct {
	Name    string
	Counter int
	Seat    int
}

// Encode renders the rid line without its trailing newline.
func (r ReconnectID) Encode() string {
	return fmt.Sprintf("rid%s,%d,%d", r.Name, r.Counter, r.Seat)
}

// ParseReconnectID parses a "rid..." line. The game name is everything up
// to the first comma, so names themselves may not contain commas.
func ParseReconnectID(line string) (ReconnectID, error) {
	var rid ReconnectID
	rest, ok := strings.CutPrefix(line, "rid")
	if !ok || rest == "" {
		return rid, ErrMalformed
	}
	name, tail, ok := strings.Cut(rest, ",")
	if !ok {
		return rid, ErrMalformed
	}
	gc, seatStr, ok := strings.Cut(tail, ",")
	if !ok {
		return rid, ErrMalformed
	}
	counter, ok1 := parseNum(gc)
	seat, ok2 := parseNum(seatStr)
	if !ok1 || !ok2 || seat >= MaxPlayers {
		return rid, ErrMalformed
	}
	rid.Name = name
	rid.Counter = counter
	rid.Seat = seat
	return rid, nil
}

// PlayInfo tells a client its seat letter and the seat count:
// "playinfo<L>/<N>".
type PlayInfo struct {
	Seat    int
	Players int
}

func (p PlayInfo) Encode() string {
	return fmt.Sprintf("playinfo%c/%d", SeatLetter(p.Seat), p.Players)
}

func ParsePlayInfo(line string) (PlayInfo, error) {
	var p PlayInfo
	rest, ok := strings.CutPrefix(line, "playinfo")
	if !ok {
		return p, ErrMalformed
	}
	letter, rest, ok := parseLetter(rest)
	if !ok || len(rest) == 0 || rest[0] != '/' {
		return p, ErrMalformed
	}
	count, ok := parseNum(rest[1:])
	if !ok || count < MinPlayers || count > MaxPlayers {
		return p, ErrMalformed
	}
	seat, _ := LetterSeat(letter)
	if seat >= count {
		return p, ErrMalformed
	}
	p.Seat = seat
	p.Players = count
	return p, nil
}

// Tokens announces the initial per-colour pile size: "tokens<n>".
type Tokens struct {
	Count int
}

func (t Tokens) Encode() string {
	return fmt.Sprintf("tokens%d", t.Count)
}

func ParseTokens(line string) (Tokens, error) {
	rest, ok := strings.CutPrefix(line, "tokens")
	if !ok {
		return Tokens{}, ErrMalformed
	}
	n, ok := parseNum(rest)
	if !ok {
		return Tokens{}, ErrMalformed
	}
	return Tokens{Count: n}, nil
}

// NewCard announces a card revealed onto the board:
// "newcard<D>:<V>:<P>,<B>,<Y>,<R>".
type NewCard struct {
	Card deck.Card
}

func (n NewCard) Encode() string {
	c := n.Card
	return fmt.Sprintf("newcard%c:%d:%d,%d,%d,%d", deck.ColourChar(c.Discount),
		c.Value, c.Price[0], c.Price[1], c.Price[2], c.Price[3])
}

func ParseNewCard(line string) (NewCard, error) {
	var n NewCard
	rest, ok := strings.CutPrefix(line, "newcard")
	if !ok {
		return n, ErrMalformed
	}
	card, err := deck.ParseCard(rest)
	if err != nil {
		return n, ErrMalformed
	}
	n.Card = card
	return n, nil
}

// Purchased announces that a seat bought a board card with the given
// payment: "purchased<L>:<c>:<P>,<B>,<Y>,<R>,<W>".
type Purchased struct {
	Seat int
	Card int
	Paid WalletVec
}

func (p Purchased) Encode() string {
	return fmt.Sprintf("purchased%c:%d:%s", SeatLetter(p.Seat), p.Card, p.Paid.encode())
}

func ParsePurchased(line string) (Purchased, error) {
	var p Purchased
	rest, ok := strings.CutPrefix(line, "purchased")
	if !ok {
		return p, ErrMalformed
	}
	letter, rest, ok := parseLetter(rest)
	if !ok || len(rest) == 0 || rest[0] != ':' {
		return p, ErrMalformed
	}
	cardStr, payStr, ok := strings.Cut(rest[1:], ":")
	if !ok {
		return p, ErrMalformed
	}
	card, okc := parseNum(cardStr)
	paid, okp := parseWalletVec(payStr)
	if !okc || !okp {
		return p, ErrMalformed
	}
	p.Seat, _ = LetterSeat(letter)
	p.Card = card
	p.Paid = paid
	return p, nil
}

// Took announces that a seat took non-wild tokens:
// "took<L>:<P>,<B>,<Y>,<R>".
type Took struct {
	Seat  int
	Taken TakeVec
}

func (t Took) Encode() string {
	return fmt.Sprintf("took%c:%s", SeatLetter(t.Seat), t.Taken.encode())
}

func ParseTook(line string) (Took, error) {
	var t Took
	rest, ok := strings.CutPrefix(line, "took")
	if !ok {
		return t, ErrMalformed
	}
	letter, rest, ok := parseLetter(rest)
	if !ok || len(rest) == 0 || rest[0] != ':' {
		return t, ErrMalformed
	}
	taken, ok := parseTakeVec(rest[1:])
	if !ok {
		return t, ErrMalformed
	}
	t.Seat, _ = LetterSeat(letter)
	t.Taken = taken
	return t, nil
}

// TookWild announces that a seat took a wild token: "wild<L>".
type TookWild struct {
	Seat int
}

func (w TookWild) Encode() string {
	return fmt.Sprintf("wild%c", SeatLetter(w.Seat))
}

func ParseTookWild(line string) (TookWild, error) {
	rest, ok := strings.CutPrefix(line, "wild")
	if !ok {
		return TookWild{}, ErrMalformed
	}
	letter, rest, ok := parseLetter(rest)
	if !ok || rest != "" {
		return TookWild{}, ErrMalformed
	}
	seat, _ := LetterSeat(letter)
	return TookWild{Seat: seat}, nil
}

// PlayerState is the catchup snapshot of one seat:
// "player<L>:<s>:d=<P>,<B>,<Y>,<R>:t=<P>,<B>,<Y>,<R>,<W>".
type PlayerState struct {
	Seat      int
	Score     int
	Discounts TakeVec
	Wallet    WalletVec
}

func (p PlayerState) Encode() string {
	return fmt.Sprintf("player%c:%d:d=%s:t=%s", SeatLetter(p.Seat), p.Score,
		p.Discounts.encode(), p.Wallet.encode())
}

func ParsePlayerState(line string) (PlayerState, error) {
	var p PlayerState
	rest, ok := strings.CutPrefix(line, "player")
	if !ok {
		return p, ErrMalformed
	}
	letter, rest, ok := parseLetter(rest)
	if !ok || len(rest) == 0 || rest[0] != ':' {
		return p, ErrMalformed
	}
	scoreStr, rest, ok := strings.Cut(rest[1:], ":")
	if !ok {
		return p, ErrMalformed
	}
	score, oks := parseNum(scoreStr)
	dPart, tPart, ok := strings.Cut(rest, ":")
	if !oks || !ok {
		return p, ErrMalformed
	}
	dStr, okd := strings.CutPrefix(dPart, "d=")
	tStr, okt := strings.CutPrefix(tPart, "t=")
	if !okd || !okt {
		return p, ErrMalformed
	}
	discounts, okd := parseTakeVec(dStr)
	wallet, okt := parseWalletVec(tStr)
	if !okd || !okt {
		return p, ErrMalformed
	}
	p.Seat, _ = LetterSeat(letter)
	p.Score = score
	p.Discounts = discounts
	p.Wallet = wallet
	return p, nil
}

// Disco announces the game ended because a seat disconnected: "disco<L>".
type Disco struct {
	Seat int
}

func (d Disco) Encode() string {
	return fmt.Sprintf("disco%c", SeatLetter(d.Seat))
}

func ParseDisco(line string) (Disco, error) {
	seat, err := parseSeatSuffix(line, "disco")
	if err != nil {
		return Disco{}, err
	}
	return Disco{Seat: seat}, nil
}

// Invalid announces the game ended because a seat misbehaved: "invalid<L>".
type Invalid struct {
	Seat int
}

func (i Invalid) Encode() string {
	return fmt.Sprintf("invalid%c", SeatLetter(i.Seat))
}

func ParseInvalid(line string) (Invalid, error) {
	seat, err := parseSeatSuffix(line, "invalid")
	if err != nil {
		return Invalid{}, err
	}
	return Invalid{Seat: seat}, nil
}

func parseSeatSuffix(line, prefix string) (int, error) {
	rest, ok := strings.CutPrefix(line, prefix)
	if !ok {
		return 0, ErrMalformed
	}
	letter, rest, ok := parseLetter(rest)
	if !ok || rest != "" {
		return 0, ErrMalformed
	}
	seat, _ := LetterSeat(letter)
	return seat, nil
}

// ServerMessage classifies a line sent by the server to a player.
type ServerMessage int

const (
	SvUnknown ServerMessage = iota
	SvDoWhat
	SvNewCard
	SvPurchased
	SvTook
	SvTookWild
	SvPlayer
	SvDisco
	SvInvalid
	SvEOG
)

// ClassifyFromServer identifies the kind of a server-to-player game line.
func ClassifyFromServer(line string) ServerMessage {
	switch {
	case line == DoWhat:
		return SvDoWhat
	case line == EOG:
		return SvEOG
	case strings.HasPrefix(line, "newcard"):
		return SvNewCard
	case strings.HasPrefix(line, "purchased"):
		return SvPurchased
	case strings.HasPrefix(line, "took"):
		return SvTook
	case strings.HasPrefix(line, "wild"):
		return SvTookWild
	case strings.HasPrefix(line, "player"):
		return SvPlayer
	case strings.HasPrefix(line, "disco"):
		return SvDisco
	case strings.HasPrefix(line, "invalid"):
		return SvInvalid
	}
	return SvUnknown
}
