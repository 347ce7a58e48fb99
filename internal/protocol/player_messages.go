package protocol

import (
	"fmt"
	"strings"
)

// Purchase is a player's request to buy board card Card with the given
// payment: "purchase<c>:<P>,<B>,<Y>,<R>,<W>".
type Purchase struct {
	Card   int
	Tokens WalletVec
}

func (p Purchase) Encode() string {
	return fmt.Sprintf("purchase%d:%s", p.Card, p.Tokens.encode())
}

func ParsePurchase(line string) (Purchase, error) {
	var p Purchase
	rest, ok := strings.CutPrefix(line, "purchase")
	if !ok {
		return p, ErrMalformed
	}
	cardStr, payStr, ok := strings.Cut(rest, ":")
	if !ok {
		return p, ErrMalformed
	}
	card, okc := parseNum(cardStr)
	tokens, okp := parseWalletVec(payStr)
	if !okc || !okp {
		return p, ErrMalformed
	}
	p.Card = card
	p.Tokens = tokens
	return p, nil
}

// Take is a player's request to take non-wild tokens:
// "take<P>,<B>,<Y>,<R>".
type Take struct {
	Tokens TakeVec
}

func (t Take) Encode() string {
	return "take" + t.Tokens.encode()
}

func ParseTake(line string) (Take, error) {
	rest, ok := strings.CutPrefix(line, "take")
	if !ok {
		return Take{}, ErrMalformed
	}
	tokens, ok := parseTakeVec(rest)
	if !ok {
		return Take{}, ErrMalformed
	}
	return Take{Tokens: tokens}, nil
}

// TakeWildLine is the exact line a player sends to take a wild token.
const TakeWildLine = "wild"

// PlayerMessage classifies a line sent by a player during its turn.
type PlayerMessage int

const (
	PlUnknown PlayerMessage = iota
	PlPurchase
	PlTake
	PlWild
)

// ClassifyFromPlayer identifies the kind of a player-to-server turn line.
// Classification is by prefix only; payload validity is the parser's job.
func ClassifyFromPlayer(line string) PlayerMessage {
	switch {
	case line == TakeWildLine:
		return PlWild
	case strings.HasPrefix(line, "purchase"):
		return PlPurchase
	case strings.HasPrefix(line, "take"):
		return PlTake
	}
	return PlUnknown
}

// AuthIntent is what a freshly connected client asked for.
type AuthIntent int

const (
	AuthInvalid AuthIntent = iota
	AuthPlay
	AuthReconnect
	AuthScores
)

// ClassifyAuth splits the authentication line into an intent and, for play
// and reconnect, the key the client presented. Key comparison is the
// caller's job.
func ClassifyAuth(line string) (AuthIntent, string) {
	if line == "scores" {
		return AuthScores, ""
	}
	if key, ok := strings.CutPrefix(line, "play"); ok {
		return AuthPlay, key
	}
	if key, ok := strings.CutPrefix(line, "reconnect"); ok {
		return AuthReconnect, key
	}
	return AuthInvalid, ""
}

// ValidName reports whether a game or player name is legal on the wire:
// non-empty strings are not required, but commas and newlines are forbidden
// because names are embedded in comma-separated payloads.
func ValidName(name string) bool {
	return !strings.ContainsAny(name, ",\n")
}
