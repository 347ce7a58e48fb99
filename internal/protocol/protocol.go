// Package protocol implements the newline-framed text protocol spoken
// between the server and player clients. Every message is a single line
// classified by a fixed prefix; payload integers are strict non-negative
// decimals and any structural deviation is a parse error.
package protocol

import (
	"fmt"
	"strings"

	"austerity/internal/deck"
)

// MaxPlayers is the largest number of seats a game can have (letters A-Z).
const MaxPlayers = 26

// MinPlayers is the smallest number of seats a game can have.
const MinPlayers = 2

// SeatLetter returns the display letter for a 0-based seat.
func SeatLetter(seat int) byte {
	return byte('A' + seat)
}

// LetterSeat converts a display letter back to a 0-based seat.
func LetterSeat(b byte) (int, bool) {
	if b < 'A' || b > 'Z' {
		return 0, false
	}
	return int(b - 'A'), true
}

// ErrMalformed reports a line that failed to parse as the expected message.
var ErrMalformed = fmt.Errorf("malformed message")

// TakeVec is a per-real-colour token count, ordered P,B,Y,R.
type TakeVec [deck.NumColours]int

// WalletVec is a per-colour token count including wilds, ordered P,B,Y,R,W.
type WalletVec [deck.NumSlots]int

func (v TakeVec) encode() string {
	return fmt.Sprintf("%d,%d,%d,%d", v[0], v[1], v[2], v[3])
}

func (v WalletVec) encode() string {
	return fmt.Sprintf("%d,%d,%d,%d,%d", v[0], v[1], v[2], v[3], v[4])
}

func parseTakeVec(s string) (TakeVec, bool) {
	var v TakeVec
	fields := strings.Split(s, ",")
	if len(fields) != deck.NumColours {
		return v, false
	}
	for i, f := range fields {
		n, ok := parseNum(f)
		if !ok {
			return v, false
		}
		v[i] = n
	}
	return v, true
}

func parseWalletVec(s string) (WalletVec, bool) {
	var v WalletVec
	fields := strings.Split(s, ",")
	if len(fields) != deck.NumSlots {
		return v, false
	}
	for i, f := range fields {
		n, ok := parseNum(f)
		if !ok {
			return v, false
		}
		v[i] = n
	}
	return v, true
}

// parseNum parses a strict non-negative decimal: digits only.
func parseNum(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
		n = n*10 + int(s[i]-'0')
		if n < 0 {
			return 0, false
		}
	}
	return n, true
}

func parseLetter(s string) (byte, string, bool) {
	if len(s) == 0 || s[0] < 'A' || s[0] > 'Z' {
		return 0, "", false
	}
	return s[0], s[1:], true
}
