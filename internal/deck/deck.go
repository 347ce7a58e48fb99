// Package deck holds the card and token-colour model shared by the server,
// the game engine and the wire protocol, plus the deckfile parser.
package deck

import (
	"bytes"
	"fmt"
	"os"
)

// Colour identifies a token colour. The four real colours come first; Wild
// is a pseudo-colour that only ever appears in player wallets. The order is
// fixed because it is part of the wire format.
type Colour int

const (
	Purple Colour = iota
	Brown
	Yellow
	Red
	Wild
)

// NumColours is the number of real token colours (wilds excluded).
const NumColours = 4

// NumSlots is the number of wallet slots per player, wild included.
const NumSlots = 5

// ColourChar returns the single-letter code for a real colour.
func ColourChar(c Colour) byte {
	switch c {
	case Purple:
		return 'P'
	case Brown:
		return 'B'
	case Yellow:
		return 'Y'
	case Red:
		return 'R'
	}
	return '?'
}

// CharColour maps a single-letter code back to a real colour.
func CharColour(b byte) (Colour, bool) {
	switch b {
	case 'P':
		return Purple, true
	case 'B':
		return Brown, true
	case 'Y':
		return Yellow, true
	case 'R':
		return Red, true
	}
	return 0, false
}

// Card is an immutable face-up card: the colour it discounts, its point
// value, and its price per real colour.
type Card struct {
	Discount Colour
	Value    int
	Price    [NumColours]int
}

// ParseCard parses one deckfile line of the form "D:V:P,B,Y,R".
// Blank lines, trailing whitespace and any other structural deviation are
// rejected.
func ParseCard(line string) (Card, error) {
	var card Card
	if len(line) < 2 || line[1] != ':' {
		return card, fmt.Errorf("malformed card %q", line)
	}
	colour, ok := CharColour(line[0])
	if !ok {
		return card, fmt.Errorf("bad discount colour %q", line[0])
	}
	card.Discount = colour

	rest := line[2:]
	sep := -1
	for i := 0; i < len(rest); i++ {
		if rest[i] == ':' {
			sep = i
			break
		}
	}
	if sep < 0 {
		return card, fmt.Errorf("malformed card %q", line)
	}
	value, ok := parseNum(rest[:sep])
	if !ok {
		return card, fmt.Errorf("bad card value %q", rest[:sep])
	}
	card.Value = value

	fields := splitFields(rest[sep+1:], ',')
	if len(fields) != NumColours {
		return card, fmt.Errorf("expected %d prices, got %d", NumColours, len(fields))
	}
	for i, f := range fields {
		n, ok := parseNum(f)
		if !ok {
			return card, fmt.Errorf("bad price %q", f)
		}
		card.Price[i] = n
	}
	return card, nil
}

// Parse parses a whole deckfile. The file must contain at least one card,
// one per line, and must end with a newline.
func Parse(data []byte) ([]Card, error) {
	if len(data) == 0 || data[len(data)-1] != '\n' {
		return nil, fmt.Errorf("deckfile must end with a newline")
	}
	lines := bytes.Split(data[:len(data)-1], []byte{'\n'})
	cards := make([]Card, 0, len(lines))
	for i, line := range lines {
		card, err := ParseCard(string(line))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		cards = append(cards, card)
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("deckfile has no cards")
	}
	return cards, nil
}

// LoadFile reads and parses the deckfile at path.
func LoadFile(path string) ([]Card, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// parseNum parses a strict non-negative decimal: digits only, no sign, no
// surrounding whitespace.
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
		if n < 0 { // overflow
			return 0, false
		}
	}
	return n, true
}

// splitFields splits on sep without collapsing empty fields, so "1,,2"
// yields a field that fails numeric parsing rather than being skipped.
func splitFields(s string, sep byte) []string {
	var fields []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			fields = append(fields, s[start:i])
			start = i + 1
		}
	}
	return append(fields, s[start:])
}
