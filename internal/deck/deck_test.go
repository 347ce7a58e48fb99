package deck

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseCard(t *testing.T) {
	card, err := ParseCard("P:3:1,2,0,4")
	if err != nil {
		t.Fatalf("parse card: %v", err)
	}
	if card.Discount != Purple {
		t.Fatalf("expected Purple discount, got %v", card.Discount)
	}
	if card.Value != 3 {
		t.Fatalf("expected value 3, got %d", card.Value)
	}
	if card.Price != [NumColours]int{1, 2, 0, 4} {
		t.Fatalf("unexpected price vector %v", card.Price)
	}
}

func TestParseCardRejects(t *testing.T) {
	bad := []string{
		"",
		"P",
		"P:3",
		"X:3:1,2,0,4",   // unknown colour
		"P:-1:1,2,0,4",  // signed value
		"P:3:1,2,0",     // too few prices
		"P:3:1,2,0,4,5", // too many prices
		"P:3:1,2,,4",    // empty field
		"P:3:1,2,0,4 ",  // trailing whitespace
		"P: 3:1,2,0,4",  // inner whitespace
		"p:3:1,2,0,4",   // lowercase colour
	}
	for _, line := range bad {
		if _, err := ParseCard(line); err == nil {
			t.Errorf("ParseCard(%q) accepted", line)
		}
	}
}

func TestParseDeck(t *testing.T) {
	cards, err := Parse([]byte("P:1:0,0,0,0\nB:0:1,1,1,1\n"))
	if err != nil {
		t.Fatalf("parse deck: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}
	if cards[1].Discount != Brown {
		t.Fatalf("expected Brown second card, got %v", cards[1].Discount)
	}
}

func TestParseDeckRejects(t *testing.T) {
	bad := map[string]string{
		"empty":               "",
		"no trailing newline": "P:1:0,0,0,0",
		"blank line":          "P:1:0,0,0,0\n\n",
		"only newline":        "\n",
	}
	for name, data := range bad {
		if _, err := Parse([]byte(data)); err == nil {
			t.Errorf("%s: Parse accepted %q", name, data)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck")
	if err := os.WriteFile(path, []byte("R:2:1,0,0,0\n"), 0o644); err != nil {
		t.Fatalf("write deckfile: %v", err)
	}
	cards, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load deckfile: %v", err)
	}
	if len(cards) != 1 || cards[0].Discount != Red || cards[0].Value != 2 {
		t.Fatalf("unexpected deck %+v", cards)
	}
}

func TestColourCharRoundTrip(t *testing.T) {
	for _, c := range []Colour{Purple, Brown, Yellow, Red} {
		got, ok := CharColour(ColourChar(c))
		if !ok || got != c {
			t.Errorf("colour %v did not round-trip", c)
		}
	}
	if _, ok := CharColour('W'); ok {
		t.Error("CharColour accepted 'W'")
	}
}
