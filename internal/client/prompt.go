package client

import (
	"fmt"
	"strings"

	"austerity/internal/deck"
	"austerity/internal/game"
	"austerity/internal/protocol"
)

// slotChar is the prompt letter for a wallet slot: the colour code for
// real colours, 'W' for the wild slot.
func slotChar(slot int) byte {
	if slot == int(deck.Wild) {
		return 'W'
	}
	return deck.ColourChar(deck.Colour(slot))
}

// promptLine prints one prompt and reads one trimmed input line. End of
// input is reported as an error rather than reprompting forever.
func (s *Session) promptLine(prompt string) (string, error) {
	fmt.Fprint(s.Out, prompt)
	line, err := s.In.ReadString('\n')
	if err != nil && line == "" {
		return "", ErrComm
	}
	return strings.TrimSuffix(line, "\n"), nil
}

// promptNum reprompts until the user enters a decimal in [0, max].
func (s *Session) promptNum(prompt string, max int) (int, error) {
	for {
		line, err := s.promptLine(prompt)
		if err != nil {
			return 0, err
		}
		if n, ok := parseNum(line); ok && n <= max {
			return n, nil
		}
	}
}

// takeTurn collects one action from the user and sends it. Input is
// validated for shape only; whether the move is legal is the server's
// call, and an illegal one just comes back as another "dowhat".
func (s *Session) takeTurn() error {
	for {
		line, err := s.promptLine("Action> ")
		if err != nil {
			return err
		}
		switch line {
		case "wild":
			return s.sendLine(protocol.TakeWildLine)
		case "take":
			return s.promptTake()
		case "purchase":
			return s.promptPurchase()
		}
	}
}

// promptTake asks for a count per real colour, capped at the pile size,
// and sends the take line.
func (s *Session) promptTake() error {
	var msg protocol.Take
	for colour := 0; colour < deck.NumColours; colour++ {
		n, err := s.promptNum(fmt.Sprintf("Token-%c> ", slotChar(colour)),
			s.state.Piles[colour])
		if err != nil {
			return err
		}
		msg.Tokens[colour] = n
	}
	return s.sendLine(msg.Encode())
}

// promptPurchase asks for a board card index and then, for each wallet
// slot the user holds tokens in, how many to spend.
func (s *Session) promptPurchase() error {
	var msg protocol.Purchase
	card, err := s.promptNum("Card> ", game.BoardSize-1)
	if err != nil {
		return err
	}
	msg.Card = card

	wallet := s.state.Players[s.seat].Wallet
	for slot := 0; slot < deck.NumSlots; slot++ {
		if wallet[slot] == 0 {
			continue
		}
		n, err := s.promptNum(fmt.Sprintf("Token-%c> ", slotChar(slot)),
			wallet[slot])
		if err != nil {
			return err
		}
		msg.Tokens[slot] = n
	}
	return s.sendLine(msg.Encode())
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
