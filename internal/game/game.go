// Package game implements the austerity board/token state machine: the
// face-up board, the server-side token piles, per-player wallets and
// discounts, and the legality rules for takes, wilds and purchases. The
// engine is pure state: it does no I/O and knows nothing about sockets.
package game

import (
	"austerity/internal/deck"
)

// BoardSize is the maximum number of face-up cards.
const BoardSize = 8

// TokensPerTake is how many distinct colours a token take must name.
const TokensPerTake = 3

// Player is one seat's state within a game. The seat index doubles as the
// display letter ('A' + Seat). Wallet slot order matches deck.Colour.
type Player struct {
	Seat      int
	Name      string
	Score     int
	Discounts [deck.NumColours]int
	Wallet    [deck.NumSlots]int
}

// TokenCount returns the total number of tokens in the player's wallet,
// wilds included.
func (p *Player) TokenCount() int {
	total := 0
	for _, n := range p.Wallet {
		total += n
	}
	return total
}

// Game is the full state of one running game. It is mutated only by its
// owning turn loop; concurrent readers must coordinate externally.
type Game struct {
	Name          string
	Players       []*Player
	Deck          []deck.Card // remaining draw pile, index 0 is the top
	Board         []deck.Card // face-up prefix, oldest first
	Piles         [deck.NumColours]int
	WinScore      int
	InitialTokens int
}

// New creates a game over the given players and a fresh copy of cards.
// Piles are filled to initialTokens; no cards are revealed yet.
func New(name string, cards []deck.Card, players []*Player, initialTokens, winScore int) *Game {
	g := &Game{
		Name:          name,
		Players:       players,
		Deck:          append([]deck.Card(nil), cards...),
		Board:         make([]deck.Card, 0, BoardSize),
		WinScore:      winScore,
		InitialTokens: initialTokens,
	}
	for i := range g.Piles {
		g.Piles[i] = initialTokens
	}
	return g
}

// Reveal moves the top of the deck onto the board tail if the board has
// room and the deck is non-empty. It returns the revealed card.
func (g *Game) Reveal() (deck.Card, bool) {
	if len(g.Board) >= BoardSize || len(g.Deck) == 0 {
		return deck.Card{}, false
	}
	card := g.Deck[0]
	g.Deck = g.Deck[1:]
	g.Board = append(g.Board, card)
	return card, true
}

// CardsLeft reports whether any card remains face up. Because Reveal
// refills the board after every purchase, an empty board implies an
// exhausted deck.
func (g *Game) CardsLeft() bool {
	return len(g.Board) > 0
}

// IsOver reports whether any player has reached the win threshold.
func (g *Game) IsOver() bool {
	for _, p := range g.Players {
		if p.Score >= g.WinScore {
			return true
		}
	}
	return false
}

// CanTakeTokens reports whether a token take is possible at all: at least
// three real-colour piles must be non-empty.
func (g *Game) CanTakeTokens() bool {
	nonEmpty := 0
	for _, pile := range g.Piles {
		if pile > 0 {
			nonEmpty++
		}
	}
	return nonEmpty >= TokensPerTake
}

// ValidTake reports whether vec is a legal token take: exactly three 1s
// among real colours, zeros elsewhere, and every chosen pile non-empty.
func (g *Game) ValidTake(vec [deck.NumColours]int) bool {
	taken := 0
	for colour, n := range vec {
		switch {
		case n == 1 && g.Piles[colour] > 0:
			taken++
		case n != 0:
			return false
		}
	}
	return taken == TokensPerTake
}

// CanAfford reports whether the player could buy the card: the per-colour
// shortfall after discounts and real tokens must be covered by wilds.
func (g *Game) CanAfford(p *Player, card deck.Card) bool {
	shortfall := 0
	for colour := 0; colour < deck.NumColours; colour++ {
		needed := card.Price[colour] - p.Discounts[colour]
		if needed < 0 {
			needed = 0
		}
		if p.Wallet[colour] < needed {
			shortfall += needed - p.Wallet[colour]
		}
	}
	return shortfall <= p.Wallet[deck.Wild]
}

// RequiredPayment computes the unique legal payment for the card: as many
// real tokens of each colour as the player holds toward the discounted
// price, and the exact remaining shortfall in wilds. Only meaningful when
// CanAfford holds.
func (g *Game) RequiredPayment(p *Player, card deck.Card) [deck.NumSlots]int {
	var pay [deck.NumSlots]int
	for colour := 0; colour < deck.NumColours; colour++ {
		needed := card.Price[colour] - p.Discounts[colour]
		if needed < 0 {
			needed = 0
		}
		if needed > p.Wallet[colour] {
			pay[colour] = p.Wallet[colour]
			pay[deck.Wild] += needed - p.Wallet[colour]
		} else {
			pay[colour] = needed
		}
	}
	return pay
}

// ValidPurchase reports whether the player may buy board card cardID with
// exactly the given payment. A payment is legal only if it matches
// RequiredPayment; over-spending wilds the player could have kept is a
// protocol error, same as under-paying.
func (g *Game) ValidPurchase(p *Player, cardID int, pay [deck.NumSlots]int) bool {
	if cardID < 0 || cardID >= len(g.Board) {
		return false
	}
	card := g.Board[cardID]
	if !g.CanAfford(p, card) {
		return false
	}
	return pay == g.RequiredPayment(p, card)
}

// TakeTokens applies a validated token take: piles drain into the wallet.
func (g *Game) TakeTokens(p *Player, vec [deck.NumColours]int) {
	for colour, n := range vec {
		g.Piles[colour] -= n
		p.Wallet[colour] += n
	}
}

// TakeWild grants the player one wild token. The server's supply of wilds
// is unbounded; wilds never sit in a pile.
func (g *Game) TakeWild(p *Player) {
	p.Wallet[deck.Wild]++
}

// Purchase applies a validated purchase: the card leaves the board (cards
// above it shift down), real tokens return to their piles, wilds are
// destroyed, and the player's score and discount update from the card.
// The removed card is returned.
func (g *Game) Purchase(p *Player, cardID int, pay [deck.NumSlots]int) deck.Card {
	card := g.Board[cardID]
	g.Board = append(g.Board[:cardID], g.Board[cardID+1:]...)

	for colour := 0; colour < deck.NumColours; colour++ {
		p.Wallet[colour] -= pay[colour]
		g.Piles[colour] += pay[colour]
	}
	p.Wallet[deck.Wild] -= pay[deck.Wild]

	p.Score += card.Value
	p.Discounts[card.Discount]++
	return card
}

// Winners returns the letters of the players holding the highest score,
// comma-separated in seat order.
func (g *Game) Winners() string {
	highest := 0
	for _, p := range g.Players {
		if p.Score > highest {
			highest = p.Score
		}
	}
	letters := make([]byte, 0, 2*len(g.Players))
	for _, p := range g.Players {
		if p.Score == highest {
			if len(letters) > 0 {
				letters = append(letters, ',')
			}
			letters = append(letters, byte('A'+p.Seat))
		}
	}
	return string(letters)
}
