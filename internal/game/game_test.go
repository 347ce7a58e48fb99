package game

import (
	"testing"

	"austerity/internal/deck"
)

func card(colour deck.Colour, value int, price [deck.NumColours]int) deck.Card {
	return deck.Card{Discount: colour, Value: value, Price: price}
}

func newTestGame(t *testing.T, cards []deck.Card, tokens, win int) *Game {
	t.Helper()
	players := []*Player{
		{Seat: 0, Name: "alice"},
		{Seat: 1, Name: "bob"},
	}
	return New("g", cards, players, tokens, win)
}

func TestNewFillsPiles(t *testing.T) {
	g := newTestGame(t, []deck.Card{card(deck.Purple, 1, [4]int{})}, 3, 5)
	for colour, pile := range g.Piles {
		if pile != 3 {
			t.Fatalf("pile %d = %d, want 3", colour, pile)
		}
	}
	if len(g.Board) != 0 {
		t.Fatalf("board not empty after New: %d cards", len(g.Board))
	}
}

func TestRevealCapsBoard(t *testing.T) {
	cards := make([]deck.Card, 10)
	g := newTestGame(t, cards, 3, 5)
	for i := 0; i < 10; i++ {
		_, ok := g.Reveal()
		if want := i < BoardSize; ok != want {
			t.Fatalf("reveal %d: ok = %v, want %v", i, ok, want)
		}
	}
	if len(g.Board) != BoardSize {
		t.Fatalf("board size %d, want %d", len(g.Board), BoardSize)
	}
	if len(g.Deck) != 10-BoardSize {
		t.Fatalf("deck size %d, want %d", len(g.Deck), 10-BoardSize)
	}
}

func TestValidTake(t *testing.T) {
	g := newTestGame(t, []deck.Card{{}}, 3, 5)

	good := [][4]int{
		{1, 1, 1, 0},
		{1, 1, 0, 1},
		{0, 1, 1, 1},
	}
	for _, vec := range good {
		if !g.ValidTake(vec) {
			t.Errorf("rejected legal take %v", vec)
		}
	}

	bad := [][4]int{
		{1, 1, 0, 0},    // too few
		{1, 1, 1, 1},    // too many
		{2, 1, 0, 0},    // not ones
		{3, 0, 0, 0},    // one pile thrice
		{0, 0, 0, 0},    // nothing
	}
	for _, vec := range bad {
		if g.ValidTake(vec) {
			t.Errorf("accepted illegal take %v", vec)
		}
	}

	// Drain the purple pile; takes naming it become illegal.
	g.Piles[deck.Purple] = 0
	if g.ValidTake([4]int{1, 1, 1, 0}) {
		t.Error("accepted take from empty pile")
	}
	if !g.ValidTake([4]int{0, 1, 1, 1}) {
		t.Error("rejected take avoiding the empty pile")
	}
}

func TestCanTakeTokens(t *testing.T) {
	g := newTestGame(t, []deck.Card{{}}, 1, 5)
	if !g.CanTakeTokens() {
		t.Fatal("four non-empty piles should allow a take")
	}
	g.Piles[0] = 0
	if !g.CanTakeTokens() {
		t.Fatal("three non-empty piles should allow a take")
	}
	g.Piles[1] = 0
	if g.CanTakeTokens() {
		t.Fatal("two non-empty piles should not allow a take")
	}
}

func TestCanAfford(t *testing.T) {
	g := newTestGame(t, []deck.Card{{}}, 3, 5)
	p := g.Players[0]
	c := card(deck.Purple, 1, [4]int{2, 0, 1, 0})

	if g.CanAfford(p, c) {
		t.Fatal("empty wallet should not afford the card")
	}

	p.Wallet = [5]int{2, 0, 1, 0, 0}
	if !g.CanAfford(p, c) {
		t.Fatal("exact wallet should afford the card")
	}

	// Shortfall of one purple covered by one wild.
	p.Wallet = [5]int{1, 0, 1, 0, 1}
	if !g.CanAfford(p, c) {
		t.Fatal("wild should cover the shortfall")
	}

	// Discounts reduce the price before the wallet is consulted.
	p.Wallet = [5]int{0, 0, 0, 0, 0}
	p.Discounts = [4]int{2, 0, 1, 0}
	if !g.CanAfford(p, c) {
		t.Fatal("discounts should cover the whole price")
	}
}

func TestRequiredPaymentMinimalWilds(t *testing.T) {
	g := newTestGame(t, []deck.Card{{}}, 3, 5)
	p := g.Players[0]
	p.Wallet = [5]int{1, 0, 3, 0, 4}
	p.Discounts = [4]int{0, 0, 1, 0}
	c := card(deck.Brown, 2, [4]int{2, 0, 3, 0})

	pay := g.RequiredPayment(p, c)
	// Purple: price 2, holds 1 -> pay 1 purple, 1 wild.
	// Yellow: price 3, discount 1, holds 3 -> pay 2 yellow.
	want := [5]int{1, 0, 2, 0, 1}
	if pay != want {
		t.Fatalf("payment %v, want %v", pay, want)
	}
}

func TestValidPurchase(t *testing.T) {
	cards := []deck.Card{card(deck.Purple, 1, [4]int{1, 0, 0, 0})}
	g := newTestGame(t, cards, 3, 5)
	g.Reveal()
	p := g.Players[0]
	p.Wallet = [5]int{1, 0, 0, 0, 1}

	if !g.ValidPurchase(p, 0, [5]int{1, 0, 0, 0, 0}) {
		t.Fatal("rejected the required payment")
	}
	// Spending a wild the player could keep is not the required payment.
	if g.ValidPurchase(p, 0, [5]int{0, 0, 0, 0, 1}) {
		t.Fatal("accepted an over-wild payment")
	}
	if g.ValidPurchase(p, 1, [5]int{}) {
		t.Fatal("accepted an out-of-range card index")
	}
	if g.ValidPurchase(p, -1, [5]int{}) {
		t.Fatal("accepted a negative card index")
	}
}

func TestPurchaseShiftsBoardAndConservesTokens(t *testing.T) {
	cards := []deck.Card{
		card(deck.Purple, 1, [4]int{1, 0, 0, 0}),
		card(deck.Brown, 2, [4]int{}),
		card(deck.Yellow, 3, [4]int{}),
	}
	g := newTestGame(t, cards, 3, 5)
	for i := 0; i < 3; i++ {
		g.Reveal()
	}
	p := g.Players[0]
	g.TakeTokens(p, [4]int{1, 1, 1, 0})

	pay := g.RequiredPayment(p, g.Board[0])
	got := g.Purchase(p, 0, pay)
	if got.Value != 1 {
		t.Fatalf("purchased card value %d, want 1", got.Value)
	}

	// The board shifted down: the brown card is now index 0.
	if len(g.Board) != 2 || g.Board[0].Discount != deck.Brown {
		t.Fatalf("board after purchase: %+v", g.Board)
	}
	if p.Score != 1 {
		t.Fatalf("score %d, want 1", p.Score)
	}
	if p.Discounts[deck.Purple] != 1 {
		t.Fatalf("discounts %v, want one purple", p.Discounts)
	}

	// Real tokens went back to the piles: conservation per colour.
	for colour := 0; colour < deck.NumColours; colour++ {
		total := g.Piles[colour]
		for _, pl := range g.Players {
			total += pl.Wallet[colour]
		}
		if total != 3 {
			t.Fatalf("colour %d total %d, want 3", colour, total)
		}
	}
}

func TestWildsAreDestroyedNotRefunded(t *testing.T) {
	cards := []deck.Card{card(deck.Purple, 1, [4]int{1, 0, 0, 0})}
	g := newTestGame(t, cards, 3, 5)
	g.Reveal()
	p := g.Players[0]
	g.TakeWild(p)

	pay := g.RequiredPayment(p, g.Board[0])
	if pay != [5]int{0, 0, 0, 0, 1} {
		t.Fatalf("payment %v, want a single wild", pay)
	}
	g.Purchase(p, 0, pay)
	if p.Wallet[deck.Wild] != 0 {
		t.Fatalf("wild wallet %d, want 0", p.Wallet[deck.Wild])
	}
	for _, pile := range g.Piles {
		if pile != 3 {
			t.Fatalf("piles changed by a wild payment: %v", g.Piles)
		}
	}
}

func TestIsOver(t *testing.T) {
	g := newTestGame(t, []deck.Card{{}}, 3, 2)
	if g.IsOver() {
		t.Fatal("fresh game reported over")
	}
	g.Players[1].Score = 2
	if !g.IsOver() {
		t.Fatal("game at the win threshold not reported over")
	}
}

func TestCardsLeft(t *testing.T) {
	g := newTestGame(t, []deck.Card{{}}, 3, 5)
	if g.CardsLeft() {
		t.Fatal("cards left before any reveal")
	}
	g.Reveal()
	if !g.CardsLeft() {
		t.Fatal("no cards left after a reveal")
	}
}

func TestWinners(t *testing.T) {
	g := newTestGame(t, []deck.Card{{}}, 3, 5)
	g.Players[0].Score = 3
	g.Players[1].Score = 3
	if got := g.Winners(); got != "A,B" {
		t.Fatalf("winners %q, want %q", got, "A,B")
	}
	g.Players[1].Score = 5
	if got := g.Winners(); got != "B" {
		t.Fatalf("winners %q, want %q", got, "B")
	}
}

func TestTokenCount(t *testing.T) {
	p := &Player{Wallet: [5]int{1, 2, 0, 1, 3}}
	if got := p.TokenCount(); got != 7 {
		t.Fatalf("token count %d, want 7", got)
	}
}
