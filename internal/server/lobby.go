package server

import (
	"sort"

	"austerity/internal/config"
	"austerity/internal/game"
)

// joiner is one connected client waiting in a lobby.
type joiner struct {
	name  string
	pc    *playerConn
	order int // join order, breaks name ties when seating
}

// lobby is an open registration slot for one game name. The port config
// of the first joiner wins; later joiners inherit it regardless of which
// port they arrived on, because the name alone identifies the game.
type lobby struct {
	name    string
	cfg     config.StatEntry
	joiners []*joiner
	open    bool
}

// addToLobby joins the client to the open lobby with the given game name,
// creating one with the arrival port's config if none is open. When the
// join fills the lobby it is closed and the game starts. The whole
// match-and-start section runs under joinMu.
func (s *Server) addToLobby(gameName, playerName string, pc *playerConn, cfg config.StatEntry) {
	s.joinMu.Lock()
	defer s.joinMu.Unlock()

	var lb *lobby
	for _, candidate := range s.lobbies {
		if candidate.open && candidate.name == gameName {
			lb = candidate
			break
		}
	}
	if lb == nil {
		lb = &lobby{name: gameName, cfg: cfg, open: true}
		s.lobbies = append(s.lobbies, lb)
	}

	lb.joiners = append(lb.joiners, &joiner{
		name:  playerName,
		pc:    pc,
		order: len(lb.joiners),
	})

	if len(lb.joiners) == lb.cfg.Players {
		lb.open = false
		s.startGame(lb)
	}
}

// startGame materialises a full lobby into a game: seats are assigned
// alphabetically by player name (ties by join order), the game counter is
// one more than the number of prior games sharing the name, and the turn
// loop task is launched. Caller holds joinMu.
func (s *Server) startGame(lb *lobby) {
	seated := append([]*joiner(nil), lb.joiners...)
	sort.SliceStable(seated, func(i, j int) bool {
		if seated[i].name != seated[j].name {
			return seated[i].name < seated[j].name
		}
		return seated[i].order < seated[j].order
	})

	players := make([]*game.Player, len(seated))
	conns := make([]*playerConn, len(seated))
	for seat, j := range seated {
		players[seat] = &game.Player{Seat: seat, Name: j.name}
		conns[seat] = j.pc
	}

	counter := 1
	for _, gi := range s.games {
		if gi.state.Name == lb.name {
			counter++
		}
	}

	gi := newGameInstance(s,
		game.New(lb.name, s.deck, players, lb.cfg.Tokens, lb.cfg.Points),
		counter, conns)
	s.games = append(s.games, gi)

	s.gamesWG.Add(1)
	go gi.run()
}
