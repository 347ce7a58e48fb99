package server

import (
	"bufio"
	"fmt"
	"sort"
)

// scoreHeader is the first CSV line of every scoreboard response.
const scoreHeader = "Player Name,Total Tokens,Total Points"

// playerScore is one aggregated scoreboard row.
type playerScore struct {
	name   string
	tokens int
	points int
}

// writeScores streams the lifetime scoreboard as CSV: every player in
// every game (finished or live) grouped by display name, total tokens and
// points summed, sorted by points descending with ties broken by fewer
// tokens first.
func (s *Server) writeScores(w *bufio.Writer) error {
	if _, err := fmt.Fprintf(w, "%s\n", scoreHeader); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, row := range s.aggregateScores() {
		if _, err := fmt.Fprintf(w, "%s,%d,%d\n", row.name, row.tokens, row.points); err != nil {
			return err
		}
	}
	return w.Flush()
}

// aggregateScores walks the game table and folds player standings into
// one row per unique display name.
func (s *Server) aggregateScores() []playerScore {
	s.joinMu.Lock()
	games := append([]*gameInstance(nil), s.games...)
	s.joinMu.Unlock()

	var rows []playerScore
	index := make(map[string]int)
	for _, gi := range games {
		gi.mu.Lock()
		for _, p := range gi.state.Players {
			i, ok := index[p.Name]
			if !ok {
				i = len(rows)
				index[p.Name] = i
				rows = append(rows, playerScore{name: p.Name})
			}
			rows[i].tokens += p.TokenCount()
			rows[i].points += p.Score
		}
		gi.mu.Unlock()
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].points != rows[j].points {
			return rows[i].points > rows[j].points
		}
		return rows[i].tokens < rows[j].tokens
	})
	return rows
}
