// Package history records the outcome of every finished game in SQLite.
// The default DSN is ":memory:", so nothing survives a server restart;
// operators who want an audit trail point it at a file instead.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// PlayerResult is one seat's final standing in a finished game.
type PlayerResult struct {
	Seat   int
	Name   string
	Score  int
	Tokens int
}

// GameResult is one finished game and its final standings.
type GameResult struct {
	Name       string
	Counter    int
	FinishedAt time.Time
	Players    []PlayerResult
}

// Store handles SQLite persistence of game results.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database and runs migrations.
func New(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// WAL mode for better concurrent reads
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS results (
			game_name    TEXT NOT NULL,
			game_counter INTEGER NOT NULL,
			seat         INTEGER NOT NULL,
			player_name  TEXT NOT NULL,
			score        INTEGER NOT NULL,
			tokens       INTEGER NOT NULL,
			finished_at  DATETIME NOT NULL,
			PRIMARY KEY (game_name, game_counter, seat)
		);
	`)
	return err
}

// Record inserts the final standings of one finished game.
func (s *Store) Record(res GameResult) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	for _, p := range res.Players {
		_, err := tx.Exec(`
			INSERT INTO results (game_name, game_counter, seat, player_name, score, tokens, finished_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, res.Name, res.Counter, p.Seat, p.Name, p.Score, p.Tokens, res.FinishedAt)
		if err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// ResultsFor returns all recorded standings for games with the given name,
// ordered by game counter then seat.
func (s *Store) ResultsFor(gameName string) ([]GameResult, error) {
	rows, err := s.db.Query(`
		SELECT game_counter, seat, player_name, score, tokens, finished_at
		FROM results WHERE game_name = ?
		ORDER BY game_counter, seat
	`, gameName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []GameResult
	for rows.Next() {
		var counter, seat, score, tokens int
		var name string
		var finished time.Time
		if err := rows.Scan(&counter, &seat, &name, &score, &tokens, &finished); err != nil {
			return nil, err
		}
		if len(results) == 0 || results[len(results)-1].Counter != counter {
			results = append(results, GameResult{
				Name:       gameName,
				Counter:    counter,
				FinishedAt: finished,
			})
		}
		last := &results[len(results)-1]
		last.Players = append(last.Players, PlayerResult{
			Seat: seat, Name: name, Score: score, Tokens: tokens,
		})
	}
	return results, rows.Err()
}

// Totals aggregates recorded scores and tokens per player name, ordered by
// points descending then tokens ascending.
func (s *Store) Totals() ([]PlayerResult, error) {
	rows, err := s.db.Query(`
		SELECT player_name, SUM(score), SUM(tokens)
		FROM results GROUP BY player_name
		ORDER BY SUM(score) DESC, SUM(tokens) ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []PlayerResult
	for rows.Next() {
		var p PlayerResult
		if err := rows.Scan(&p.Name, &p.Score, &p.Tokens); err != nil {
			return nil, err
		}
		totals = append(totals, p)
	}
	return totals, rows.Err()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
