package history

import (
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func result(name string, counter int, players ...PlayerResult) GameResult {
	return GameResult{
		Name:       name,
		Counter:    counter,
		FinishedAt: time.Now(),
		Players:    players,
	}
}

func TestRecordAndResultsFor(t *testing.T) {
	s := newTestStore(t)
	res := result("g", 1,
		PlayerResult{Seat: 0, Name: "alice", Score: 3, Tokens: 1},
		PlayerResult{Seat: 1, Name: "bob", Score: 0, Tokens: 4},
	)
	if err := s.Record(res); err != nil {
		t.Fatalf("record: %v", err)
	}

	got, err := s.ResultsFor("g")
	if err != nil {
		t.Fatalf("results for g: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 game, got %d", len(got))
	}
	if got[0].Counter != 1 || len(got[0].Players) != 2 {
		t.Fatalf("unexpected result %+v", got[0])
	}
	if got[0].Players[0].Name != "alice" || got[0].Players[0].Score != 3 {
		t.Fatalf("unexpected seat 0 standing %+v", got[0].Players[0])
	}
}

func TestRecordRejectsDuplicateGame(t *testing.T) {
	s := newTestStore(t)
	res := result("g", 1, PlayerResult{Seat: 0, Name: "alice"})
	if err := s.Record(res); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := s.Record(res); err == nil {
		t.Fatal("expected error recording the same game twice")
	}
}

func TestResultsForGroupsByCounter(t *testing.T) {
	s := newTestStore(t)
	for counter := 1; counter <= 2; counter++ {
		res := result("g", counter,
			PlayerResult{Seat: 0, Name: "alice", Score: counter},
			PlayerResult{Seat: 1, Name: "bob"},
		)
		if err := s.Record(res); err != nil {
			t.Fatalf("record counter %d: %v", counter, err)
		}
	}

	got, err := s.ResultsFor("g")
	if err != nil {
		t.Fatalf("results for g: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 games, got %d", len(got))
	}
	if got[0].Counter != 1 || got[1].Counter != 2 {
		t.Fatalf("counters %d, %d; want 1, 2", got[0].Counter, got[1].Counter)
	}
	if len(got[1].Players) != 2 || got[1].Players[0].Score != 2 {
		t.Fatalf("unexpected second game %+v", got[1])
	}
}

func TestResultsForUnknownGame(t *testing.T) {
	s := newTestStore(t)
	got, err := s.ResultsFor("nope")
	if err != nil {
		t.Fatalf("results for unknown game: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no results, got %d", len(got))
	}
}

func TestTotals(t *testing.T) {
	s := newTestStore(t)
	s.Record(result("g", 1,
		PlayerResult{Seat: 0, Name: "alice", Score: 2, Tokens: 3},
		PlayerResult{Seat: 1, Name: "bob", Score: 2, Tokens: 1},
	))
	s.Record(result("h", 1,
		PlayerResult{Seat: 0, Name: "alice", Score: 1, Tokens: 0},
	))

	totals, err := s.Totals()
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(totals))
	}
	// alice leads on points; bob's lower token count does not outrank points.
	if totals[0].Name != "alice" || totals[0].Score != 3 || totals[0].Tokens != 3 {
		t.Fatalf("unexpected first row %+v", totals[0])
	}
	if totals[1].Name != "bob" || totals[1].Score != 2 || totals[1].Tokens != 1 {
		t.Fatalf("unexpected second row %+v", totals[1])
	}
}
