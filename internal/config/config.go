// Package config parses the server's three fixed-format text inputs: the
// keyfile, the statfile and the timeout argument. The formats are exact
// external contracts, down to their trailing-newline rules.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"
)

// Seat-count bounds for a single game (letters A-Z).
const (
	MinPlayers = 2
	MaxPlayers = 26
)

const maxPort = 65535

// StatEntry is one statfile line: the port to listen on and the game
// parameters attached to it. Port 0 asks the kernel for an ephemeral port;
// the bound port replaces the 0 at listen time.
type StatEntry struct {
	Port    int
	Tokens  int
	Points  int
	Players int
}

// LoadKeyfile loads the shared authentication key: exactly one non-empty
// line with no trailing newline.
func LoadKeyfile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if len(data) == 0 || bytes.ContainsRune(data, '\n') {
		return "", fmt.Errorf("keyfile must be a single non-empty line without a trailing newline")
	}
	return string(data), nil
}

// LoadStatfile loads and validates the statfile. One entry per line in the
// form "port,tokens,points,players"; the file must not end with a trailing
// newline, and non-zero ports may not repeat.
func LoadStatfile(path string) ([]StatEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseStatfile(data)
}

// ParseStatfile validates raw statfile bytes. Split out from LoadStatfile
// for testing.
func ParseStatfile(data []byte) ([]StatEntry, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("statfile is empty")
	}
	if data[len(data)-1] == '\n' {
		return nil, fmt.Errorf("statfile must not end with a trailing newline")
	}
	lines := strings.Split(string(data), "\n")
	entries := make([]StatEntry, 0, len(lines))
	for i, line := range lines {
		entry, err := parseStatEntry(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if entry.Port != 0 {
			for _, prev := range entries {
				if prev.Port == entry.Port {
					return nil, fmt.Errorf("line %d: duplicate port %d", i+1, entry.Port)
				}
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func parseStatEntry(line string) (StatEntry, error) {
	var entry StatEntry
	fields := strings.Split(line, ",")
	if len(fields) != 4 {
		return entry, fmt.Errorf("expected 4 fields, got %d", len(fields))
	}
	values := make([]int, 4)
	for i, f := range fields {
		n, ok := parseNum(f)
		if !ok {
			return entry, fmt.Errorf("bad field %q", f)
		}
		values[i] = n
	}
	entry = StatEntry{Port: values[0], Tokens: values[1], Points: values[2], Players: values[3]}
	if entry.Port > maxPort {
		return entry, fmt.Errorf("port %d out of range", entry.Port)
	}
	if entry.Tokens < 1 {
		return entry, fmt.Errorf("tokens must be at least 1")
	}
	if entry.Points < 1 {
		return entry, fmt.Errorf("points must be at least 1")
	}
	if entry.Players < MinPlayers || entry.Players > MaxPlayers {
		return entry, fmt.Errorf("players must be between %d and %d", MinPlayers, MaxPlayers)
	}
	return entry, nil
}

// ParseTimeout parses the disconnect grace window in seconds: a strict
// non-negative decimal. Zero means no grace at all.
func ParseTimeout(s string) (int, error) {
	n, ok := parseNum(s)
	if !ok {
		return 0, fmt.Errorf("bad timeout %q", s)
	}
	return n, nil
}

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
