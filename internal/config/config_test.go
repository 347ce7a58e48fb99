package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "f")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestLoadKeyfile(t *testing.T) {
	key, err := LoadKeyfile(writeFile(t, "secret"))
	if err != nil {
		t.Fatalf("load keyfile: %v", err)
	}
	if key != "secret" {
		t.Fatalf("key %q, want %q", key, "secret")
	}
}

func TestLoadKeyfileRejects(t *testing.T) {
	bad := map[string]string{
		"empty":            "",
		"trailing newline": "secret\n",
		"two lines":        "secret\nmore",
	}
	for name, data := range bad {
		if _, err := LoadKeyfile(writeFile(t, data)); err == nil {
			t.Errorf("%s: accepted %q", name, data)
		}
	}
	if _, err := LoadKeyfile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("accepted a missing keyfile")
	}
}

func TestParseStatfile(t *testing.T) {
	entries, err := ParseStatfile([]byte("0,3,1,2\n4000,10,5,4"))
	if err != nil {
		t.Fatalf("parse statfile: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	want := StatEntry{Port: 4000, Tokens: 10, Points: 5, Players: 4}
	if entries[1] != want {
		t.Fatalf("entry %+v, want %+v", entries[1], want)
	}
}

func TestParseStatfileRejects(t *testing.T) {
	bad := map[string]string{
		"empty":             "",
		"trailing newline":  "0,3,1,2\n",
		"too few fields":    "0,3,1",
		"too many fields":   "0,3,1,2,9",
		"non-numeric":       "0,three,1,2",
		"negative":          "0,-3,1,2",
		"port too large":    "65536,3,1,2",
		"zero tokens":       "0,0,1,2",
		"zero points":       "0,3,0,2",
		"one player":        "0,3,1,1",
		"too many players":  "0,3,1,27",
		"duplicate port":    "4000,3,1,2\n4000,3,1,2",
		"inner blank line":  "0,3,1,2\n\n0,3,1,2",
		"space after comma": "0, 3,1,2",
	}
	for name, data := range bad {
		if _, err := ParseStatfile([]byte(data)); err == nil {
			t.Errorf("%s: accepted %q", name, data)
		}
	}
}

func TestParseStatfileAllowsDuplicateEphemeral(t *testing.T) {
	entries, err := ParseStatfile([]byte("0,3,1,2\n0,3,1,2"))
	if err != nil {
		t.Fatalf("duplicate ephemeral ports rejected: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
}

func TestParseTimeout(t *testing.T) {
	for s, want := range map[string]int{"0": 0, "5": 5, "120": 120} {
		got, err := ParseTimeout(s)
		if err != nil || got != want {
			t.Errorf("ParseTimeout(%q) = %d, %v; want %d", s, got, err, want)
		}
	}
	for _, s := range []string{"", "-1", "5s", " 5", "5 "} {
		if _, err := ParseTimeout(s); err == nil {
			t.Errorf("ParseTimeout(%q) accepted", s)
		}
	}
}
