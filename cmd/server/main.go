package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"austerity/internal/config"
	"austerity/internal/deck"
	"austerity/internal/history"
	"austerity/internal/server"
)

// Exit codes of the server binary.
const (
	exitOK          = 0
	exitWrongArgs   = 1
	exitBadKeyfile  = 2
	exitBadDeckfile = 3
	exitBadStatfile = 4
	exitBadTimeout  = 5
	exitFailedList  = 6
	exitSystem      = 10
)

func fail(code int, msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(code)
}

func main() {
	historyDSN := flag.String("history", ":memory:",
		"results log location (SQLite DSN; a file path makes it durable)")
	flag.Parse()

	args := flag.Args()
	if len(args) != 4 {
		fail(exitWrongArgs, "Usage: server keyfile deckfile statfile timeout")
	}

	key, err := config.LoadKeyfile(args[0])
	if err != nil {
		fail(exitBadKeyfile, "Bad keyfile")
	}

	cards, err := deck.LoadFile(args[1])
	if err != nil {
		fail(exitBadDeckfile, "Bad deckfile")
	}

	// The statfile is validated up front for its exit code; Run reloads it
	// on every SIGINT cycle.
	if _, err := config.LoadStatfile(args[2]); err != nil {
		fail(exitBadStatfile, "Bad statfile")
	}

	timeout, err := config.ParseTimeout(args[3])
	if err != nil {
		fail(exitBadTimeout, "Bad timeout")
	}

	store, err := history.New(*historyDSN)
	if err != nil {
		fail(exitSystem, "System error")
	}
	defer store.Close()

	srv := server.New(key, cards, time.Duration(timeout)*time.Second, store)
	if err := srv.Run(args[2]); err != nil {
		switch {
		case errors.Is(err, server.ErrBadStatfile):
			fail(exitBadStatfile, "Bad statfile")
		case errors.Is(err, server.ErrFailedListen):
			fail(exitFailedList, "Failed listen")
		default:
			fail(exitSystem, "System error")
		}
	}
	os.Exit(exitOK)
}
