package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"austerity/internal/client"
	"austerity/internal/config"
	"austerity/internal/protocol"
)

// Exit codes of the player binary.
const (
	exitOK             = 0
	exitWrongArgs      = 1
	exitBadKeyfile     = 2
	exitBadName        = 3
	exitBadConnection  = 5
	exitBadAuth        = 6
	exitBadReconnectID = 7
	exitComError       = 8
	exitDisconnect     = 9
	exitMisbehave      = 10
)

func fail(code int, msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(code)
}

func main() {
	if len(os.Args) != 5 {
		fail(exitWrongArgs, "Usage: player keyfile port game pname")
	}
	keyfile, port, gameName, playerName := os.Args[1], os.Args[2], os.Args[3], os.Args[4]

	key, err := config.LoadKeyfile(keyfile)
	if err != nil {
		fail(exitBadKeyfile, "Bad key file")
	}

	// "reconnect" in the game slot switches the fourth argument from a
	// player name to a reconnect id.
	isReconnect := gameName == "reconnect"
	if !protocol.ValidName(gameName) ||
		(!isReconnect && !protocol.ValidName(playerName)) {
		fail(exitBadName, "Bad name")
	}

	sess, err := client.Dial(port)
	if err != nil {
		fail(exitBadConnection, "Failed to connect")
	}
	defer sess.Close()
	sess.In = bufio.NewReader(os.Stdin)
	sess.Out = os.Stdout
	sess.Diag = os.Stderr

	if isReconnect {
		err = sess.Reconnect(key, playerName)
	} else {
		err = sess.Join(key, gameName, playerName)
	}
	if err == nil {
		err = sess.Play()
	}

	switch {
	case err == nil:
		os.Exit(exitOK)
	case errors.Is(err, client.ErrAuth):
		fail(exitBadAuth, "Bad auth")
	case errors.Is(err, client.ErrReconnectID):
		fail(exitBadReconnectID, "Bad reconnect id")
	case errors.Is(err, client.ErrOpponentGone):
		os.Exit(exitDisconnect)
	case errors.Is(err, client.ErrOpponentInvalid):
		os.Exit(exitMisbehave)
	default:
		fail(exitComError, "Communication Error")
	}
}
