package main

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
)

// Exit codes of the scoreboard binary.
const (
	exitOK            = 0
	exitWrongArgs     = 1
	exitBadConnection = 3
	exitBadServer     = 4
)

func fail(code int, msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(code)
}

func main() {
	if len(os.Args) != 2 {
		fail(exitWrongArgs, "Usage: scores port")
	}

	conn, err := net.Dial("tcp", net.JoinHostPort("localhost", os.Args[1]))
	if err != nil {
		fail(exitBadConnection, "Failed to connect")
	}
	defer conn.Close()

	r := bufio.NewReader(conn)
	if _, err := fmt.Fprintf(conn, "scores\n"); err != nil {
		fail(exitBadServer, "Invalid server")
	}

	line, err := r.ReadString('\n')
	if err != nil || strings.TrimSuffix(line, "\n") != "yes" {
		fail(exitBadServer, "Invalid server")
	}

	// The rest of the stream is the CSV table; copy it until the server
	// closes the connection.
	if _, err := io.Copy(os.Stdout, r); err != nil {
		fail(exitBadServer, "Invalid server")
	}
	os.Exit(exitOK)
}
