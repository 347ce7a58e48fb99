package server

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"austerity/internal/config"
	"austerity/internal/deck"
)

const testKey = "secret"

// testDeck builds a ten-card deck: one purple worth a point, then nine
// free brown filler cards.
func testDeck(t *testing.T) []deck.Card {
	t.Helper()
	var b strings.Builder
	b.WriteString("P:1:0,0,0,0\n")
	for i := 0; i < 9; i++ {
		b.WriteString("B:0:0,0,0,0\n")
	}
	cards, err := deck.Parse([]byte(b.String()))
	if err != nil {
		t.Fatalf("build test deck: %v", err)
	}
	return cards
}

// startTestServer binds one ephemeral listener with the given game
// parameters and starts accepting. It returns the server and the bound
// port.
func startTestServer(t *testing.T, cfg config.StatEntry, timeout time.Duration) (*Server, int) {
	t.Helper()
	srv := New(testKey, testDeck(t), timeout, nil)
	srv.diag = io.Discard

	pool, err := listenAll([]config.StatEntry{cfg})
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	pool.start(srv)
	t.Cleanup(pool.stop)
	return srv, pool.listeners[0].cfg.Port
}

// testClient is one scripted protocol peer.
type testClient struct {
	t    *testing.T
	conn net.Conn
	r    *bufio.Reader
}

func dialServer(t *testing.T, port int) *testClient {
	t.Helper()
	conn, err := net.Dial("tcp", fmt.Sprintf("localhost:%d", port))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	conn.SetDeadline(time.Now().Add(5 * time.Second))
	t.Cleanup(func() { conn.Close() })
	return &testClient{t: t, conn: conn, r: bufio.NewReader(conn)}
}

func (c *testClient) send(line string) {
	c.t.Helper()
	if _, err := fmt.Fprintf(c.conn, "%s\n", line); err != nil {
		c.t.Fatalf("send %q: %v", line, err)
	}
}

func (c *testClient) readLine() string {
	c.t.Helper()
	line, err := c.r.ReadString('\n')
	if err != nil {
		c.t.Fatalf("read: %v", err)
	}
	return strings.TrimSuffix(line, "\n")
}

func (c *testClient) expect(want string) {
	c.t.Helper()
	if got := c.readLine(); got != want {
		c.t.Fatalf("read %q, want %q", got, want)
	}
}

// expectClosed asserts the server has closed the connection.
func (c *testClient) expectClosed() {
	c.t.Helper()
	if line, err := c.r.ReadString('\n'); err == nil {
		c.t.Fatalf("expected closed connection, read %q", line)
	}
}

// join runs the play handshake for one client.
func (c *testClient) join(gameName, playerName string) {
	c.t.Helper()
	c.send("play" + testKey)
	c.expect("yes")
	c.send(gameName)
	c.send(playerName)
}

// expectOpening consumes the fixed game-start sequence for one seat: the
// rid, the playinfo, the pile size and the eight initial reveals from
// testDeck.
func (c *testClient) expectOpening(gameName string, counter, seat, players, tokens int) {
	c.t.Helper()
	c.expect(fmt.Sprintf("rid%s,%d,%d", gameName, counter, seat))
	c.expect(fmt.Sprintf("playinfo%c/%d", 'A'+seat, players))
	c.expect(fmt.Sprintf("tokens%d", tokens))
	c.expect("newcardP:1:0,0,0,0")
	for i := 0; i < 7; i++ {
		c.expect("newcardB:0:0,0,0,0")
	}
}
