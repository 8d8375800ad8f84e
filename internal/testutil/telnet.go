package testutil

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"
)

// Telnet protocol bytes, repeated here so the telnet package's own tests can
// use this package.
const (
	iac  = 255
	sb   = 250
	se   = 240
	will = 251
	dont = 254
)

// Terminal drives a Telnet session the way a caller at a keyboard would.
// Output is matched as plain text: option negotiation and ANSI colour are
// stripped before Expect looks at it.
type Terminal struct {
	t       testing.TB
	conn    net.Conn
	timeout time.Duration
	raw     []byte
	seen    int
}

// DialTerminal connects to addr and closes the connection when the test ends.
//
// Postcondition: Returns a connected Terminal or fails the test.
func DialTerminal(t testing.TB, addr string) *Terminal {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		t.Fatalf("dialing %s: %v", addr, err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return &Terminal{t: t, conn: conn, timeout: 2 * time.Second}
}

// Expect waits for substr in output not yet consumed and returns everything
// up to and including it. Text after the match stays for the next call.
func (c *Terminal) Expect(substr string) string {
	c.t.Helper()
	deadline := time.Now().Add(c.timeout)
	buf := make([]byte, 1024)
	for {
		plain := PlainText(c.raw)
		if i := strings.Index(plain[c.seen:], substr); i >= 0 {
			end := c.seen + i + len(substr)
			out := plain[c.seen:end]
			c.seen = end
			return out
		}
		_ = c.conn.SetReadDeadline(deadline)
		n, err := c.conn.Read(buf)
		c.raw = append(c.raw, buf[:n]...)
		if err != nil {
			c.t.Fatalf("waiting for %q: got %q: %v", substr, plain[c.seen:], err)
		}
	}
}

// Type sends line followed by CR LF.
func (c *Terminal) Type(line string) {
	c.t.Helper()
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.timeout))
	if _, err := fmt.Fprintf(c.conn, "%s\r\n", line); err != nil {
		c.t.Fatalf("typing %q: %v", line, err)
	}
}

// Answer waits for prompt and types reply.
func (c *Terminal) Answer(prompt, reply string) {
	c.t.Helper()
	c.Expect(prompt)
	c.Type(reply)
}

// SignIn answers the callsign prompt and waits for the greeting.
func (c *Terminal) SignIn(callsign string) {
	c.t.Helper()
	c.Answer("Callsign: ", callsign)
	c.Expect("Signed in.")
}

// Closed reads until the server hangs up and reports whether it did so
// within the timeout.
func (c *Terminal) Closed() bool {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(c.timeout))
	buf := make([]byte, 256)
	for {
		n, err := c.conn.Read(buf)
		c.raw = append(c.raw, buf[:n]...)
		if err != nil {
			var ne net.Error
			return !errors.As(err, &ne) || !ne.Timeout()
		}
	}
}

// Hangup closes the connection from the caller's side.
func (c *Terminal) Hangup() {
	_ = c.conn.Close()
}

// PlainText returns raw Telnet output without IAC sequences or ANSI escape
// sequences. An incomplete sequence at the end is dropped.
func PlainText(raw []byte) string {
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		switch c := raw[i]; {
		case c == iac:
			i = skipIAC(raw, i)
		case c == 0x1b:
			i = skipANSI(raw, i)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// skipIAC returns the index of the last byte of the sequence starting at i.
func skipIAC(raw []byte, i int) int {
	if i+1 >= len(raw) {
		return len(raw)
	}
	switch cmd := raw[i+1]; {
	case cmd == iac:
		return i + 1
	case cmd >= will && cmd <= dont:
		return i + 2
	case cmd == sb:
		for j := i + 2; j+1 < len(raw); j++ {
			if raw[j] == iac && raw[j+1] == se {
				return j + 1
			}
		}
		return len(raw)
	default:
		return i + 1
	}
}

func skipANSI(raw []byte, i int) int {
	if i+1 >= len(raw) || raw[i+1] != '[' {
		return i + 1
	}
	for j := i + 2; j < len(raw); j++ {
		if raw[j] >= 0x40 && raw[j] <= 0x7e {
			return j
		}
	}
	return len(raw)
}
