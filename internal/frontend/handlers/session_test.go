package handlers_test

import (
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/colonybot/internal/config"
	"github.com/cory-johannsen/colonybot/internal/dialog"
	"github.com/cory-johannsen/colonybot/internal/frontend/handlers"
	"github.com/cory-johannsen/colonybot/internal/frontend/telnet"
	"github.com/cory-johannsen/colonybot/internal/testutil"
)

// startTelnet serves a Bot over Telnet on a random port and returns the
// listening address.
func startTelnet(t *testing.T) string {
	t.Helper()
	logger := zaptest.NewLogger(t)
	router := dialog.NewRouter()
	roster := telnet.NewRoster()
	router.Route(handlers.TelnetScheme, roster)

	f := newFixtureWithSender(t, router)
	acc := telnet.NewAcceptor(config.TelnetConfig{
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}, handlers.NewTelnetSession(f.bot, roster, logger), logger)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = acc.Serve(l) }()
	t.Cleanup(acc.Stop)
	return l.Addr().String()
}

func TestTelnetSession_SignInAndCommand(t *testing.T) {
	addr := startTelnet(t)
	c := testutil.DialTerminal(t, addr)

	c.Answer("Callsign: ", "1bad")
	c.Expect("Callsigns are 2-20 letters")
	c.SignIn("Ripley")

	c.Type("/roll 1d6")
	out := c.Expect("1d6 → [")
	assert.Contains(t, out, "\r\n")

	c.Type("/createcharacter")
	c.Answer("What is your character's name?", "Jane Doe")
	c.Expect("Gender:")

	c.Type("quit")
	c.Expect("Goodbye!")
	assert.True(t, c.Closed())
}

func TestTelnetSession_DuplicateCallsign(t *testing.T) {
	addr := startTelnet(t)
	first := testutil.DialTerminal(t, addr)
	first.SignIn("Ripley")

	second := testutil.DialTerminal(t, addr)
	second.Answer("Callsign: ", "ripley")
	second.Expect("already signed in")
	second.SignIn("Dallas")

	first.Hangup()
	third := testutil.DialTerminal(t, addr)
	deadline := time.Now().Add(3 * time.Second)
	for {
		third.Answer("Callsign: ", "ripley")
		if !strings.Contains(third.Expect("\r\n"), "already signed in") {
			break
		}
		require.True(t, time.Now().Before(deadline), "a dropped caller frees the callsign")
		time.Sleep(50 * time.Millisecond)
	}
}
