package telnet

import (
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/colonybot/internal/config"
	"github.com/cory-johannsen/colonybot/internal/testutil"
)

// rosterHandler signs a caller in under the first line they type and
// acknowledges every later line through the Roster.
type rosterHandler struct {
	roster    *Roster
	cancelled atomic.Int32
}

func (h *rosterHandler) HandleSession(ctx context.Context, conn *Conn) error {
	if err := conn.WritePrompt("Callsign: "); err != nil {
		return err
	}
	name, err := conn.ReadLine()
	if err != nil {
		return err
	}
	userID := "telnet:" + name
	if err := h.roster.Join(userID, conn); err != nil {
		return err
	}
	defer h.roster.Leave(userID, conn)
	if err := conn.WriteLine("welcome " + name); err != nil {
		return err
	}
	for {
		line, err := conn.ReadLine()
		if err != nil {
			if ctx.Err() != nil {
				h.cancelled.Add(1)
			}
			return err
		}
		if err := h.roster.Send(ctx, userID, "ack: "+line); err != nil {
			return err
		}
	}
}

func serve(t *testing.T, maxConns int) (*Acceptor, *rosterHandler, string, <-chan error) {
	t.Helper()
	h := &rosterHandler{roster: NewRoster()}
	acc := NewAcceptor(config.TelnetConfig{
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		MaxConns:     maxConns,
	}, h, zaptest.NewLogger(t))
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	errCh := make(chan error, 1)
	go func() { errCh <- acc.Serve(l) }()
	t.Cleanup(acc.Stop)
	return acc, h, l.Addr().String(), errCh
}

func TestAcceptor_FramesReachCallerThroughRoster(t *testing.T) {
	acc, h, addr, _ := serve(t, 0)
	c := testutil.DialTerminal(t, addr)
	c.Answer("Callsign: ", "ripley")
	c.Expect("welcome ripley")
	assert.True(t, h.roster.Online("telnet:ripley"))
	assert.Equal(t, addr, acc.Addr())

	c.Type("hello")
	c.Expect("ack: hello")

	c.Hangup()
	require.Eventually(t, func() bool { return acc.Active() == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.False(t, h.roster.Online("telnet:ripley"))
}

func TestAcceptor_TurnsAwayCallersPastTheCap(t *testing.T) {
	acc, _, addr, _ := serve(t, 1)
	first := testutil.DialTerminal(t, addr)
	first.Expect("Callsign: ")

	second := testutil.DialTerminal(t, addr)
	second.Expect(busyMessage)
	assert.True(t, second.Closed())
	assert.Equal(t, 1, acc.Active())

	first.Hangup()
	require.Eventually(t, func() bool { return acc.Active() == 0 }, 2*time.Second, 10*time.Millisecond)
	third := testutil.DialTerminal(t, addr)
	third.Expect("Callsign: ")
}

func TestAcceptor_StopHangsUpOnCallers(t *testing.T) {
	acc, h, addr, errCh := serve(t, 0)
	callers := make([]*testutil.Terminal, 3)
	for i, name := range []string{"ripley", "hicks", "bishop"} {
		callers[i] = testutil.DialTerminal(t, addr)
		callers[i].Answer("Callsign: ", name)
		callers[i].Expect("welcome " + name)
	}
	require.Equal(t, 3, acc.Active())

	acc.Stop()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after Stop")
	}
	for _, c := range callers {
		assert.True(t, c.Closed())
	}
	assert.Equal(t, 0, acc.Active())
	assert.Equal(t, int32(3), h.cancelled.Load(), "sessions see a cancelled context")

	acc.Stop()
}

func TestAcceptor_ServeAfterStopClosesListener(t *testing.T) {
	acc := NewAcceptor(config.TelnetConfig{}, &rosterHandler{roster: NewRoster()}, zaptest.NewLogger(t))
	acc.Stop()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	require.NoError(t, acc.Serve(l))
	_, err = l.Accept()
	assert.ErrorIs(t, err, net.ErrClosed)
	assert.Empty(t, acc.Addr())
}
