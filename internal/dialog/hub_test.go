package dialog_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cory-johannsen/colonybot/internal/dialog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type recorder struct {
	mu   sync.Mutex
	sent map[string][]string
}

func (r *recorder) Send(_ context.Context, userID, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sent == nil {
		r.sent = make(map[string][]string)
	}
	r.sent[userID] = append(r.sent[userID], text)
	return nil
}

func TestHub_DeliverReceiveFIFO(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		msgs := rapid.SliceOfN(rapid.StringMatching(`[a-z0-9 ]{1,12}`), 1, 16).Draw(rt, "msgs")
		h := dialog.NewHub(&recorder{}, 16)
		h.Open("u1")
		for _, m := range msgs {
			require.NoError(rt, h.Deliver("u1", m))
		}
		for _, m := range msgs {
			got, err := h.Receive(context.Background(), "u1")
			require.NoError(rt, err)
			assert.Equal(rt, strings.TrimSpace(m), got)
		}
	})
}

func TestHub_DeliverWithoutInbox(t *testing.T) {
	h := dialog.NewHub(&recorder{}, 4)
	assert.Error(t, h.Deliver("u1", "hello"))
	assert.False(t, h.IsOpen("u1"))
}

func TestHub_BufferFull(t *testing.T) {
	h := dialog.NewHub(&recorder{}, 1)
	h.Open("u1")
	require.NoError(t, h.Deliver("u1", "a"))
	assert.Error(t, h.Deliver("u1", "b"))
}

func TestHub_ReceiveHonoursCancellation(t *testing.T) {
	h := dialog.NewHub(&recorder{}, 4)
	h.Open("u1")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := h.Receive(ctx, "u1")
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestHub_CloseUnblocksReceive(t *testing.T) {
	h := dialog.NewHub(&recorder{}, 4)
	h.Open("u1")
	done := make(chan error, 1)
	go func() {
		_, err := h.Receive(context.Background(), "u1")
		done <- err
	}()
	time.Sleep(10 * time.Millisecond)
	h.Close("u1")
	select {
	case err := <-done:
		assert.ErrorIs(t, err, dialog.ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("Receive did not return after Close")
	}
	_, err := h.Receive(context.Background(), "u1")
	assert.ErrorIs(t, err, dialog.ErrClosed)
}

func TestHub_SendGoesToTransport(t *testing.T) {
	rec := &recorder{}
	h := dialog.NewHub(rec, 4)
	require.NoError(t, h.Send(context.Background(), "u1", "frame 1"))
	require.NoError(t, h.Send(context.Background(), "u1", "frame 2"))
	assert.Equal(t, []string{"frame 1", "frame 2"}, rec.sent["u1"])
}

func TestHub_UsersAreIsolated(t *testing.T) {
	h := dialog.NewHub(&recorder{}, 4)
	h.Open("u1")
	h.Open("u2")
	require.NoError(t, h.Deliver("u2", "for u2"))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := h.Receive(ctx, "u1")
	assert.Error(t, err)
	got, err := h.Receive(context.Background(), "u2")
	require.NoError(t, err)
	assert.Equal(t, "for u2", got)
}

func TestScript(t *testing.T) {
	s := dialog.NewScript(" 1 ", "Y")
	ctx := context.Background()
	got, err := s.Receive(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, "1", got)
	require.NoError(t, s.Send(ctx, "u", "hello"))
	assert.Equal(t, "hello", s.Last())
	assert.Equal(t, 1, s.Remaining())
	_, _ = s.Receive(ctx, "u")
	_, err = s.Receive(ctx, "u")
	assert.ErrorIs(t, err, dialog.ErrClosed)
}

func TestHub_CancelledReceiveNeverTakesQueuedMessage(t *testing.T) {
	h := dialog.NewHub(&recorder{}, 4)
	ch := h.Open("u1")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 200; i++ {
		require.NoError(t, h.Deliver("u1", "4,2,4,4"))
		_, err := ch.Receive(ctx, "u1")
		require.ErrorIs(t, err, context.Canceled)
		_, err = h.Receive(ctx, "u1")
		require.ErrorIs(t, err, context.Canceled)

		got, err := ch.Receive(context.Background(), "u1")
		require.NoError(t, err)
		require.Equal(t, "4,2,4,4", got)
	}
}

func TestChannel_BoundToItsInbox(t *testing.T) {
	h := dialog.NewHub(&recorder{}, 4)
	first := h.Open("u1")
	second := h.Open("u1")
	require.NoError(t, h.Deliver("u1", "for the new dialog"))

	_, err := first.Receive(context.Background(), "u1")
	assert.ErrorIs(t, err, dialog.ErrClosed)
	got, err := second.Receive(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "for the new dialog", got)

	// Closing a stale channel leaves the current inbox registered.
	first.Close()
	assert.True(t, h.IsOpen("u1"))
	second.Close()
	assert.False(t, h.IsOpen("u1"))
	_, err = second.Receive(context.Background(), "u1")
	assert.ErrorIs(t, err, dialog.ErrClosed)
}

func TestChannel_SendGoesToTransport(t *testing.T) {
	rec := &recorder{}
	h := dialog.NewHub(rec, 4)
	ch := h.Open("u1")
	require.NoError(t, ch.Send(context.Background(), "u1", "Gender:"))
	assert.Equal(t, []string{"Gender:"}, rec.sent["u1"])
}
