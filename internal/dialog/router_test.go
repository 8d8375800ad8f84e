package dialog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/colonybot/internal/dialog"
)

func TestRouter_RoutesByScheme(t *testing.T) {
	var telnet, telegram []string
	r := dialog.NewRouter()
	r.Route("telnet", dialog.SenderFunc(func(_ context.Context, userID, text string) error {
		telnet = append(telnet, userID+"="+text)
		return nil
	}))
	r.Route("telegram", dialog.SenderFunc(func(_ context.Context, userID, text string) error {
		telegram = append(telegram, userID+"="+text)
		return nil
	}))

	require.NoError(t, r.Send(context.Background(), dialog.UserID("telnet", "ripley"), "hi"))
	require.NoError(t, r.Send(context.Background(), dialog.UserID("telegram", "42"), "yo"))
	assert.Equal(t, []string{"telnet:ripley=hi"}, telnet)
	assert.Equal(t, []string{"telegram:42=yo"}, telegram)
}

func TestRouter_UnknownScheme(t *testing.T) {
	r := dialog.NewRouter()
	assert.Error(t, r.Send(context.Background(), "irc:bob", "hi"))
	assert.Error(t, r.Send(context.Background(), "bob", "hi"))
}
