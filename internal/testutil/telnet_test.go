package testutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cory-johannsen/colonybot/internal/testutil"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want string
	}{
		{"plain", []byte("Callsign: "), "Callsign: "},
		{"negotiation", []byte{255, 251, 3, 'h', 'i'}, "hi"},
		{"subnegotiation", append([]byte{255, 250, 24, 1, 255, 240}, "ok"...), "ok"},
		{"go ahead", []byte{'>', 255, 249}, ">"},
		{"colour", []byte("\x1b[1;32mSigned in.\x1b[0m"), "Signed in."},
		{"partial negotiation", []byte{'a', 255, 251}, "a"},
		{"partial colour", []byte("a\x1b[3"), "a"},
		{"multibyte", []byte("2d6 → [3 4]"), "2d6 → [3 4]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, testutil.PlainText(tt.raw))
		})
	}
}
