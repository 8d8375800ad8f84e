package telnet

import (
	"bytes"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// feed returns a Conn whose caller has typed input and hung up.
func feed(input []byte) *Conn {
	server, client := net.Pipe()
	conn := NewConn(server, time.Second, time.Second)
	go func() {
		_, _ = client.Write(input)
		_ = client.Close()
	}()
	return conn
}

func readLines(t require.TestingT, conn *Conn, n int) []string {
	defer conn.Close()
	var lines []string
	for range n {
		line, err := conn.ReadLine()
		require.NoError(t, err)
		lines = append(lines, line)
	}
	return lines
}

func TestReadLine_SkipsNegotiation(t *testing.T) {
	input := []byte{IAC, DO, OptSuppressGoAhead, 'r', 'i', IAC, SB, 24, 0, IAC, IAC, IAC, SE, 'p', IAC, 241, 'l', 'e', 'y', '\r', '\n'}
	assert.Equal(t, []string{"ripley"}, readLines(t, feed(input), 1))
}

func TestReadLine_LineEndings(t *testing.T) {
	conn := feed([]byte("one\r\ntwo\nthree\r\x00four\r\n"))
	assert.Equal(t, []string{"one", "two", "three", "four"}, readLines(t, conn, 4))
}

func TestReadLine_Editing(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"backspace", "Jann\x08e Doe\r\n", "Jane Doe"},
		{"delete", "34\x7f5\r\n", "35"},
		{"erase whole rune", "Zoë\x7f\x7fe\r\n", "Zoe"},
		{"erase past start", "\x08\x08ok\r\n", "ok"},
		{"control bytes dropped", "a\x07b\x1bc\tz\r\n", "abc\tz"},
		{"invalid utf-8", "Ren\xffe\r\n", "Ren\uFFFDe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, []string{tt.want}, readLines(t, feed([]byte(tt.input)), 1))
		})
	}
}

func TestReadLine_LongLineIsCut(t *testing.T) {
	long := strings.Repeat("x", MaxLineLen+100)
	lines := readLines(t, feed([]byte(long+"\r\nnext\r\n")), 2)
	assert.Len(t, lines[0], MaxLineLen)
	assert.Equal(t, "next", lines[1])
}

func TestReadLine_EOF(t *testing.T) {
	conn := feed([]byte("partial"))
	defer conn.Close()
	_, err := conn.ReadLine()
	assert.Error(t, err)
}

// Printable lines arrive unchanged whatever ending the client uses.
func TestReadLine_Property_PrintableRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		line := rapid.StringMatching(`[ -~]{0,80}`).Draw(rt, "line")
		ending := rapid.SampledFrom([]string{"\r\n", "\n", "\r\x00"}).Draw(rt, "ending")
		got := readLines(rt, feed([]byte(line+ending)), 1)
		assert.Equal(rt, line, got[0])
	})
}

func TestConn_Negotiate(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()
	conn := NewConn(server, time.Second, time.Second)
	defer conn.Close()

	go func() { _ = conn.Negotiate() }()
	buf := make([]byte, 3)
	_ = client.SetReadDeadline(time.Now().Add(time.Second))
	_, err := client.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{IAC, WILL, OptSuppressGoAhead}, buf)
}

func TestConn_WriteFrame_UsesCRLF(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()
	conn := NewConn(server, time.Second, time.Second)
	defer conn.Close()

	go func() { _ = conn.WriteFrame("System UCS-0042\n├── Alpha\r\n└── Beta") }()

	buf := make([]byte, 256)
	var got []byte
	_ = client.SetReadDeadline(time.Now().Add(time.Second))
	for !bytes.HasSuffix(got, []byte("Beta\r\n")) {
		n, err := client.Read(buf)
		require.NoError(t, err)
		got = append(got, buf[:n]...)
	}
	assert.Equal(t, "System UCS-0042\r\n├── Alpha\r\n└── Beta\r\n", string(got))
}
