package telnet

import (
	"bufio"
	"net"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// Telnet command and option bytes (RFC 854, RFC 858).
const (
	IAC  byte = 255
	DONT byte = 254
	DO   byte = 253
	WONT byte = 252
	WILL byte = 251
	SB   byte = 250
	SE   byte = 240

	OptSuppressGoAhead byte = 3
)

// MaxLineLen bounds one line of caller input in bytes. The rest of a longer
// line is discarded.
const MaxLineLen = 512

const (
	backspace = 0x08
	del       = 0x7f
)

// Conn is one caller's Telnet connection. Reads are line-oriented with
// option negotiation skipped and simple line editing applied. Writes are
// serialised, so the dialog and the session loop can both send frames.
type Conn struct {
	raw    net.Conn
	reader *bufio.Reader
	mu     sync.Mutex

	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewConn wraps raw. Zero timeouts disable the deadlines.
func NewConn(raw net.Conn, readTimeout, writeTimeout time.Duration) *Conn {
	return &Conn{
		raw:          raw,
		reader:       bufio.NewReaderSize(raw, 4096),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// Negotiate offers to suppress go-ahead. Callers get plain line mode
// otherwise.
func (c *Conn) Negotiate() error {
	return c.write([]byte{IAC, WILL, OptSuppressGoAhead})
}

// ReadLine returns the next line the caller typed, without its line ending.
// Backspace and DEL erase the previous character, other control bytes are
// dropped, and invalid UTF-8 is replaced so names survive storage intact.
//
// Postcondition: len(line) <= MaxLineLen on success.
func (c *Conn) ReadLine() (string, error) {
	if c.readTimeout > 0 {
		_ = c.raw.SetReadDeadline(time.Now().Add(c.readTimeout))
	}
	var line []byte
	for {
		b, err := c.reader.ReadByte()
		if err != nil {
			return "", err
		}
		switch {
		case b == IAC:
			if err := c.skipCommand(); err != nil {
				return "", err
			}
		case b == '\n':
			return finishLine(line), nil
		case b == '\r':
			// CR LF and CR NUL both end the line at the CR. Only bytes already
			// received are examined, so a lone CR does not wait for more input.
			if c.reader.Buffered() == 0 {
				return finishLine(line), nil
			}
			if next, err := c.reader.Peek(1); err == nil && (next[0] == '\n' || next[0] == 0) {
				_, _ = c.reader.ReadByte()
			}
			return finishLine(line), nil
		case b == backspace || b == del:
			line = eraseRune(line)
		case b < 32 && b != '\t':
			// dropped
		case len(line) < MaxLineLen:
			line = append(line, b)
		}
	}
}

// skipCommand consumes the rest of a command after IAC.
func (c *Conn) skipCommand() error {
	cmd, err := c.reader.ReadByte()
	if err != nil {
		return err
	}
	switch cmd {
	case WILL, WONT, DO, DONT:
		_, err = c.reader.ReadByte()
		return err
	case SB:
		for prev := byte(0); ; {
			b, err := c.reader.ReadByte()
			if err != nil {
				return err
			}
			if prev == IAC && b == SE {
				return nil
			}
			// IAC IAC inside a subnegotiation is an escaped data byte.
			if prev == IAC && b == IAC {
				b = 0
			}
			prev = b
		}
	}
	return nil
}

func eraseRune(line []byte) []byte {
	if len(line) == 0 {
		return line
	}
	_, size := utf8.DecodeLastRune(line)
	return line[:len(line)-size]
}

func finishLine(line []byte) string {
	return strings.ToValidUTF8(string(line), "\uFFFD")
}

// WriteLine sends text followed by CR LF.
func (c *Conn) WriteLine(text string) error {
	return c.write([]byte(text + "\r\n"))
}

// WriteFrame sends a multi-line frame, normalising every line ending to
// CR LF.
func (c *Conn) WriteFrame(text string) error {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return c.WriteLine(strings.ReplaceAll(text, "\n", "\r\n"))
}

// WritePrompt sends prompt with no line ending, leaving the cursor after it.
func (c *Conn) WritePrompt(prompt string) error {
	return c.write([]byte(prompt))
}

func (c *Conn) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeTimeout > 0 {
		_ = c.raw.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	_, err := c.raw.Write(data)
	return err
}

// Close closes the connection. Pending reads return an error.
func (c *Conn) Close() error {
	return c.raw.Close()
}

// RemoteAddr returns the caller's address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.raw.RemoteAddr()
}
