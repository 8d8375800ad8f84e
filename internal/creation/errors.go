package creation

import (
	"errors"
	"fmt"
)

// Kind classifies creation failures.
type Kind int

// Failure kinds.
const (
	// KindInputInvalid: the user's reply failed validation. Recovered locally by re-prompting.
	KindInputInvalid Kind = iota + 1
	// KindDraftMissing: the draft vanished mid-dialog. Terminal.
	KindDraftMissing
	// KindCorpus: a referenced career, talent, or item is absent. Terminal.
	KindCorpus
	// KindDice: a corpus dice expression failed to parse. Terminal.
	KindDice
	// KindStore: persisting the character failed. The draft is kept for retry.
	KindStore
	// KindTransport: sending or receiving failed. The draft is kept for /resume.
	KindTransport
)

var kindNames = map[Kind]string{
	KindInputInvalid: "invalid input",
	KindDraftMissing: "draft missing",
	KindCorpus:       "corpus error",
	KindDice:         "dice error",
	KindStore:        "store error",
	KindTransport:    "transport error",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Terminal reports whether a failure of this kind ends the dialog and discards the draft.
func (k Kind) Terminal() bool {
	return k == KindDraftMissing || k == KindCorpus || k == KindDice
}

// Error is a classified creation failure.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

// Sentinels for errors.Is matching by kind.
var (
	ErrInputInvalid = &Error{Kind: KindInputInvalid}
	ErrDraftMissing = &Error{Kind: KindDraftMissing}
	ErrCorpus       = &Error{Kind: KindCorpus}
	ErrDice         = &Error{Kind: KindDice}
	ErrStore        = &Error{Kind: KindStore}
	ErrTransport    = &Error{Kind: KindTransport}
)

func (e *Error) Error() string {
	msg := "creation"
	if e.Op != "" {
		msg += ": " + e.Op
	}
	msg += ": " + e.Kind.String()
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind, so errors.Is(err, ErrStore) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the Kind of err, or 0 when err is not a creation error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// invalid builds a user-facing validation failure.
func invalid(format string, args ...any) *Error {
	return &Error{Kind: KindInputInvalid, Message: fmt.Sprintf(format, args...)}
}

func wrap(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func corpusMissing(op, what, name string) *Error {
	return &Error{Kind: KindCorpus, Op: op, Message: fmt.Sprintf("%s %q not found", what, name)}
}
