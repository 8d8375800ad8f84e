package creation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/colonybot/internal/dialog"
	"github.com/cory-johannsen/colonybot/internal/game/character"
	"github.com/cory-johannsen/colonybot/internal/game/content"
	"github.com/cory-johannsen/colonybot/internal/game/dice"
	"github.com/cory-johannsen/colonybot/internal/game/ruleset"
	"github.com/cory-johannsen/colonybot/internal/game/session"
)

// Store persists committed characters.
type Store interface {
	// Insert stores c under (userID, characterID), makes it the user's
	// primary character when they have none, and persists atomically.
	Insert(ctx context.Context, userID, characterID string, c *character.Character) (primary bool, err error)
}

// Roller rolls corpus dice expressions.
type Roller interface {
	RollExpr(expr string) (dice.RollResult, error)
}

// Deps are the collaborators a Wizard needs. The process owns their lifetimes.
type Deps struct {
	Corpus   *content.Corpus
	Sessions *session.Registry
	Store    Store
	Port     dialog.Port
	Roller   Roller
	Logger   *zap.Logger
}

// Wizard runs creation dialogs.
type Wizard struct {
	corpus   *content.Corpus
	sessions *session.Registry
	store    Store
	port     dialog.Port
	roller   Roller
	logger   *zap.Logger
	steps    map[session.Step]stepFunc
}

type stepFunc func(r *run) (session.Step, error)

// New builds a Wizard.
//
// Precondition: every field of deps except Logger must be non-nil.
func New(deps Deps) (*Wizard, error) {
	if deps.Corpus == nil || deps.Sessions == nil || deps.Store == nil || deps.Port == nil || deps.Roller == nil {
		return nil, errors.New("creation: New: corpus, sessions, store, port, and roller are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Wizard{
		corpus:   deps.Corpus,
		sessions: deps.Sessions,
		store:    deps.Store,
		port:     deps.Port,
		roller:   deps.Roller,
		logger:   logger,
	}
	w.steps = map[session.Step]stepFunc{
		session.StepPersonal:   stepPersonal,
		session.StepCareer:     stepCareer,
		session.StepAttributes: stepAttributes,
		session.StepSkills:     stepSkills,
		session.StepTalent:     stepTalent,
		session.StepAgenda:     stepAgenda,
		session.StepGear:       stepGear,
		session.StepSignature:  stepSignature,
		session.StepCash:       stepCash,
		session.StepReview:     stepReview,
	}
	return w, nil
}

// Begin creates a fresh draft for userID and returns its ID.
func (w *Wizard) Begin(userID string) (string, error) {
	d, err := w.sessions.Create(userID, nil)
	if err != nil {
		return "", err
	}
	w.logger.Info("character draft opened", zap.String("user_id", userID), zap.String("draft_id", d.ID))
	return d.ID, nil
}

// run is the per-dialog state threaded through the step functions.
type run struct {
	w       *Wizard
	ctx     context.Context
	port    dialog.Port
	userID  string
	draftID string
	// editing is set while a step is re-entered from review.
	editing bool
}

// Run drives the dialog for (userID, draftID) from the draft's cursor until
// the character is committed or a non-recoverable error occurs.
//
// Postcondition: on nil return the character is stored and the draft dropped.
// Terminal failures drop the draft; store and transport failures keep it.
func (w *Wizard) Run(ctx context.Context, userID, draftID string) error {
	return w.RunOn(ctx, w.port, userID, draftID)
}

// RunOn is Run with every frame sent and read through port. Callers that
// own per-dialog channels pass them here so a cancelled dialog cannot read
// a reply meant for its successor.
func (w *Wizard) RunOn(ctx context.Context, port dialog.Port, userID, draftID string) error {
	start := time.Now()
	r := &run{w: w, ctx: ctx, port: port, userID: userID, draftID: draftID}
	d, err := r.draft()
	if err != nil {
		return w.fail(r, err)
	}

	step := d.Cursor
	for step != session.StepDone {
		fn, ok := w.steps[step]
		if !ok {
			return w.fail(r, fmt.Errorf("creation: no handler for step %s", step))
		}
		w.logger.Debug("creation step",
			zap.String("user_id", userID),
			zap.String("draft_id", r.draftID),
			zap.Stringer("step", step),
			zap.Bool("editing", r.editing),
		)
		next, err := fn(r)
		if err != nil {
			return w.fail(r, err)
		}
		step = next
	}
	w.logger.Info("creation dialog finished",
		zap.String("user_id", userID),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// fail surfaces a single error frame, cleans up terminal failures, and returns err.
func (w *Wizard) fail(r *run, err error) error {
	fields := []zap.Field{zap.String("user_id", r.userID), zap.String("draft_id", r.draftID), zap.Error(err)}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		w.logger.Info("creation dialog cancelled", fields...)
		return err
	}
	kind := KindOf(err)
	switch {
	case kind == KindTransport:
		w.logger.Warn("creation dialog interrupted", fields...)
		return err
	case kind == KindDraftMissing:
		w.logger.Warn("creation draft missing", fields...)
		w.notify(r, "Your character draft is no longer available. Type /createcharacter to start again.")
	default:
		w.logger.Error("creation dialog failed", fields...)
		w.sessions.Delete(r.userID, r.draftID)
		w.notify(r, "Something went wrong on our side and this draft was discarded. Type /createcharacter to start again.")
	}
	return err
}

func (w *Wizard) notify(r *run, text string) {
	// The dialog may have been cancelled; the frame still goes out.
	if err := r.port.Send(context.WithoutCancel(r.ctx), r.userID, text); err != nil {
		w.logger.Warn("sending error frame", zap.String("user_id", r.userID), zap.Error(err))
	}
}

// draft returns the live draft or a DraftMissing error.
func (r *run) draft() (*session.Draft, error) {
	d, ok := r.w.sessions.Get(r.userID, r.draftID)
	if !ok {
		return nil, &Error{Kind: KindDraftMissing, Op: "draft", Message: r.draftID}
	}
	return d, nil
}

// say sends one frame.
func (r *run) say(text string) error {
	if err := r.port.Send(r.ctx, r.userID, text); err != nil {
		return wrap(KindTransport, "send", err)
	}
	return nil
}

// ask sends prompt and returns the user's trimmed reply.
func (r *run) ask(prompt string) (string, error) {
	if err := r.say(prompt); err != nil {
		return "", err
	}
	in, err := r.port.Receive(r.ctx, r.userID)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", wrap(KindTransport, "receive", err)
	}
	if !r.w.sessions.Touch(r.userID, r.draftID) {
		return "", &Error{Kind: KindDraftMissing, Op: "receive", Message: r.draftID}
	}
	return strings.TrimSpace(in), nil
}

// reject reports a validation failure; the caller re-prompts.
func (r *run) reject(err error) error {
	msg := err.Error()
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		msg = e.Message
	}
	return r.say("Invalid input: " + msg)
}

// confirm asks a Y/N question until it gets one.
func (r *run) confirm(prompt string) (bool, error) {
	for {
		in, err := r.ask(prompt)
		if err != nil {
			return false, err
		}
		switch strings.ToUpper(in) {
		case "Y", "YES":
			return true, nil
		case "N", "NO":
			return false, nil
		}
		if err := r.reject(invalid("answer Y or N")); err != nil {
			return false, err
		}
	}
}

// choose presents a numbered menu and returns the 0-based choice.
func (r *run) choose(title string, options []string) (int, error) {
	menu := title + "\n" + numbered(options)
	for {
		in, err := r.ask(menu)
		if err != nil {
			return 0, err
		}
		n, err := parseIndex(in, len(options))
		if err == nil {
			return n, nil
		}
		if err := r.reject(err); err != nil {
			return 0, err
		}
	}
}

// done finishes the current step: back to review when editing, otherwise
// forward to the next step.
func (r *run) done(d *session.Draft, cur session.Step) session.Step {
	if r.editing {
		r.editing = false
		return session.StepReview
	}
	next := cur + 1
	d.Advance(next)
	return next
}

// career returns the draft's career record.
func (r *run) career(d *session.Draft) (*ruleset.Career, error) {
	c, ok := r.w.corpus.Career(d.Career)
	if !ok {
		return nil, corpusMissing("career", "career", d.Career)
	}
	return c, nil
}
