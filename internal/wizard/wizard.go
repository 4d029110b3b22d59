// Package wizard drives the page lifecycle of a migration wizard session.
//
// The Wizard owns page ordering and a single navigation validator slot. Pages
// register validators through the Navigator passed to their lifecycle calls;
// the most recent registration replaces the previous one and is evaluated on
// every transition attempt. A rejected transition fires no lifecycle calls.
package wizard

import (
	"context"
	"errors"
	"fmt"

	"github.com/codebypatrickleung/sqlmi-wizard/internal/logger"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/state"
)

// Sentinel errors for wizard navigation.
var (
	ErrNoPages        = errors.New("wizard has no enabled pages")
	ErrNotStarted     = errors.New("wizard has not been started")
	ErrAlreadyStarted = errors.New("wizard has already been started")
	ErrAtFirstPage    = errors.New("already on the first page")
	ErrAtLastPage     = errors.New("already on the last page")
	ErrNotLastPage    = errors.New("finish is only allowed on the last page")
	ErrSessionClosed  = errors.New("wizard session is closed")
)

// Outcome is how a session ended.
type Outcome int

const (
	OutcomeOpen Outcome = iota
	OutcomeCommitted
	OutcomeCancelled
)

// Wizard orchestrates an ordered sequence of pages over one WizardState.
type Wizard struct {
	state       *state.WizardState
	logger      *logger.Logger
	pages       []Page
	status      []PageStatus
	current     int
	validator   NavigationValidator
	unsubscribe func()
	outcome     Outcome
}

// New creates a wizard over st. The session starts with an always-allow validator.
func New(st *state.WizardState, log *logger.Logger, pages ...Page) (*Wizard, error) {
	if len(pages) == 0 {
		return nil, ErrNoPages
	}
	return &Wizard{
		state:     st,
		logger:    log,
		pages:     pages,
		status:    make([]PageStatus, len(pages)),
		current:   -1,
		validator: AllowAll,
	}, nil
}

// RegisterNavigationValidator replaces the validator slot. nil registers AllowAll.
func (w *Wizard) RegisterNavigationValidator(v NavigationValidator) {
	if v == nil {
		v = AllowAll
	}
	w.validator = v
}

// State returns the session state.
func (w *Wizard) State() *state.WizardState { return w.state }

// Pages returns the page sequence.
func (w *Wizard) Pages() []Page { return w.pages }

// CurrentIndex returns the index of the current page, or -1 before Start.
func (w *Wizard) CurrentIndex() int { return w.current }

// Current returns the current page, or nil before Start.
func (w *Wizard) Current() Page {
	if w.current < 0 {
		return nil
	}
	return w.pages[w.current]
}

// Status returns the lifecycle status of page i.
func (w *Wizard) Status(i int) PageStatus { return w.status[i] }

// Outcome reports whether the session is open, committed or cancelled.
func (w *Wizard) Outcome() Outcome { return w.outcome }

// IsLastPage reports whether no enabled page follows the current one.
func (w *Wizard) IsLastPage() bool {
	return w.current >= 0 && w.nextEnabled(w.current, 1) < 0
}

// Start subscribes to state changes and enters the first enabled page.
func (w *Wizard) Start(ctx context.Context) error {
	if w.outcome != OutcomeOpen {
		return ErrSessionClosed
	}
	if w.current >= 0 {
		return ErrAlreadyStarted
	}
	first := w.nextEnabled(-1, 1)
	if first < 0 {
		return ErrNoPages
	}
	w.unsubscribe = w.state.Subscribe(w.dispatch)
	w.logger.Debugf("Starting wizard session %s", w.state.ID())
	return w.enter(ctx, first)
}

// Next moves to the following enabled page. It returns false without error
// when the registered validator rejects the transition.
func (w *Wizard) Next(ctx context.Context) (bool, error) {
	return w.move(ctx, DirectionForward)
}

// Back moves to the preceding enabled page.
func (w *Wizard) Back(ctx context.Context) (bool, error) {
	return w.move(ctx, DirectionBackward)
}

// Finish validates and leaves the last page, closes the session and returns
// the committed state. It returns false when the validator rejects.
func (w *Wizard) Finish(ctx context.Context) (state.Snapshot, bool, error) {
	if err := w.checkOpen(); err != nil {
		return state.Snapshot{}, false, err
	}
	if !w.IsLastPage() {
		return state.Snapshot{}, false, ErrNotLastPage
	}
	if !w.allowed(w.current, -1, DirectionFinish) {
		return state.Snapshot{}, false, nil
	}
	if err := w.leave(ctx); err != nil {
		return state.Snapshot{}, false, err
	}
	w.close(OutcomeCommitted)
	w.logger.Successf("Wizard session %s committed", w.state.ID())
	return w.state.Snapshot(), true, nil
}

// Cancel abandons the session. No lifecycle calls are made.
func (w *Wizard) Cancel() {
	if w.outcome != OutcomeOpen {
		return
	}
	w.close(OutcomeCancelled)
	w.logger.Warningf("Wizard session %s cancelled", w.state.ID())
}

func (w *Wizard) move(ctx context.Context, dir Direction) (bool, error) {
	if err := w.checkOpen(); err != nil {
		return false, err
	}
	step := 1
	if dir == DirectionBackward {
		step = -1
	}
	to := w.nextEnabled(w.current, step)
	if to < 0 {
		if dir == DirectionBackward {
			return false, ErrAtFirstPage
		}
		return false, ErrAtLastPage
	}
	if !w.allowed(w.current, to, dir) {
		return false, nil
	}
	if err := w.leave(ctx); err != nil {
		return false, err
	}
	if err := w.enter(ctx, to); err != nil {
		return false, err
	}
	return true, nil
}

func (w *Wizard) allowed(from, to int, dir Direction) bool {
	nc := NavigationContext{From: from, To: to, Direction: dir, State: w.state.Snapshot()}
	if w.validator(nc) {
		return true
	}
	w.logger.Warningf("Navigation %s from %q was blocked", dir, w.pages[from].Name())
	return false
}

func (w *Wizard) enter(ctx context.Context, i int) error {
	w.current = i
	w.status[i] = Entered
	w.logger.Page(i, len(w.pages), w.pages[i].Name())
	if err := w.pages[i].OnPageEnter(ctx, w); err != nil {
		return fmt.Errorf("failed to enter page %q: %w", w.pages[i].Name(), err)
	}
	return nil
}

func (w *Wizard) leave(ctx context.Context) error {
	i := w.current
	w.status[i] = Leaving
	err := w.pages[i].OnPageLeave(ctx, w)
	w.status[i] = Left
	if err != nil {
		return fmt.Errorf("failed to leave page %q: %w", w.pages[i].Name(), err)
	}
	return nil
}

// dispatch forwards state changes to the current page while it is entered.
func (w *Wizard) dispatch(e state.StateChangeEvent) {
	if w.current < 0 || w.status[w.current] != Entered {
		return
	}
	w.logger.Debugf("State change %v on page %q", e.Fields(), w.pages[w.current].Name())
	w.pages[w.current].HandleStateChange(e)
}

func (w *Wizard) nextEnabled(from, step int) int {
	snap := w.state.Snapshot()
	for i := from + step; i >= 0 && i < len(w.pages); i += step {
		if c, ok := w.pages[i].(Conditional); ok && !c.Enabled(snap) {
			continue
		}
		return i
	}
	return -1
}

func (w *Wizard) checkOpen() error {
	if w.outcome != OutcomeOpen {
		return ErrSessionClosed
	}
	if w.current < 0 {
		return ErrNotStarted
	}
	return nil
}

func (w *Wizard) close(o Outcome) {
	w.outcome = o
	if w.unsubscribe != nil {
		w.unsubscribe()
		w.unsubscribe = nil
	}
}
