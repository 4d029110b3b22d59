package wizard

import (
	"context"
	"fmt"

	"github.com/codebypatrickleung/sqlmi-wizard/internal/state"
)

// Page is one wizard step bound to a slice of the shared state.
type Page interface {
	// Name returns the page title.
	Name() string

	// OnPageEnter is called once per visit. Pages rebuild their view from the
	// state here and register the validator for leaving the page.
	OnPageEnter(ctx context.Context, nav Navigator) error

	// OnPageLeave is called when the user navigates away in either direction.
	OnPageLeave(ctx context.Context, nav Navigator) error

	// HandleStateChange is called for every state change while the page is entered.
	HandleStateChange(e state.StateChangeEvent)
}

// Conditional is implemented by pages that only apply to some sessions.
// Disabled pages are skipped in both directions.
type Conditional interface {
	Enabled(s state.Snapshot) bool
}

// Navigator is the validator slot handed to pages.
type Navigator interface {
	RegisterNavigationValidator(v NavigationValidator)
}

// Direction is the kind of navigation being attempted.
type Direction int

const (
	DirectionForward Direction = iota
	DirectionBackward
	DirectionFinish
)

func (d Direction) String() string {
	switch d {
	case DirectionForward:
		return "forward"
	case DirectionBackward:
		return "backward"
	case DirectionFinish:
		return "finish"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// NavigationContext describes an attempted transition. To is -1 for Finish.
type NavigationContext struct {
	From      int
	To        int
	Direction Direction
	State     state.Snapshot
}

// NavigationValidator decides whether a transition may proceed.
type NavigationValidator func(nc NavigationContext) bool

// AllowAll is the validator of a page without constraints.
func AllowAll(NavigationContext) bool { return true }

// ForwardOnly applies check to forward and finish transitions and always
// allows going back.
func ForwardOnly(check func(nc NavigationContext) bool) NavigationValidator {
	return func(nc NavigationContext) bool {
		if nc.Direction == DirectionBackward {
			return true
		}
		return check(nc)
	}
}

// PageStatus is the lifecycle position of a page.
type PageStatus int

const (
	NotEntered PageStatus = iota
	Entered
	Leaving
	Left
)

func (s PageStatus) String() string {
	switch s {
	case NotEntered:
		return "not entered"
	case Entered:
		return "entered"
	case Leaving:
		return "leaving"
	case Left:
		return "left"
	}
	return fmt.Sprintf("PageStatus(%d)", int(s))
}
