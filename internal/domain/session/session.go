// Package session owns the authenticated-session lifecycle: the current
// credentials, the Unauthenticated/Authenticating/Authenticated status
// machine, and a cancelable deadline timer that clears the session when
// the token expires.
package session

import (
	"time"
)

// Session is the live authenticated identity. Exactly one Session value
// is live at a time; it is replaced wholesale on login or signup and
// cleared wholesale on logout or expiry. ExpiresAt is an absolute
// timestamp so expiry checks survive process suspension.
type Session struct {
	UserID    string
	Token     string
	ExpiresAt time.Time
}

// Status enumerates the auth state machine.
type Status uint8

const (
	StatusUnauthenticated Status = iota
	StatusAuthenticating
	StatusAuthenticated
)

// String returns the lowercase name of the status.
func (s Status) String() string {
	switch s {
	case StatusUnauthenticated:
		return "unauthenticated"
	case StatusAuthenticating:
		return "authenticating"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Cause distinguishes why a session was cleared.
type Cause uint8

const (
	CauseLogout Cause = iota
	CauseExpired
)

// State is the session sub-state. Current is nil unless Status is
// StatusAuthenticated; the pointed-to Session is never mutated, only
// replaced, so sharing it across snapshots is safe. Reason carries the
// last auth failure message.
type State struct {
	Status  Status
	Current *Session
	Reason  string
}

// Action is the closed set of session transitions.
type Action interface {
	isSessionAction()
}

// AuthStarted marks a credentials exchange as in flight.
type AuthStarted struct{}

// Authenticated installs a new live session.
type Authenticated struct {
	Session Session
}

// AuthFailed records the rejection reason and returns to unauthenticated.
type AuthFailed struct {
	Reason string
}

// Cleared drops the live session, either by explicit logout or because
// the expiry deadline fired.
type Cleared struct {
	Cause Cause
}

func (AuthStarted) isSessionAction()   {}
func (Authenticated) isSessionAction() {}
func (AuthFailed) isSessionAction()    {}
func (Cleared) isSessionAction()       {}

// Reduce applies a session action to the previous state and returns the
// next state.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case AuthStarted:
		return State{Status: StatusAuthenticating}
	case Authenticated:
		sess := a.Session
		return State{Status: StatusAuthenticated, Current: &sess}
	case AuthFailed:
		return State{Status: StatusUnauthenticated, Reason: a.Reason}
	case Cleared:
		return State{Status: StatusUnauthenticated}
	}
	return s
}
