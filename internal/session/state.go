// Package session owns the authenticated user of the process. It logs users
// in and out through an Authenticator and persists a marker so a restarted
// process can restore the session without contacting the auth service.
package session

import (
	"github.com/Shivanand-hulikatti/flight-booking/internal/model"
)

// State is the session as seen by pages.
type State struct {
	User            *model.User `json:"user"`
	IsAuthenticated bool        `json:"isAuthenticated"`
	IsLoading       bool        `json:"isLoading"`
	Error           string      `json:"error,omitempty"`
}

// Command is one of the session transitions below.
type Command interface {
	commandName() string
}

// AuthStarted marks a login or registration as in flight.
type AuthStarted struct{}

// AuthSucceeded stores the authenticated user.
type AuthSucceeded struct{ User model.User }

// AuthFailed records the auth service's message. A user already signed in
// stays signed in.
type AuthFailed struct{ Message string }

// Restored installs a user read back from the persisted marker.
type Restored struct{ User model.User }

// LoggedOut returns to the unauthenticated initial state.
type LoggedOut struct{}

// ErrorReset clears the error only.
type ErrorReset struct{}

func (AuthStarted) commandName() string   { return "auth_started" }
func (AuthSucceeded) commandName() string { return "auth_succeeded" }
func (AuthFailed) commandName() string    { return "auth_failed" }
func (Restored) commandName() string      { return "restored" }
func (LoggedOut) commandName() string     { return "logged_out" }
func (ErrorReset) commandName() string    { return "error_reset" }

// Reduce applies c to s.
func Reduce(s State, c Command) State {
	switch c := c.(type) {
	case AuthStarted:
		s.IsLoading = true
		s.Error = ""
	case AuthSucceeded:
		u := c.User
		return State{User: &u, IsAuthenticated: true}
	case AuthFailed:
		s.IsLoading = false
		s.Error = c.Message
	case Restored:
		u := c.User
		return State{User: &u, IsAuthenticated: true}
	case LoggedOut:
		return State{}
	case ErrorReset:
		s.Error = ""
	}
	return s
}
