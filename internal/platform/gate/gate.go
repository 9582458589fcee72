// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package gate implements the fine-grained session gate.

A [Guard] starts in [Checking] and moves exactly once to a terminal state:

	Checking ──(no principal)──────────────► Denied
	Checking ──(role lacks the action)─────► Restricted
	Checking ──(role holds the action)─────► Allowed

Terminal states never return to Checking. The coarse cookie-presence gate
lives in the middleware package; this gate is the authorization boundary.
*/
package gate

import (
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/sec"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/session"
)

// State is the observable state of a [Guard].
type State int

const (
	Checking State = iota
	Allowed
	Denied
	Restricted
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Checking:
		return "checking"
	case Allowed:
		return "allowed"
	case Denied:
		return "denied"
	case Restricted:
		return "restricted"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state is final.
func (s State) Terminal() bool {
	return s == Allowed || s == Denied || s == Restricted
}

// MarshalText renders the state name in JSON view models.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Guard gates a single page view.
type Guard struct {
	action sec.Action
	state  State
}

// NewGuard creates a guard in the Checking state.
//
// When action is empty any resolved principal is allowed; otherwise the
// principal's role must hold action in the permission matrix.
func NewGuard(action sec.Action) *Guard {
	return &Guard{action: action, state: Checking}
}

// State returns the current state.
func (guard *Guard) State() State {
	return guard.state
}

// Resolve moves the guard out of Checking using the resolved principal.
// Once terminal, further calls return the existing state unchanged.
func (guard *Guard) Resolve(principal *session.Principal) State {
	if guard.state.Terminal() {
		return guard.state
	}

	switch {
	case principal == nil:
		guard.state = Denied
	case guard.action != "" && !sec.CanPerform(principal.Role, guard.action, sec.Target{}):
		guard.state = Restricted
	default:
		guard.state = Allowed
	}

	return guard.state
}

// Evaluate resolves a fresh guard in one step.
func Evaluate(action sec.Action, principal *session.Principal) State {
	return NewGuard(action).Resolve(principal)
}
