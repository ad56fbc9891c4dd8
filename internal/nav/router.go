// Package nav maps resolver outcomes onto root screens and keeps the two
// role subtrees mutually exclusive. It holds no session knowledge of its
// own; everything it does follows from a ViewState or an explicit user
// action.
package nav

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"dermalink/mobile/internal/models"
	"dermalink/mobile/internal/session"
)

type Screen string

const (
	ScreenLanding     Screen = "landing"
	ScreenLogin       Screen = "login"
	ScreenDoctorHome  Screen = "doctor_home"
	ScreenPatientHome Screen = "patient_home"
	ScreenRetry       Screen = "retry"
)

type State int

const (
	Booting State = iota
	Unauthenticated
	AuthenticatedDoctor
	AuthenticatedPatient
	Retrying
)

func (s State) String() string {
	switch s {
	case Booting:
		return "booting"
	case Unauthenticated:
		return "unauthenticated"
	case AuthenticatedDoctor:
		return "authenticated_doctor"
	case AuthenticatedPatient:
		return "authenticated_patient"
	case Retrying:
		return "retrying"
	}
	return "unknown"
}

var (
	ErrAccessDenied  = errors.New("screen not reachable from current state")
	ErrNotVerified   = errors.New("session not verified this lifecycle")
	ErrRetryNotReady = errors.New("retry only valid from the retrying state")
)

// Route is the pure mapping from a resolved view state to the single root
// screen it lands on. Every variant is handled; nothing falls through to an
// access-granting branch.
func Route(vs session.ViewState) Screen {
	switch vs.Kind {
	case session.Authenticated:
		switch vs.Role {
		case models.RoleDoctor:
			return ScreenDoctorHome
		case models.RolePatient:
			return ScreenPatientHome
		}
		// Unreachable when the resolver does its job; deny regardless.
		return ScreenLogin
	case session.Expired:
		return ScreenLogin
	case session.Unreachable:
		return ScreenRetry
	case session.Unauthenticated:
		return ScreenLanding
	}
	return ScreenLanding
}

// Verifier reports whether the session has been confirmed against the
// backend within this app lifecycle.
type Verifier interface {
	VerifiedOnce() bool
}

type Router struct {
	log      zerolog.Logger
	verifier Verifier

	mu     sync.Mutex
	state  State
	notice string
}

func NewRouter(verifier Verifier, logger zerolog.Logger) *Router {
	return &Router{
		log:      logger,
		verifier: verifier,
		state:    Booting,
	}
}

func (r *Router) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Apply commits the transition a resolver outcome demands and returns the
// root screen to show.
func (r *Router) Apply(vs session.ViewState) Screen {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev := r.state
	screen := Route(vs)

	switch vs.Kind {
	case session.Authenticated:
		if vs.Role == models.RoleDoctor {
			r.state = AuthenticatedDoctor
		} else {
			r.state = AuthenticatedPatient
		}
	case session.Expired:
		r.state = Unauthenticated
		// Distinguish "session expired" from a deliberate logout, once.
		r.notice = "Your session has expired. Please sign in again."
	case session.Unreachable:
		r.state = Retrying
	case session.Unauthenticated:
		r.state = Unauthenticated
	}

	if prev != r.state {
		r.log.Info().
			Str("from", prev.String()).
			Str("to", r.state.String()).
			Str("screen", string(screen)).
			Msg("navigation transition")
	}
	return screen
}

// Notice returns the one-time user-visible message attached to the last
// transition, consuming it.
func (r *Router) Notice() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := r.notice
	r.notice = ""
	return n
}

// Enter guards direct entry into a screen. Role subtrees are reachable only
// from the matching authenticated state, and only after this lifecycle has
// verified the session against the backend at least once.
func (r *Router) Enter(screen Screen) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch screen {
	case ScreenDoctorHome, ScreenPatientHome:
		if !r.verifier.VerifiedOnce() {
			return ErrNotVerified
		}
		if screen == ScreenDoctorHome && r.state != AuthenticatedDoctor {
			return fmt.Errorf("%w: %s from %s", ErrAccessDenied, screen, r.state)
		}
		if screen == ScreenPatientHome && r.state != AuthenticatedPatient {
			return fmt.Errorf("%w: %s from %s", ErrAccessDenied, screen, r.state)
		}
		return nil
	case ScreenRetry:
		if r.state != Retrying {
			return ErrRetryNotReady
		}
		return nil
	default:
		// Landing and login are always reachable.
		return nil
	}
}

// Logout is the explicit user action returning to the unauthenticated state;
// it is re-enterable, there is no terminal state.
func (r *Router) Logout() Screen {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = Unauthenticated
	r.notice = ""
	return ScreenLanding
}
