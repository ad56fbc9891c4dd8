package nav

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"dermalink/mobile/internal/models"
	"dermalink/mobile/internal/session"
)

type fakeVerifier struct {
	verified bool
}

func (f *fakeVerifier) VerifiedOnce() bool {
	return f.verified
}

func TestRouteMapping(t *testing.T) {
	cases := []struct {
		name string
		vs   session.ViewState
		want Screen
	}{
		{"unauthenticated", session.ViewState{Kind: session.Unauthenticated}, ScreenLanding},
		{"doctor", session.ViewState{Kind: session.Authenticated, Role: models.RoleDoctor}, ScreenDoctorHome},
		{"patient", session.ViewState{Kind: session.Authenticated, Role: models.RolePatient}, ScreenPatientHome},
		{"expired", session.ViewState{Kind: session.Expired}, ScreenLogin},
		{"unreachable", session.ViewState{Kind: session.Unreachable}, ScreenRetry},
		{"authenticated_no_role", session.ViewState{Kind: session.Authenticated}, ScreenLogin},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Route(tc.vs); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestRoleSubtreesAreExclusive(t *testing.T) {
	v := &fakeVerifier{verified: true}
	r := NewRouter(v, zerolog.Nop())

	r.Apply(session.ViewState{Kind: session.Authenticated, Role: models.RoleDoctor})

	if err := r.Enter(ScreenDoctorHome); err != nil {
		t.Fatalf("doctor must reach doctor subtree: %v", err)
	}
	if err := r.Enter(ScreenPatientHome); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("doctor must not reach patient subtree, got %v", err)
	}

	r.Apply(session.ViewState{Kind: session.Authenticated, Role: models.RolePatient})

	if err := r.Enter(ScreenPatientHome); err != nil {
		t.Fatalf("patient must reach patient subtree: %v", err)
	}
	if err := r.Enter(ScreenDoctorHome); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("patient must not reach doctor subtree, got %v", err)
	}
}

func TestProtectedSubtreeRequiresVerification(t *testing.T) {
	v := &fakeVerifier{verified: false}
	r := NewRouter(v, zerolog.Nop())

	// A cached record moved the state machine, but no backend round trip
	// has confirmed it this lifecycle.
	r.Apply(session.ViewState{Kind: session.Authenticated, Role: models.RoleDoctor})

	if err := r.Enter(ScreenDoctorHome); !errors.Is(err, ErrNotVerified) {
		t.Fatalf("expected ErrNotVerified, got %v", err)
	}

	v.verified = true
	if err := r.Enter(ScreenDoctorHome); err != nil {
		t.Fatalf("verified session must pass: %v", err)
	}
}

func TestExpiredNoticeShownOnce(t *testing.T) {
	r := NewRouter(&fakeVerifier{verified: true}, zerolog.Nop())

	screen := r.Apply(session.ViewState{Kind: session.Expired})
	if screen != ScreenLogin {
		t.Fatalf("expected login screen, got %s", screen)
	}

	if n := r.Notice(); n == "" {
		t.Fatal("expected a one-time expiry notice")
	}
	if n := r.Notice(); n != "" {
		t.Fatalf("notice must be consumed, got %q", n)
	}
}

func TestPlainLogoutHasNoExpiryNotice(t *testing.T) {
	r := NewRouter(&fakeVerifier{verified: true}, zerolog.Nop())

	r.Apply(session.ViewState{Kind: session.Authenticated, Role: models.RolePatient})
	if screen := r.Logout(); screen != ScreenLanding {
		t.Fatalf("expected landing after logout, got %s", screen)
	}
	if n := r.Notice(); n != "" {
		t.Fatalf("logout must not carry an expiry notice, got %q", n)
	}
	if r.State() != Unauthenticated {
		t.Fatalf("expected unauthenticated state, got %s", r.State())
	}
}

func TestRetryOnlyFromUnreachable(t *testing.T) {
	r := NewRouter(&fakeVerifier{verified: true}, zerolog.Nop())

	if err := r.Enter(ScreenRetry); !errors.Is(err, ErrRetryNotReady) {
		t.Fatalf("retry must be rejected while booting, got %v", err)
	}

	screen := r.Apply(session.ViewState{Kind: session.Unreachable})
	if screen != ScreenRetry {
		t.Fatalf("expected retry screen, got %s", screen)
	}
	if r.State() != Retrying {
		t.Fatalf("expected retrying state, got %s", r.State())
	}
	if err := r.Enter(ScreenRetry); err != nil {
		t.Fatalf("retry must be reachable from retrying: %v", err)
	}

	// Login and landing stay reachable; nothing protected does.
	if err := r.Enter(ScreenLogin); err != nil {
		t.Fatalf("login must stay reachable: %v", err)
	}
	if err := r.Enter(ScreenPatientHome); err == nil {
		t.Fatal("protected subtree must not be reachable while retrying")
	}
}

func TestBootingIsInitialState(t *testing.T) {
	r := NewRouter(&fakeVerifier{}, zerolog.Nop())
	if r.State() != Booting {
		t.Fatalf("expected booting, got %s", r.State())
	}
}
