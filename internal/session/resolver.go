// Package session decides, from the credential store and one backend round
// trip, what the user is allowed to see. Its four outcomes are values, not
// errors; the router consumes them exhaustively.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"dermalink/mobile/internal/api"
	"dermalink/mobile/internal/credstore"
	"dermalink/mobile/internal/models"
	"dermalink/mobile/internal/security"
)

type Kind int

const (
	Unauthenticated Kind = iota
	Authenticated
	Expired
	Unreachable
)

func (k Kind) String() string {
	switch k {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	case Expired:
		return "expired"
	case Unreachable:
		return "unreachable"
	}
	return "unknown"
}

// ViewState is the resolver's authoritative classification of the current
// session. Role and User are set only when Kind is Authenticated.
type ViewState struct {
	Kind Kind
	Role models.Role
	User models.User
}

type Resolver struct {
	store   *credstore.Store
	api     *api.Client
	log     zerolog.Logger
	timeout time.Duration

	group    singleflight.Group
	verified atomic.Bool
}

func New(store *credstore.Store, client *api.Client, timeout time.Duration, logger zerolog.Logger) *Resolver {
	return &Resolver{
		store:   store,
		api:     client,
		log:     logger,
		timeout: timeout,
	}
}

// Resolve classifies the current session with at most one verification round
// trip. Concurrent calls coalesce onto a single in-flight verification and
// share its result. If the caller's context dies first, the verification
// still completes and its outcome still reaches the store; only this caller
// stops waiting.
func (r *Resolver) Resolve(ctx context.Context) (ViewState, error) {
	ch := r.group.DoChan("resolve", func() (any, error) {
		vs, err := r.resolveOnce()
		return vs, err
	})

	select {
	case <-ctx.Done():
		return ViewState{Kind: Unreachable}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return ViewState{}, res.Err
		}
		return res.Val.(ViewState), nil
	}
}

func (r *Resolver) resolveOnce() (ViewState, error) {
	sess, err := r.store.Load()
	if err != nil {
		// StorageError: neither logout nor access; surfaced as "try again".
		return ViewState{}, err
	}
	if sess == nil {
		return ViewState{Kind: Unauthenticated}, nil
	}

	if exp, ok := security.ExpiryHint(sess.Token); ok && exp.Before(time.Now()) {
		r.log.Debug().Time("exp", exp).Msg("stored token past embedded expiry, verifying anyway")
	}

	// The round trip runs on its own budget, detached from whichever screen
	// happened to trigger it.
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	user, err := r.api.Verify(ctx, sess.Token)
	switch {
	case err == nil:
	case errors.Is(err, api.ErrAuthExpired), errors.Is(err, api.ErrAuthInvalid):
		if cerr := r.store.Clear(); cerr != nil {
			r.log.Error().Err(cerr).Msg("clear after auth rejection failed")
		}
		return ViewState{Kind: Expired}, nil
	default:
		// Timeout, 5xx, malformed body, no connectivity: the session is
		// neither confirmed nor denied, and the store stays untouched.
		r.log.Warn().Err(err).Msg("verification unreachable")
		return ViewState{Kind: Unreachable}, nil
	}

	if !user.Role.Valid() {
		// A verified response with a role outside the closed enumeration is
		// never granted access.
		r.log.Warn().Str("role", string(user.Role)).Msg("verification returned unknown role")
		if cerr := r.store.Clear(); cerr != nil {
			r.log.Error().Err(cerr).Msg("clear after role mismatch failed")
		}
		return ViewState{Kind: Expired}, nil
	}

	refreshed := *sess
	refreshed.User = user
	if err := r.store.Touch(refreshed); err != nil {
		// Access is already confirmed by the backend; a failed cache refresh
		// is logged, not turned into a denial.
		r.log.Error().Err(err).Msg("refresh credential cache failed")
	}

	r.verified.Store(true)
	return ViewState{Kind: Authenticated, Role: user.Role, User: user}, nil
}

// VerifiedOnce reports whether this process has confirmed a session against
// the backend at least once. The router refuses protected subtrees until it
// has: a locally cached record alone is necessary but not sufficient.
func (r *Resolver) VerifiedOnce() bool {
	return r.verified.Load()
}

// Login trades credentials for a fresh session and persists it atomically.
func (r *Resolver) Login(ctx context.Context, email, password string) (ViewState, error) {
	resp, err := r.api.Login(ctx, email, password)
	if err != nil {
		return ViewState{}, err
	}
	return r.adoptSession(resp)
}

// LoginQR performs the QR-code session exchange; the handed-off session goes
// through the same role gate as a password login.
func (r *Resolver) LoginQR(ctx context.Context, code string) (ViewState, error) {
	resp, err := r.api.ExchangeQR(ctx, code)
	if err != nil {
		return ViewState{}, err
	}
	return r.adoptSession(resp)
}

func (r *Resolver) adoptSession(resp api.AuthResponse) (ViewState, error) {
	user := resp.User
	if user.Role == "" {
		// Legacy responses carry the role only in the top-level field.
		user.Role = models.Role(resp.Type)
	}
	if _, err := models.ParseRole(string(user.Role)); err != nil {
		return ViewState{}, api.ErrAuthInvalid
	}
	if resp.Token == "" || user.ID == "" {
		return ViewState{}, api.ErrAuthInvalid
	}

	sess := models.Session{
		Token:    resp.Token,
		User:     user,
		DeviceID: uuid.NewString(),
		CachedAt: time.Now().UTC(),
	}
	if err := r.store.Save(sess); err != nil {
		return ViewState{}, err
	}

	r.verified.Store(true)
	return ViewState{Kind: Authenticated, Role: user.Role, User: user}, nil
}

// Logout invalidates the token server-side on a best-effort basis and always
// clears the local store; a flaky backend never blocks local logout.
func (r *Resolver) Logout(ctx context.Context) error {
	sess, err := r.store.Load()
	if err != nil {
		return err
	}
	if sess != nil {
		if err := r.api.SignOut(ctx, sess.Token); err != nil {
			r.log.Warn().Err(err).Msg("server-side sign out failed, clearing locally anyway")
		}
	}
	return r.store.Clear()
}

// SyncProfile pushes profile changes to the backend and reconciles the local
// cache from the backend's authoritative response, not the local guess.
func (r *Resolver) SyncProfile(ctx context.Context, fields map[string]string, avatar *api.Attachment) (models.User, error) {
	sess, err := r.store.Load()
	if err != nil {
		return models.User{}, err
	}
	if sess == nil {
		return models.User{}, credstore.ErrNoSession
	}

	user, err := r.api.UpdateSettings(ctx, sess.Token, fields, avatar)
	if err != nil {
		return models.User{}, err
	}

	patch, err := userAsPatch(user)
	if err != nil {
		return models.User{}, err
	}
	if err := r.store.PatchUser(patch); err != nil {
		if errors.Is(err, credstore.ErrSessionCleared) || errors.Is(err, credstore.ErrNoSession) {
			// Logged out mid-flight; the clear wins.
			return user, nil
		}
		return models.User{}, err
	}
	return user, nil
}

func userAsPatch(user models.User) (map[string]any, error) {
	raw, err := json.Marshal(user)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
