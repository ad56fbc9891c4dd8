// Package credstore is the single durable home of the session record. No
// other package touches persistence; screens and commands go through the
// resolver, which goes through here.
package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog"

	"dermalink/mobile/internal/config"
	"dermalink/mobile/internal/models"
	"dermalink/mobile/internal/security"
)

const credentialFile = "credentials.bin"

var (
	ErrNoSession         = errors.New("no session")
	ErrIncompleteSession = errors.New("incomplete session")
	ErrSessionCleared    = errors.New("session cleared while patch pending")
)

// StorageError marks a persistence-layer failure. Callers must surface it as
// "try again"; it is never the same thing as an absent session.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("credential store %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

type Store struct {
	path   string
	secret string
	log    zerolog.Logger

	mu  sync.Mutex
	gen uint64 // bumped by Clear; fences pending patches
}

func New(cfg config.StoreConfig, logger zerolog.Logger) *Store {
	secret := cfg.Secret
	if secret == "" {
		// Stand-in for the platform keychain entry on installs that have
		// not provisioned one.
		secret = "dermalink-device"
	}
	return &Store{
		path:   filepath.Join(cfg.Dir, credentialFile),
		secret: secret,
		log:    logger,
	}
}

// Load returns the saved session, or nil when nothing usable is on disk.
// A corrupt or partial record reads as "no session"; only an actual I/O
// failure comes back as a StorageError.
func (s *Store) Load() (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() (*models.Session, error) {
	blob, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, &StorageError{Op: "load", Err: err}
	}

	plaintext, err := security.Open(blob, s.secret)
	if err != nil {
		s.log.Warn().Err(err).Msg("credential file unreadable, treating as no session")
		return nil, nil
	}

	var sess models.Session
	if err := json.Unmarshal(plaintext, &sess); err != nil {
		s.log.Warn().Err(err).Msg("credential record malformed, treating as no session")
		return nil, nil
	}

	if !sess.Complete() {
		// Token without user or vice versa never leaves this package.
		return nil, nil
	}
	return &sess, nil
}

// Save persists the full record in one atomic write. A reader never sees a
// token without its user.
func (s *Store) Save(sess models.Session) error {
	if !sess.Complete() {
		return ErrIncompleteSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(sess)
}

func (s *Store) writeLocked(sess models.Session) error {
	plaintext, err := json.Marshal(sess)
	if err != nil {
		return &StorageError{Op: "save", Err: err}
	}

	blob, err := security.Seal(plaintext, s.secret)
	if err != nil {
		return &StorageError{Op: "save", Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return &StorageError{Op: "save", Err: err}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o600); err != nil {
		return &StorageError{Op: "save", Err: err}
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return &StorageError{Op: "save", Err: err}
	}
	return nil
}

// Clear removes the record. Clearing an empty store is not an error, and any
// patch staged before the clear will refuse to commit afterwards.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &StorageError{Op: "clear", Err: err}
	}
	return nil
}

// PatchUser merges a partial field set (json-tag keys, e.g. "firstname",
// "location") into the cached user and re-persists. The caller feeds it the
// backend's authoritative response, not a local guess.
func (s *Store) PatchUser(fields map[string]any) error {
	p, err := s.stagePatch(fields)
	if err != nil {
		return err
	}
	return s.commitPatch(p)
}

type stagedPatch struct {
	sess models.Session
	gen  uint64
}

func (s *Store) stagePatch(fields map[string]any) (*stagedPatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.loadLocked()
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrNoSession
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &sess.User,
	})
	if err != nil {
		return nil, fmt.Errorf("build patch decoder: %w", err)
	}
	if err := dec.Decode(fields); err != nil {
		return nil, fmt.Errorf("apply patch fields: %w", err)
	}

	return &stagedPatch{sess: *sess, gen: s.gen}, nil
}

func (s *Store) commitPatch(p *stagedPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.gen != s.gen {
		// A logout raced the patch; the clear wins and the patch is dropped
		// rather than resurrecting a session.
		return ErrSessionCleared
	}
	return s.writeLocked(p.sess)
}

// Touch refreshes CachedAt after a successful backend verification.
func (s *Store) Touch(sess models.Session) error {
	sess.CachedAt = time.Now().UTC()
	return s.Save(sess)
}
