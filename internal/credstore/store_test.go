package credstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"dermalink/mobile/internal/config"
	"dermalink/mobile/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(config.StoreConfig{Dir: t.TempDir(), Secret: "test-secret"}, zerolog.Nop())
}

func testSession() models.Session {
	return models.Session{
		Token: "tok-abc",
		User: models.User{
			ID:        "u-1",
			Firstname: "Amira",
			Lastname:  "Ben Salah",
			Email:     "amira@example.com",
			Location:  "tunis",
			Role:      models.RolePatient,
		},
		DeviceID: "dev-1",
		CachedAt: time.Now().UTC(),
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save(testSession()); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil {
		t.Fatal("expected session, got nil")
	}
	if got.Token != "tok-abc" {
		t.Fatalf("expected token tok-abc, got %s", got.Token)
	}
	if got.User.Role != models.RolePatient {
		t.Fatalf("expected Patient role, got %s", got.User.Role)
	}
}

func TestLoadEmptyStore(t *testing.T) {
	s := newTestStore(t)

	got, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil session, got %+v", got)
	}
}

func TestSaveRejectsPartialSession(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save(models.Session{Token: "tok-only"}); !errors.Is(err, ErrIncompleteSession) {
		t.Fatalf("expected ErrIncompleteSession, got %v", err)
	}
	if err := s.Save(models.Session{User: models.User{ID: "u-1"}}); !errors.Is(err, ErrIncompleteSession) {
		t.Fatalf("expected ErrIncompleteSession, got %v", err)
	}
}

func TestCorruptFileReadsAsNoSession(t *testing.T) {
	s := newTestStore(t)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(s.path, []byte("not a sealed blob"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("load on corrupt file should not error, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil session, got %+v", got)
	}
}

func TestWrongSecretReadsAsNoSession(t *testing.T) {
	dir := t.TempDir()
	s1 := New(config.StoreConfig{Dir: dir, Secret: "secret-a"}, zerolog.Nop())
	if err := s1.Save(testSession()); err != nil {
		t.Fatalf("save: %v", err)
	}

	s2 := New(config.StoreConfig{Dir: dir, Secret: "secret-b"}, zerolog.Nop())
	got, err := s2.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != nil {
		t.Fatal("expected nil session under wrong secret")
	}
}

func TestStorageErrorIsNotNoSession(t *testing.T) {
	dir := t.TempDir()
	s := New(config.StoreConfig{Dir: dir, Secret: "x"}, zerolog.Nop())

	// Make the credential path unreadable by turning it into a directory.
	if err := os.MkdirAll(s.path, 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	_, err := s.Load()
	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatalf("expected StorageError, got %v", err)
	}
}

func TestClearIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(testSession()); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("first clear: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != nil {
		t.Fatal("expected empty store after clear")
	}
}

func TestPatchUserMerges(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(testSession()); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := s.PatchUser(map[string]any{"location": "sfax", "phone": "21612345"}); err != nil {
		t.Fatalf("patch: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.User.Location != "sfax" {
		t.Fatalf("expected patched location sfax, got %s", got.User.Location)
	}
	if got.User.Phone != "21612345" {
		t.Fatalf("expected patched phone, got %s", got.User.Phone)
	}
	if got.User.Firstname != "Amira" {
		t.Fatalf("untouched field clobbered: %s", got.User.Firstname)
	}
}

func TestPatchUserWithoutSession(t *testing.T) {
	s := newTestStore(t)
	if err := s.PatchUser(map[string]any{"location": "sfax"}); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestClearWinsOverPendingPatch(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(testSession()); err != nil {
		t.Fatalf("save: %v", err)
	}

	staged, err := s.stagePatch(map[string]any{"location": "sousse"})
	if err != nil {
		t.Fatalf("stage: %v", err)
	}

	// Logout lands while the patch is in flight.
	if err := s.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if err := s.commitPatch(staged); !errors.Is(err, ErrSessionCleared) {
		t.Fatalf("expected ErrSessionCleared, got %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != nil {
		t.Fatal("patch must not resurrect a cleared session")
	}
}
