package cli

import (
	"context"
	"testing"
	"time"

	"github.com/eslkit/minew-go/pkg/kv"
)

func newTestSessionCache(t *testing.T) *SessionCache {
	t.Helper()
	store := kv.NewMemory(nil)
	t.Cleanup(func() { store.Close() })
	return NewSessionCache(store)
}

func TestSessionCache_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	cache := newTestSessionCache(t)

	err := cache.Save(ctx, "production", &Session{
		Token:    "tok-123",
		Username: "alice",
		BaseURL:  "https://esl.example.com/apis",
	})
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}

	sess, err := cache.Load(ctx, "production")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if sess == nil {
		t.Fatal("Load returned nil session")
	}
	if sess.Token != "tok-123" {
		t.Errorf("Token = %q, want %q", sess.Token, "tok-123")
	}
	if sess.Username != "alice" {
		t.Errorf("Username = %q, want %q", sess.Username, "alice")
	}
	if sess.SavedAt.IsZero() {
		t.Error("SavedAt should be stamped by Save")
	}
}

func TestSessionCache_LoadMissing(t *testing.T) {
	ctx := context.Background()
	cache := newTestSessionCache(t)

	sess, err := cache.Load(ctx, "nonexistent")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if sess != nil {
		t.Errorf("Load of missing session = %+v, want nil", sess)
	}
}

func TestSessionCache_LoadCorrupt(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory(nil)
	t.Cleanup(func() { store.Close() })
	cache := NewSessionCache(store)

	// Not valid msgpack for a Session.
	if err := store.Set(ctx, kv.Key{"session", "broken"}, []byte("garbage"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	sess, err := cache.Load(ctx, "broken")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if sess != nil {
		t.Errorf("Load of corrupt session = %+v, want nil", sess)
	}

	// The corrupt entry should have been cleared.
	if _, err := store.Get(ctx, kv.Key{"session", "broken"}); err != kv.ErrNotFound {
		t.Errorf("Get after corrupt load = %v, want ErrNotFound", err)
	}
}

func TestSessionCache_Drop(t *testing.T) {
	ctx := context.Background()
	cache := newTestSessionCache(t)

	cache.Save(ctx, "staging", &Session{Token: "tok"})

	if err := cache.Drop(ctx, "staging"); err != nil {
		t.Fatalf("Drop error: %v", err)
	}

	sess, err := cache.Load(ctx, "staging")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if sess != nil {
		t.Error("session should be gone after Drop")
	}

	// Dropping again is not an error.
	if err := cache.Drop(ctx, "staging"); err != nil {
		t.Errorf("second Drop error: %v", err)
	}
}

func TestSessionCache_DropAll(t *testing.T) {
	ctx := context.Background()
	cache := newTestSessionCache(t)

	cache.Save(ctx, "production", &Session{Token: "t1"})
	cache.Save(ctx, "staging", &Session{Token: "t2"})
	cache.Save(ctx, "dev", &Session{Token: "t3"})

	n, err := cache.DropAll(ctx)
	if err != nil {
		t.Fatalf("DropAll error: %v", err)
	}
	if n != 3 {
		t.Errorf("DropAll cleared %d sessions, want 3", n)
	}

	for _, name := range []string{"production", "staging", "dev"} {
		sess, err := cache.Load(ctx, name)
		if err != nil {
			t.Fatalf("Load(%s) error: %v", name, err)
		}
		if sess != nil {
			t.Errorf("session %q should be gone", name)
		}
	}

	// Empty cache clears nothing.
	n, err = cache.DropAll(ctx)
	if err != nil {
		t.Fatalf("DropAll on empty cache error: %v", err)
	}
	if n != 0 {
		t.Errorf("DropAll on empty cache = %d, want 0", n)
	}
}

func TestSessionCache_Expiry(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory(nil)
	t.Cleanup(func() { store.Close() })
	cache := NewSessionCache(store)

	base := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return base })

	if err := cache.Save(ctx, "production", &Session{Token: "tok"}); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	// Just inside the TTL the session is still there.
	store.SetClock(func() time.Time { return base.Add(SessionTTL - time.Minute) })
	sess, err := cache.Load(ctx, "production")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if sess == nil {
		t.Fatal("session should survive inside the TTL")
	}

	// Past the TTL it reads as absent.
	store.SetClock(func() time.Time { return base.Add(SessionTTL + time.Minute) })
	sess, err = cache.Load(ctx, "production")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if sess != nil {
		t.Error("session should expire past the TTL")
	}
}

func TestSession_Matches(t *testing.T) {
	sess := &Session{
		Token:    "tok",
		Username: "alice",
		BaseURL:  "https://esl.example.com/apis",
	}

	if !sess.Matches("alice", "https://esl.example.com/apis") {
		t.Error("Matches should accept the original account and endpoint")
	}
	if sess.Matches("bob", "https://esl.example.com/apis") {
		t.Error("Matches should reject a different username")
	}
	if sess.Matches("alice", "https://other.example.com/apis") {
		t.Error("Matches should reject a different base URL")
	}

	var nilSess *Session
	if nilSess.Matches("alice", "x") {
		t.Error("nil session should not match")
	}
}
