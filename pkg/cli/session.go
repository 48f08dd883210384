package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/eslkit/minew-go/pkg/kv"
)

// SessionTTL is how long a cached login token is kept before the CLI
// logs in again.
const SessionTTL = 12 * time.Hour

// Session is a cached platform login for a named context.
type Session struct {
	Token    string    `msgpack:"token"`
	Username string    `msgpack:"username"`
	BaseURL  string    `msgpack:"base_url"`
	SavedAt  time.Time `msgpack:"saved_at"`
}

// Matches reports whether the session was created for the given account
// and endpoint. A session saved for different credentials is stale.
func (s *Session) Matches(username, baseURL string) bool {
	return s != nil && s.Username == username && s.BaseURL == baseURL
}

// SessionCache persists sessions in a kv store so separate CLI
// invocations reuse one login.
type SessionCache struct {
	store kv.Store
}

// OpenSessionCache opens the on-disk session cache at dir.
func OpenSessionCache(dir string) (*SessionCache, error) {
	store, err := kv.NewBadger(kv.BadgerOptions{Dir: dir})
	if err != nil {
		return nil, fmt.Errorf("failed to open session cache: %w", err)
	}
	return &SessionCache{store: store}, nil
}

// NewSessionCache wraps an existing store.
func NewSessionCache(store kv.Store) *SessionCache {
	return &SessionCache{store: store}
}

func sessionKey(name string) kv.Key {
	return kv.Key{"session", name}
}

// Load returns the cached session for a context, or nil if there is none.
// A corrupt entry is cleared and treated as absent.
func (c *SessionCache) Load(ctx context.Context, name string) (*Session, error) {
	data, err := c.store.Get(ctx, sessionKey(name))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s Session
	if err := msgpack.Unmarshal(data, &s); err != nil {
		_ = c.store.Delete(ctx, sessionKey(name))
		return nil, nil
	}
	return &s, nil
}

// Save stores a session for a context, stamping SavedAt.
func (c *SessionCache) Save(ctx context.Context, name string, s *Session) error {
	s.SavedAt = time.Now()
	data, err := msgpack.Marshal(s)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, sessionKey(name), data, SessionTTL)
}

// Drop removes the cached session for a context.
func (c *SessionCache) Drop(ctx context.Context, name string) error {
	return c.store.Delete(ctx, sessionKey(name))
}

// DropAll removes cached sessions for every context and returns how
// many were cleared.
func (c *SessionCache) DropAll(ctx context.Context) (int, error) {
	var keys []kv.Key
	for entry, err := range c.store.List(ctx, kv.Key{"session"}) {
		if err != nil {
			return 0, err
		}
		keys = append(keys, entry.Key)
	}
	if len(keys) == 0 {
		return 0, nil
	}
	if err := c.store.BatchDelete(ctx, keys); err != nil {
		return 0, err
	}
	return len(keys), nil
}

// Close releases the underlying store.
func (c *SessionCache) Close() error {
	return c.store.Close()
}
