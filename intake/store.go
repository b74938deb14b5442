package intake

import (
	"context"
	"sync"
)

type sessionKeyContext struct{}

const defaultSessionKey = "default"

// WithSessionKey sets the routing key used by session stores; one key per
// conversation.
func WithSessionKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, sessionKeyContext{}, key)
}

// SessionKeyFromContext returns the routing key set on the context.
func SessionKeyFromContext(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(sessionKeyContext{}).(string)
	return key, ok && key != ""
}

func sessionKeyOrDefault(ctx context.Context) string {
	if key, ok := SessionKeyFromContext(ctx); ok {
		return key
	}
	return defaultSessionKey
}

// SessionStore persists in-flight sessions between turns, routed by the
// context session key.
type SessionStore interface {
	Read(ctx context.Context) (*Session, bool, error)
	Write(ctx context.Context, s *Session) error
	Remove(ctx context.Context) error
}

// MemorySessionStore keeps sessions in process memory, for tests and
// single-process hosts.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: map[string]*Session{}}
}

func (m *MemorySessionStore) Read(ctx context.Context) (*Session, bool, error) {
	m.mu.RLock()
	s, ok := m.sessions[sessionKeyOrDefault(ctx)]
	m.mu.RUnlock()
	return s, ok, nil
}

func (m *MemorySessionStore) Write(ctx context.Context, s *Session) error {
	m.mu.Lock()
	m.sessions[sessionKeyOrDefault(ctx)] = s
	m.mu.Unlock()
	return nil
}

func (m *MemorySessionStore) Remove(ctx context.Context) error {
	m.mu.Lock()
	delete(m.sessions, sessionKeyOrDefault(ctx))
	m.mu.Unlock()
	return nil
}

var _ SessionStore = (*MemorySessionStore)(nil)
