package session

import (
	"context"
	"sync"
)

// MemoryStore keeps the session record in process memory. It is the backend
// for tests and for ephemeral CLI invocations that must not leave a session
// on disk.
type MemoryStore struct {
	mu   sync.RWMutex
	cur  *Session
	data []byte
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save replaces the stored record.
func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.cur = s.clone()
	m.data = data
	return nil
}

// Read returns a copy of the stored record.
func (m *MemoryStore) Read(_ context.Context) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.data == nil {
		return nil, ErrAbsent
	}
	return Decode(m.data)
}

// Clear removes the stored record. Idempotent.
func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cur = nil
	m.data = nil
	return nil
}

// SetRaw stores an arbitrary byte payload under the session key, bypassing
// validation. Tests use it to stage malformed records.
func (m *MemoryStore) SetRaw(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cur = nil
	m.data = append([]byte(nil), data...)
}
