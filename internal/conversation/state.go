package conversation

import (
	"context"
	"sync"
	"time"
)

// State is the short-lived dialog state kept per phone number between
// messages. It only disambiguates the very next inbound message; every
// durable fact lives in the appointment store.
type State string

const (
	// StateIdle means no question is pending for this phone.
	StateIdle State = ""
	// StateAwaitingCancelConfirmation means the bot asked "deseja CANCELAR?"
	// and is waiting for a yes/no.
	StateAwaitingCancelConfirmation State = "awaiting_cancel_confirmation"
	// StateAwaitingLink means the bot offered the booking link and is
	// waiting for a yes/no.
	StateAwaitingLink State = "awaiting_link"
)

// StateStore holds conversation state keyed by normalized phone number.
type StateStore interface {
	Get(ctx context.Context, phone string) (State, error)
	Set(ctx context.Context, phone string, state State) error
	Clear(ctx context.Context, phone string) error
}

// MemoryStateStore is an in-process StateStore with per-entry expiry.
// Suitable for a single instance; use the Redis store when running more
// than one replica.
type MemoryStateStore struct {
	mu      sync.Mutex
	entries map[string]memoryStateEntry
	ttl     time.Duration
	now     func() time.Time
}

type memoryStateEntry struct {
	state     State
	expiresAt time.Time
}

// NewMemoryStateStore creates an in-memory state store. A zero ttl means
// entries never expire.
func NewMemoryStateStore(ttl time.Duration) *MemoryStateStore {
	return &MemoryStateStore{
		entries: make(map[string]memoryStateEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the state for a phone, or StateIdle when nothing is stored
// or the entry has expired.
func (s *MemoryStateStore) Get(_ context.Context, phone string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[phone]
	if !ok {
		return StateIdle, nil
	}
	if !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt) {
		delete(s.entries, phone)
		return StateIdle, nil
	}
	return entry.state, nil
}

// Set stores the state for a phone. Setting StateIdle clears the entry.
func (s *MemoryStateStore) Set(_ context.Context, phone string, state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state == StateIdle {
		delete(s.entries, phone)
		return nil
	}
	entry := memoryStateEntry{state: state}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}
	s.entries[phone] = entry
	return nil
}

// Clear removes any stored state for a phone.
func (s *MemoryStateStore) Clear(_ context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, phone)
	return nil
}

var _ StateStore = (*MemoryStateStore)(nil)

// keyedMutex serializes message handling per phone number so two messages
// from the same sender can't interleave their read-decide-write cycle.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
