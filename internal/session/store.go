package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"kairos-voice/internal/directory"
	"kairos-voice/internal/llm"
)

// CallSession is the per-call state container, keyed by the call identifier
// the webhook callbacks carry.
//
// Invariants:
// - Messages[0] is the system context message and is never rewritten.
// - Services is fixed for the session lifetime (fetched once at creation).
// - Messages is append-only; order is conversation order.
type CallSession struct {
	BusinessID   string
	BusinessName string

	// CustomerID may be empty when the directory write failed at initiation;
	// the call proceeds without it.
	CustomerID    string
	CustomerName  string
	CustomerPhone string

	Services []directory.Service
	Messages []llm.Message
}

var (
	ErrNotFound = errors.New("session: not found")
	ErrExists   = errors.New("session: already exists")
)

type entry struct {
	// mu serializes all mutations of one session so concurrent turns for the
	// same call can never interleave message appends.
	mu        sync.Mutex
	s         CallSession
	lastTouch time.Time
}

// Store holds all live call sessions in process memory. A restart loses
// them, which the telephony provider surfaces as a dropped call.
//
// Per-key operations are serialized; operations on different keys never
// block each other beyond the brief map access.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*entry

	idleTTL time.Duration
	clock   func() time.Time
}

// NewStore creates an empty store. Sessions untouched for idleTTL become
// eligible for eviction by Sweep.
func NewStore(idleTTL time.Duration) *Store {
	if idleTTL <= 0 {
		idleTTL = 30 * time.Minute
	}
	return &Store{
		sessions: make(map[string]*entry),
		idleTTL:  idleTTL,
		clock:    time.Now,
	}
}

// Create registers a new session under id. Exactly one session may exist per
// live call identifier.
func (st *Store) Create(id string, s CallSession) error {
	if id == "" {
		return errors.New("session: id is required")
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; ok {
		return ErrExists
	}
	st.sessions[id] = &entry{s: cloneSession(s), lastTouch: st.clock()}
	return nil
}

// Get returns a copy of the session. Mutating the returned value does not
// affect the stored session; use Mutate for that.
func (st *Store) Get(id string) (CallSession, error) {
	e, ok := st.lookup(id)
	if !ok {
		return CallSession{}, ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastTouch = st.clock()
	return cloneSession(e.s), nil
}

// Mutate applies fn to the stored session under the session's own lock.
// Calls for the same id are linearized; different ids proceed in parallel.
func (st *Store) Mutate(id string, fn func(*CallSession)) error {
	e, ok := st.lookup(id)
	if !ok {
		return ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.s)
	e.lastTouch = st.clock()
	return nil
}

// Delete removes the session. Deleting an unknown id is a no-op.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep evicts sessions idle longer than the store's TTL and reports how
// many were removed. Abandoned calls (caller stopped responding, provider
// never posted again) are reclaimed here.
func (st *Store) Sweep() int {
	now := st.clock()
	st.mu.Lock()
	defer st.mu.Unlock()

	n := 0
	for id, e := range st.sessions {
		e.mu.Lock()
		idle := now.Sub(e.lastTouch)
		e.mu.Unlock()
		if idle >= st.idleTTL {
			delete(st.sessions, id)
			n++
		}
	}
	return n
}

// RunSweeper periodically calls Sweep until ctx is canceled.
func (st *Store) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = st.idleTTL / 4
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			st.Sweep()
		}
	}
}

func (st *Store) lookup(id string) (*entry, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	e, ok := st.sessions[id]
	return e, ok
}

func cloneSession(s CallSession) CallSession {
	out := s
	out.Services = append([]directory.Service(nil), s.Services...)
	out.Messages = append([]llm.Message(nil), s.Messages...)
	return out
}
