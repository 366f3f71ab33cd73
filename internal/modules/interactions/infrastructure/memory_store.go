package infrastructure

import (
	"sync"

	"meishiClient/internal/modules/interactions/application/port"
	"meishiClient/internal/modules/interactions/domain"
)

type storeEntry struct {
	state domain.State
	busy  bool
}

type subscription struct {
	key string
	fn  port.Listener
}

// MemoryStore implements port.StateStore. Listeners run outside the lock, in the
// goroutine that made the change.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*storeEntry
	subs    map[uint64]subscription
	nextSub uint64
}

const allEntities = ""

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*storeEntry),
		subs:    make(map[uint64]subscription),
	}
}

func (s *MemoryStore) Get(ref domain.EntityRef) (domain.State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[ref.Key()]
	if !ok {
		return domain.State{}, false
	}
	return entry.state, true
}

func (s *MemoryStore) Seed(ref domain.EntityRef, state domain.State) bool {
	s.mu.Lock()
	entry := s.entryLocked(ref)
	if entry.busy {
		s.mu.Unlock()
		return false
	}
	changed := entry.state != state
	entry.state = state
	listeners := s.listenersLocked(ref.Key())
	s.mu.Unlock()

	if changed {
		notifyAll(listeners, ref, state)
	}
	return true
}

func (s *MemoryStore) Acquire(ref domain.EntityRef) (domain.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := s.entryLocked(ref)
	if entry.busy {
		return entry.state, domain.ErrBusy
	}
	entry.busy = true
	return entry.state, nil
}

func (s *MemoryStore) Set(ref domain.EntityRef, state domain.State) {
	s.mu.Lock()
	entry := s.entryLocked(ref)
	changed := entry.state != state
	entry.state = state
	listeners := s.listenersLocked(ref.Key())
	s.mu.Unlock()

	if changed {
		notifyAll(listeners, ref, state)
	}
}

func (s *MemoryStore) Release(ref domain.EntityRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.entries[ref.Key()]; ok {
		entry.busy = false
	}
}

// Busy reports whether a toggle for ref is in flight.
func (s *MemoryStore) Busy(ref domain.EntityRef) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[ref.Key()]
	return ok && entry.busy
}

func (s *MemoryStore) Subscribe(ref domain.EntityRef, fn port.Listener) func() {
	return s.subscribe(ref.Key(), fn)
}

func (s *MemoryStore) SubscribeAll(fn port.Listener) func() {
	return s.subscribe(allEntities, fn)
}

func (s *MemoryStore) subscribe(key string, fn port.Listener) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	s.nextSub++
	id := s.nextSub
	s.subs[id] = subscription{key: key, fn: fn}
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func (s *MemoryStore) entryLocked(ref domain.EntityRef) *storeEntry {
	key := ref.Key()
	entry, ok := s.entries[key]
	if !ok {
		entry = &storeEntry{}
		s.entries[key] = entry
	}
	return entry
}

func (s *MemoryStore) listenersLocked(key string) []port.Listener {
	listeners := make([]port.Listener, 0, len(s.subs))
	for _, sub := range s.subs {
		if sub.key == key || sub.key == allEntities {
			listeners = append(listeners, sub.fn)
		}
	}
	return listeners
}

func notifyAll(listeners []port.Listener, ref domain.EntityRef, state domain.State) {
	for _, fn := range listeners {
		fn(ref, state)
	}
}
