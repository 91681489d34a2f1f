package session

import "sync"

type EventKind int

const (
	EventLoggedIn EventKind = iota + 1
	EventLoggedOut
	// EventEvicted follows a reconciliation that rejected the credential.
	EventEvicted
)

func (k EventKind) String() string {
	switch k {
	case EventLoggedIn:
		return "logged-in"
	case EventLoggedOut:
		return "logged-out"
	case EventEvicted:
		return "evicted"
	default:
		return "unknown"
	}
}

// Event tells a subscriber that the authentication state changed. Handlers
// are expected to re-read the state with Snapshot.
type Event struct {
	Kind EventKind
}

type Handler func(Event)

type subscription struct {
	id uint64
	fn Handler
}

type subscribers struct {
	mu     sync.Mutex
	nextID uint64
	list   []subscription
}

func (s *subscribers) add(fn Handler) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.list = append(s.list, subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *subscribers) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.list {
		if sub.id == id {
			s.list = append(s.list[:i:i], s.list[i+1:]...)
			return
		}
	}
}

// notify calls every handler in registration order on the caller's
// goroutine. The list is copied first, so handlers may subscribe or
// unsubscribe.
func (s *subscribers) notify(ev Event) {
	s.mu.Lock()
	list := make([]subscription, len(s.list))
	copy(list, s.list)
	s.mu.Unlock()

	for _, sub := range list {
		sub.fn(ev)
	}
}
