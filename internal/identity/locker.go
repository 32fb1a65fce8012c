package identity

import (
	"sort"
	"sync"
)

// Locker serializes work per identity key. Locking Keys{a, p} holds both
// the email and the phone slot, so two documents that share either key
// never resolve-and-store at the same time.
type Locker struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	mu   sync.Mutex
	refs int
}

func NewLocker() *Locker {
	return &Locker{slots: make(map[string]*slot)}
}

// Lock blocks until every non-empty key in k is held and returns the
// matching unlock func.
func (l *Locker) Lock(k Keys) (unlock func()) {
	names := slotNames(k)
	held := make([]*slot, 0, len(names))
	for _, name := range names {
		s := l.acquire(name)
		s.mu.Lock()
		held = append(held, s)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].mu.Unlock()
			l.release(names[i])
		}
	}
}

func (l *Locker) acquire(name string) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[name]
	if !ok {
		s = &slot{}
		l.slots[name] = s
	}
	s.refs++
	return s
}

func (l *Locker) release(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.slots[name]
	s.refs--
	if s.refs == 0 {
		delete(l.slots, name)
	}
}

// slotNames is sorted so concurrent callers acquire in the same order.
func slotNames(k Keys) []string {
	var names []string
	if k.Email != "" {
		names = append(names, emailKey+":"+k.Email)
	}
	if k.Phone != "" {
		names = append(names, phoneKey+":"+k.Phone)
	}
	sort.Strings(names)
	return names
}
