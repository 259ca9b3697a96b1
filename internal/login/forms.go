package login

import (
	"sync"
	"time"
)

// Form groups everything one visitor's login page owns.
type Form struct {
	Password *Flow
	OAuth    *OAuthFlow
	Toasts   *Toasts

	lastSeen time.Time
}

// DefaultFormLimit bounds how many forms are kept at once.
const DefaultFormLimit = 10_000

// Forms keeps a Form per visitor key (the session id) and forgets forms that have
// been idle longer than the TTL. Past the limit, creating a form evicts the least
// recently seen idle one.
type Forms struct {
	submitter Submitter
	initiator Initiator
	ttl       time.Duration
	limit     int
	now       func() time.Time

	mu        sync.Mutex
	items     map[string]*Form
	lastSweep time.Time
}

func NewForms(submitter Submitter, initiator Initiator, ttl time.Duration) *Forms {
	return &Forms{
		submitter: submitter,
		initiator: initiator,
		ttl:       ttl,
		limit:     DefaultFormLimit,
		now:       time.Now,
		items:     make(map[string]*Form),
	}
}

// Get returns the visitor's form, creating it on first use.
func (fs *Forms) Get(key string) *Form {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	now := fs.now()
	fs.sweepLocked(now)

	f, ok := fs.items[key]
	if !ok {
		if fs.limit > 0 && len(fs.items) >= fs.limit {
			fs.evictLocked(now)
		}
		toasts := &Toasts{}
		f = &Form{
			Password: NewFlow(fs.submitter, toasts),
			OAuth:    NewOAuthFlow(fs.initiator, toasts),
			Toasts:   toasts,
		}
		fs.items[key] = f
	}
	f.lastSeen = now
	return f
}

// SetLimit changes the form limit; zero or less means unbounded.
func (fs *Forms) SetLimit(limit int) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.limit = limit
}

// Peek returns the visitor's form without creating one.
func (fs *Forms) Peek(key string) (*Form, bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	f, ok := fs.items[key]
	if ok && fs.expired(f, fs.now()) {
		delete(fs.items, key)
		return nil, false
	}
	return f, ok
}

// Move re-keys a form, used when the session id rotates after login.
func (fs *Forms) Move(from, to string) {
	if from == to {
		return
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if f, ok := fs.items[from]; ok {
		delete(fs.items, from)
		fs.items[to] = f
	}
}

func (fs *Forms) Forget(key string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	delete(fs.items, key)
}

func (fs *Forms) Len() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return len(fs.items)
}

func (fs *Forms) expired(f *Form, now time.Time) bool {
	return fs.ttl > 0 && now.Sub(f.lastSeen) > fs.ttl && idle(f)
}

func idle(f *Form) bool {
	return f.Password.State() == Editing && f.OAuth.State() != Pending
}

// evictLocked drops expired forms, then the least recently seen idle form if
// nothing expired. Busy forms are never evicted.
func (fs *Forms) evictLocked(now time.Time) {
	before := len(fs.items)
	fs.lastSweep = time.Time{}
	fs.sweepLocked(now)
	if len(fs.items) < before {
		return
	}

	var oldestKey string
	var oldest *Form
	for key, f := range fs.items {
		if idle(f) && (oldest == nil || f.lastSeen.Before(oldest.lastSeen)) {
			oldestKey, oldest = key, f
		}
	}
	if oldest != nil {
		delete(fs.items, oldestKey)
	}
}

// sweepLocked drops idle forms at most once per minute.
func (fs *Forms) sweepLocked(now time.Time) {
	if fs.ttl <= 0 || now.Sub(fs.lastSweep) < time.Minute {
		return
	}
	fs.lastSweep = now
	for key, f := range fs.items {
		if fs.expired(f, now) {
			delete(fs.items, key)
		}
	}
}
