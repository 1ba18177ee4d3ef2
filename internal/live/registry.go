package live

import "sync"

// Registry tracks open subscriptions by ID so they can be stopped from
// outside the goroutine that opened them, e.g. on server shutdown.
type Registry struct {
	mu   sync.RWMutex
	subs map[string]*Subscription
}

func NewRegistry() *Registry {
	return &Registry{subs: make(map[string]*Subscription)}
}

// Register stores a subscription under id, replacing any previous entry.
func (r *Registry) Register(id string, sub *Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs[id] = sub
}

// Stop stops and forgets the subscription for id.
// Returns true if it was registered.
func (r *Registry) Stop(id string) bool {
	r.mu.Lock()
	sub, ok := r.subs[id]
	delete(r.subs, id)
	r.mu.Unlock()
	if ok {
		sub.Stop()
	}
	return ok
}

// StopAll stops every registered subscription and empties the registry.
func (r *Registry) StopAll() {
	r.mu.Lock()
	subs := r.subs
	r.subs = make(map[string]*Subscription)
	r.mu.Unlock()

	for _, sub := range subs {
		sub.Stop()
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}
