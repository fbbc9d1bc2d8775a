package liststate

import (
	"sync"
	"time"
)

// Registry keeps one workspace per browser session and forgets workspaces
// that have not been touched for ttl.
type Registry[W any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	factory func() W
	entries map[string]*registryEntry[W]
	now     func() time.Time
}

type registryEntry[W any] struct {
	workspace W
	lastSeen  time.Time
}

func NewRegistry[W any](ttl time.Duration, factory func() W) *Registry[W] {
	return &Registry[W]{
		ttl:     ttl,
		factory: factory,
		entries: make(map[string]*registryEntry[W]),
		now:     time.Now,
	}
}

func (r *Registry[W]) Get(key string) W {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweep(now)

	entry, ok := r.entries[key]
	if !ok {
		entry = &registryEntry[W]{workspace: r.factory()}
		r.entries[key] = entry
	}
	entry.lastSeen = now
	return entry.workspace
}

func (r *Registry[W]) Drop(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, key)
}

func (r *Registry[W]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry[W]) sweep(now time.Time) {
	if r.ttl <= 0 {
		return
	}
	for key, entry := range r.entries {
		if now.Sub(entry.lastSeen) > r.ttl {
			delete(r.entries, key)
		}
	}
}
