package whatsapp

import (
	"sort"
	"sync"
)

// SubscriberRegistry tracks which WhatsApp users receive the daily digest.
type SubscriberRegistry struct {
	subscribers map[string]struct{}
	mu          sync.RWMutex
}

// NewSubscriberRegistry creates a new subscriber registry.
func NewSubscriberRegistry() *SubscriberRegistry {
	return &SubscriberRegistry{
		subscribers: make(map[string]struct{}),
	}
}

// Add registers a user and reports whether they were newly added.
func (r *SubscriberRegistry) Add(waID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.subscribers[waID]; exists {
		return false
	}
	r.subscribers[waID] = struct{}{}
	return true
}

// Remove unregisters a user and reports whether they were subscribed.
func (r *SubscriberRegistry) Remove(waID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.subscribers[waID]; !exists {
		return false
	}
	delete(r.subscribers, waID)
	return true
}

// Contains reports whether a user is subscribed.
func (r *SubscriberRegistry) Contains(waID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.subscribers[waID]
	return exists
}

// List returns all subscribers in a stable order.
func (r *SubscriberRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.subscribers))
	for id := range r.subscribers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
