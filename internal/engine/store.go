// Package engine provides the keyed event store and listener fan-out
// that every pipeline stage is built on.
package engine

import (
	"errors"
	"sync"
)

// ErrNotFound is returned by Get for a key with no stored value.
var ErrNotFound = errors.New("engine: key not found")

// Listener receives store events. Callbacks run synchronously on the
// publishing goroutine, in registration order; a non-nil error aborts
// the remaining listeners and propagates to the publisher.
type Listener[V any] interface {
	OnAdd(v V) error
	OnUpdate(v V) error
	OnRemove(v V) error
}

// Store is a keyed event store with listener fan-out. Publishing a
// value under a new key fires OnAdd; publishing under an existing key
// overwrites and fires OnUpdate.
type Store[V any] struct {
	keyOf     func(V) string
	mu        sync.RWMutex
	values    map[string]V
	listeners []Listener[V]
}

// NewStore creates a store whose values are keyed by keyOf.
func NewStore[V any](keyOf func(V) string) *Store[V] {
	return &Store[V]{
		keyOf:  keyOf,
		values: make(map[string]V),
	}
}

// AddListener registers a listener. Listeners are notified in
// registration order. Not safe to call concurrently with Publish.
func (s *Store[V]) AddListener(l Listener[V]) {
	s.listeners = append(s.listeners, l)
}

// Get returns the value stored under key, or ErrNotFound.
func (s *Store[V]) Get(key string) (V, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		var zero V
		return zero, ErrNotFound
	}
	return v, nil
}

// Keys returns the stored keys in no particular order.
func (s *Store[V]) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	return keys
}

// Publish stores v under its key and notifies every listener. The
// first listener error aborts the fan-out and is returned; the value
// stays stored either way.
func (s *Store[V]) Publish(v V) error {
	key := s.keyOf(v)

	s.mu.Lock()
	_, existed := s.values[key]
	s.values[key] = v
	s.mu.Unlock()

	for _, l := range s.listeners {
		var err error
		if existed {
			err = l.OnUpdate(v)
		} else {
			err = l.OnAdd(v)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Remove deletes the value under key and notifies listeners via
// OnRemove. Removing a missing key returns ErrNotFound.
func (s *Store[V]) Remove(key string) error {
	s.mu.Lock()
	v, ok := s.values[key]
	if ok {
		delete(s.values, key)
	}
	s.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	for _, l := range s.listeners {
		if err := l.OnRemove(v); err != nil {
			return err
		}
	}
	return nil
}

// ListenerFuncs adapts plain functions to the Listener interface. Nil
// callbacks are no-ops.
type ListenerFuncs[V any] struct {
	Add    func(v V) error
	Update func(v V) error
	Remove func(v V) error
}

// OnAdd implements Listener.
func (l ListenerFuncs[V]) OnAdd(v V) error {
	if l.Add != nil {
		return l.Add(v)
	}
	return nil
}

// OnUpdate implements Listener.
func (l ListenerFuncs[V]) OnUpdate(v V) error {
	if l.Update != nil {
		return l.Update(v)
	}
	return nil
}

// OnRemove implements Listener.
func (l ListenerFuncs[V]) OnRemove(v V) error {
	if l.Remove != nil {
		return l.Remove(v)
	}
	return nil
}

// OnAdd wraps fn as a listener that fires on both adds and updates,
// the common case for pipeline stages.
func OnAdd[V any](fn func(v V) error) Listener[V] {
	return ListenerFuncs[V]{Add: fn, Update: fn}
}
