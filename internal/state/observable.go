// Package state holds the observable screen state behind each view of the
// app: the patient list, the patient detail aggregate and the record forms.
// State holders own their listener subscriptions and apply client-side
// filtering; they are decoupled from any UI framework.
package state

import (
	"sync"
)

// Observable is an owned value plus a subscriber list. Set stores the new
// value and notifies every current subscriber; Subscribe delivers the current
// value immediately and returns an unsubscribe func.
type Observable[T any] struct {
	mu   sync.Mutex
	val  T
	subs map[int]func(T)
	next int
}

// NewObservable creates an Observable holding the initial value.
func NewObservable[T any](initial T) *Observable[T] {
	return &Observable[T]{val: initial, subs: make(map[int]func(T))}
}

// Get returns the current value.
func (o *Observable[T]) Get() T {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.val
}

// Set stores the value and notifies subscribers. Callbacks run outside the
// lock, so a subscriber may call back into the observable.
func (o *Observable[T]) Set(v T) {
	o.mu.Lock()
	o.val = v
	subs := make([]func(T), 0, len(o.subs))
	for _, fn := range o.subs {
		subs = append(subs, fn)
	}
	o.mu.Unlock()

	for _, fn := range subs {
		fn(v)
	}
}

// Subscribe registers an observer and immediately delivers the current value.
// The returned func removes the observer; calling it more than once is a
// no-op.
func (o *Observable[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	o.mu.Lock()
	id := o.next
	o.next++
	o.subs[id] = fn
	current := o.val
	o.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.subs, id)
			o.mu.Unlock()
		})
	}
}
