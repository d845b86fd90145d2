package input

import (
	"sync"

	"github.com/elliotchance/orderedmap/v2"
)

// Feed is an ordered list of event handlers. Handlers are invoked in subscription order.
// Emit is meant to be called from the frame goroutine; the mutex only protects the handler
// list against subscribe/unsubscribe from a handler or from teardown code.
type Feed[T any] struct {
	mu       sync.Mutex
	nextID   uint64
	handlers *orderedmap.OrderedMap[uint64, func(T)]
}

// NewFeed creates an empty Feed.
//
// Returns:
//   - *Feed[T]: the new feed
func NewFeed[T any]() *Feed[T] {
	return &Feed[T]{
		handlers: orderedmap.NewOrderedMap[uint64, func(T)](),
	}
}

// Subscribe registers handler and returns the subscription that removes it.
//
// Parameters:
//   - handler: function receiving each emitted value
//
// Returns:
//   - Subscription: handle to detach the handler
func (f *Feed[T]) Subscribe(handler func(T)) Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.handlers.Set(id, handler)
	return &feedSubscription[T]{feed: f, id: id}
}

// Emit delivers v to every handler registered at the time of the call.
//
// Parameters:
//   - v: the value to deliver
func (f *Feed[T]) Emit(v T) {
	f.mu.Lock()
	handlers := make([]func(T), 0, f.handlers.Len())
	for el := f.handlers.Front(); el != nil; el = el.Next() {
		handlers = append(handlers, el.Value)
	}
	f.mu.Unlock()

	for _, h := range handlers {
		h(v)
	}
}

// Len returns the number of registered handlers.
//
// Returns:
//   - int: handler count
func (f *Feed[T]) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.handlers.Len()
}

// Clear removes every handler.
func (f *Feed[T]) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers = orderedmap.NewOrderedMap[uint64, func(T)]()
}

func (f *Feed[T]) remove(id uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers.Delete(id)
}

type feedSubscription[T any] struct {
	once sync.Once
	feed *Feed[T]
	id   uint64
}

func (s *feedSubscription[T]) Unsubscribe() {
	s.once.Do(func() {
		s.feed.remove(s.id)
	})
}

// KeyFeed adapts a Feed of key events to the Keyboard capability.
type KeyFeed struct {
	*Feed[KeyEvent]
}

// NewKeyFeed creates an empty KeyFeed.
//
// Returns:
//   - *KeyFeed: the new keyboard feed
func NewKeyFeed() *KeyFeed {
	return &KeyFeed{Feed: NewFeed[KeyEvent]()}
}

// SubscribeKeys implements Keyboard.
func (k *KeyFeed) SubscribeKeys(handler func(KeyEvent)) Subscription {
	return k.Subscribe(handler)
}

// PointerFeed adapts a Feed of pointer events to the Pointer capability.
type PointerFeed struct {
	*Feed[PointerEvent]
}

// NewPointerFeed creates an empty PointerFeed.
//
// Returns:
//   - *PointerFeed: the new pointer feed
func NewPointerFeed() *PointerFeed {
	return &PointerFeed{Feed: NewFeed[PointerEvent]()}
}

// SubscribePointer implements Pointer.
func (p *PointerFeed) SubscribePointer(handler func(PointerEvent)) Subscription {
	return p.Subscribe(handler)
}

var (
	_ Keyboard = &KeyFeed{}
	_ Pointer  = &PointerFeed{}
)
