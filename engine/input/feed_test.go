package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeedDeliversInSubscriptionOrder(t *testing.T) {
	f := NewFeed[int]()
	var got []string
	f.Subscribe(func(v int) { got = append(got, "a") })
	f.Subscribe(func(v int) { got = append(got, "b") })
	f.Subscribe(func(v int) { got = append(got, "c") })

	f.Emit(1)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestFeedUnsubscribeIsIdempotent(t *testing.T) {
	f := NewFeed[int]()
	calls := 0
	sub := f.Subscribe(func(int) { calls++ })
	other := f.Subscribe(func(int) {})

	sub.Unsubscribe()
	sub.Unsubscribe()
	assert.Equal(t, 1, f.Len())

	f.Emit(3)
	assert.Zero(t, calls)

	other.Unsubscribe()
	assert.Zero(t, f.Len())
}

func TestFeedHandlerMayUnsubscribeDuringEmit(t *testing.T) {
	f := NewFeed[int]()
	var sub Subscription
	calls := 0
	sub = f.Subscribe(func(int) {
		calls++
		sub.Unsubscribe()
	})

	f.Emit(1)
	f.Emit(2)
	assert.Equal(t, 1, calls)
}

func TestFeedClear(t *testing.T) {
	f := NewFeed[string]()
	sub := f.Subscribe(func(string) {})
	f.Subscribe(func(string) {})
	f.Clear()
	assert.Zero(t, f.Len())
	sub.Unsubscribe()
	assert.Zero(t, f.Len())
}
