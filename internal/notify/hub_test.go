package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_SubscribeReceivesEvents(t *testing.T) {
	h := NewHub[string](nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, id := h.Subscribe(ctx)
	require.NotEmpty(t, id)

	h.Publish("projects")

	select {
	case ev := <-ch:
		assert.Equal(t, "projects", ev)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestHub_UnsubscribeClosesChannel(t *testing.T) {
	h := NewHub[int](nil)
	ch, id := h.Subscribe(context.Background())

	h.Unsubscribe(id)

	_, ok := <-ch
	assert.False(t, ok, "channel should be closed")

	// Second unsubscribe is a no-op.
	h.Unsubscribe(id)
}

func TestHub_ContextCancelUnsubscribes(t *testing.T) {
	h := NewHub[int](nil)
	ctx, cancel := context.WithCancel(context.Background())
	ch, _ := h.Subscribe(ctx)

	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("subscription not cleaned up after cancel")
	}
}

func TestHub_SlowSubscriberDropsEvents(t *testing.T) {
	h := NewHub[int](nil)
	ch, _ := h.Subscribe(context.Background())

	for i := 0; i < subscriberBufferSize+10; i++ {
		h.Publish(i)
	}

	assert.Len(t, ch, subscriberBufferSize)
}

func TestHub_ListenersRunInlineInOrder(t *testing.T) {
	h := NewHub[string](nil)

	var got []string
	h.Listen(func(s string) { got = append(got, "first:"+s) })
	cancel := h.Listen(func(s string) { got = append(got, "second:"+s) })

	h.Publish("a")
	assert.Equal(t, []string{"first:a", "second:a"}, got)

	cancel()
	h.Publish("b")
	assert.Equal(t, []string{"first:a", "second:a", "first:b"}, got)
}

func TestHub_Close(t *testing.T) {
	h := NewHub[int](nil)
	ch, _ := h.Subscribe(context.Background())
	called := false
	h.Listen(func(int) { called = true })

	h.Close()
	h.Publish(1)

	_, ok := <-ch
	assert.False(t, ok)
	assert.False(t, called)
}
