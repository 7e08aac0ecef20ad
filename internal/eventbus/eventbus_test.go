package eventbus_test

import (
	"context"
	"testing"

	"github.com/hanpama/formtree/internal/eventbus"
	"github.com/stretchr/testify/assert"
)

type ping struct{ N int }
type pong struct{ N int }

func TestPublishSubscribe(t *testing.T) {
	b := eventbus.New()
	var got []string
	eventbus.Subscribe(b, func(_ context.Context, p ping) { got = append(got, "first") })
	eventbus.Subscribe(b, func(_ context.Context, p ping) { got = append(got, "second") })
	eventbus.Subscribe(b, func(_ context.Context, p pong) { got = append(got, "pong") })

	eventbus.Publish(context.Background(), b, ping{N: 1})
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestUnsubscribe(t *testing.T) {
	b := eventbus.New()
	var first, second int
	unsub := eventbus.Subscribe(b, func(_ context.Context, p ping) { first += p.N })
	eventbus.Subscribe(b, func(_ context.Context, p ping) { second += p.N })

	eventbus.Publish(context.Background(), b, ping{N: 1})
	unsub()
	unsub()
	eventbus.Publish(context.Background(), b, ping{N: 2})

	assert.Equal(t, 1, first)
	assert.Equal(t, 3, second, "only the unsubscribed handler is removed")
}

func TestNilBus(t *testing.T) {
	var b *eventbus.Bus
	called := false
	unsub := eventbus.Subscribe(b, func(context.Context, ping) { called = true })
	eventbus.Publish(context.Background(), b, ping{})
	unsub()
	assert.False(t, called)
}

func TestContextPassedThrough(t *testing.T) {
	type key struct{}
	b := eventbus.New()
	var got any
	eventbus.Subscribe(b, func(ctx context.Context, _ ping) { got = ctx.Value(key{}) })
	eventbus.Publish(context.WithValue(context.Background(), key{}, "v"), b, ping{})
	assert.Equal(t, "v", got)
}
