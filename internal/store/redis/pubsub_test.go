package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisstore "github.com/plankhq/plank/internal/store/redis"
)

func newBus(t *testing.T) *redisstore.PubSub {
	t.Helper()

	mr := miniredis.RunT(t)
	ps, err := redisstore.New(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ps.Close() })
	return ps
}

func recv(t *testing.T, ch <-chan []byte) []byte {
	t.Helper()

	select {
	case msg, ok := <-ch:
		require.True(t, ok, "subscription channel closed")
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestPubSub_RoundTrip(t *testing.T) {
	ps := newBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, cleanup, err := ps.Subscribe(ctx, "board:test")
	require.NoError(t, err)
	defer cleanup()

	require.NoError(t, ps.Publish(ctx, "board:test", []byte(`{"type":"moved"}`)))
	assert.Equal(t, `{"type":"moved"}`, string(recv(t, messages)))
}

func TestPubSub_OrderedDelivery(t *testing.T) {
	ps := newBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, cleanup, err := ps.Subscribe(ctx, "board:ordered")
	require.NoError(t, err)
	defer cleanup()

	payloads := []string{"one", "two", "three", "four"}
	for _, p := range payloads {
		require.NoError(t, ps.Publish(ctx, "board:ordered", []byte(p)))
	}

	for _, want := range payloads {
		assert.Equal(t, want, string(recv(t, messages)))
	}
}

func TestPubSub_ChannelIsolation(t *testing.T) {
	ps := newBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, cleanupA, err := ps.Subscribe(ctx, "board:a")
	require.NoError(t, err)
	defer cleanupA()

	require.NoError(t, ps.Publish(ctx, "board:b", []byte("other board")))
	require.NoError(t, ps.Publish(ctx, "board:a", []byte("mine")))

	// Only the board:a message arrives.
	assert.Equal(t, "mine", string(recv(t, a)))
}

func TestPubSub_SubscribeCancelClosesChannel(t *testing.T) {
	ps := newBus(t)
	ctx, cancel := context.WithCancel(context.Background())

	messages, cleanup, err := ps.Subscribe(ctx, "board:cancel")
	require.NoError(t, err)
	defer cleanup()

	cancel()

	select {
	case _, ok := <-messages:
		assert.False(t, ok, "channel should be closed after cancel")
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after context cancel")
	}
}
