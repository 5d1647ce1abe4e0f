package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForwardDeliversPayloads(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan *redis.Message, 2)
	in <- &redis.Message{Payload: `{"type":"appointment_booked"}`}
	out := make(chan []byte)

	go forward(ctx, in, out)

	select {
	case payload := <-out:
		assert.Equal(t, `{"type":"appointment_booked"}`, string(payload))
	case <-time.After(time.Second):
		t.Fatal("payload was not forwarded")
	}
}

func TestForwardClosesOutWhenInCloses(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan *redis.Message)
	out := make(chan []byte)

	go forward(ctx, in, out)
	close(in)

	select {
	case _, open := <-out:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("out was not closed")
	}
}

func TestForwardStopsWhenConsumerGone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	in := make(chan *redis.Message, 2)
	in <- &redis.Message{Payload: "a"}
	in <- &redis.Message{Payload: "b"}
	out := make(chan []byte)

	done := make(chan struct{})
	go func() {
		forward(ctx, in, out)
		close(done)
	}()

	// Nobody reads out, so the forwarder is blocked on the send. Canceling
	// ctx must still release it.
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("forwarder did not stop after cancel")
	}

	_, open := <-out
	require.False(t, open)
}
