package hub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHub_Broadcast(t *testing.T) {
	h := NewHub()
	go h.Run()

	sub1 := &Subscriber{UserID: "a", Send: make(chan []byte, 1)}
	sub2 := &Subscriber{UserID: "b", Send: make(chan []byte, 1)}
	h.Register <- sub1
	h.Register <- sub2

	h.Broadcast <- []byte("hello")

	for _, sub := range []*Subscriber{sub1, sub2} {
		select {
		case msg := <-sub.Send:
			assert.Equal(t, []byte("hello"), msg)
		case <-time.After(time.Second):
			t.Fatalf("subscriber %s did not receive the broadcast", sub.UserID)
		}
	}
}

func TestHub_Unregister(t *testing.T) {
	h := NewHub()
	go h.Run()

	sub := &Subscriber{UserID: "a", Send: make(chan []byte, 1)}
	h.Register <- sub
	h.Unregister <- sub

	// The send channel is closed on unregister.
	select {
	case _, ok := <-sub.Send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}
}

func TestHub_DropsSlowConsumers(t *testing.T) {
	h := NewHub()
	go h.Run()

	slow := &Subscriber{UserID: "slow", Send: make(chan []byte)} // unbuffered, never read
	fast := &Subscriber{UserID: "fast", Send: make(chan []byte, 2)}
	h.Register <- slow
	h.Register <- fast

	h.Broadcast <- []byte("one")
	h.Broadcast <- []byte("two")

	select {
	case msg := <-fast.Send:
		assert.Equal(t, []byte("one"), msg)
	case <-time.After(time.Second):
		t.Fatal("fast subscriber did not receive the broadcast")
	}

	// The slow subscriber's channel is closed when it is dropped.
	select {
	case _, ok := <-slow.Send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("slow subscriber was not dropped")
	}
}
