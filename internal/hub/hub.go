package hub

import "log/slog"

// Subscriber represents a single connected client receiving broadcast
// payloads from the Hub.
type Subscriber struct {
	// UserID identifies the connected user, when known.
	UserID string

	// Send is a buffered channel of outbound messages. The Hub sends messages
	// to this channel, and the client is responsible for reading from it.
	Send chan []byte
}

// Hub is a generic, concurrent event bus. It maintains the set of active
// subscribers and broadcasts messages to them. The moderation module uses it
// to feed the live moderation event stream.
type Hub struct {
	// Registered subscribers.
	subscribers map[*Subscriber]bool

	// Broadcast is the channel for inbound messages. Any component can send
	// a message to this channel to have it delivered to all subscribers.
	Broadcast chan []byte

	// Register is a channel for new subscribers to register with the hub.
	Register chan *Subscriber

	// Unregister is a channel for subscribers to unregister from the hub.
	Unregister chan *Subscriber
}

// NewHub creates and returns a new Hub instance.
func NewHub() *Hub {
	return &Hub{
		Broadcast:   make(chan []byte),
		Register:    make(chan *Subscriber),
		Unregister:  make(chan *Subscriber),
		subscribers: make(map[*Subscriber]bool),
	}
}

// Run starts the Hub's message processing loop. It must be run in a separate
// goroutine. It listens on its channels and orchestrates all communication.
func (h *Hub) Run() {
	for {
		select {
		case subscriber := <-h.Register:
			h.subscribers[subscriber] = true
			slog.Info("New subscriber registered", "total_subscribers", len(h.subscribers))

		case subscriber := <-h.Unregister:
			if _, ok := h.subscribers[subscriber]; ok {
				delete(h.subscribers, subscriber)
				close(subscriber.Send)
				slog.Info("Subscriber unregistered", "total_subscribers", len(h.subscribers))
			}

		case message := <-h.Broadcast:
			for subscriber := range h.subscribers {
				select {
				case subscriber.Send <- message:
				default:
					// Slow consumer; drop it rather than block the hub.
					delete(h.subscribers, subscriber)
					close(subscriber.Send)
				}
			}
		}
	}
}
