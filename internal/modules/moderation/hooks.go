package moderation

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/colefield/parley/internal/hub"
	"github.com/colefield/parley/internal/models"
	"github.com/colefield/parley/internal/pubsub"
)

// DeleteDecision is the pending outcome of a delete or restore request.
// Filters run before the decision is finalized and may rewrite any of it,
// including the Allowed verdict and the topic payload.
type DeleteDecision struct {
	Topic    *models.Topic
	UID      string
	IsDelete bool
	Allowed  bool
}

// DeleteFilter inspects and may rewrite a pending delete/restore decision.
// Returning an error aborts the operation.
type DeleteFilter interface {
	FilterDelete(ctx context.Context, d *DeleteDecision) error
}

// DeleteFilterFunc adapts a function to the DeleteFilter interface.
type DeleteFilterFunc func(ctx context.Context, d *DeleteDecision) error

func (f DeleteFilterFunc) FilterDelete(ctx context.Context, d *DeleteDecision) error {
	return f(ctx, d)
}

// Observer is notified after an operation has committed. Observer errors are
// logged and ignored; they never fail the operation.
type Observer interface {
	Notify(ctx context.Context, event string, uid string, payload any)
}

// Hooks is the moderation extension point: an ordered chain of decision
// filters run before commit, and a list of observers notified after commit.
// There is no global registry; both lists are composed at startup.
type Hooks struct {
	deleteFilters []DeleteFilter
	observers     []Observer
}

// NewHooks builds an empty hook set.
func NewHooks() *Hooks {
	return &Hooks{}
}

// AddDeleteFilter appends a filter to the delete/restore decision chain.
func (h *Hooks) AddDeleteFilter(f DeleteFilter) *Hooks {
	h.deleteFilters = append(h.deleteFilters, f)
	return h
}

// AddObserver appends a post-commit observer.
func (h *Hooks) AddObserver(o Observer) *Hooks {
	h.observers = append(h.observers, o)
	return h
}

// filterDelete runs the decision through the filter chain in order.
func (h *Hooks) filterDelete(ctx context.Context, d *DeleteDecision) error {
	for _, f := range h.deleteFilters {
		if err := f.FilterDelete(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

// notify fans an event out to every observer. Always post-commit, never
// fatal.
func (h *Hooks) notify(ctx context.Context, event string, uid string, payload any) {
	for _, o := range h.observers {
		o.Notify(ctx, event, uid, payload)
	}
}

// PublisherObserver forwards moderation events onto the pub/sub bus as JSON.
type PublisherObserver struct {
	publisher pubsub.Publisher
}

// NewPublisherObserver creates an observer publishing to the given bus.
func NewPublisherObserver(p pubsub.Publisher) *PublisherObserver {
	return &PublisherObserver{publisher: p}
}

func (o *PublisherObserver) Notify(ctx context.Context, event string, uid string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal moderation event", "event", event, "error", err)
		return
	}
	msg := pubsub.Message{Topic: event, UserID: uid, Payload: data}
	if err := o.publisher.Publish(ctx, msg); err != nil {
		slog.Error("Failed to publish moderation event", "event", event, "error", err)
	}
}

// HubObserver broadcasts moderation events to connected websocket clients.
type HubObserver struct {
	hub *hub.Hub
}

// NewHubObserver creates an observer broadcasting on the given hub.
func NewHubObserver(h *hub.Hub) *HubObserver {
	return &HubObserver{hub: h}
}

func (o *HubObserver) Notify(ctx context.Context, event string, uid string, payload any) {
	envelope := struct {
		Event   string `json:"event"`
		UID     string `json:"uid"`
		Payload any    `json:"payload"`
	}{Event: event, UID: uid, Payload: payload}

	data, err := json.Marshal(envelope)
	if err != nil {
		slog.Error("Failed to marshal moderation feed message", "event", event, "error", err)
		return
	}
	o.hub.Broadcast <- data
}
