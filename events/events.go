// Package events carries table change notifications to whoever listens:
// websocket dashboards through Hub and, when configured, a RabbitMQ queue
// through AMQPPublisher.
package events

import "context"

// Event types
const (
	EventTableCreate = "table_create"
	EventTableUpdate = "table_update"
	EventTableDelete = "table_delete"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Publisher delivers a message on a best-effort basis. Implementations log
// their own failures; a failed delivery never reaches the caller.
type Publisher interface {
	Publish(ctx context.Context, msg Message)
}

// Multi fans a message out to every publisher in order.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, msg Message) {
	for _, p := range m {
		p.Publish(ctx, msg)
	}
}

// Discard drops every message.
type Discard struct{}

func (Discard) Publish(context.Context, Message) {}
