package bus

import "context"

// Message is one delivery on a topic.
type Message struct {
	Topic   string
	Key     string
	Payload []byte
}

// Handler consumes a delivered message. Handlers must tolerate duplicate
// deliveries: the bus guarantees at-least-once, never exactly-once.
type Handler func(ctx context.Context, msg Message)

// Bus is the event transport between pipeline stages.
//
// Subscribe builds the topic-to-handler table; all subscriptions happen at
// startup and there is no unsubscription. Publish is safe for concurrent use.
// No ordering is guaranteed across keys.
type Bus interface {
	// Publish delivers payload to every handler subscribed to topic.
	// Delivery is asynchronous; Publish returns once the message is accepted.
	Publish(ctx context.Context, topic, key string, payload []byte) error

	// Subscribe registers a handler for a topic.
	Subscribe(topic string, handler Handler) error
}
