package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// Publisher defines the interface for publishing messages
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload interface{}) error
}

type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ChannelPublisher wraps payloads in a Message envelope and sends them on a
// single broker channel.
type ChannelPublisher struct {
	broker  Broker
	channel string
}

func NewChannelPublisher(broker Broker, channel string) *ChannelPublisher {
	return &ChannelPublisher{broker: broker, channel: channel}
}

func (p *ChannelPublisher) Publish(ctx context.Context, eventType string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	return p.broker.Publish(ctx, p.channel, Message{Type: eventType, Payload: raw})
}

// Decode parses a message received from Subscribe.
func Decode(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to decode message: %w", err)
	}
	return &msg, nil
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, interface{}) error { return nil }

// Instrument counts publish outcomes ("sent" or "failed") on outcomes.
func Instrument(p Publisher, outcomes *prometheus.CounterVec) Publisher {
	if outcomes == nil {
		return p
	}
	return &countingPublisher{next: p, outcomes: outcomes}
}

type countingPublisher struct {
	next     Publisher
	outcomes *prometheus.CounterVec
}

func (p *countingPublisher) Publish(ctx context.Context, eventType string, payload interface{}) error {
	if err := p.next.Publish(ctx, eventType, payload); err != nil {
		p.outcomes.WithLabelValues("failed").Inc()
		return err
	}
	p.outcomes.WithLabelValues("sent").Inc()
	return nil
}
