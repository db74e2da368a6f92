// Package events publishes record lifecycle events to a gocloud pubsub topic.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gocloud.dev/pubsub"
	_ "gocloud.dev/pubsub/awssnssqs"
	_ "gocloud.dev/pubsub/mempubsub"
)

// Event types.
const (
	Created = "created"
	Updated = "updated"
	Deleted = "deleted"
)

// Event describes a mutation of a single record.
type Event struct {
	// Type is one of Created, Updated or Deleted.
	Type string `json:"type"`
	// Kind is the record kind, "notes" or "bookmarks".
	Kind  string    `json:"kind"`
	ID    string    `json:"id"`
	Owner string    `json:"owner"`
	At    time.Time `json:"at"`
}

// Publisher sends events to a topic.
type Publisher struct {
	topic *pubsub.Topic
	now   func() time.Time
}

// NewPublisher wraps an already opened topic.
func NewPublisher(topic *pubsub.Topic) *Publisher {
	return &Publisher{topic: topic, now: time.Now}
}

// Open opens the topic at url (for example "mem://records" or
// "awssns:///arn:aws:sns:...") and returns a Publisher for it.
func Open(ctx context.Context, url string) (*Publisher, error) {
	topic, err := pubsub.OpenTopic(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("open topic %s: %w", url, err)
	}
	return NewPublisher(topic), nil
}

// Publish sends an event of the given type for record {kind, owner, id}.
func (p *Publisher) Publish(ctx context.Context, typ, kind, owner, id string) error {
	body, err := json.Marshal(Event{Type: typ, Kind: kind, ID: id, Owner: owner, At: p.now().UTC()})
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	err = p.topic.Send(ctx, &pubsub.Message{
		Body:     body,
		Metadata: map[string]string{"type": kind + "." + typ},
	})
	if err != nil {
		return fmt.Errorf("send event: %w", err)
	}
	return nil
}

// Shutdown flushes and closes the topic.
func (p *Publisher) Shutdown(ctx context.Context) error {
	return p.topic.Shutdown(ctx)
}
