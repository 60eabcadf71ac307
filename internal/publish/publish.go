// Package publish emits stored-content events for downstream
// extraction workers.
package publish

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"

	"github.com/fashiondb/stylecorpus/internal/corpus"
)

// Nop discards every event. Used when publishing is disabled.
type Nop struct{}

// Publish does nothing.
func (Nop) Publish(context.Context, corpus.StoredEvent) error { return nil }

// PubSub publishes stored-content events to a Google Cloud Pub/Sub
// topic. The client batches and retries in the background; Publish
// waits for server acknowledgement so a dropped event surfaces as an
// error at the call site.
type PubSub struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

// NewPubSub connects with Application Default Credentials and verifies
// the topic exists.
func NewPubSub(ctx context.Context, projectID, topicID string) (*PubSub, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}
	topic := client.Topic(topicID)
	exists, err := topic.Exists(ctx)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("check pubsub topic %q: %w", topicID, err)
	}
	if !exists {
		_ = client.Close()
		return nil, fmt.Errorf("pubsub topic %q does not exist in project %q", topicID, projectID)
	}
	return &PubSub{client: client, topic: topic}, nil
}

// Publish sends one event as a JSON message.
func (p *PubSub) Publish(ctx context.Context, event corpus.StoredEvent) error {
	payload, err := EncodeEvent(event)
	if err != nil {
		return err
	}
	result := p.topic.Publish(ctx, &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"domain":     event.Domain,
			"content_id": event.ContentID,
		},
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publish stored event %s: %w", event.ContentID, err)
	}
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *PubSub) Close() error {
	p.topic.Stop()
	if err := p.client.Close(); err != nil {
		return fmt.Errorf("close pubsub client: %w", err)
	}
	return nil
}

// EncodeEvent renders the wire payload for a stored-content event.
func EncodeEvent(event corpus.StoredEvent) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode stored event %s: %w", event.ContentID, err)
	}
	return payload, nil
}
