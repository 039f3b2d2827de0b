// Package notifier provides the in-process change-notification bus built on
// Watermill's gochannel Pub/Sub.
//
// Delivery semantics:
//   - Publish is fire-and-forget: it hands the event to every currently
//     attached consumer and returns. With no consumers attached the event is
//     dropped; there is no buffering, durability, or replay.
//   - Every attached consumer of a topic receives its own copy of each event.
//   - Events on one topic reach a consumer in publish order; no ordering is
//     guaranteed across topics.
//
// The bus is an explicitly constructed component: create it in main, pass it
// by reference to everything that publishes or subscribes, and Close it on
// shutdown.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"github.com/ghuser/jobdesk/pkg/logger"
)

// Topics, one per (entity type, event kind) pair.
const (
	TopicContactAdded   = "contact.added"
	TopicContactUpdated = "contact.updated"
	TopicContactDeleted = "contact.deleted"

	TopicItemAdded   = "item.added"
	TopicItemUpdated = "item.updated"
	TopicItemDeleted = "item.deleted"

	TopicJobAdded   = "job.added"
	TopicJobUpdated = "job.updated"
	TopicJobDeleted = "job.deleted"
)

// Topics returns all known topics.
func Topics() []string {
	return []string{
		TopicContactAdded, TopicContactUpdated, TopicContactDeleted,
		TopicItemAdded, TopicItemUpdated, TopicItemDeleted,
		TopicJobAdded, TopicJobUpdated, TopicJobDeleted,
	}
}

// Event is one change notification as seen by a consumer.
type Event struct {
	Topic   string
	Payload json.RawMessage
}

// Publisher is the publish side of the bus as consumed by mutation services.
// *Notifier satisfies it.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// Deleted is the payload published on every *.deleted topic: only the id of
// the removed entity travels, never the full record.
type Deleted struct {
	ID uuid.UUID `json:"id"`
}

// Notifier is the process-wide change-notification bus.
type Notifier struct {
	ps  *gochannel.GoChannel
	log logger.Logger
}

// New returns a running Notifier. Close it on shutdown.
func New(log logger.Logger) *Notifier {
	ps := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		&slogAdapter{log: log},
	)
	return &Notifier{ps: ps, log: log}
}

// Publish marshals payload and hands it to every consumer currently attached
// to topic. Publishers must not treat an error here as a failure of the
// operation that triggered it.
func (n *Notifier) Publish(ctx context.Context, topic string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("notifier: marshal event for %s: %w", topic, err)
	}
	msg := message.NewMessage(watermill.NewUUID(), b)
	if err := n.ps.Publish(topic, msg); err != nil {
		return fmt.Errorf("notifier: publish to %s: %w", topic, err)
	}
	return nil
}

// Subscribe attaches a fresh consumer to the given topics and returns its
// event channel. The channel closes when ctx is cancelled, which also
// releases the underlying registrations; cancelling ctx is the detach
// mechanism. Events published while no receive is pending are buffered up to
// the channel capacity; a consumer that stops draining without cancelling
// stalls only its own copy of the stream.
func (n *Notifier) Subscribe(ctx context.Context, topics ...string) (<-chan Event, error) {
	out := make(chan Event, 16)
	var wg sync.WaitGroup

	for _, topic := range topics {
		ch, err := n.ps.Subscribe(ctx, topic)
		if err != nil {
			return nil, fmt.Errorf("notifier: subscribe to %s: %w", topic, err)
		}

		wg.Add(1)
		go func(topic string, ch <-chan *message.Message) {
			defer wg.Done()
			for msg := range ch {
				msg.Ack()
				select {
				case out <- Event{Topic: topic, Payload: json.RawMessage(msg.Payload)}:
				case <-ctx.Done():
					return
				}
			}
		}(topic, ch)
	}

	go func() {
		wg.Wait()
		close(out)
	}()
	return out, nil
}

// Close shuts down the bus and closes every attached consumer's channel.
func (n *Notifier) Close() error {
	if err := n.ps.Close(); err != nil {
		return fmt.Errorf("notifier: close: %w", err)
	}
	return nil
}

// slogAdapter bridges logger.Logger to watermill.LoggerAdapter.
type slogAdapter struct{ log logger.Logger }

func (a *slogAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.log.Error(msg, append(fieldsToArgs(fields), "error", err)...)
}
func (a *slogAdapter) Info(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) Debug(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) Trace(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &slogAdapter{log: a.log.With(fieldsToArgs(fields)...)}
}

func fieldsToArgs(fields watermill.LogFields) []any {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return args
}
