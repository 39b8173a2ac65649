// Package events carries trip lifecycle events from the service layer to
// asynchronous subscribers over watermill. The audit log is written by one
// such subscriber, so a slow or failing audit insert never delays or fails
// a departure.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"github.com/frotalog/frotalog/internal/domain"
)

// TopicTrips is the topic every trip lifecycle event is published on.
const TopicTrips = "trips"

// TripEvent is the payload of a trip lifecycle message.
type TripEvent struct {
	Event   domain.AuditEvent `json:"event"`
	TripID  uuid.UUID         `json:"tripId"`
	Vehicle string            `json:"vehicle"`
	Driver  string            `json:"driver"`
	Detail  string            `json:"detail,omitempty"`
	At      time.Time         `json:"at"`
}

// Inflight counts published trip events the audit handler has not settled
// yet. Shutdown waits on it between stopping HTTP and stopping the router,
// since GoChannel discards undelivered messages on close. A nil *Inflight
// tracks nothing.
type Inflight struct {
	wg sync.WaitGroup
}

func (f *Inflight) add() {
	if f != nil {
		f.wg.Add(1)
	}
}

func (f *Inflight) done() {
	if f != nil {
		f.wg.Done()
	}
}

// Wait blocks until every tracked event is settled or ctx ends. No event may
// be published once Wait has been called.
func (f *Inflight) Wait(ctx context.Context) error {
	if f == nil {
		return nil
	}
	settled := make(chan struct{})
	go func() {
		f.wg.Wait()
		close(settled)
	}()
	select {
	case <-settled:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Publisher serializes TripEvents onto a watermill publisher.
type Publisher struct {
	pub      message.Publisher
	inflight *Inflight
}

// NewPublisher wraps pub. Every published event is counted in inflight,
// which may be nil.
func NewPublisher(pub message.Publisher, inflight *Inflight) *Publisher {
	return &Publisher{pub: pub, inflight: inflight}
}

// Publish sends e on TopicTrips.
func (p *Publisher) Publish(ctx context.Context, e TripEvent) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("events.Publisher.Publish: marshal: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(context.WithoutCancel(ctx))
	msg.Metadata.Set("event", string(e.Event))

	p.inflight.add()
	if err := p.pub.Publish(TopicTrips, msg); err != nil {
		p.inflight.done()
		return fmt.Errorf("events.Publisher.Publish: %w", err)
	}
	return nil
}

// NewBus returns the in-process pub/sub used between the service layer and
// the subscribers. It is both the publisher and the subscriber.
func NewBus(log *slog.Logger) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, NewLoggerAdapter(log))
}

// decode parses a trip event message.
func decode(msg *message.Message) (TripEvent, error) {
	var e TripEvent
	if err := json.Unmarshal(msg.Payload, &e); err != nil {
		return TripEvent{}, fmt.Errorf("events: decode %s: %w", msg.UUID, err)
	}
	return e, nil
}
