package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/quickcash/internal/core/domain"
)

// Subscriber implements ports.EventSubscriber using NATS JetStream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber with its own NATS connection.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	if err := ensureStreams(js); err != nil {
		conn.Close()
		return nil, err
	}
	return &Subscriber{conn: conn, js: js}, nil
}

// subscribe decodes each message into T and acks it once handler succeeds.
// Undecodable messages are terminated; handler failures are redelivered.
func subscribe[T any](ctx context.Context, s *Subscriber, subject, durable string, handler func(ctx context.Context, v *T) error) error {
	sub, err := s.js.Subscribe(subject, func(msg *nats.Msg) {
		var v T
		if err := json.Unmarshal(msg.Data, &v); err != nil {
			slog.Warn("drop malformed event", "subject", msg.Subject, "error", err)
			_ = msg.Term()
			return
		}
		if err := handler(ctx, &v); err != nil {
			slog.Warn("event handler failed", "subject", msg.Subject, "error", err)
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable(durable),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	s.subs = append(s.subs, sub)
	return nil
}

func (s *Subscriber) SubscribeApplications(ctx context.Context, handler func(ctx context.Context, app *domain.Application) error) error {
	return subscribe(ctx, s, SubjectApplicationSubmitted, "application-notifier", handler)
}

func (s *Subscriber) SubscribeReviews(ctx context.Context, handler func(ctx context.Context, app *domain.Application) error) error {
	return subscribe(ctx, s, SubjectApplicationReviewed, "review-notifier", handler)
}

func (s *Subscriber) SubscribePayments(ctx context.Context, handler func(ctx context.Context, p *domain.Payment) error) error {
	return subscribe(ctx, s, SubjectPaymentPrefix+">", "payment-notifier", handler)
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
