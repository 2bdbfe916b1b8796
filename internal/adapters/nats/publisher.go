package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/quickcash/internal/core/domain"
)

// Subjects published by the marketplace. Each entity kind lives in its own
// JetStream stream.
const (
	SubjectJobPosted            = "quickcash.jobs.posted"
	SubjectJobStatusPrefix      = "quickcash.jobs.status."
	SubjectApplicationSubmitted = "quickcash.applications.submitted"
	SubjectApplicationReviewed  = "quickcash.applications.reviewed"
	SubjectPaymentPrefix        = "quickcash.payments."
)

// Streams lists the JetStream streams the marketplace relies on.
var Streams = []nats.StreamConfig{
	{
		Name:      "JOBS",
		Subjects:  []string{"quickcash.jobs.>"},
		Retention: nats.InterestPolicy,
		MaxAge:    7 * 24 * time.Hour,
		Storage:   nats.FileStorage,
	},
	{
		Name:      "APPLICATIONS",
		Subjects:  []string{"quickcash.applications.>"},
		Retention: nats.InterestPolicy,
		MaxAge:    7 * 24 * time.Hour,
		Storage:   nats.FileStorage,
	},
	{
		Name:      "PAYMENTS",
		Subjects:  []string{"quickcash.payments.>"},
		Retention: nats.LimitsPolicy,
		MaxAge:    30 * 24 * time.Hour,
		Storage:   nats.FileStorage,
	},
}

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
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

	return &Publisher{conn: conn, js: js}, nil
}

func ensureStreams(js nats.JetStreamContext) error {
	for i := range Streams {
		cfg := Streams[i]
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist; try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				return fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}
	return nil
}

func (p *Publisher) publish(ctx context.Context, subject string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := p.js.Publish(subject, data, nats.Context(ctx)); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

func (p *Publisher) PublishJobPosted(ctx context.Context, job *domain.Job) error {
	return p.publish(ctx, SubjectJobPosted, job)
}

func (p *Publisher) PublishJobStatus(ctx context.Context, job *domain.Job) error {
	return p.publish(ctx, SubjectJobStatusPrefix+string(job.Status), job)
}

func (p *Publisher) PublishApplicationSubmitted(ctx context.Context, app *domain.Application) error {
	return p.publish(ctx, SubjectApplicationSubmitted, app)
}

func (p *Publisher) PublishApplicationReviewed(ctx context.Context, app *domain.Application) error {
	return p.publish(ctx, SubjectApplicationReviewed, app)
}

func (p *Publisher) PublishPayment(ctx context.Context, pay *domain.Payment) error {
	return p.publish(ctx, SubjectPaymentPrefix+string(pay.Status), pay)
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("quickcash"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
