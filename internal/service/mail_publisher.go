// Package service publishes domain events to RabbitMQ.  Errors are logged
// and returned so callers may ignore failures without interrupting the
// request flow.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/iliyamo/storefront-api/internal/queue"
)

// Publisher dials the broker per publish.  Reset mail is rare enough that a
// long-lived channel is not worth its reconnect logic.
type Publisher struct {
	url    string
	logger *slog.Logger
}

func NewPublisher(url string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{url: url, logger: logger}
}

// PublishPasswordReset publishes ev to the password reset queue.  Messages
// are marked as persistent.
func (p *Publisher) PublishPasswordReset(ctx context.Context, ev q.PasswordResetRequestedEvent) error {
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      dialContext(ctx),
	})
	if err != nil {
		p.logger.ErrorContext(ctx, "rabbitmq: dial failed", slog.Any("error", err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.logger.ErrorContext(ctx, "rabbitmq: channel open failed", slog.Any("error", err))
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		q.PasswordResetQueue, // name
		true,                 // durable
		false,                // autoDelete
		false,                // exclusive
		false,                // noWait
		nil,                  // args
	); err != nil {
		p.logger.ErrorContext(ctx, "rabbitmq: queue declare failed", slog.Any("error", err))
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", q.PasswordResetQueue, false, false, pub); err != nil {
		p.logger.ErrorContext(ctx, "rabbitmq: publish failed", slog.Any("error", err))
		return err
	}
	return nil
}

// dialContext returns an amqp dialer bound to ctx.  The handshake deadline
// follows ctx; the library clears it once the connection is open.
func dialContext(ctx context.Context) func(network, addr string) (net.Conn, error) {
	return func(network, addr string) (net.Conn, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var d net.Dialer
		conn, err := d.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}
		if dl, ok := ctx.Deadline(); ok {
			_ = conn.SetDeadline(dl)
		}
		return conn, nil
	}
}
