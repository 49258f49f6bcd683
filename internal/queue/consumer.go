package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MailConsumer listens to the password reset queue and appends each
// rendered message to <Dir>/mail.log.  Actual SMTP delivery sits behind that
// file.
type MailConsumer struct {
	URL    string
	Dir    string
	Logger *slog.Logger

	mu sync.Mutex
}

func NewMailConsumer(url, dir string, logger *slog.Logger) *MailConsumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &MailConsumer{URL: url, Dir: dir, Logger: logger}
}

// Run dials the broker, declares the queue (durable) and consumes until ctx
// is cancelled.  Connection failures are retried with exponential backoff
// so the HTTP server keeps running while the broker is away.
func (m *MailConsumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(m.URL)
		if err != nil {
			m.Logger.Warn("mail-consumer: failed to dial broker", slog.Any("error", err), slog.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = m.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		m.Logger.Warn("mail-consumer: consume loop ended; reconnecting", slog.Any("error", err))
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (m *MailConsumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		m.Logger.Warn("mail-consumer: set QoS failed", slog.Any("error", err))
	}
	if _, err := ch.QueueDeclare(PasswordResetQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(PasswordResetQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := m.handleMessage(d.Body); err != nil {
				m.Logger.Error("mail-consumer: handle message failed", slog.Any("error", err))
				_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (m *MailConsumer) handleMessage(body []byte) error {
	var ev PasswordResetRequestedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Email == "" || ev.Link == "" {
		return errors.New("event without recipient or link")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := os.MkdirAll(m.Dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", m.Dir, err)
	}
	f, err := os.OpenFile(filepath.Join(m.Dir, "mail.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open mail log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(render(ev)); err != nil {
		return fmt.Errorf("write mail log: %w", err)
	}
	m.Logger.Info("mail-consumer: password reset mail queued", slog.String("user", ev.User))
	return nil
}

func render(ev PasswordResetRequestedEvent) string {
	return fmt.Sprintf("[%s] to=%q subject=%q\nHello %s,\nuse the link below to choose a new password. It expires at %s.\n%s\n\n",
		ev.RequestedAt, ev.Email, "Reset your password", ev.Name, ev.ExpiresAt, ev.Link)
}
