// Package events announces completed runs on NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// SubjectSummaryCompleted is published once per successful report run.
const SubjectSummaryCompleted = "yywc.summary.completed"

const flushTimeout = 5 * time.Second

// SummaryCompleted describes a finished run.
type SummaryCompleted struct {
	RunID              string    `json:"run_id"`
	Source             string    `json:"source"`
	Year               *int      `json:"year"`
	TotalMessages      int       `json:"total_messages"`
	TotalConversations int       `json:"total_conversations"`
	TotalWords         int       `json:"total_words"`
	OutDir             string    `json:"out_dir"`
	CompletedAt        time.Time `json:"completed_at"`
}

type Publisher struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func NewPublisher(ctx context.Context, url, token string, logger *slog.Logger) (*Publisher, error) {
	opts := []nats.Option{
		nats.Name("yywc"),
		nats.MaxReconnects(5),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}
	if deadline, ok := ctx.Deadline(); ok {
		opts = append(opts, nats.Timeout(time.Until(deadline)))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &Publisher{conn: nc, logger: logger}, nil
}

// Publish JSON-encodes data onto subject and waits for the server to
// acknowledge the flush.
func (p *Publisher) Publish(ctx context.Context, subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	if err := p.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flushTimeout)
		defer cancel()
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flush %s: %w", subject, err)
	}
	p.logger.Debug("event published", "subject", subject, "bytes", len(payload))
	return nil
}

// Close drains pending messages and closes the connection.
func (p *Publisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}
