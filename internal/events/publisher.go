// Package events publishes turn and guardrail events over NATS for
// observability. The publisher is optional: a nil *Publisher is a no-op, so
// the dialog pipeline runs unchanged without a broker.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	// SubjectTurnCompleted carries one event per finished dialog turn.
	SubjectTurnCompleted = "dialog.turn.completed"
	// SubjectGuardrailViolation carries one event per guardrail substitution.
	SubjectGuardrailViolation = "dialog.guardrail.violation"
)

// TurnEvent is the payload for SubjectTurnCompleted.
type TurnEvent struct {
	ConnectionID string `json:"connection_id"`
	Scenario     string `json:"scenario"`
	Success      bool   `json:"success"`
	Substituted  bool   `json:"substituted"`
}

// ViolationEvent is the payload for SubjectGuardrailViolation.
type ViolationEvent struct {
	ConnectionID string   `json:"connection_id"`
	Scenario     string   `json:"scenario"`
	Rules        []string `json:"rules"`
}

type Publisher struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func NewPublisher(url, token string, logger *slog.Logger) (*Publisher, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
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

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Publisher{conn: nc, logger: logger}, nil
}

// Publish sends the payload as JSON. Failures are logged, never surfaced —
// eventing must not fail a turn.
func (p *Publisher) Publish(subject string, data any) {
	if p == nil {
		return
	}
	payload, err := json.Marshal(data)
	if err != nil {
		p.logger.Warn("marshal event payload", "subject", subject, "error", err)
		return
	}
	if err := p.conn.Publish(subject, payload); err != nil {
		p.logger.Warn("publish event", "subject", subject, "error", err)
	}
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.conn.Close()
}
