// Package events announces finished matches on NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Zereker/boggle"
	"github.com/Zereker/boggle/match"
)

// MatchFinished is the event type published for every expired match.
const MatchFinished = "match.finished"

const (
	maxReconnects = 10
	reconnectWait = 2 * time.Second
)

// Conn is the part of a NATS connection the publisher needs.
// *nats.Conn implements it.
type Conn interface {
	Publish(subject string, data []byte) error
}

// Envelope wraps every published event.
type Envelope struct {
	EventID   string       `json:"eventId"`
	EventType string       `json:"eventType"`
	MatchID   string       `json:"matchId"`
	Timestamp time.Time    `json:"timestamp"`
	Payload   match.Result `json:"payload"`
}

// Publisher sends finished matches to <prefix>.match.finished.
// It implements match.Recorder.
type Publisher struct {
	conn   Conn
	prefix string
	now    func() time.Time
}

// NewPublisher creates a publisher on conn using subject prefix.
func NewPublisher(conn Conn, prefix string) *Publisher {
	return &Publisher{conn: conn, prefix: prefix, now: time.Now}
}

// Subject returns the subject finished matches are published to.
func (p *Publisher) Subject() string {
	return p.prefix + "." + MatchFinished
}

// Record publishes r.
func (p *Publisher) Record(_ context.Context, r match.Result) error {
	data, err := json.Marshal(Envelope{
		EventID:   r.ID.String() + "/" + MatchFinished,
		EventType: MatchFinished,
		MatchID:   r.ID.String(),
		Timestamp: p.now().UTC(),
		Payload:   r,
	})
	if err != nil {
		return fmt.Errorf("marshal match event: %w", err)
	}

	if err := p.conn.Publish(p.Subject(), data); err != nil {
		return fmt.Errorf("publish %s: %w", p.Subject(), err)
	}
	return nil
}

// Connect dials NATS with reconnects enabled, reporting connection changes to logger.
func Connect(url string, logger boggle.Logger) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("boggle-server"),
		nats.MaxReconnects(maxReconnects),
		nats.ReconnectWait(reconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			logger.Error("NATS error", "error", err)
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return nc, nil
}
