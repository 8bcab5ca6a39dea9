package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/Zereker/boggle/match"
)

type published struct {
	subject string
	data    []byte
}

type connStub struct {
	msgs []published
	err  error
}

func (c *connStub) Publish(subject string, data []byte) error {
	if c.err != nil {
		return c.err
	}
	c.msgs = append(c.msgs, published{subject: subject, data: data})
	return nil
}

func TestPublisher_Record(t *testing.T) {
	conn := &connStub{}
	p := NewPublisher(conn, "boggle")
	p.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }

	r := match.Result{
		ID:    uuid.New(),
		Board: "HORSTOAEAGGDPPLE",
		Players: [2]match.PlayerResult{
			{Name: "Alice", Score: 3},
			{Name: "Bob", Score: 1},
		},
		Shared: []string{"TAP"},
	}
	if err := p.Record(context.Background(), r); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	if len(conn.msgs) != 1 {
		t.Fatalf("published %d messages, want 1", len(conn.msgs))
	}
	if conn.msgs[0].subject != "boggle.match.finished" {
		t.Errorf("subject = %q", conn.msgs[0].subject)
	}

	var env Envelope
	if err := json.Unmarshal(conn.msgs[0].data, &env); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if env.EventType != MatchFinished || env.MatchID != r.ID.String() {
		t.Errorf("unexpected envelope %+v", env)
	}
	if env.Payload.Players[0].Name != "Alice" || env.Payload.Shared[0] != "TAP" {
		t.Errorf("unexpected payload %+v", env.Payload)
	}
}

func TestPublisher_Record_Error(t *testing.T) {
	errDown := errors.New("no servers available")
	p := NewPublisher(&connStub{err: errDown}, "boggle")

	if err := p.Record(context.Background(), match.Result{}); !errors.Is(err, errDown) {
		t.Errorf("expected wrapped publish error, got %v", err)
	}
}

func TestPublisher_Interfaces(t *testing.T) {
	var _ match.Recorder = (*Publisher)(nil)
	var _ Conn = (*nats.Conn)(nil)
}
