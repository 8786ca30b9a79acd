package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"helpify/core"
)

const subjectPrefix = "helpify.events."

// Publisher forwards committed domain events to NATS. Delivery is best
// effort: a failed publish is logged and dropped, never surfaced to the
// operation that produced the event.
type Publisher struct {
	log  *slog.Logger
	conn *nats.Conn
}

func NewPublisher(log *slog.Logger, url string) (*Publisher, error) {
	conn, err := nats.Connect(url, nats.Name("helpify"))
	if err != nil {
		return nil, err
	}
	return &Publisher{log: log, conn: conn}, nil
}

func (p *Publisher) Close() {
	p.conn.Close()
}

type envelope struct {
	ID string `json:"id"`
	core.Event
}

func (p *Publisher) Publish(_ context.Context, ev core.Event) {
	body, err := json.Marshal(envelope{ID: uuid.NewString(), Event: ev})
	if err != nil {
		p.log.Error("marshal event", "type", ev.Type, "error", err)
		return
	}

	if err := p.conn.Publish(subjectPrefix+ev.Type, body); err != nil {
		p.log.Warn("publish event", "type", ev.Type, "task_id", ev.TaskID, "error", err)
	}
}
