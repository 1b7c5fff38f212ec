package natsstan

import (
	"context"
	"encoding/json"

	"github.com/example/shop-fulfiller/internal/domain"
	stan "github.com/nats-io/stan.go"
)

// Publisher — публикация событий фиксации в NATS Streaming.
type Publisher struct {
	Conn    stan.Conn
	Subject string
}

func (p *Publisher) Publish(_ context.Context, ev domain.FulfillmentEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.Conn.Publish(p.Subject, b)
}

var _ domain.EventPublisher = (*Publisher)(nil)
