package natsstan

import (
	"context"
	"log/slog"
	"time"

	"github.com/example/shop-fulfiller/internal/domain"
	stan "github.com/nats-io/stan.go"
)

type Subscriber struct {
	Conn    stan.Conn
	Subject string
	Queue   string
	Durable string
	Log     *slog.Logger
}

func (s *Subscriber) Subscribe(ctx context.Context, handler func(ctx context.Context, raw []byte) error) error {
	sub, err := s.Conn.QueueSubscribe(s.Subject, s.Queue, func(m *stan.Msg) {
		s.handle(handler, m)
	}, stan.DurableName(s.Durable), stan.SetManualAckMode(), stan.AckWait(10*time.Second), stan.DeliverAllAvailable())
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		// Close сохраняет durable-подписку, в отличие от Unsubscribe
		_ = sub.Close()
	}()
	return nil
}

func (s *Subscriber) handle(handler func(ctx context.Context, raw []byte) error, m *stan.Msg) {
	hCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := handler(hCtx, m.Data); err != nil {
		// не подтверждаем, даём сообщению переотправиться
		s.Log.Warn("session message rejected", "subject", m.Subject, "seq", m.Sequence, "err", err)
		return
	}
	if err := m.Ack(); err != nil {
		s.Log.Warn("ack failed", "subject", m.Subject, "seq", m.Sequence, "err", err)
	}
}

var _ domain.MessageSubscriber = (*Subscriber)(nil)
