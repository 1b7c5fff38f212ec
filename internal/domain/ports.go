package domain

import (
	"context"
	"time"
)

// GraphQLExecutor — порт исполнения запросов и мутаций Admin API.
// Ответ поля "data" декодируется в out; транспортные ошибки и ошибки
// верхнего уровня GraphQL возвращаются как ErrUpstream.
type GraphQLExecutor interface {
	Execute(ctx context.Context, shop, document string, variables map[string]any, out any) error
}

// SessionRepository — порт персистентности сессий магазинов.
type SessionRepository interface {
	Upsert(ctx context.Context, shop string, raw []byte) error
	LoadAll(ctx context.Context, fn func(shop string, raw []byte) error) error
	Delete(ctx context.Context, shop string) error
}

// SessionCache — порт быстрого доступа к сессиям (кэш).
type SessionCache interface {
	Get(shop string) (ShopSession, bool)
	Set(shop string, s ShopSession)
	Delete(shop string)
}

// MessageSubscriber — порт подписчика на входящие сообщения.
type MessageSubscriber interface {
	// Subscribe регистрирует обработчик; ack/повторные доставки реализует адаптер.
	Subscribe(ctx context.Context, handler func(ctx context.Context, raw []byte) error) error
}

// FulfillmentEvent — событие о терминальном результате фиксации.
type FulfillmentEvent struct {
	Shop          string      `json:"shop"`
	Invoice       string      `json:"invoice"`
	Outcome       OutcomeKind `json:"outcome"`
	FulfillmentID string      `json:"fulfillment_id,omitempty"`
	Reasons       []string    `json:"reasons,omitempty"`
	At            time.Time   `json:"at"`
}

// EventPublisher — порт публикации событий; публикация не влияет на ответ.
type EventPublisher interface {
	Publish(ctx context.Context, ev FulfillmentEvent) error
}

// NopPublisher — публикатор, когда брокер не настроен.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, FulfillmentEvent) error { return nil }
