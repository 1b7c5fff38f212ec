package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/example/shop-fulfiller/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "shop-fulfiller/usecase"

// FulfillByInvoice — найти заказ по номеру счёта и выполнить его открытые fulfillment orders.
type FulfillByInvoice struct {
	GraphQL        domain.GraphQLExecutor
	Events         domain.EventPublisher
	Log            *slog.Logger
	NotifyCustomer bool
	Now            func() time.Time

	// Tracer — если не задан, берётся из глобального TracerProvider в момент вызова.
	Tracer trace.Tracer
}

// Execute — чтение, затем не более одной мутации. Ничего не повторяет:
// повторный запуск после успешной фиксации даст AlreadyFulfilled.
func (uc FulfillByInvoice) Execute(ctx context.Context, shop string, invoice domain.InvoiceQuery) (domain.Outcome, error) {
	lookup, err := uc.ResolveOrder(ctx, shop, invoice)
	if err != nil {
		return domain.Outcome{}, err
	}
	if !lookup.Found {
		return domain.Outcome{}, fmt.Errorf("order %s: %w", invoice, domain.ErrNotFound)
	}
	out, err := uc.Commit(ctx, shop, lookup)
	if err != nil {
		return domain.Outcome{}, err
	}
	uc.publish(ctx, shop, invoice, out)
	return out, nil
}

// ResolveOrder — один запрос чтения по точному имени заказа; единицы возвращаются в любом статусе.
func (uc FulfillByInvoice) ResolveOrder(ctx context.Context, shop string, invoice domain.InvoiceQuery) (domain.OrderLookup, error) {
	ctx, span := uc.tracer().Start(ctx, "ResolveOrder")
	defer span.End()
	span.SetAttributes(attribute.String("shop", shop), attribute.String("invoice", invoice.String()))

	var data orderLookupData
	vars := map[string]any{
		"query": "name:" + strconv.Quote(invoice.String()),
		"units": maxUnitsPerOrder,
		"items": maxLineItemsPerUnit,
	}
	if err := uc.GraphQL.Execute(ctx, shop, orderLookupQuery, vars, &data); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "order lookup failed")
		return domain.OrderLookup{}, upstream("order lookup", err)
	}
	if len(data.Orders.Edges) == 0 {
		return domain.OrderLookup{}, nil
	}

	node := data.Orders.Edges[0].Node
	lookup := domain.OrderLookup{Found: true, OrderID: node.ID, OrderName: node.Name}
	for _, fe := range node.FulfillmentOrders.Edges {
		unit := domain.FulfillableUnit{ID: fe.Node.ID, Status: domain.UnitStatus(fe.Node.Status)}
		for _, le := range fe.Node.LineItems.Edges {
			if le.Node.RemainingQuantity <= 0 {
				continue
			}
			unit.LineItems = append(unit.LineItems, domain.LineItem{ID: le.Node.ID, Quantity: le.Node.RemainingQuantity})
		}
		lookup.Units = append(lookup.Units, unit)
	}
	span.SetAttributes(attribute.Int("units", len(lookup.Units)))
	return lookup, nil
}

// Commit — одна мутация на все открытые единицы; без открытых единиц мутация не выполняется.
func (uc FulfillByInvoice) Commit(ctx context.Context, shop string, lookup domain.OrderLookup) (domain.Outcome, error) {
	open := lookup.OpenUnits()
	if len(open) == 0 {
		return domain.AlreadyFulfilled(lookup.OrderName), nil
	}

	ctx, span := uc.tracer().Start(ctx, "CommitFulfillment")
	defer span.End()
	span.SetAttributes(attribute.String("shop", shop), attribute.String("order", lookup.OrderID), attribute.Int("open_units", len(open)))

	input := fulfillmentInput{NotifyCustomer: uc.NotifyCustomer}
	for _, u := range open {
		group := fulfillmentOrderLineItems{FulfillmentOrderID: u.ID}
		for _, li := range u.LineItems {
			group.FulfillmentOrderLineItems = append(group.FulfillmentOrderLineItems, fulfillmentOrderItem{ID: li.ID, Quantity: li.Quantity})
		}
		input.LineItemsByFulfillmentOrder = append(input.LineItemsByFulfillmentOrder, group)
	}

	var data fulfillmentCreateData
	if err := uc.GraphQL.Execute(ctx, shop, fulfillmentCreateMutation, map[string]any{"fulfillment": input}, &data); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fulfillment mutation failed")
		return domain.Outcome{}, upstream("fulfillment mutation", err)
	}

	res := data.FulfillmentCreate
	if len(res.UserErrors) > 0 {
		reasons := make([]string, 0, len(res.UserErrors))
		for _, ue := range res.UserErrors {
			reasons = append(reasons, ue.Message)
		}
		span.SetStatus(codes.Error, "rejected")
		return domain.Rejected(lookup.OrderName, reasons...), nil
	}
	if res.Fulfillment == nil || res.Fulfillment.ID == "" {
		span.SetStatus(codes.Error, noFulfillmentIDError)
		return domain.Rejected(lookup.OrderName, noFulfillmentIDError), nil
	}
	return domain.Committed(lookup.OrderName, res.Fulfillment.ID), nil
}

func (uc FulfillByInvoice) tracer() trace.Tracer {
	if uc.Tracer != nil {
		return uc.Tracer
	}
	return otel.Tracer(tracerName)
}

func (uc FulfillByInvoice) publish(ctx context.Context, shop string, invoice domain.InvoiceQuery, out domain.Outcome) {
	if uc.Events == nil {
		return
	}
	now := time.Now
	if uc.Now != nil {
		now = uc.Now
	}
	ev := domain.FulfillmentEvent{
		Shop:          shop,
		Invoice:       invoice.String(),
		Outcome:       out.Kind,
		FulfillmentID: out.FulfillmentID,
		Reasons:       out.Reasons,
		At:            now().UTC(),
	}
	if err := uc.Events.Publish(ctx, ev); err != nil && uc.Log != nil {
		uc.Log.Warn("publish fulfillment event", "shop", shop, "invoice", invoice.String(), "err", err)
	}
}

// upstream — ErrUnauthenticated здесь означает только отсутствие сохранённой
// сессии магазина: приложение там не установлено, действовать от его имени нечем,
// поэтому ответ 401. Отказ самого Admin API (401/403 на имеющийся токен) клиент
// уже отдаёт как ErrUpstream. Всё прочее сводится к ErrUpstream.
func upstream(stage string, err error) error {
	if errors.Is(err, domain.ErrUnauthenticated) || errors.Is(err, domain.ErrUpstream) {
		return fmt.Errorf("%s: %w", stage, err)
	}
	return fmt.Errorf("%s: %w: %v", stage, domain.ErrUpstream, err)
}
