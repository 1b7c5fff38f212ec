package usecase

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/example/shop-fulfiller/internal/domain"
)

type gqlCall struct {
	shop      string
	document  string
	variables map[string]any
}

// fakeGraphQL отвечает заготовленным JSON на запрос заказа и на мутацию.
type fakeGraphQL struct {
	orderData    string
	mutationData string
	orderErr     error
	mutationErr  error
	calls        []gqlCall
	// afterCommit заменяет orderData после успешной мутации.
	afterCommit string
}

func (f *fakeGraphQL) Execute(_ context.Context, shop, document string, variables map[string]any, out any) error {
	f.calls = append(f.calls, gqlCall{shop: shop, document: document, variables: variables})
	if strings.Contains(document, "fulfillmentCreate") {
		if f.mutationErr != nil {
			return f.mutationErr
		}
		if f.afterCommit != "" {
			f.orderData = f.afterCommit
		}
		return json.Unmarshal([]byte(f.mutationData), out)
	}
	if f.orderErr != nil {
		return f.orderErr
	}
	return json.Unmarshal([]byte(f.orderData), out)
}

func (f *fakeGraphQL) mutations() []gqlCall {
	var out []gqlCall
	for _, c := range f.calls {
		if strings.Contains(c.document, "fulfillmentCreate") {
			out = append(out, c)
		}
	}
	return out
}

type fakePublisher struct {
	events []domain.FulfillmentEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, ev domain.FulfillmentEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

type fakeRepo struct {
	rows    map[string][]byte
	deleted []string
	err     error
}

func newFakeRepo() *fakeRepo { return &fakeRepo{rows: map[string][]byte{}} }

func (r *fakeRepo) Upsert(_ context.Context, shop string, raw []byte) error {
	if r.err != nil {
		return r.err
	}
	r.rows[shop] = raw
	return nil
}

func (r *fakeRepo) LoadAll(_ context.Context, fn func(shop string, raw []byte) error) error {
	for shop, raw := range r.rows {
		if err := fn(shop, raw); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, shop string) error {
	if r.err != nil {
		return r.err
	}
	delete(r.rows, shop)
	r.deleted = append(r.deleted, shop)
	return nil
}

type mapCache map[string]domain.ShopSession

func (c mapCache) Get(shop string) (domain.ShopSession, bool) {
	s, ok := c[shop]
	return s, ok
}

func (c mapCache) Set(shop string, s domain.ShopSession) { c[shop] = s }

func (c mapCache) Delete(shop string) { delete(c, shop) }

const (
	orderOpenTwoItems = `{"orders":{"edges":[{"node":{"id":"gid://shopify/Order/1","name":"#1001",
		"fulfillmentOrders":{"edges":[{"node":{"id":"gid://shopify/FulfillmentOrder/11","status":"OPEN",
			"lineItems":{"edges":[
				{"node":{"id":"gid://shopify/FulfillmentOrderLineItem/111","remainingQuantity":2}},
				{"node":{"id":"gid://shopify/FulfillmentOrderLineItem/112","remainingQuantity":1}}]}}}]}}}]}}`
	orderClosed = `{"orders":{"edges":[{"node":{"id":"gid://shopify/Order/1","name":"#1001",
		"fulfillmentOrders":{"edges":[{"node":{"id":"gid://shopify/FulfillmentOrder/11","status":"CLOSED",
			"lineItems":{"edges":[]}}}]}}}]}}`
	orderScheduled = `{"orders":{"edges":[{"node":{"id":"gid://shopify/Order/2","name":"#1002",
		"fulfillmentOrders":{"edges":[
			{"node":{"id":"gid://shopify/FulfillmentOrder/21","status":"SCHEDULED","lineItems":{"edges":[{"node":{"id":"li-1","remainingQuantity":1}}]}}},
			{"node":{"id":"gid://shopify/FulfillmentOrder/22","status":"SCHEDULED","lineItems":{"edges":[{"node":{"id":"li-2","remainingQuantity":3}}]}}}]}}}]}}`
	orderMixed = `{"orders":{"edges":[{"node":{"id":"gid://shopify/Order/3","name":"#1003",
		"fulfillmentOrders":{"edges":[
			{"node":{"id":"fo-open-1","status":"OPEN","lineItems":{"edges":[{"node":{"id":"li-a","remainingQuantity":1}},{"node":{"id":"li-done","remainingQuantity":0}}]}}},
			{"node":{"id":"fo-sched","status":"SCHEDULED","lineItems":{"edges":[{"node":{"id":"li-b","remainingQuantity":1}}]}}},
			{"node":{"id":"fo-open-2","status":"OPEN","lineItems":{"edges":[{"node":{"id":"li-c","remainingQuantity":4}}]}}}]}}}]}}`
	noOrders = `{"orders":{"edges":[]}}`

	mutationOK            = `{"fulfillmentCreate":{"fulfillment":{"id":"gid://shopify/Fulfillment/900","status":"SUCCESS"},"userErrors":[]}}`
	mutationInsufficient  = `{"fulfillmentCreate":{"fulfillment":null,"userErrors":[{"field":["fulfillment"],"message":"Insufficient inventory"}]}}`
	mutationNoFulfillment = `{"fulfillmentCreate":{"fulfillment":null,"userErrors":[]}}`
)
