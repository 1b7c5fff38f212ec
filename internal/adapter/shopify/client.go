package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/example/shop-fulfiller/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

const maxResponseBytes = 4 << 20

// TokenSource — источник оффлайн-токенов Admin API по домену магазина.
type TokenSource interface {
	AccessToken(shop string) (string, bool)
}

// Client — исполнитель GraphQL-запросов Admin API.
type Client struct {
	HTTP       *http.Client
	Tokens     TokenSource
	APIVersion string
	// BaseURL заменяет https://<shop>; используется в тестах.
	BaseURL string
}

func NewClient(tokens TokenSource, apiVersion string, timeout time.Duration) *Client {
	return &Client{
		HTTP:       &http.Client{Timeout: timeout},
		Tokens:     tokens,
		APIVersion: apiVersion,
	}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

func (c *Client) Execute(ctx context.Context, shop, document string, variables map[string]any, out any) error {
	token, ok := c.Tokens.AccessToken(shop)
	if !ok {
		return fmt.Errorf("no session for shop %q: %w", shop, domain.ErrUnauthenticated)
	}

	body, err := json.Marshal(graphQLRequest{Query: document, Variables: variables})
	if err != nil {
		return fmt.Errorf("encode graphql request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(shop), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Shopify-Access-Token", token)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", domain.ErrUpstream, err)
	}
	// 401/403 относятся к токену приложения, а не к вызывающему: это сбой Admin API.
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: admin api status %d", domain.ErrUpstream, resp.StatusCode)
	}

	var gr graphQLResponse
	if err := json.Unmarshal(raw, &gr); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrUpstream, err)
	}
	if len(gr.Errors) > 0 {
		msgs := make([]string, 0, len(gr.Errors))
		for _, e := range gr.Errors {
			msgs = append(msgs, e.Message)
		}
		return fmt.Errorf("%w: graphql: %s", domain.ErrUpstream, strings.Join(msgs, "; "))
	}
	if len(gr.Data) == 0 || bytes.Equal(gr.Data, []byte("null")) {
		return fmt.Errorf("%w: empty data", domain.ErrUpstream)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(gr.Data, out); err != nil {
		return fmt.Errorf("%w: decode data: %v", domain.ErrUpstream, err)
	}
	return nil
}

func (c *Client) endpoint(shop string) string {
	base := c.BaseURL
	if base == "" {
		base = "https://" + shop
	}
	return strings.TrimRight(base, "/") + "/admin/api/" + c.APIVersion + "/graphql.json"
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

var _ domain.GraphQLExecutor = (*Client)(nil)
