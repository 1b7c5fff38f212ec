package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/example/shop-fulfiller/internal/adapter/metrics"
	"github.com/example/shop-fulfiller/internal/domain"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// IdentityResolver — определить вызывающего по запросу.
type IdentityResolver interface {
	Resolve(r *http.Request) (domain.Principal, error)
}

// Fulfiller — найти заказ по счёту и зафиксировать выполнение.
type Fulfiller interface {
	Execute(ctx context.Context, shop string, invoice domain.InvoiceQuery) (domain.Outcome, error)
}

// ShopRedactor — удалить данные магазина по вебхуку.
type ShopRedactor interface {
	Execute(ctx context.Context, shop string) error
}

type Options struct {
	Log           *slog.Logger
	Identity      IdentityResolver
	Fulfill       Fulfiller
	Redact        ShopRedactor
	WebhookSecret string
	Metrics       *metrics.Metrics
	Tracer        trace.Tracer
}

type Server struct {
	Router *mux.Router
	opts   Options
}

func NewServer(opts Options) *Server {
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer("shop-fulfiller/httpapi")
	}
	s := &Server{Router: mux.NewRouter(), opts: opts}
	s.Router.Use(requestID, s.instrument)
	s.Router.MethodNotAllowedHandler = http.HandlerFunc(handleMethodNotAllowed)
	s.Router.HandleFunc("/api/updateAdaptDetails", s.handleFulfill).Methods(http.MethodGet, http.MethodPost)
	s.Router.HandleFunc("/api/fulfill", s.handleFulfill).Methods(http.MethodGet, http.MethodPost)
	s.Router.HandleFunc("/webhooks", s.handleWebhook).Methods(http.MethodPost)
	s.Router.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	if opts.Metrics != nil {
		s.Router.Handle("/metrics", opts.Metrics.Handler()).Methods(http.MethodGet)
	}
	return s
}

func (s *Server) handleFulfill(w http.ResponseWriter, r *http.Request) {
	// Входящий traceparent продолжает трассу вызывающего.
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	ctx, span := s.opts.Tracer.Start(ctx, "FulfillByInvoice")
	defer span.End()
	log := s.opts.Log.With("request_id", requestIDFrom(ctx))

	principal, err := s.opts.Identity.Resolve(r)
	if err != nil || !principal.Authenticated() {
		switch {
		case err == nil:
			err = domain.ErrUnauthenticated
		case !errors.Is(err, domain.ErrUnauthenticated):
			err = fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
		}
		s.fail(ctx, w, log, "identity", err, "", r.URL.Query().Get(shopKey))
		return
	}

	fields := parseFulfillRequest(r, log)
	invoice, shop, err := fields.resolve(principal)
	if err != nil {
		s.fail(ctx, w, log, "normalize", err, invoice, fields.Shop)
		return
	}
	span.SetAttributes(
		attribute.String("principal", principal.Kind.String()),
		attribute.String("shop", shop),
		attribute.String("invoice", invoice.String()),
	)

	out, err := s.opts.Fulfill.Execute(ctx, shop, invoice)
	if err != nil {
		s.fail(ctx, w, log, "fulfill", err, invoice, shop)
		return
	}

	s.count(string(out.Kind))
	log.Info("fulfillment finished",
		"principal", principal.Kind.String(),
		"shop", shop,
		"invoice", invoice.String(),
		"outcome", string(out.Kind),
		"fulfillment_id", out.FulfillmentID,
		"reasons", out.Reasons,
	)
	writeOutcome(w, out)
}

// fail — залогировать ошибку этапа с контекстом и отдать безопасный ответ.
func (s *Server) fail(ctx context.Context, w http.ResponseWriter, log *slog.Logger, stage string, err error, invoice domain.InvoiceQuery, shop string) {
	code, msg, kind := failureStatus(err, invoice)
	s.count(kind)
	level := slog.LevelWarn
	if code >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	log.Log(ctx, level, "fulfillment failed",
		"stage", stage,
		"kind", kind,
		"shop", shop,
		"invoice", invoice.String(),
		"err", err,
	)
	writeJSON(w, code, errorResponse{Error: msg})
}

func (s *Server) count(outcome string) {
	if s.opts.Metrics != nil {
		s.opts.Metrics.Outcomes.WithLabelValues(outcome).Inc()
	}
}

func handleMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
