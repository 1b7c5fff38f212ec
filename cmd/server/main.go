package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/shop-fulfiller/internal/adapter/auth"
	"github.com/example/shop-fulfiller/internal/adapter/cache"
	"github.com/example/shop-fulfiller/internal/adapter/httpapi"
	"github.com/example/shop-fulfiller/internal/adapter/metrics"
	"github.com/example/shop-fulfiller/internal/adapter/natsstan"
	"github.com/example/shop-fulfiller/internal/adapter/repo"
	"github.com/example/shop-fulfiller/internal/adapter/shopify"
	"github.com/example/shop-fulfiller/internal/config"
	"github.com/example/shop-fulfiller/internal/domain"
	"github.com/example/shop-fulfiller/internal/logging"
	"github.com/example/shop-fulfiller/internal/tracing"
	"github.com/example/shop-fulfiller/internal/usecase"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
	if err != nil {
		log.Error("tracing setup", "err", err)
		os.Exit(1)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := repo.EnsureSchema(ctx, pool); err != nil {
		log.Error("init schema", "err", err)
		os.Exit(1)
	}

	sessionRepo := repo.NewPostgresSessionRepo(pool)
	sessions := cache.NewMemorySessionCache()
	if err := (usecase.LoadSessions{Repo: sessionRepo, Cache: sessions}).Execute(ctx); err != nil {
		log.Error("load sessions", "err", err)
		os.Exit(1)
	}

	var events domain.EventPublisher = domain.NopPublisher{}
	if cfg.NATS.Enabled() {
		sc, err := natsstan.Connect(cfg.NATS.ClusterID, cfg.NATS.ClientID, cfg.NATS.URL)
		if err != nil {
			// без брокера сервис продолжает работать: сессии уже загружены из БД
			log.Warn("nats disabled", "err", err)
		} else {
			defer sc.Close()
			events = &natsstan.Publisher{Conn: sc, Subject: cfg.NATS.EventSubject}
			sub := &natsstan.Subscriber{
				Conn:    sc,
				Subject: cfg.NATS.SessionSubject,
				Queue:   "fulfiller-workers",
				Durable: cfg.NATS.Durable,
				Log:     log,
			}
			ingest := usecase.ProcessIncomingSession{Repo: sessionRepo, Cache: sessions}
			if err := sub.Subscribe(ctx, ingest.Execute); err != nil {
				log.Warn("stan subscribe", "subject", cfg.NATS.SessionSubject, "err", err)
			}
		}
	}

	api := httpapi.NewServer(httpapi.Options{
		Log: log,
		Identity: auth.Resolver{
			Sessions: auth.SessionTokenVerifier{
				APIKey:    cfg.Shopify.APIKey,
				APISecret: cfg.Shopify.APISecret,
				Leeway:    cfg.Auth.TokenLeeway,
			},
			SharedSecret: cfg.Auth.SharedSecret,
			SecretHeader: cfg.Auth.SecretHeader,
		},
		Fulfill: usecase.FulfillByInvoice{
			GraphQL:        shopify.NewClient(sessions, cfg.Shopify.APIVersion, cfg.Shopify.HTTPTimeout),
			Events:         events,
			Log:            log,
			NotifyCustomer: cfg.Shopify.NotifyCustomer,
		},
		Redact:        usecase.RedactShop{Repo: sessionRepo, Cache: sessions},
		WebhookSecret: cfg.Shopify.APISecret,
		Metrics:       metrics.New(),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("http listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	_ = srv.Shutdown(shutdownCtx)
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("tracing shutdown", "err", err)
	}
	log.Info("shutdown complete")
}
