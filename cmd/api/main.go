package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/azizikri/beat-market/db/migrations"
	"github.com/azizikri/beat-market/internal/auth"
	"github.com/azizikri/beat-market/internal/cache"
	"github.com/azizikri/beat-market/internal/config"
	httphandler "github.com/azizikri/beat-market/internal/delivery/http"
	"github.com/azizikri/beat-market/internal/delivery/kafka"
	"github.com/azizikri/beat-market/internal/repository"
	"github.com/azizikri/beat-market/internal/storage"
	"github.com/azizikri/beat-market/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/twmb/franz-go/pkg/kgo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := repository.RunMigrations(cfg.DatabaseURL(), migrations.FS); err != nil {
		fatal("failed to run migrations", err)
	}

	pool, err := repository.NewPool(ctx, cfg.DatabaseURL())
	if err != nil {
		fatal("failed to connect to database", err)
	}
	defer pool.Close()

	store := repository.New(pool)
	checks := map[string]func(context.Context) error{"postgres": store.Ping}

	var c cache.Cache = cache.Noop{}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		redisCache := cache.NewRedis(rdb)
		if err := redisCache.Ping(ctx); err != nil {
			slog.Warn("redis unreachable, continuing without it until it recovers", "addr", cfg.RedisAddr, "error", err)
		}
		c = redisCache
		checks["redis"] = redisCache.Ping
	}

	promos := usecase.NewPromoService(store)
	catalog := usecase.NewCatalogService(store, c)
	assets := usecase.NewAssetService(
		catalog,
		storage.NewResolver(),
		storage.NewSigner(cfg.SigningSecret, cfg.PublicBaseURL, cfg.SignedURLTTL),
		storage.NewFSBackend(cfg.StorageRoot),
		c,
	)

	var (
		gateway usecase.PromoGateway
		clients []*kgo.Client
		workers sync.WaitGroup
	)

	if cfg.EventDrivenEnabled {
		brokers := cfg.Brokers()

		consumerClient, err := newConsumerClient(brokers, cfg.KafkaClientID, cfg.KafkaGroupID,
			kafka.TopicValidateRequest, kafka.TopicRedeemRequest)
		if err != nil {
			fatal("failed to create kafka client", err)
		}
		clients = append(clients, consumerClient)

		if err := kafka.EnsureTopics(ctx, consumerClient, cfg); err != nil {
			slog.Warn("failed to ensure topics", "error", err)
		}

		retryClient, err := newConsumerClient(brokers, cfg.KafkaClientID+"-retry", cfg.KafkaRetryGroupID,
			kafka.TopicValidateRetry, kafka.TopicRedeemRetry)
		if err != nil {
			fatal("failed to create retry kafka client", err)
		}
		clients = append(clients, retryClient)

		replyClient, err := kgo.NewClient(
			kgo.SeedBrokers(brokers...),
			kgo.ClientID(cfg.KafkaClientID+"-reply"),
			kgo.ConsumeTopics(kafka.ReplyTopic(cfg.KafkaInstanceID)),
		)
		if err != nil {
			fatal("failed to create reply kafka client", err)
		}
		clients = append(clients, replyClient)

		kgateway := kafka.NewGateway(cfg, consumerClient)
		gateway = kgateway

		consumer := kafka.NewConsumer(consumerClient, promos)
		retryConsumer := kafka.NewConsumer(retryClient, promos)
		workers.Add(3)
		go func() { defer workers.Done(); consumer.Start(ctx) }()
		go func() { defer workers.Done(); retryConsumer.StartRetry(ctx) }()
		go func() { defer workers.Done(); kgateway.ConsumeReplies(ctx, replyClient) }()

		slog.Info("event-driven promo flow enabled", "brokers", brokers, "instance", cfg.KafkaInstanceID)
	} else {
		gateway = kafka.NewDirectGateway(promos)
	}

	handler := httphandler.NewHandler(httphandler.Deps{
		Promos:        gateway,
		Admin:         promos,
		Catalog:       catalog,
		Assets:        assets,
		Tokens:        auth.NewTokens(cfg.JWTSecret),
		SessionCookie: cfg.SessionCookie,
		Checks:        checks,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httphandler.RequestLogger)
	r.Use(middleware.Recoverer)
	handler.Routes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	workers.Add(1)
	go func() {
		defer workers.Done()
		slog.Info("starting server", "port", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown error", "error", err)
	}
	for _, client := range clients {
		client.Close()
	}

	workers.Wait()
	slog.Info("shutdown complete")
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

func newConsumerClient(brokers []string, clientID, groupID string, topics ...string) (*kgo.Client, error) {
	return kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ClientID(clientID),
		kgo.ConsumerGroup(groupID),
		kgo.ConsumeTopics(topics...),
		kgo.DisableAutoCommit(),
	)
}
