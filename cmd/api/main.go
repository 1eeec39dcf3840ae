package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"bazaar-backend/internal/auth"
	"bazaar-backend/internal/cart"
	"bazaar-backend/internal/config"
	"bazaar-backend/internal/logging"
	"bazaar-backend/internal/metrics"
	"bazaar-backend/internal/order"
	"bazaar-backend/internal/payment"
	"bazaar-backend/internal/server"
	"bazaar-backend/internal/store/mongostore"
)

func main() {
	cfg := config.Load()
	log := logging.New("bazaar-api")
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("mongo connect failed", zap.Error(err))
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		log.Fatal("mongo ping failed", zap.Error(err))
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	db := client.Database(cfg.MongoDB)

	if err := mongostore.EnsureIndexes(connectCtx, db); err != nil {
		log.Fatal("index creation failed", zap.Error(err))
	}
	stores := mongostore.New(db)

	// Reset tokens: Redis when configured, otherwise process-local (lost
	// on restart).
	var resetTokens auth.TokenStore
	if cfg.RedisAddr != "" {
		rts := auth.NewRedisTokenStore(cfg.RedisAddr)
		if err := rts.Ping(connectCtx); err != nil {
			log.Fatal("redis ping failed", zap.Error(err))
		}
		resetTokens = rts
		log.Info("reset tokens backed by redis", zap.String("addr", cfg.RedisAddr))
	} else {
		resetTokens = auth.NewMemoryTokenStore()
		log.Info("reset tokens held in memory")
	}

	// Payment gateway variant is fixed here, at startup.
	var gateway payment.Gateway
	if cfg.StripeSecretKey != "" {
		gateway = payment.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
		log.Info("payment gateway: stripe")
	} else {
		gateway = payment.NewMockGateway(cfg.MockWebhookToken)
		log.Info("payment gateway: mock")
	}

	met := metrics.New()
	carts := cart.NewService(stores.Carts, stores.Products)
	orders := order.NewService(stores.Orders, stores.Carts, stores.Products, gateway, log, met)

	srv := server.New(cfg, log, met, stores.Users, stores.Products, carts, orders, gateway, resetTokens)

	httpSrv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: srv.Router(),
	}

	go func() {
		log.Info("listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
	}
}
