package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"product-gateway/internal/cache"
	"product-gateway/internal/config"
	"product-gateway/internal/database"
	"product-gateway/internal/handlers"
	"product-gateway/internal/logger"
	"product-gateway/internal/metrics"
	"product-gateway/internal/repository"
	"product-gateway/internal/routes"
)

func main() {
	os.Exit(start(logger.New))
}

// start runs the gateway and returns the process exit code. Returning instead
// of exiting lets the deferred log flush run on failure.
func start(newLogger func(level, format string) (*zap.Logger, error)) int {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return 1
	}

	log, err := newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	if cfg.EnvFileLoaded {
		log.Info(".env file loaded")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", zap.Error(err))
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	gin.SetMode(cfg.GinMode)

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	m := metrics.New()
	opts := []handlers.Option{handlers.WithMetrics(m)}
	if cfg.CacheTTL > 0 {
		c := cache.New(cfg.CacheTTL, cfg.CacheTTL)
		defer c.Stop()
		opts = append(opts, handlers.WithCache(c))
		log.Info("read cache enabled", zap.Duration("ttl", cfg.CacheTTL))
	}

	h := handlers.NewProductHandler(store, log, opts...)
	router := routes.NewRouter(store, h, m, log)

	return newServer(cfg, router, log).Serve(ctx)
}

// openStore builds the configured ProductStore and returns its teardown.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.ProductStore, func(), error) {
	if cfg.StoreDriver == config.DriverMemory {
		log.Warn("using in-memory store; data is lost on exit")
		return repository.NewMemoryStore(), func() {}, nil
	}

	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return nil, nil, err
	}
	log.Info("connected to mongo", zap.String("database", cfg.MongoDB), zap.String("collection", cfg.Collection))

	collection := client.Database(cfg.MongoDB).Collection(cfg.Collection)
	closeFn := func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			log.Error("disconnect mongo", zap.Error(err))
			return
		}
		log.Info("disconnected from mongo")
	}
	return repository.NewMongoStore(collection, cfg.StoreTimeout), closeFn, nil
}
