package main

import (
	"context"
	"fmt"
	"inventory-service/app/domain"
	handler "inventory-service/app/handler/api"
	"inventory-service/app/middleware"
	"inventory-service/app/repository/broker"
	"inventory-service/app/repository/cache"
	"inventory-service/app/repository/db"
	"inventory-service/app/repository/queue"
	"inventory-service/app/usecase"
	"inventory-service/config"
	"inventory-service/pkg/logger"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/redis/go-redis/v9"
	slogfiber "github.com/samber/slog-fiber"
)

const (
	cmdServe           = "serve"
	cmdProcessProducts = "process-products"
	cmdMigrate         = "migrate"

	notificationChannel = "product_notifications"
)

func main() {
	// init logger
	logger.InitLogger()

	command := cmdServe
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	var err error
	switch command {
	case cmdServe:
		err = serve()
	case cmdProcessProducts:
		err = processProducts()
	case cmdMigrate:
		err = migrateUp()
	default:
		err = fmt.Errorf("unknown command %q, expected %s, %s or %s", command, cmdServe, cmdProcessProducts, cmdMigrate)
	}
	if err != nil {
		slog.Error("exiting", "command", command, "error", err)
		os.Exit(1)
	}
}

// newTransport returns the queue transport selected by QUEUE_DRIVER. The redis
// client is nil for the memory driver.
func newTransport(cfg *config.Config) (*redis.Client, domain.QueueTransport) {
	if cfg.Queue.Driver == config.QueueDriverMemory {
		return nil, queue.NewMemoryTransport()
	}
	client := queue.NewRedisClient(cfg.Redis)
	return client, queue.NewRedisTransport(client)
}

// newNotifier builds the log channel notifier and, when NATS_URL is set, the
// JetStream publisher behind it. cleanup releases both.
func newNotifier(ctx context.Context, cfg *config.Config) (domain.Notifier, func(), error) {
	channel, closer, err := logger.NewChannel(notificationChannel, cfg.Notifier.LogFile)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Nats.Url == "" {
		slog.WarnContext(ctx, "NATS_URL not set, notifications go to the log channel only")
		return usecase.NewStockNotifier(channel, nil), func() { closer.Close() }, nil
	}

	nc, err := nats.Connect(cfg.Nats.Url)
	if err != nil {
		closer.Close()
		return nil, nil, fmt.Errorf("connect to NATS: %w", err)
	}
	cleanup := func() {
		nc.Drain()
		closer.Close()
	}

	js, err := jetstream.New(nc)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("create JetStream context: %w", err)
	}
	if err := broker.EnsureNotificationStream(ctx, js, cfg.Nats.StreamName); err != nil {
		cleanup()
		return nil, nil, err
	}

	publisher := broker.NewNotificationPublisher(js, cfg.Nats.StreamName)
	return usecase.NewStockNotifier(channel, publisher), cleanup, nil
}

func serve() error {
	ctx := context.Background()

	// init config
	cfg, err := config.InitConfig(ctx)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	if cfg.Db.Migrate {
		if err := db.RunMigrations(ctx, cfg.Db); err != nil {
			return err
		}
	}

	// init database
	dbPool, err := db.NewPostgres(ctx, cfg.Db)
	if err != nil {
		return fmt.Errorf("db connection: %w", err)
	}
	defer dbPool.Close()

	redisClient, transport := newTransport(cfg)
	if redisClient == nil {
		redisClient = queue.NewRedisClient(cfg.Redis)
	}
	defer redisClient.Close()

	producer := usecase.NewStockCheckProducer(transport, cfg.Queue)
	producer.Start(ctx)

	// The memory queue lives in this process, so it is drained here too.
	workerCtx, stopWorkers := context.WithCancel(ctx)
	var workers sync.WaitGroup
	if cfg.Queue.Driver == config.QueueDriverMemory {
		notifier, cleanup, err := newNotifier(ctx, cfg)
		if err != nil {
			stopWorkers()
			producer.Close()
			return err
		}
		defer cleanup()

		pool := usecase.NewStockCheckWorkerPool(transport, notifier, cfg.Queue, cfg.Notifier)
		workers.Add(1)
		go func() {
			defer workers.Done()
			if err := pool.Run(workerCtx); err != nil {
				slog.Error("in-process workers stopped", "error", err)
			}
		}()
	}

	reqValidator := validator.New()
	productRepo := db.NewProductRepository(dbPool)
	productCache := cache.NewProductCache(redisClient, cfg.CacheTTL)
	productUsecase := usecase.NewProductUsecase(productRepo, productCache, producer)
	productHandler := handler.NewProductHandler(productUsecase, reqValidator)

	// Initialize HTTP web framework
	app := fiber.New()
	app.Use(healthcheck.New(healthcheck.Config{
		LivenessProbe: func(c *fiber.Ctx) bool {
			return true
		},
		LivenessEndpoint: "/live",
		ReadinessProbe: func(c *fiber.Ctx) bool {
			return dbPool.Ping(c.Context()) == nil && transport.Ping(c.Context()) == nil
		},
		ReadinessEndpoint: "/ready",
	}))
	webLogger := slog.New(&logger.RequestIDHandler{Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})})
	app.Use(slogfiber.New(webLogger))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(middleware.RequestIDMiddleware())

	handler.SetupRouter(app, productHandler, cfg)

	listenErr := make(chan error, 1)
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			listenErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err = <-listenErr:
		err = fmt.Errorf("listen on port %s: %w", cfg.Port, err)
	case <-quit:
		slog.Info("Gracefully shutdown")
		if err := app.Shutdown(); err != nil {
			slog.Warn("Unfortunately the shutdown wasn't smooth", "err", err)
		}
	}

	// Requests are done; flush pending stock checks before the workers stop.
	producer.Close()
	stopWorkers()
	workers.Wait()
	return err
}

func processProducts() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// init config
	cfg, err := config.InitWorkerConfig(ctx)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	redisClient, transport := newTransport(cfg)
	if redisClient != nil {
		defer redisClient.Close()
	} else {
		slog.WarnContext(ctx, "memory queue driver: only stock checks enqueued by this process are seen")
	}

	notifier, cleanup, err := newNotifier(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	pool := usecase.NewStockCheckWorkerPool(transport, notifier, cfg.Queue, cfg.Notifier)
	if err := pool.Run(ctx); err != nil {
		return err
	}

	slog.Info("Gracefully shutdown")
	return nil
}

func migrateUp() error {
	ctx := context.Background()

	cfg, err := config.InitConfig(ctx)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}
	return db.RunMigrations(ctx, cfg.Db)
}
