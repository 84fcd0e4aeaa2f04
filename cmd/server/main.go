package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/cache"
	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/database"
	"github.com/example/storefront/internal/handlers"
	"github.com/example/storefront/internal/logger"
	"github.com/example/storefront/internal/repository"
	"github.com/example/storefront/internal/routes"
	"github.com/example/storefront/internal/services"
	"github.com/example/storefront/internal/tasks"
	"github.com/example/storefront/internal/verification"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseURL, !cfg.IsProduction(), zlog)
	if err != nil {
		zlog.Fatal("database unavailable", zap.Error(err))
	}

	rdb, err := database.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		zlog.Fatal("redis unavailable", zap.Error(err))
	}
	defer rdb.Close()

	queue, closeQueue := newQueue(ctx, cfg, zlog)
	defer closeQueue()

	users := repository.NewUserRepository(db)
	phones := repository.NewPhoneNumberRepository(db)
	addresses := repository.NewAddressRepository(db)
	products := repository.NewProductRepository(db)
	orders := repository.NewOrderRepository(db)

	vcfg := cfg.Verification()
	if !vcfg.Gateway.Configured() {
		zlog.Warn("SMS gateway credentials missing; security codes will not be sent")
	}
	gateway := services.NewTwilioGateway(vcfg.Gateway.AccountSID, vcfg.Gateway.AuthToken)
	verifier := verification.NewVerifier(vcfg, gateway, phones, zlog.Named("verification"))

	notifier := services.NewNotifier(queue, zlog.Named("notifier"))
	listing := cache.NewProductListCache(cache.NewRedisStore(rdb), products, zlog.Named("cache"))

	app := fiber.New(fiber.Config{
		AppName:      "Storefront Backend",
		ErrorHandler: handlers.ErrorHandler(zlog),
	})

	app.Use(recover.New())
	app.Use(logger.RequestLogger(zlog))

	routes.Register(app, routes.Services{
		Auth:    services.NewAuthService(users, phones, verifier, notifier, zlog.Named("auth"), cfg.JWTSecret, cfg.TokenExpires),
		Users:   services.NewUserService(users, addresses, zlog.Named("users")),
		Catalog: services.NewCatalogService(products, listing, users, zlog.Named("catalog")),
		Orders:  services.NewOrderService(orders, products, addresses, users, notifier, zlog.Named("orders")),
		Health: map[string]handlers.Pinger{
			"database": database.Ping(db),
			"cache":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
	}, cfg.JWTSecret)

	go func() {
		<-ctx.Done()
		zlog.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			zlog.Error("shutdown failed", zap.Error(err))
		}
	}()

	zlog.Info("starting server", zap.String("port", cfg.AppPort), zap.String("env", cfg.Env))
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		zlog.Fatal("fiber.Listen error", zap.Error(err))
	}
}

// newQueue returns the SQS queue when one is configured and otherwise an
// in-process queue that sends email from this process.
func newQueue(ctx context.Context, cfg *config.Config, zlog *zap.Logger) (tasks.Queue, func()) {
	if cfg.TaskQueueURL != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			zlog.Fatal("failed to load AWS config", zap.Error(err))
		}
		zlog.Info("using SQS task queue", zap.String("queue", cfg.TaskQueueURL))
		return tasks.NewSQSQueue(sqs.NewFromConfig(awsCfg), cfg.TaskQueueURL), func() {}
	}

	sender := services.NewSMTPSender(cfg.EmailHost, cfg.EmailPort, cfg.EmailHostUser, cfg.EmailHostPassword)
	worker := tasks.NewWorker(sender, cfg.EmailHostUser, zlog.Named("worker"))
	local := tasks.NewLocalQueue(worker.Handle, 100, zlog.Named("queue"))
	local.Start(context.WithoutCancel(ctx))
	zlog.Info("using in-process task queue")
	return local, local.Close
}
