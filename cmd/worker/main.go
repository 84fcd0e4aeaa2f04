package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/logger"
	"github.com/example/storefront/internal/services"
	"github.com/example/storefront/internal/tasks"
)

// The worker drains the SQS task queue and sends transactional email.
func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	if cfg.TaskQueueURL == "" {
		zlog.Fatal("TASK_QUEUE_URL must be set for the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		zlog.Fatal("failed to load AWS config", zap.Error(err))
	}

	sender := services.NewSMTPSender(cfg.EmailHost, cfg.EmailPort, cfg.EmailHostUser, cfg.EmailHostPassword)
	worker := tasks.NewWorker(sender, cfg.EmailHostUser, zlog.Named("worker"))
	consumer := tasks.NewSQSConsumer(sqs.NewFromConfig(awsCfg), cfg.TaskQueueURL, zlog)

	if err := consumer.Run(ctx, worker.Handle); err != nil && !errors.Is(err, context.Canceled) {
		zlog.Fatal("task consumer failed", zap.Error(err))
	}
}
