package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ariefcatur/go-course-market/internal/activity"
	"github.com/ariefcatur/go-course-market/internal/config"
	"github.com/ariefcatur/go-course-market/internal/events"
	kafkax "github.com/ariefcatur/go-course-market/internal/kafka"
	"github.com/ariefcatur/go-course-market/internal/postgres"
	"github.com/ariefcatur/go-course-market/internal/redisx"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))
	if len(cfg.KafkaBrokers) == 0 {
		slog.Error("KAFKA_BROKERS is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN, int32(cfg.ActivityWorkers))
	if err != nil {
		slog.Error("db", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		slog.Error("schema", "err", err)
		os.Exit(1)
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &activity.Service{
		Store:       &activity.Repo{DB: db},
		Redis:       rdb,
		ServiceName: "activity",
	}
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.ActivityGroup, events.Topics, cfg.ActivityWorkers)

	done := make(chan struct{})
	go func() {
		defer close(done)
		slog.Info("activity consumer started", "group", cfg.ActivityGroup, "topics", events.Topics, "workers", cfg.ActivityWorkers)
		if err := cons.Start(ctx, svc.HandleEvent); err != nil {
			slog.Error("consumer exit", "err", err)
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	slog.Info("shutting down consumer")
	cancel()
	<-done
}
