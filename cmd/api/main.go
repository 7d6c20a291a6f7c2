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

	"github.com/ariefcatur/go-course-market/internal/auth"
	"github.com/ariefcatur/go-course-market/internal/catalog"
	"github.com/ariefcatur/go-course-market/internal/config"
	"github.com/ariefcatur/go-course-market/internal/device"
	"github.com/ariefcatur/go-course-market/internal/events"
	"github.com/ariefcatur/go-course-market/internal/httpx"
	kafkax "github.com/ariefcatur/go-course-market/internal/kafka"
	"github.com/ariefcatur/go-course-market/internal/postgres"
	"github.com/ariefcatur/go-course-market/internal/redisx"
	"github.com/ariefcatur/go-course-market/internal/storage"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Catalog
	cat, err := loadCatalog(ctx, cfg)
	if err != nil {
		slog.Error("catalog", "source", cfg.CatalogSource, "err", err)
		os.Exit(1)
	}
	slog.Info("catalog loaded", "courses", len(cat.Courses()), "categories", len(cat.Categories()))

	// Durable slots
	var store storage.Storage = storage.NewMemory()
	if cfg.StorageBackend == config.StorageRedis {
		rdb := redisx.New(cfg.RedisAddr)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Error("redis ping", "addr", cfg.RedisAddr, "err", err)
			os.Exit(1)
		}
		store = &redisx.Storage{RDB: rdb, TTL: cfg.StorageTTL}
	}

	// Kafka producer, optional
	var (
		pub  events.Publisher = events.Nop{}
		prod *kafkax.Producer
	)
	if len(cfg.KafkaBrokers) > 0 {
		prod = kafkax.NewProducer(cfg.KafkaBrokers, 1024)
		prod.Start(ctx)
		pub = kafkax.Publisher{Producer: prod}
	}

	reg := device.NewRegistry(device.Options{
		Storage:       store,
		Publisher:     pub,
		Producer:      cfg.ServiceName,
		AuthDelays:    auth.Delays{Login: cfg.LoginDelay, Profile: cfg.ProfileDelay},
		CheckoutDelay: cfg.CheckoutDelay,
		MaxDevices:    cfg.MaxDevices,
	})
	router := httpx.NewRouter()
	(&httpx.MarketHandler{Catalog: cat, Devices: reg}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}

	// graceful shutdown
	go func() {
		slog.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("listen", "err", err)
			os.Exit(1)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	slog.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	if err := reg.Drain(ctx2); err != nil {
		slog.Warn("pending tasks dropped", "err", err)
	}
	if prod != nil {
		prod.Close() // flush and close the writer
		cancel()
		prod.WaitClosed()
	}
}

func loadCatalog(ctx context.Context, cfg config.Config) (*catalog.Catalog, error) {
	files := catalog.FileSource{CoursesPath: cfg.CatalogCoursesPath, CategoriesPath: cfg.CatalogCategoriesPath}
	if cfg.CatalogSource != config.CatalogPostgres {
		return catalog.Load(ctx, files)
	}

	db, err := postgres.Connect(ctx, cfg.PostgresDSN, 0)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		return nil, err
	}

	src := &catalog.PGSource{DB: db}
	empty, err := src.Empty(ctx)
	if err != nil {
		return nil, err
	}
	if empty {
		seed, err := catalog.Load(ctx, files)
		if err != nil {
			return nil, err
		}
		if err := src.Seed(ctx, seed); err != nil {
			return nil, err
		}
		slog.Info("catalog seeded", "courses", len(seed.Courses()))
	}
	return catalog.Load(ctx, src)
}
