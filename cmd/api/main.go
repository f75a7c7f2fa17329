package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk-gateway/internal/api/http"
	"github.com/spec-kit/helpdesk-gateway/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-gateway/internal/captcha"
	"github.com/spec-kit/helpdesk-gateway/internal/config"
	"github.com/spec-kit/helpdesk-gateway/internal/events"
	"github.com/spec-kit/helpdesk-gateway/internal/helpdesk"
	"github.com/spec-kit/helpdesk-gateway/internal/observability"
	"github.com/spec-kit/helpdesk-gateway/internal/persistence"
	"github.com/spec-kit/helpdesk-gateway/internal/repository"
	"github.com/spec-kit/helpdesk-gateway/internal/service"
	"github.com/spec-kit/helpdesk-gateway/internal/storage"
	"github.com/spec-kit/helpdesk-gateway/internal/worker"
)

const retentionInterval = 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	readiness := map[string]handlers.Pinger{}
	var deliveries repository.DeliveryRepository
	if pg.Enabled() {
		deliveries = repository.NewDeliveryRepository(pg.PoolHandle())
		readiness["postgres"] = pg
	}

	routes := httptransport.RouteConfig{
		Gatherer:         registry,
		SubmitsPerMinute: cfg.RateLimit.PerMinute,
		Logger:           logger,
	}
	redis := persistence.NewRedis(cfg.Redis, logger)
	if redis != nil {
		defer redis.Close()
		routes.Limiter = redis
		readiness["redis"] = redis
	}

	dispatcher := events.NewInMemoryDispatcher()
	deliveryLog := service.NewDeliveryLogService(dispatcher, deliveries, logger)
	deliveryLog.RegisterHandlers()
	retentionDone := worker.StartRetentionWorker(ctx, deliveryLog, cfg.Postgres.RetentionDays, retentionInterval, logger)

	store, err := storage.NewDiskStore(cfg.Upload.Dir, logger)
	if err != nil {
		logger.Fatal("failed to prepare upload directory", zap.Error(err))
	}

	backend := helpdesk.NewClient(cfg.Helpdesk, &http.Client{Timeout: cfg.Helpdesk.Timeout()}, logger)
	forwarder := service.NewForwarder(service.ForwarderDependencies{
		Backend:     backend,
		Attachments: store,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
		Logger:      logger,
	})

	formCfg := handlers.FormHandlerConfig{
		Forwarder:      forwarder,
		Store:          store,
		MaxUploadBytes: cfg.Upload.MaxBytes,
		Logger:         logger,
	}
	if cfg.Captcha.Enabled() {
		formCfg.Captcha = captcha.NewRecaptcha(cfg.Captcha, &http.Client{Timeout: 10 * time.Second}, logger)
		formCfg.SiteKey = cfg.Captcha.SiteKey
	} else {
		logger.Warn("RECAPTCHA_SECRET_KEY not provided; captcha verification disabled")
	}
	routes.Form = handlers.NewFormHandler(formCfg)
	routes.Health = handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, readiness)

	app := fiber.New(fiber.Config{
		AppName: cfg.App.Name,
		// oversized attachments must reach the handler to get a 413 with a readable message
		BodyLimit: int(cfg.Upload.MaxBytes + 1<<20),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, routes)

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	cancel()
	<-retentionDone
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
