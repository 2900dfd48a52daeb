package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"search-analytics-service/internal/config"
	"search-analytics-service/internal/controller"
	"search-analytics-service/internal/dashboard"
	"search-analytics-service/internal/db"
	httpserver "search-analytics-service/internal/http"
	"search-analytics-service/internal/logger"
	"search-analytics-service/internal/model"
	"search-analytics-service/internal/repository"
	"search-analytics-service/internal/routes"
	"search-analytics-service/internal/service"
	"search-analytics-service/internal/view"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logg, err := logger.New(cfg.IsProduction())
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		source      repository.AnalyticsSource
		eventCtrl   controller.EventController
		eventWorker service.BatchEventWorker
	)

	switch cfg.DataSource {
	case config.DataSourceClickHouse:
		conn, err := db.NewConnection(ctx, cfg, logg)
		if err != nil {
			logg.Fatal("connect clickhouse", zap.Error(err))
		}
		defer conn.Close()

		if err := db.RunMigrations(ctx, conn); err != nil {
			logg.Fatal("migrate", zap.Error(err))
		}

		repo := repository.NewSearchEventRepository(conn, cfg.TopQueriesLimit)
		source = repository.NewBreakerSource(repo, repository.BreakerConfig{
			Name:             "clickhouse-analytics",
			FailureThreshold: cfg.Breaker.FailureThreshold,
			Timeout:          cfg.Breaker.Timeout,
		}, logg)

		eventWorker = service.NewBatchEventWorker(repo, cfg.WorkerBufferSize, cfg.WorkerBatchSize, cfg.WorkerFlushEvery, logg)
		eventCtrl = controller.NewEventController(service.NewEventService(eventWorker, cfg.FutureTolerance))
	default:
		source = repository.NewMockSource(cfg.MockLatency, time.Now().UnixNano())
	}

	analyticsService := service.NewAnalyticsService(source, string(cfg.DataSource), cfg.MaxRangeDays, logg)
	loader := service.NewAnalyticsLoader(analyticsService, cfg.FetchTimeout, logg)

	startDate, endDate := model.DefaultDateRange(time.Now())
	board := dashboard.New(loader, model.QueryParams{StartDate: startDate, EndDate: endDate}, dashboard.Settings{
		Debounce:     cfg.FilterDebounce,
		MaxRangeDays: cfg.MaxRangeDays,
	}, logg)
	board.Start()

	renderer, err := view.NewRenderer()
	if err != nil {
		logg.Fatal("load templates", zap.Error(err))
	}

	server := httpserver.NewServer(cfg, routes.Controllers{
		Analytics: controller.NewAnalyticsController(analyticsService),
		Dashboard: controller.NewDashboardController(board, renderer, logg),
		Events:    eventCtrl,
	})

	go func() {
		logg.Info("starting server", zap.String("addr", cfg.HTTPPort), zap.String("source", string(cfg.DataSource)))
		if err := server.Listen(cfg.HTTPPort); err != nil {
			logg.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logg.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error("http shutdown", zap.Error(err))
	}

	board.Close()
	loader.Close()
	if eventWorker != nil {
		eventWorker.Shutdown()
	}
}
