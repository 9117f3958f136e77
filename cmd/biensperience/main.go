package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/gokepelemo/biensperience/internal/cli"
	"github.com/gokepelemo/biensperience/internal/config"
	"github.com/gokepelemo/biensperience/internal/db"
	"github.com/gokepelemo/biensperience/internal/httpapi"
	"github.com/gokepelemo/biensperience/internal/repository"
	"github.com/gokepelemo/biensperience/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	experienceRepo := repository.NewSQLiteExperienceRepo(database)
	planRepo := repository.NewSQLitePlanRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	// Wire observers
	var observers []service.UseCaseObserver
	if cfg.LogUseCases {
		observers = append(observers, service.NewLeveledLogUseCaseObserver(os.Stderr, cfg.LogLevel))
	}
	var registry *prometheus.Registry
	var httpMetrics *httpapi.HTTPMetrics
	if cfg.Metrics {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metricsObserver, err := service.NewMetricsUseCaseObserver(registry)
		if err != nil {
			return fmt.Errorf("registering use-case metrics: %w", err)
		}
		observers = append(observers, metricsObserver)
		if httpMetrics, err = httpapi.NewHTTPMetrics(registry); err != nil {
			return fmt.Errorf("registering http metrics: %w", err)
		}
	}

	// Wire services
	experienceSvc := service.NewExperienceService(experienceRepo, uow, observers...)
	planSvc := service.NewPlanService(planRepo, experienceRepo, uow, observers...)
	syncSvc := service.NewSyncService(planRepo, experienceRepo, uow, observers...)
	importSvc := service.NewImportService(experienceRepo, uow, observers...)

	app := &cli.App{
		Experiences: experienceSvc,
		Plans:       planSvc,
		Sync:        syncSvc,
		Import:      importSvc,
		User:        cfg.User,
		HTTPAddr:    cfg.HTTPAddr,
	}

	// Detect interactive terminal for the changeset picker.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	app.Serve = func(ctx context.Context, addr string) error {
		if cfg.LogLevel > slog.LevelDebug {
			gin.SetMode(gin.ReleaseMode)
		}
		routerCfg := httpapi.RouterConfig{
			ExperienceHandler: httpapi.NewExperienceHandler(experienceSvc, importSvc),
			PlanHandler:       httpapi.NewPlanHandler(planSvc),
			SyncHandler:       httpapi.NewSyncHandler(syncSvc),
			Logger:            logger,
			Metrics:           httpMetrics,
			CORSOrigins:       cfg.CORSOrigins,
		}
		if registry != nil {
			routerCfg.Gatherer = registry
		}
		logger.Info("http_listen", "addr", addr, "db", cfg.DBPath, "metrics", cfg.Metrics)
		return httpapi.NewServer(addr, httpapi.NewRouter(routerCfg)).Run(ctx)
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
