package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/venuecast/venuecast/internal/app"
	"github.com/venuecast/venuecast/internal/catalog"
	"github.com/venuecast/venuecast/internal/catalogsync"
	"github.com/venuecast/venuecast/internal/channel"
	"github.com/venuecast/venuecast/internal/hierarchy"
	"github.com/venuecast/venuecast/internal/observability"
	"github.com/venuecast/venuecast/internal/posview"
	"github.com/venuecast/venuecast/internal/product"
	"github.com/venuecast/venuecast/internal/routing"
	"github.com/venuecast/venuecast/internal/shared"
	"github.com/venuecast/venuecast/internal/visibility"
	"github.com/venuecast/venuecast/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg).With(slog.String("tenant", cfg.TenantID))

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("redis ping", slog.Any("error", err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	metrics := observability.NewMetrics()
	audit := shared.NewAuditRecorder(logger, cfg.AuditLogLimit)
	lock := shared.NewTenantLock()

	channels := channel.DefaultCatalog()
	catalogRepo := catalog.NewRepository()
	productRepo := product.NewRepository()
	hierarchyRepo := hierarchy.NewRepository(hierarchy.DefaultTree())
	routingRepo := routing.NewRepository()
	visibilityRepo := visibility.NewRepository()

	posCache := posview.NewCache(redisClient, cfg.POSCacheTTL)
	if err := posCache.ListenForInvalidation(ctx, ""); err != nil {
		logger.Warn("cache invalidation listener", slog.Any("error", err))
	}

	catalogService := catalog.NewService(catalogRepo, lock, audit)
	productService := product.NewService(productRepo, lock)
	hierarchyService := hierarchy.NewService(hierarchyRepo, lock)

	routingService := routing.NewService(routing.ServiceParams{
		Repo:       routingRepo,
		Lock:       lock,
		Channels:   channels,
		Warehouses: catalogRepo,
		Products:   productRepo,
		Visibility: visibilityRepo,
		Audit:      audit,
		Metrics:    metrics,
		Cache:      posCache,
	})
	visibilityService := visibility.NewService(visibility.ServiceParams{
		Repo:     visibilityRepo,
		Lock:     lock,
		Routings: routingRepo,
		Channels: channels,
		Products: productRepo,
		Audit:    audit,
		Metrics:  metrics,
		Cache:    posCache,
	})
	syncService := catalogsync.NewService(catalogsync.ServiceParams{
		Lock:       lock,
		Warehouses: catalogRepo,
		Products:   productRepo,
		Categories: hierarchyRepo,
		Routings:   routingRepo,
		Channels:   channels,
		Audit:      audit,
		Metrics:    metrics,
		Cache:      posCache,
	})
	posService := posview.NewService(posview.ServiceParams{
		Lock:       lock,
		Routings:   routingRepo,
		Products:   productRepo,
		Visibility: visibilityService,
		Categories: hierarchyService,
		Channels:   channels,
		Cache:      posCache,
	})

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		CatalogHandler:    catalog.NewHandler(logger, catalogService),
		ProductHandler:    product.NewHandler(logger, productService),
		HierarchyHandler:  hierarchy.NewHandler(logger, hierarchyService),
		ChannelHandler:    channel.NewHandler(channels),
		SyncHandler:       catalogsync.NewHandler(logger, syncService),
		RoutingHandler:    routing.NewHandler(logger, routingService),
		VisibilityHandler: visibility.NewHandler(logger, visibilityService),
		POSViewHandler:    posview.NewHandler(logger, posService),
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	// The publication audit worker runs embedded so its handler shares the
	// in-memory snapshot with the HTTP services.
	if redisClient != nil && cfg.PublicationAuditCron != "" {
		auditTask, err := jobs.NewPublicationAuditTask()
		if err != nil {
			logger.Error("build audit task", slog.Any("error", err))
			os.Exit(1)
		}
		worker, err := jobs.NewWorker(jobs.WorkerConfig{
			RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
			Logger:    logger,
			Handlers: []jobs.TaskHandler{{
				Type:    jobs.TaskPublicationAudit,
				Handler: jobs.NewPublicationAuditHandler(logger, routingService),
			}},
			Cron: []jobs.CronRegistration{{
				Spec: cfg.PublicationAuditCron,
				Task: auditTask,
			}},
		})
		if err != nil {
			logger.Error("build worker", slog.Any("error", err))
			os.Exit(1)
		}
		group.Go(func() error {
			err := worker.Run(groupCtx)
			if err == context.Canceled {
				return nil
			}
			return err
		})
	}

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && err != context.Canceled {
		logger.Error("runtime error", slog.Any("error", err))
		os.Exit(1)
	}
}
