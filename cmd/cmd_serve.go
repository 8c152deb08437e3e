package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "storehouse/docs"
	"storehouse/internal/handlers"
	"storehouse/internal/jobs/background"
	"storehouse/internal/middleware"
	"storehouse/internal/services"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const auditTimeout = 5 * time.Minute

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "Apply the schema before serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := boot()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return errors.Wrap(err, "failed to open store")
	}
	defer st.close()

	if migrateOnStart {
		if err := st.migrate(ctx); err != nil {
			return err
		}
		log.Info("schema applied")
	}

	cache := newCache(cfg, log)

	storage, err := services.NewMinioStorage(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	if err != nil {
		return errors.Wrap(err, "failed to initialize object storage")
	}
	if err := storage.EnsureBucketExists(ctx, cfg.ReportBucket); err != nil {
		log.WithError(err).WithField("bucket", cfg.ReportBucket).Warn("report bucket unavailable, exports will fail until it is reachable")
	}

	integrity := services.NewIntegrityChecker(st.categories, st.units, st.commodities, st.orders, st.orderCommodities, log)
	aggregation := services.NewAggregationService(st.orderCommodities, st.commodities, st.categories, st.units)
	audit := st.referenceAudit(log)

	categoryService := services.NewCategoryService(st.categories, integrity, cache, log)
	unitService := services.NewUnitService(st.units, integrity, cache, log)
	commodityService := services.NewCommodityService(st.commodities, st.categories, st.units, integrity, cache, log)
	orderService := services.NewOrderService(st.orders, integrity, cache, log)
	lineService := services.NewOrderCommodityService(st.orderCommodities, st.orders, st.commodities, integrity, log)
	reportService := services.NewReportService(st.orders, aggregation, storage, cfg.ReportBucket, cfg.ReportURLExpiry, log)

	dependencies := []handlers.Dependency{
		{Name: "database", Critical: true, Check: st.ping},
		{Name: "object_storage", Check: func(ctx context.Context) error {
			_, err := storage.BucketExists(ctx, cfg.ReportBucket)
			return err
		}},
	}
	if cfg.CacheEnabled() {
		dependencies = append(dependencies, handlers.Dependency{Name: "cache", Check: cache.Ping})
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handlers.NewHTTPErrorHandler(log)
	e.Validator = handlers.NewRequestValidator()

	versions := middleware.NewVersionMiddleware()
	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Pre(versions.Resolver())

	e.Use(echoMiddleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(middleware.Metrics())
	e.Use(echoMiddleware.ContextTimeout(cfg.AppRequestTimeout))
	e.Use(echoMiddleware.CORS())

	handlers.Register(e, versions, &handlers.Handlers{
		Categories:       handlers.NewCategoryHandlers(categoryService),
		Units:            handlers.NewUnitHandlers(unitService),
		Commodities:      handlers.NewCommodityHandlers(commodityService),
		Orders:           handlers.NewOrderHandlers(orderService, aggregation, reportService),
		OrderCommodities: handlers.NewOrderCommodityHandlers(lineService),
		Admin:            handlers.NewAdminHandlers(audit),
		Health:           handlers.NewHealthHandlers(version, dependencies...),
	})

	if cfg.AuditInterval > 0 {
		scheduler, err := background.NewJobScheduler(audit, cfg.AuditInterval, auditTimeout, log)
		if err != nil {
			return err
		}
		scheduler.Start()
		defer func() {
			if err := scheduler.Stop(); err != nil {
				log.WithError(err).Warn("failed to stop job scheduler")
			}
		}()
	}

	serverErr := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.AppAddr).Info("starting server")
		if err := e.Start(cfg.AppAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return errors.Wrap(err, "server stopped")
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.AppShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "graceful shutdown failed")
	}
	log.Info("server stopped")
	return nil
}
