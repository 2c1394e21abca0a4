package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/gst-billing-api/docs"
	"github.com/jhoicas/gst-billing-api/internal/application/auth"
	"github.com/jhoicas/gst-billing-api/internal/application/billing"
	"github.com/jhoicas/gst-billing-api/internal/application/dto"
	"github.com/jhoicas/gst-billing-api/internal/application/history"
	infracache "github.com/jhoicas/gst-billing-api/internal/infrastructure/cache"
	infraexport "github.com/jhoicas/gst-billing-api/internal/infrastructure/export"
	inframetrics "github.com/jhoicas/gst-billing-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/gst-billing-api/internal/infrastructure/pdf"
	"github.com/jhoicas/gst-billing-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/gst-billing-api/internal/interfaces/http"
	"github.com/jhoicas/gst-billing-api/pkg/config"
	"github.com/jhoicas/gst-billing-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting")
	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET is empty: logins will be refused")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, postgres.PoolOptions{})
	if err != nil {
		log.Fatal().Err(err).Msg("connect to PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("apply schema")
		}
		log.Info().Msg("schema up to date")
	}

	invoiceRepo := postgres.NewInvoiceRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	catalog, err := billing.NewCatalog(
		cfg.Billing.GSTRates, cfg.Billing.Units,
		cfg.Billing.DefaultRate, cfg.Billing.DefaultUnit,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("billing catalogue")
	}
	shop := dto.ShopProfile{
		Name:    cfg.Shop.Name,
		Address: cfg.Shop.Address,
		Phone:   cfg.Shop.Phone,
		Email:   cfg.Shop.Email,
		GSTIN:   cfg.Shop.GSTIN,
		State:   cfg.Shop.State,
		Terms:   cfg.Shop.Terms,
		Bank:    cfg.Shop.Bank,
	}

	metrics := inframetrics.NewPrometheus()
	invoiceOpts := []billing.Option{
		billing.WithMetrics(metrics),
		billing.WithLogger(log),
	}

	// Redis is optional: without REDIS_ADDR invoices are always read from PostgreSQL.
	if cfg.Redis.Enabled() {
		redisClient, err := infracache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, invoice cache disabled")
		} else {
			defer redisClient.Close()
			invoiceOpts = append(invoiceOpts, billing.WithCache(
				infracache.NewRedisInvoiceCache(redisClient, cfg.Redis.TTL, log),
			))
			log.Info().Str("addr", cfg.Redis.Addr).Msg("invoice cache enabled")
		}
	}

	invoiceUC := billing.NewInvoiceUseCase(txRunner, invoiceRepo, catalog, cfg.Billing.NumberPrefix, invoiceOpts...)
	documentUC := billing.NewDocumentUseCase(
		invoiceRepo, shop,
		infrapdf.NewMarotoPDFGenerator(),
		infrapdf.NewHTMLRenderer(true),
	)
	settingsUC := billing.NewSettingsUseCase(catalog, shop, cfg.Billing.NumberPrefix)
	historyUC := history.NewUseCase(invoiceRepo, infraexport.NewExcelExporter())

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	if created, err := authUC.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Fatal().Err(err).Msg("bootstrap admin")
	} else if created {
		log.Info().Str("email", cfg.Admin.Email).Msg("admin account created")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log, metrics))

	// Swagger UI: http://localhost:<port>/docs
	if apiDoc, err := docs.JSON(); err != nil {
		log.Warn().Err(err).Msg("swagger document unavailable")
	} else {
		app.Use(swagger.New(swagger.Config{
			BasePath:    "/",
			FilePath:    "./docs/swagger.json",
			FileContent: apiDoc,
			Path:        "docs",
			Title:       "GST Billing API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		InvoiceUC:      invoiceUC,
		DocumentUC:     documentUC,
		SettingsUC:     settingsUC,
		HistoryUC:      historyUC,
		JWTSecret:      cfg.JWT.Secret,
		Log:            log,
		ServiceName:    cfg.App.Name,
		HealthCheck:    pool.Ping,
		MetricsHandler: metrics.Handler(),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, closing server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("stopped")
}
