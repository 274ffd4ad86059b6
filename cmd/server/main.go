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

	"github.com/gorilla/handlers"
	"github.com/rosterly/backend/internal/calculator"
	"github.com/rosterly/backend/internal/config"
	"github.com/rosterly/backend/internal/handler"
	"github.com/rosterly/backend/internal/industry"
	"github.com/rosterly/backend/internal/logging"
	"github.com/rosterly/backend/internal/mail"
	"github.com/rosterly/backend/internal/observability"
	"github.com/rosterly/backend/internal/report"
	"github.com/rosterly/backend/internal/repository"
	"github.com/rosterly/backend/internal/retention"
	"github.com/rosterly/backend/internal/service"
	"github.com/rosterly/backend/internal/storage"
	"github.com/rosterly/backend/pkg/auth"
)

func main() {
	logging.Setup("rosterly-api")

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("invalid configuration", "error", err)
	}
	if cfg.UsesDevSecret() {
		slog.Warn("DOWNLOAD_TOKEN_SECRET not set, using development secret")
	}

	registry := industry.Default()
	if cfg.IndustryConfigPath != "" {
		registry, err = industry.LoadFile(cfg.IndustryConfigPath)
		if err != nil {
			logging.Fatal("failed to load industry config", "path", cfg.IndustryConfigPath, "error", err)
		}
	}
	slog.Info("industry registry loaded", "industries", len(registry.Keys()), "default", registry.DefaultKey())

	pool, err := repository.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("failed to connect to database", "error", err)
	}
	defer pool.Close()

	metrics := observability.NewMetrics()
	reportRepo := repository.NewPgReportRequestRepository(pool)
	artifactStore := storage.NewLocalStorage(cfg.ReportsDir)

	// Without SMTP the receipt still carries the download link.
	var sender mail.Sender
	if cfg.SMTP.Enabled() {
		sender = mail.NewSMTPSender(mail.SMTPConfig{
			Addr:     cfg.SMTP.Addr(),
			Host:     cfg.SMTP.Host,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.SenderEmail,
		})
	} else {
		slog.Info("SMTP_HOST not set, report emails disabled")
	}

	calculatorService := service.NewCalculatorService(registry, calculator.DefaultPricing, metrics)
	reportService := service.NewReportService(service.ReportServiceDeps{
		Repo:          reportRepo,
		Storage:       artifactStore,
		Calculator:    calculatorService,
		Registry:      registry,
		Generator:     report.DefaultGenerator(),
		Signer:        auth.NewDownloadSigner(cfg.DownloadTokenSecret, cfg.DownloadTokenTTL),
		Mailer:        sender,
		Metrics:       metrics,
		Retention:     cfg.ReportRetention,
		PublicBaseURL: cfg.PublicAPIURL,
	})

	scheduler := retention.NewScheduler(reportService, time.Minute)
	if err := scheduler.Start(cfg.RetentionSchedule); err != nil {
		logging.Fatal("failed to start retention scheduler", "error", err)
	}

	limiter := handler.NewRateLimiter(cfg.RateLimitPerMinute)
	defer limiter.Close()

	h := handler.New(pool, cfg.FrontendURL)
	industryHandler := handler.NewIndustryHandler(registry)
	calculatorHandler := handler.NewCalculatorHandler(calculatorService)
	reportHandler := handler.NewReportHandler(reportService)

	mux := http.NewServeMux()
	route := func(pattern, name string, next http.Handler) {
		mux.Handle(pattern, metrics.WrapHandler(name, next))
	}
	route("GET /api/health", "health", http.HandlerFunc(h.Health))
	route("GET /api/industries", "industries_list", http.HandlerFunc(industryHandler.List))
	route("GET /api/industries/{key}", "industries_get", http.HandlerFunc(industryHandler.Get))
	route("POST /api/calculator/savings", "calculate", http.HandlerFunc(calculatorHandler.Calculate))

	// Report generation is expensive; limit per client.
	route("POST /api/reports", "reports_create", limiter.Middleware(http.HandlerFunc(reportHandler.Create)))
	route("GET /api/reports/{id}/download", "reports_download", http.HandlerFunc(reportHandler.Download))

	route("GET /api/admin/report-requests", "admin_report_requests",
		auth.RequireAdminKey(cfg.AdminAPIKey)(http.HandlerFunc(reportHandler.AdminList)))

	mux.Handle("GET /metrics", metrics.Handler())

	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelError)),
		handlers.PrintRecoveryStack(true),
	)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           recovery(handler.RequestLogger(handler.SecurityHeaders(h.CORS(mux)))),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	select {
	case <-scheduler.Stop().Done():
	case <-ctx.Done():
		slog.Warn("retention purge still running at shutdown")
	}
}
