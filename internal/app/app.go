package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/vribeiro/investwatch/internal/config"
	"github.com/vribeiro/investwatch/internal/delivery/telegram"
	"github.com/vribeiro/investwatch/internal/infra/db"
	"github.com/vribeiro/investwatch/internal/infra/log"
	"github.com/vribeiro/investwatch/internal/infra/yahoo"
	"github.com/vribeiro/investwatch/internal/metrics"
	"github.com/vribeiro/investwatch/internal/quotes"
	"github.com/vribeiro/investwatch/internal/usecase"
	"go.uber.org/zap"
)

type App struct {
	monitor       *usecase.Monitor
	alerts        *usecase.AlertUsecase
	metricsServer *http.Server
	logger        *zap.Logger
	cleanupFn     func() error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := log.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	dbConn, err := db.Open(cfg, logger)
	if err != nil {
		return nil, err
	}

	store := db.NewAlertStore(dbConn, logger)

	cache := quotes.NewCache(cfg.QuoteCacheTTL)
	primary := yahoo.NewClient(cfg.QuoteBaseURL, cfg.QuoteRegionSuffix, cfg.QuoteTimeout, logger)
	fallback := quotes.NewStaticSource()
	provider := quotes.NewProvider(cache, primary, fallback, cfg.MonitorMaxConcurrent, logger)

	api, err := telegram.NewAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, err
	}
	notifier := telegram.NewNotifier(api, cfg.TelegramChatID, cfg.NotificationsEnabled, logger)

	m := metrics.New()
	monitor := usecase.NewMonitor(store, provider, notifier, usecase.MonitorConfig{
		Interval:       cfg.MonitorInterval,
		StartupDelay:   cfg.MonitorStartupDelay,
		RetryInterval:  cfg.MonitorRetryInterval,
		MaxConcurrent:  cfg.MonitorMaxConcurrent,
		WatchedSymbols: cfg.WatchedSymbols,
	}, m, logger)

	alertUC := usecase.NewAlertUsecase(store, provider, cfg.UserID, logger)

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		metricsServer = &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
	}

	cleanup := func() error {
		sqlDB, err := dbConn.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return &App{
		monitor:       monitor,
		alerts:        alertUC,
		metricsServer: metricsServer,
		logger:        logger,
		cleanupFn:     cleanup,
	}, nil
}

// Alerts exposes the user-initiated alert operations for host surfaces
// (UI, bot commands) built on top of this service.
func (a *App) Alerts() *usecase.AlertUsecase {
	return a.alerts
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("investwatch service starting")

	if a.metricsServer != nil {
		go func() {
			if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Warn("metrics server failed", zap.Error(err))
			}
		}()
	}

	if err := a.monitor.Start(ctx); err != nil {
		return err
	}

	a.logger.Info("investwatch service started")
	<-ctx.Done()
	return nil
}

func (a *App) Shutdown() {
	a.logger.Info("investwatch service shutting down")
	a.monitor.Stop()

	if a.metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.metricsServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("failed to stop metrics server", zap.Error(err))
		}
	}

	if a.cleanupFn != nil {
		if err := a.cleanupFn(); err != nil {
			a.logger.Warn("failed to close database", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
