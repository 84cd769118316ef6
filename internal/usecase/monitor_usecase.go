package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vribeiro/investwatch/internal/domain"
	"github.com/vribeiro/investwatch/internal/metrics"
	"go.uber.org/zap"
)

var (
	ErrMonitorStarted    = errors.New("monitor already started")
	ErrMonitorStopped    = errors.New("monitor stopped")
	ErrMonitorNotRunning = errors.New("monitor not running")
)

// Notifier delivers a trigger notification to the user. Implementations
// return domain.ErrNotificationsDisabled when delivery permission is absent.
type Notifier interface {
	Notify(ctx context.Context, title, message, topic string) error
}

// QuoteProvider resolves current quotes, consulting its cache first.
type QuoteProvider interface {
	Fetch(ctx context.Context, symbol string) (domain.Quote, error)
	FetchMany(ctx context.Context, symbols []string) map[string]domain.Quote
}

type MonitorConfig struct {
	Interval       time.Duration
	StartupDelay   time.Duration
	RetryInterval  time.Duration
	MaxConcurrent  int
	WatchedSymbols []string
}

type monitorState int

const (
	stateIdle monitorState = iota
	stateRunning
	stateWaiting
	stateStopped
)

// Monitor owns the background evaluation loop. A periodic cycle lists the
// active alerts and checks each against a resolved quote; a subscription
// feed re-checks whenever the active set changes; CheckNow runs one cycle
// out-of-band. Concurrent cycles are tolerated: evaluation is idempotent and
// the store's deactivate is a no-op on an already-inactive alert, so the
// worst case is a duplicate notification (at-least-once delivery).
type Monitor struct {
	store    domain.AlertStore
	quotes   QuoteProvider
	notifier Notifier
	cfg      MonitorConfig
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time

	mu        sync.Mutex
	state     monitorState
	cancel    context.CancelFunc
	loopDone  chan struct{}
	watchDone chan struct{}
}

func NewMonitor(store domain.AlertStore, quotes QuoteProvider, notifier Notifier, cfg MonitorConfig, m *metrics.Metrics, logger *zap.Logger) *Monitor {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = time.Minute
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 20
	}
	return &Monitor{
		store:    store,
		quotes:   quotes,
		notifier: notifier,
		cfg:      cfg,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// Start launches the periodic loop and the active-alert watcher. Valid only
// once, from the idle state.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == stateStopped {
		return ErrMonitorStopped
	}
	if m.state != stateIdle {
		return ErrMonitorStarted
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.loopDone = make(chan struct{})
	m.watchDone = make(chan struct{})
	m.state = stateRunning

	go m.runLoop(runCtx)
	go m.watchActive(runCtx)

	m.logger.Info("monitor started",
		zap.Duration("interval", m.cfg.Interval),
		zap.Duration("startup_delay", m.cfg.StartupDelay),
		zap.Int("watched_symbols", len(m.cfg.WatchedSymbols)),
	)
	return nil
}

// Stop cancels any pending wait and joins the background tasks. No further
// cycles start after it returns; an in-flight cycle may still complete. Safe
// to call more than once and from any goroutine.
func (m *Monitor) Stop() {
	m.mu.Lock()
	alreadyStopped := m.state == stateStopped
	cancel := m.cancel
	loopDone := m.loopDone
	watchDone := m.watchDone
	m.state = stateStopped
	m.mu.Unlock()

	if alreadyStopped || cancel == nil {
		return
	}

	cancel()
	for _, done := range []chan struct{}{loopDone, watchDone} {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			m.logger.Warn("timeout stopping monitor task")
		}
	}
	m.logger.Info("monitor stopped")
}

// CheckNow runs one evaluation pass over a point-in-time snapshot of the
// active alerts, without touching the periodic schedule.
func (m *Monitor) CheckNow(ctx context.Context) error {
	m.mu.Lock()
	state := m.state
	m.mu.Unlock()
	if state == stateIdle || state == stateStopped {
		return ErrMonitorNotRunning
	}

	alerts, err := m.store.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active alerts: %w", err)
	}

	m.logger.Debug("manual check", zap.Int("alert_count", len(alerts)))
	m.checkAlerts(ctx, alerts)
	return nil
}

func (m *Monitor) runLoop(ctx context.Context) {
	defer close(m.loopDone)

	if m.cfg.StartupDelay > 0 {
		select {
		case <-ctx.Done():
			return
		case <-time.After(m.cfg.StartupDelay):
		}
	}

	for {
		m.setState(stateRunning)

		wait := m.cfg.Interval
		if err := m.runCycle(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			m.metrics.CycleFailures.Inc()
			m.logger.Warn("monitoring cycle failed, backing off",
				zap.Duration("retry_in", m.cfg.RetryInterval), zap.Error(err))
			wait = m.cfg.RetryInterval
		} else {
			m.metrics.CyclesTotal.Inc()
		}

		m.setState(stateWaiting)
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

// runCycle refreshes the watched symbols so the store always has a recent
// price per symbol, then checks every active alert. Only the listing step is
// cycle-fatal; everything else is contained per alert.
func (m *Monitor) runCycle(ctx context.Context) error {
	if len(m.cfg.WatchedSymbols) > 0 {
		fetched := m.quotes.FetchMany(ctx, m.cfg.WatchedSymbols)
		for _, quote := range fetched {
			if err := m.store.PutQuote(ctx, quote); err != nil {
				m.logger.Warn("failed to persist watched quote", zap.String("symbol", quote.Symbol), zap.Error(err))
			}
		}
		m.logger.Debug("watched symbols refreshed", zap.Int("fetched", len(fetched)))
	}

	alerts, err := m.store.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active alerts: %w", err)
	}

	m.logger.Debug("monitoring cycle", zap.Int("alert_count", len(alerts)))
	m.checkAlerts(ctx, alerts)
	return nil
}

func (m *Monitor) watchActive(ctx context.Context) {
	defer close(m.watchDone)

	updates, err := m.store.SubscribeActive(ctx)
	if err != nil {
		m.logger.Warn("active alert subscription unavailable, periodic path only", zap.Error(err))
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case alerts, ok := <-updates:
			if !ok {
				return
			}
			m.logger.Debug("active alerts changed", zap.Int("alert_count", len(alerts)))
			m.checkAlerts(ctx, alerts)
		}
	}
}

func (m *Monitor) checkAlerts(ctx context.Context, alerts []domain.Alert) {
	if len(alerts) == 0 {
		return
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, m.cfg.MaxConcurrent)
	for _, alert := range alerts {
		wg.Add(1)
		go func(alert domain.Alert) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			m.checkAlert(ctx, alert)
		}(alert)
	}
	wg.Wait()
}

// checkAlert processes a single alert. Every failure here is contained: the
// alert stays active and is retried on the next cycle.
func (m *Monitor) checkAlert(ctx context.Context, alert domain.Alert) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("panic while checking alert",
				zap.String("alert_id", alert.ID), zap.Any("panic", r))
		}
	}()

	quote, err := m.resolveQuote(ctx, alert.Symbol)
	if err != nil {
		m.metrics.QuoteFetchFailures.Inc()
		m.logger.Warn("no quote for alert this cycle",
			zap.String("alert_id", alert.ID), zap.String("symbol", alert.Symbol), zap.Error(err))
		return
	}

	// Write-through so the store keeps the latest observation per symbol.
	if err := m.store.PutQuote(ctx, quote); err != nil {
		m.logger.Warn("failed to persist quote", zap.String("symbol", quote.Symbol), zap.Error(err))
	}

	trigger, fired := Evaluate(alert, quote, m.now())
	if !fired {
		return
	}

	m.logger.Info("alert triggered",
		zap.String("alert_id", alert.ID),
		zap.String("symbol", alert.Symbol),
		zap.String("price", quote.Price.StringFixed(2)),
		zap.String("target", alert.TargetPrice.StringFixed(2)),
	)

	if err := m.notifier.Notify(ctx, trigger.Title, trigger.Message, alert.Symbol); err != nil {
		if errors.Is(err, domain.ErrNotificationsDisabled) {
			m.metrics.NotificationsSuppressed.Inc()
			m.logger.Debug("notification suppressed", zap.String("alert_id", alert.ID))
		} else {
			m.logger.Warn("failed to deliver notification", zap.String("alert_id", alert.ID), zap.Error(err))
		}
	}

	if err := m.store.Deactivate(ctx, alert.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		m.logger.Warn("failed to deactivate alert", zap.String("alert_id", alert.ID), zap.Error(err))
	}

	if err := m.store.AppendHistory(ctx, trigger.History); err != nil {
		m.logger.Warn("failed to append alert history", zap.String("alert_id", alert.ID), zap.Error(err))
	}

	m.metrics.AlertsTriggered.Inc()
}

// resolveQuote prefers the persisted last observation for the symbol and
// falls back to the provider, which consults its own cache first.
func (m *Monitor) resolveQuote(ctx context.Context, symbol string) (domain.Quote, error) {
	quote, err := m.store.GetLastQuote(ctx, symbol)
	if err == nil {
		return *quote, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		m.logger.Warn("failed to read last quote", zap.String("symbol", symbol), zap.Error(err))
	}
	return m.quotes.Fetch(ctx, symbol)
}

func (m *Monitor) setState(state monitorState) {
	m.mu.Lock()
	if m.state != stateStopped {
		m.state = state
	}
	m.mu.Unlock()
}
