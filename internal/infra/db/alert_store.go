package db

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vribeiro/investwatch/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AlertStore implements domain.AlertStore on postgres. Active-alert
// subscribers are fed in-process: after every alert mutation the store
// re-reads the active list and pushes it to each subscriber, latest list
// wins if a subscriber lags.
type AlertStore struct {
	db     *gorm.DB
	logger *zap.Logger

	mu   sync.Mutex
	subs map[chan []domain.Alert]struct{}
}

func NewAlertStore(db *gorm.DB, logger *zap.Logger) *AlertStore {
	return &AlertStore{
		db:     db,
		logger: logger,
		subs:   make(map[chan []domain.Alert]struct{}),
	}
}

func (s *AlertStore) Save(ctx context.Context, alert *domain.Alert) error {
	model := mapAlertToModel(*alert)
	if model.ID == "" {
		model.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	alert.ID = model.ID
	alert.CreatedAt = model.CreatedAt
	s.broadcast(ctx)
	return nil
}

func (s *AlertStore) Get(ctx context.Context, id string) (*domain.Alert, error) {
	var model alertModel
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	alert := mapAlertToDomain(model)
	return &alert, nil
}

func (s *AlertStore) ListActive(ctx context.Context) ([]domain.Alert, error) {
	var models []alertModel
	if err := s.db.WithContext(ctx).Where("active = ?", true).Order("created_at").Find(&models).Error; err != nil {
		return nil, err
	}
	return mapAlertsToDomain(models), nil
}

func (s *AlertStore) ListByOwner(ctx context.Context, ownerID string) ([]domain.Alert, error) {
	var models []alertModel
	if err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at").Find(&models).Error; err != nil {
		return nil, err
	}
	return mapAlertsToDomain(models), nil
}

func (s *AlertStore) SubscribeActive(ctx context.Context) (<-chan []domain.Alert, error) {
	alerts, err := s.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	ch := make(chan []domain.Alert, 1)
	ch <- alerts

	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, ch)
		close(ch)
		s.mu.Unlock()
	}()

	return ch, nil
}

func (s *AlertStore) UpdateTarget(ctx context.Context, id string, target decimal.Decimal, direction domain.Direction) error {
	result := s.db.WithContext(ctx).
		Model(&alertModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"target_price": target, "direction": string(direction)})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	s.broadcast(ctx)
	return nil
}

// Deactivate flips active to false. Calling it on an already-inactive alert
// matches the row and succeeds, so concurrent triggers on the same alert are
// harmless.
func (s *AlertStore) Deactivate(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).
		Model(&alertModel{}).
		Where("id = ?", id).
		Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	s.broadcast(ctx)
	return nil
}

func (s *AlertStore) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&alertModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	s.broadcast(ctx)
	return nil
}

func (s *AlertStore) GetLastQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	var model quoteModel
	key := domain.NormalizeSymbol(symbol)
	if err := s.db.WithContext(ctx).Where("symbol = ?", key).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	quote := mapQuoteToDomain(model)
	return &quote, nil
}

func (s *AlertStore) PutQuote(ctx context.Context, quote domain.Quote) error {
	model := mapQuoteToModel(quote)
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "symbol"}},
			UpdateAll: true,
		}).
		Create(&model).Error
}

func (s *AlertStore) AppendHistory(ctx context.Context, record domain.AlertHistoryRecord) error {
	model := historyModel{
		AlertID:     record.AlertID,
		Symbol:      record.Symbol,
		TargetPrice: record.TargetPrice,
		ActualPrice: record.ActualPrice,
		Direction:   string(record.Direction),
		TriggeredAt: record.TriggeredAt,
		OwnerID:     record.OwnerID,
	}
	return s.db.WithContext(ctx).Create(&model).Error
}

func (s *AlertStore) broadcast(ctx context.Context) {
	s.mu.Lock()
	n := len(s.subs)
	s.mu.Unlock()
	if n == 0 {
		return
	}

	alerts, err := s.ListActive(ctx)
	if err != nil {
		s.logger.Warn("failed to list active alerts for subscribers", zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- alerts:
		default:
			// Drop the stale list the subscriber has not consumed yet.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- alerts:
			default:
			}
		}
	}
}

func mapAlertToModel(alert domain.Alert) alertModel {
	return alertModel{
		ID:           alert.ID,
		Symbol:       domain.NormalizeSymbol(alert.Symbol),
		CurrentPrice: alert.CurrentPrice,
		TargetPrice:  alert.TargetPrice,
		Direction:    string(alert.Direction),
		Active:       alert.Active,
		OwnerID:      alert.OwnerID,
		CreatedAt:    alert.CreatedAt,
	}
}

func mapAlertToDomain(model alertModel) domain.Alert {
	return domain.Alert{
		ID:           model.ID,
		Symbol:       model.Symbol,
		CurrentPrice: model.CurrentPrice,
		TargetPrice:  model.TargetPrice,
		Direction:    domain.Direction(model.Direction),
		Active:       model.Active,
		CreatedAt:    model.CreatedAt,
		OwnerID:      model.OwnerID,
	}
}

func mapAlertsToDomain(models []alertModel) []domain.Alert {
	alerts := make([]domain.Alert, 0, len(models))
	for _, model := range models {
		alerts = append(alerts, mapAlertToDomain(model))
	}
	return alerts
}

func mapQuoteToModel(quote domain.Quote) quoteModel {
	return quoteModel{
		Symbol:        domain.NormalizeSymbol(quote.Symbol),
		Price:         quote.Price,
		Change:        quote.Change,
		ChangePercent: quote.ChangePercent,
		ObservedAt:    quote.ObservedAt,
	}
}

func mapQuoteToDomain(model quoteModel) domain.Quote {
	return domain.Quote{
		Symbol:        model.Symbol,
		Price:         model.Price,
		Change:        model.Change,
		ChangePercent: model.ChangePercent,
		ObservedAt:    model.ObservedAt,
	}
}
