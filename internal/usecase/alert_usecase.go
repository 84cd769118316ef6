package usecase

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/vribeiro/investwatch/internal/domain"
	"go.uber.org/zap"
)

var (
	ErrInvalidSymbol    = errors.New("invalid symbol")
	ErrInvalidTarget    = errors.New("invalid target price")
	ErrInvalidDirection = errors.New("invalid direction")
	ErrAlertNotFound    = errors.New("alert not found")
)

// AlertUsecase carries the user-initiated alert operations. Unlike the
// monitor, failures here surface synchronously to the caller. All alerts
// belong to the single configured owner.
type AlertUsecase struct {
	store   domain.AlertStore
	quotes  QuoteProvider
	ownerID string
	logger  *zap.Logger
}

func NewAlertUsecase(store domain.AlertStore, quotes QuoteProvider, ownerID string, logger *zap.Logger) *AlertUsecase {
	return &AlertUsecase{store: store, quotes: quotes, ownerID: ownerID, logger: logger}
}

func (u *AlertUsecase) Create(ctx context.Context, symbol string, target decimal.Decimal, direction domain.Direction) (*domain.Alert, error) {
	normalized := domain.NormalizeSymbol(symbol)
	if normalized == "" {
		return nil, ErrInvalidSymbol
	}
	if target.Sign() <= 0 {
		return nil, ErrInvalidTarget
	}
	if direction != domain.DirectionAbove && direction != domain.DirectionBelow {
		return nil, ErrInvalidDirection
	}

	// Best effort: record the price at creation time when a source answers.
	currentPrice := decimal.Zero
	if quote, err := u.quotes.Fetch(ctx, normalized); err == nil {
		currentPrice = quote.Price
	} else {
		u.logger.Debug("no current price at alert creation", zap.String("symbol", normalized), zap.Error(err))
	}

	alert := &domain.Alert{
		Symbol:       normalized,
		CurrentPrice: currentPrice,
		TargetPrice:  target,
		Direction:    direction,
		Active:       true,
		OwnerID:      u.ownerID,
	}
	if err := u.store.Save(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

func (u *AlertUsecase) Get(ctx context.Context, id string) (*domain.Alert, error) {
	alert, err := u.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrAlertNotFound
		}
		return nil, err
	}
	return alert, nil
}

func (u *AlertUsecase) List(ctx context.Context) ([]domain.Alert, error) {
	return u.store.ListByOwner(ctx, u.ownerID)
}

func (u *AlertUsecase) UpdateTarget(ctx context.Context, id string, target decimal.Decimal, direction domain.Direction) error {
	if target.Sign() <= 0 {
		return ErrInvalidTarget
	}
	if direction != domain.DirectionAbove && direction != domain.DirectionBelow {
		return ErrInvalidDirection
	}
	if err := u.store.UpdateTarget(ctx, id, target, direction); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrAlertNotFound
		}
		return err
	}
	return nil
}

func (u *AlertUsecase) Deactivate(ctx context.Context, id string) error {
	if err := u.store.Deactivate(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrAlertNotFound
		}
		return err
	}
	return nil
}

func (u *AlertUsecase) Delete(ctx context.Context, id string) error {
	if err := u.store.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrAlertNotFound
		}
		return err
	}
	return nil
}
