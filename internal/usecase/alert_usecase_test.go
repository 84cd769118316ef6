package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vribeiro/investwatch/internal/domain"
	"go.uber.org/zap"
)

func newTestAlertUsecase(store domain.AlertStore, provider QuoteProvider) *AlertUsecase {
	return NewAlertUsecase(store, provider, "test_user_001", zap.NewNop())
}

func TestCreateAlert(t *testing.T) {
	store := newFakeStore()
	provider := &fakeProvider{quotes: map[string]domain.Quote{
		"PETR4": priceQuote("PETR4", "34.80"),
	}}
	uc := newTestAlertUsecase(store, provider)

	alert, err := uc.Create(context.Background(), " petr4 ", decimal.RequireFromString("35.00"), domain.DirectionAbove)
	require.NoError(t, err)

	assert.NotEmpty(t, alert.ID, "store must assign an id")
	assert.Equal(t, "PETR4", alert.Symbol)
	assert.Equal(t, "test_user_001", alert.OwnerID)
	assert.True(t, alert.Active)
	assert.True(t, alert.CurrentPrice.Equal(decimal.RequireFromString("34.80")))
}

func TestCreateAlertWithoutQuoteStillSucceeds(t *testing.T) {
	store := newFakeStore()
	provider := &fakeProvider{quotes: map[string]domain.Quote{}}
	uc := newTestAlertUsecase(store, provider)

	alert, err := uc.Create(context.Background(), "XPTO9", decimal.RequireFromString("10.00"), domain.DirectionBelow)
	require.NoError(t, err)
	assert.True(t, alert.CurrentPrice.IsZero())
}

func TestCreateAlertValidation(t *testing.T) {
	store := newFakeStore()
	provider := &fakeProvider{quotes: map[string]domain.Quote{}}
	uc := newTestAlertUsecase(store, provider)

	tests := []struct {
		name      string
		symbol    string
		target    string
		direction domain.Direction
		wantErr   error
	}{
		{"blank symbol", "   ", "35.00", domain.DirectionAbove, ErrInvalidSymbol},
		{"zero target", "PETR4", "0", domain.DirectionAbove, ErrInvalidTarget},
		{"negative target", "PETR4", "-1.50", domain.DirectionBelow, ErrInvalidTarget},
		{"bad direction", "PETR4", "35.00", domain.Direction("SIDEWAYS"), ErrInvalidDirection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), tt.symbol, decimal.RequireFromString(tt.target), tt.direction)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUpdateTarget(t *testing.T) {
	store := newFakeStore()
	store.alerts["alert-1"] = activeAlert("alert-1", "PETR4", "35.00", domain.DirectionAbove)
	uc := newTestAlertUsecase(store, &fakeProvider{quotes: map[string]domain.Quote{}})

	err := uc.UpdateTarget(context.Background(), "alert-1", decimal.RequireFromString("36.00"), domain.DirectionBelow)
	require.NoError(t, err)

	alert, err := store.Get(context.Background(), "alert-1")
	require.NoError(t, err)
	assert.True(t, alert.TargetPrice.Equal(decimal.RequireFromString("36.00")))
	assert.Equal(t, domain.DirectionBelow, alert.Direction)
}

func TestUpdateTargetValidationAndMissing(t *testing.T) {
	store := newFakeStore()
	uc := newTestAlertUsecase(store, &fakeProvider{quotes: map[string]domain.Quote{}})

	err := uc.UpdateTarget(context.Background(), "alert-1", decimal.Zero, domain.DirectionAbove)
	assert.ErrorIs(t, err, ErrInvalidTarget)

	err = uc.UpdateTarget(context.Background(), "missing", decimal.RequireFromString("10.00"), domain.DirectionAbove)
	assert.ErrorIs(t, err, ErrAlertNotFound)
}

func TestDeactivateAndDeleteAlert(t *testing.T) {
	store := newFakeStore()
	store.alerts["alert-1"] = activeAlert("alert-1", "PETR4", "35.00", domain.DirectionAbove)
	uc := newTestAlertUsecase(store, &fakeProvider{quotes: map[string]domain.Quote{}})

	require.NoError(t, uc.Deactivate(context.Background(), "alert-1"))
	alert, err := store.Get(context.Background(), "alert-1")
	require.NoError(t, err)
	assert.False(t, alert.Active)

	require.NoError(t, uc.Delete(context.Background(), "alert-1"))
	assert.ErrorIs(t, uc.Delete(context.Background(), "alert-1"), ErrAlertNotFound)
	assert.ErrorIs(t, uc.Deactivate(context.Background(), "missing"), ErrAlertNotFound)
}

func TestListReturnsOwnerAlerts(t *testing.T) {
	store := newFakeStore()
	store.alerts["alert-1"] = activeAlert("alert-1", "PETR4", "35.00", domain.DirectionAbove)
	other := activeAlert("alert-2", "VALE3", "60.00", domain.DirectionBelow)
	other.OwnerID = "someone_else"
	store.alerts["alert-2"] = other

	uc := newTestAlertUsecase(store, &fakeProvider{quotes: map[string]domain.Quote{}})

	alerts, err := uc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "alert-1", alerts[0].ID)
}

func TestGetAlert(t *testing.T) {
	store := newFakeStore()
	store.alerts["alert-1"] = activeAlert("alert-1", "PETR4", "35.00", domain.DirectionAbove)
	uc := newTestAlertUsecase(store, &fakeProvider{quotes: map[string]domain.Quote{}})

	alert, err := uc.Get(context.Background(), "alert-1")
	require.NoError(t, err)
	assert.Equal(t, "PETR4", alert.Symbol)

	_, err = uc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrAlertNotFound)
}
