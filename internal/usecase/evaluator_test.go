package usecase

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vribeiro/investwatch/internal/domain"
)

func makeAlert(direction domain.Direction, target string, active bool) domain.Alert {
	return domain.Alert{
		ID:          "alert-1",
		Symbol:      "PETR4",
		TargetPrice: decimal.RequireFromString(target),
		Direction:   direction,
		Active:      active,
		OwnerID:     "test_user_001",
	}
}

func makeQuote(price string) domain.Quote {
	p := decimal.RequireFromString(price)
	return domain.NewQuote("PETR4", p, p, time.Now())
}

func TestEvaluateDecision(t *testing.T) {
	tests := []struct {
		name      string
		direction domain.Direction
		target    string
		price     string
		active    bool
		fired     bool
	}{
		{"above triggered", domain.DirectionAbove, "35.00", "36.00", true, true},
		{"above boundary equals target", domain.DirectionAbove, "35.00", "35.00", true, true},
		{"above below target", domain.DirectionAbove, "35.00", "34.99", true, false},
		{"below triggered", domain.DirectionBelow, "35.00", "34.00", true, true},
		{"below boundary equals target", domain.DirectionBelow, "35.00", "35.00", true, true},
		{"below above target", domain.DirectionBelow, "35.00", "35.01", true, false},
		{"inactive above never fires", domain.DirectionAbove, "35.00", "100.00", false, false},
		{"inactive below never fires", domain.DirectionBelow, "35.00", "0.01", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, fired := Evaluate(makeAlert(tt.direction, tt.target, tt.active), makeQuote(tt.price), time.Now())
			assert.Equal(t, tt.fired, fired)
		})
	}
}

func TestEvaluateTriggerPayloadAbove(t *testing.T) {
	now := time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)
	alert := makeAlert(domain.DirectionAbove, "35.00", true)

	trigger, fired := Evaluate(alert, makeQuote("35.50"), now)
	require.True(t, fired)

	assert.Equal(t, "🚀 Price Up Alert - PETR4", trigger.Title)
	assert.Equal(t, "PETR4 reached R$ 35.50 (target: R$ 35.00)", trigger.Message)
	assert.Equal(t, "alert-1", trigger.History.AlertID)
	assert.Equal(t, "PETR4", trigger.History.Symbol)
	assert.True(t, trigger.History.TargetPrice.Equal(decimal.RequireFromString("35.00")))
	assert.True(t, trigger.History.ActualPrice.Equal(decimal.RequireFromString("35.50")))
	assert.Equal(t, domain.DirectionAbove, trigger.History.Direction)
	assert.Equal(t, now, trigger.History.TriggeredAt)
	assert.Equal(t, "test_user_001", trigger.History.OwnerID)
}

func TestEvaluateTriggerPayloadBelow(t *testing.T) {
	alert := makeAlert(domain.DirectionBelow, "36.00", true)

	trigger, fired := Evaluate(alert, makeQuote("35.50"), time.Now())
	require.True(t, fired)

	assert.Equal(t, "📉 Price Down Alert - PETR4", trigger.Title)
	assert.Equal(t, "PETR4 dropped to R$ 35.50 (target: R$ 36.00)", trigger.Message)
}
