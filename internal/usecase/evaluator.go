package usecase

import (
	"fmt"
	"time"

	"github.com/vribeiro/investwatch/internal/domain"
)

// TriggerResult is the notification payload plus the history record for a
// fired alert.
type TriggerResult struct {
	Title   string
	Message string
	History domain.AlertHistoryRecord
}

// Evaluate decides whether the quote satisfies the alert. Pure, no I/O.
// Equality counts: ABOVE fires at price >= target, BELOW at price <= target.
// An inactive alert never fires.
func Evaluate(alert domain.Alert, quote domain.Quote, now time.Time) (TriggerResult, bool) {
	if !alert.Active {
		return TriggerResult{}, false
	}

	cmp := quote.Price.Cmp(alert.TargetPrice)
	var fired bool
	switch alert.Direction {
	case domain.DirectionAbove:
		fired = cmp >= 0
	case domain.DirectionBelow:
		fired = cmp <= 0
	}
	if !fired {
		return TriggerResult{}, false
	}

	var title, message string
	switch alert.Direction {
	case domain.DirectionAbove:
		title = fmt.Sprintf("🚀 Price Up Alert - %s", alert.Symbol)
		message = fmt.Sprintf("%s reached R$ %s (target: R$ %s)",
			alert.Symbol, quote.Price.StringFixed(2), alert.TargetPrice.StringFixed(2))
	case domain.DirectionBelow:
		title = fmt.Sprintf("📉 Price Down Alert - %s", alert.Symbol)
		message = fmt.Sprintf("%s dropped to R$ %s (target: R$ %s)",
			alert.Symbol, quote.Price.StringFixed(2), alert.TargetPrice.StringFixed(2))
	}

	return TriggerResult{
		Title:   title,
		Message: message,
		History: domain.AlertHistoryRecord{
			AlertID:     alert.ID,
			Symbol:      alert.Symbol,
			TargetPrice: alert.TargetPrice,
			ActualPrice: quote.Price,
			Direction:   alert.Direction,
			TriggeredAt: now,
			OwnerID:     alert.OwnerID,
		},
	}, true
}
