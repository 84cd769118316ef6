package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrNotificationsDisabled means the user has not granted delivery
	// permission. Suppression is not a failure; callers skip and move on.
	ErrNotificationsDisabled = errors.New("notifications disabled")
)

// AlertStore persists alerts, last observed quotes and trigger history.
// Deactivate must be idempotent: a second call on an already-inactive alert
// is a no-op, which is what makes concurrent evaluation cycles safe.
type AlertStore interface {
	Save(ctx context.Context, alert *Alert) error
	Get(ctx context.Context, id string) (*Alert, error)
	ListActive(ctx context.Context) ([]Alert, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Alert, error)

	// SubscribeActive delivers the current list of active alerts and a new
	// list after every change. The channel never closes before ctx is done.
	SubscribeActive(ctx context.Context) (<-chan []Alert, error)

	UpdateTarget(ctx context.Context, id string, target decimal.Decimal, direction Direction) error
	Deactivate(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error

	GetLastQuote(ctx context.Context, symbol string) (*Quote, error)
	PutQuote(ctx context.Context, quote Quote) error
	AppendHistory(ctx context.Context, record AlertHistoryRecord) error
}
