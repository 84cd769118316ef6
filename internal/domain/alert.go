package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Direction says on which side of the target price an alert fires.
type Direction string

const (
	DirectionAbove Direction = "ABOVE"
	DirectionBelow Direction = "BELOW"
)

func ParseDirection(input string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(input)) {
	case "ABOVE", ">", ">=":
		return DirectionAbove, nil
	case "BELOW", "<", "<=":
		return DirectionBelow, nil
	default:
		return "", fmt.Errorf("invalid direction: %q", input)
	}
}

// Alert is a user-defined price threshold for a symbol. ID is assigned by the
// store on save and stays empty until then. Once Active goes false it never
// goes back to true.
type Alert struct {
	ID           string
	Symbol       string
	CurrentPrice decimal.Decimal
	TargetPrice  decimal.Decimal
	Direction    Direction
	Active       bool
	CreatedAt    time.Time
	OwnerID      string
}

// AlertHistoryRecord is an append-only trace of a single trigger.
type AlertHistoryRecord struct {
	AlertID     string
	Symbol      string
	TargetPrice decimal.Decimal
	ActualPrice decimal.Decimal
	Direction   Direction
	TriggeredAt time.Time
	OwnerID     string
}
