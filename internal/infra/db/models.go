package db

import (
	"time"

	"github.com/shopspring/decimal"
)

type alertModel struct {
	ID           string          `gorm:"primaryKey"`
	Symbol       string          `gorm:"not null;index"`
	CurrentPrice decimal.Decimal `gorm:"type:numeric"`
	TargetPrice  decimal.Decimal `gorm:"type:numeric;not null"`
	Direction    string          `gorm:"not null"`
	Active       bool            `gorm:"index:idx_alerts_owner_active,priority:2"`
	OwnerID      string          `gorm:"index:idx_alerts_owner_active,priority:1;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (alertModel) TableName() string { return "price_alerts" }

type quoteModel struct {
	Symbol        string          `gorm:"primaryKey"`
	Price         decimal.Decimal `gorm:"type:numeric;not null"`
	Change        decimal.Decimal `gorm:"type:numeric"`
	ChangePercent decimal.Decimal `gorm:"type:numeric"`
	ObservedAt    time.Time
	UpdatedAt     time.Time
}

func (quoteModel) TableName() string { return "stock_prices" }

type historyModel struct {
	ID          uint            `gorm:"primaryKey"`
	AlertID     string          `gorm:"index;not null"`
	Symbol      string          `gorm:"not null"`
	TargetPrice decimal.Decimal `gorm:"type:numeric;not null"`
	ActualPrice decimal.Decimal `gorm:"type:numeric;not null"`
	Direction   string          `gorm:"not null"`
	TriggeredAt time.Time
	OwnerID     string
}

func (historyModel) TableName() string { return "alert_history" }
