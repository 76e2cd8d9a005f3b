package models

import "github.com/shopspring/decimal"

// Portfolio is a client's account holding cash and trades.
type Portfolio struct {
	PortfolioID uint            `gorm:"primaryKey;autoIncrement" json:"portfolio_id"`
	ClientID    uint            `gorm:"not null;index" json:"client_id"`
	CashBalance decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"cash_balance"`

	// Relationships
	Trades []Trade `gorm:"foreignKey:PortfolioID" json:"trades,omitempty"`
}
