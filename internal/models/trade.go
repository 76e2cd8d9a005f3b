package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeSide represents the direction of a trade.
type TradeSide string

const (
	TradeSideBuy  TradeSide = "BUY"
	TradeSideSell TradeSide = "SELL"
)

// Valid reports whether s is one of the known sides.
func (s TradeSide) Valid() bool {
	return s == TradeSideBuy || s == TradeSideSell
}

// Trade represents a buy or sell of an asset inside a portfolio.
type Trade struct {
	TradeID     uint            `gorm:"primaryKey;autoIncrement" json:"trade_id"`
	PortfolioID uint            `gorm:"not null;index" json:"portfolio_id"`
	AssetID     uint            `gorm:"not null;index" json:"asset_id"`
	TradeDate   time.Time       `gorm:"type:timestamp;not null" json:"trade_date"`
	Side        TradeSide       `gorm:"type:varchar(4);not null" json:"side"`
	Quantity    decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"quantity"`
	Price       decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"price"`
}

// Notional is quantity times price.
func (t Trade) Notional() decimal.Decimal {
	return t.Quantity.Mul(t.Price)
}
