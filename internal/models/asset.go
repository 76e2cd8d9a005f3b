package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Asset is a tradable instrument.
type Asset struct {
	AssetID      uint   `gorm:"primaryKey;autoIncrement" json:"asset_id"`
	Symbol       string `gorm:"not null;uniqueIndex" json:"symbol"`
	AssetClass   string `gorm:"not null" json:"asset_class"`
	BaseCurrency string `gorm:"type:char(3);not null" json:"base_currency"`

	// Relationships
	Prices []Price     `gorm:"foreignKey:AssetID" json:"prices,omitempty"`
	Notes  []AssetNote `gorm:"foreignKey:AssetID" json:"notes,omitempty"`
}

// Price is the closing price of an asset on a date.
// At most one row exists per asset and date.
type Price struct {
	AssetID   uint            `gorm:"primaryKey;autoIncrement:false" json:"asset_id"`
	PriceDate time.Time       `gorm:"primaryKey;type:date" json:"price_date"`
	Price     decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"price"`
}

// AssetNote is free text that may or may not be linked to an asset.
type AssetNote struct {
	NoteID  uint   `gorm:"primaryKey;autoIncrement" json:"note_id"`
	AssetID *uint  `gorm:"index" json:"asset_id,omitempty"`
	Note    string `gorm:"type:text;not null" json:"note"`
}
