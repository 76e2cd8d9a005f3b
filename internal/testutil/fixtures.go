package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"portfoliodb/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestClient creates a client with the given names.
func CreateTestClient(t *testing.T, db *gorm.DB, firstName, lastName string) *models.Client {
	t.Helper()

	client := &models.Client{FirstName: firstName, LastName: lastName}
	if err := db.Create(client).Error; err != nil {
		t.Fatalf("failed to create test client: %v", err)
	}
	return client
}

// CreateTestPortfolio creates a portfolio for clientID with the given cash balance.
func CreateTestPortfolio(t *testing.T, db *gorm.DB, clientID uint, cash int64) *models.Portfolio {
	t.Helper()

	portfolio := &models.Portfolio{ClientID: clientID, CashBalance: decimal.NewFromInt(cash)}
	if err := db.Create(portfolio).Error; err != nil {
		t.Fatalf("failed to create test portfolio: %v", err)
	}
	return portfolio
}

// CreateTestAsset creates a USD stock with a unique symbol.
func CreateTestAsset(t *testing.T, db *gorm.DB) *models.Asset {
	t.Helper()
	return CreateTestAssetWithSymbol(t, db, fmt.Sprintf("TST%d", nextID()))
}

// CreateTestAssetWithSymbol creates a USD stock with the given symbol.
func CreateTestAssetWithSymbol(t *testing.T, db *gorm.DB, symbol string) *models.Asset {
	t.Helper()

	asset := &models.Asset{Symbol: symbol, AssetClass: "Stock", BaseCurrency: "USD"}
	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("failed to create test asset: %v", err)
	}
	return asset
}

// CreateTestPrice records a price for assetID on date.
func CreateTestPrice(t *testing.T, db *gorm.DB, assetID uint, date time.Time, price int64) *models.Price {
	t.Helper()

	p := &models.Price{AssetID: assetID, PriceDate: date, Price: decimal.NewFromInt(price)}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("failed to create test price: %v", err)
	}
	return p
}

// CreateTestTrade creates a BUY of quantity units at price, dated now.
func CreateTestTrade(t *testing.T, db *gorm.DB, portfolioID, assetID uint, quantity, price int64) *models.Trade {
	t.Helper()
	return CreateTestTradeAt(t, db, portfolioID, assetID, quantity, price, time.Now().UTC())
}

// CreateTestTradeAt creates a BUY of quantity units at price on the given date.
func CreateTestTradeAt(t *testing.T, db *gorm.DB, portfolioID, assetID uint, quantity, price int64, date time.Time) *models.Trade {
	t.Helper()

	trade := &models.Trade{
		PortfolioID: portfolioID,
		AssetID:     assetID,
		TradeDate:   date,
		Side:        models.TradeSideBuy,
		Quantity:    decimal.NewFromInt(quantity),
		Price:       decimal.NewFromInt(price),
	}
	if err := db.Create(trade).Error; err != nil {
		t.Fatalf("failed to create test trade: %v", err)
	}
	return trade
}

// CreateTestNote creates a note, linked to assetID when it is not nil.
func CreateTestNote(t *testing.T, db *gorm.DB, assetID *uint, text string) *models.AssetNote {
	t.Helper()

	note := &models.AssetNote{AssetID: assetID, Note: text}
	if err := db.Create(note).Error; err != nil {
		t.Fatalf("failed to create test note: %v", err)
	}
	return note
}
