package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"portfoliodb/internal/models"
)

// ClientServicer defines the contract for client inserts and lookups.
type ClientServicer interface {
	AddClient(ctx context.Context, name string) (*models.Client, error)
	GetAllClients(ctx context.Context) (*Table, error)
	SearchClientsByName(ctx context.Context, name string) (*Table, error)
	GetClientsWithNoTrades(ctx context.Context) (*Table, error)
}

// PortfolioServicer defines the contract for portfolio inserts and analytics.
type PortfolioServicer interface {
	AddPortfolio(ctx context.Context, clientID uint, cashBalance decimal.Decimal) (*models.Portfolio, error)
	GetPortfoliosWithClients(ctx context.Context) (*Table, error)
	GetPortfolioTotalValues(ctx context.Context) (*Table, error)
	GetPercentageInvested(ctx context.Context) (*Table, error)
	GetTopPortfoliosByValue(ctx context.Context, limit int) (*Table, error)
}

// AssetServicer defines the contract for assets, prices and notes.
type AssetServicer interface {
	AddAsset(ctx context.Context, symbol, assetClass, baseCurrency string) (*models.Asset, error)
	AddPrice(ctx context.Context, assetID uint, price decimal.Decimal, priceDate *time.Time) (*models.Price, error)
	GetAssetsLatestPrice(ctx context.Context) (*Table, error)
	GetNotesWithPossibleAssets(ctx context.Context) (*Table, error)
	GetAssetsWithPossibleNotes(ctx context.Context) (*Table, error)
	GetAllAssetsAndNotes(ctx context.Context) (*Table, error)
}

// TradeInput carries the fields of a new trade. A nil TradeDate means now.
type TradeInput struct {
	PortfolioID uint `validate:"required"`
	AssetID     uint `validate:"required"`
	Side        models.TradeSide
	Quantity    decimal.Decimal
	Price       decimal.Decimal
	TradeDate   *time.Time
}

// TradeServicer defines the contract for trade inserts and queries.
type TradeServicer interface {
	AddTrade(ctx context.Context, input TradeInput) (*models.Trade, error)
	GetAllTradesForAssetInPortfolio(ctx context.Context, portfolioID, assetID uint) (*Table, error)
	GetTradeCountsByAsset(ctx context.Context) (*Table, error)
	GetRecentTrades(ctx context.Context, days int) (*Table, error)
}

// SeedCounts controls how many rows of each kind Generate creates.
type SeedCounts struct {
	Clients    int
	Portfolios int
	Assets     int
	Trades     int
	Prices     int
	Notes      int
}

// DefaultSeedCounts is the sample dataset size used by generate_data.
var DefaultSeedCounts = SeedCounts{
	Clients:    10,
	Portfolios: 15,
	Assets:     8,
	Trades:     40,
	Prices:     100,
	Notes:      20,
}

// SeedSummary reports what Generate inserted. Prices may be lower than
// requested because duplicate (asset, date) pairs are skipped.
type SeedSummary struct {
	Clients    int
	Portfolios int
	Assets     int
	Trades     int
	Prices     int
	Notes      int
}

// SeedServicer defines the contract for random sample data generation.
type SeedServicer interface {
	Generate(ctx context.Context, counts SeedCounts) (*SeedSummary, error)
}
