package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	apperrors "portfoliodb/internal/errors"
	"portfoliodb/internal/logger"
	"portfoliodb/internal/models"
	"portfoliodb/internal/validator"
)

// DefaultRecentTradeDays is the window used by get_recent_trades.
const DefaultRecentTradeDays = 30

// tradeService handles trade inserts and queries.
type tradeService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewTradeService creates a new TradeServicer.
func NewTradeService(db *gorm.DB) TradeServicer {
	return &tradeService{db: db, now: time.Now}
}

// AddTrade validates and inserts a trade. The side is checked first so an
// unknown side never reaches the database.
func (s *tradeService) AddTrade(ctx context.Context, input TradeInput) (*models.Trade, error) {
	if !input.Side.Valid() {
		return nil, apperrors.ErrInvalidTradeSide
	}
	if err := validator.Struct(input); err != nil {
		return nil, err
	}
	if !input.Quantity.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Quantity must be greater than 0")
	}
	if !input.Price.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Price must be greater than 0")
	}

	db := s.db.WithContext(ctx)
	if err := exists(db, "portfolios", "portfolio_id", input.PortfolioID, apperrors.ErrPortfolioNotFound); err != nil {
		return nil, err
	}
	if err := exists(db, "assets", "asset_id", input.AssetID, apperrors.ErrAssetNotFound); err != nil {
		return nil, err
	}

	date := s.now()
	if input.TradeDate != nil {
		date = *input.TradeDate
	}

	trade := &models.Trade{
		PortfolioID: input.PortfolioID,
		AssetID:     input.AssetID,
		TradeDate:   date.UTC(),
		Side:        input.Side,
		Quantity:    input.Quantity,
		Price:       input.Price,
	}
	if err := db.Create(trade).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	logger.Get().Debugw("trade added", "trade_id", trade.TradeID, "side", trade.Side)
	return trade, nil
}

// GetAllTradesForAssetInPortfolio lists the trades of one asset inside one
// portfolio, oldest first.
func (s *tradeService) GetAllTradesForAssetInPortfolio(ctx context.Context, portfolioID, assetID uint) (*Table, error) {
	return queryTable(ctx, s.db, `
		SELECT trade_id, portfolio_id, asset_id, trade_date, side, quantity, price
		FROM trades
		WHERE portfolio_id = ?
			AND asset_id = ?
		ORDER BY trade_date, trade_id`, portfolioID, assetID)
}

// GetTradeCountsByAsset counts trades per asset, busiest first.
func (s *tradeService) GetTradeCountsByAsset(ctx context.Context) (*Table, error) {
	return queryTable(ctx, s.db, `
		SELECT asset_id, COUNT(*) AS trade_count
		FROM trades
		GROUP BY asset_id
		ORDER BY trade_count DESC, asset_id`)
}

// GetRecentTrades lists trades dated within the last days days, newest first.
func (s *tradeService) GetRecentTrades(ctx context.Context, days int) (*Table, error) {
	if days < 1 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Days must be at least 1")
	}
	cutoff := s.now().UTC().AddDate(0, 0, -days)
	return queryTable(ctx, s.db, `
		SELECT trade_id, portfolio_id, asset_id, trade_date, side, quantity, price
		FROM trades
		WHERE trade_date >= ?
		ORDER BY trade_date DESC, trade_id DESC`, cutoff)
}

// exists returns notFound when table has no row whose column equals id.
func exists(db *gorm.DB, table, column string, id uint, notFound *apperrors.AppError) error {
	var count int64
	if err := db.Table(table).Where(column+" = ?", id).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, err)
	}
	if count == 0 {
		return notFound
	}
	return nil
}
