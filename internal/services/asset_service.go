package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "portfoliodb/internal/errors"
	"portfoliodb/internal/logger"
	"portfoliodb/internal/models"
	"portfoliodb/internal/validator"
)

// assetService handles asset, price and note queries.
type assetService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewAssetService creates a new AssetServicer.
func NewAssetService(db *gorm.DB) AssetServicer {
	return &assetService{db: db, now: time.Now}
}

type assetInput struct {
	Symbol       string `validate:"required,max=16"`
	AssetClass   string `validate:"required"`
	BaseCurrency string `validate:"required,iso4217"`
}

// AddAsset creates an asset. The symbol and currency are upper-cased.
func (s *assetService) AddAsset(ctx context.Context, symbol, assetClass, baseCurrency string) (*models.Asset, error) {
	in := assetInput{
		Symbol:       strings.ToUpper(strings.TrimSpace(symbol)),
		AssetClass:   strings.TrimSpace(assetClass),
		BaseCurrency: strings.ToUpper(strings.TrimSpace(baseCurrency)),
	}
	if err := validator.Struct(in); err != nil {
		return nil, err
	}

	asset := &models.Asset{Symbol: in.Symbol, AssetClass: in.AssetClass, BaseCurrency: in.BaseCurrency}
	if err := s.db.WithContext(ctx).Create(asset).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	logger.Get().Debugw("asset added", "asset_id", asset.AssetID, "symbol", asset.Symbol)
	return asset, nil
}

// AddPrice records the price of an asset on priceDate, or today when
// priceDate is nil. The stored date is returned on the model.
func (s *assetService) AddPrice(ctx context.Context, assetID uint, price decimal.Decimal, priceDate *time.Time) (*models.Price, error) {
	if !price.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Price must be greater than 0")
	}

	db := s.db.WithContext(ctx)
	var asset models.Asset
	if err := db.First(&asset, assetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAssetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	date := s.now()
	if priceDate != nil {
		date = *priceDate
	}

	p := &models.Price{AssetID: assetID, PriceDate: truncateDay(date), Price: price}
	if err := db.Create(p).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.ErrDuplicatePrice
		}
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	return p, nil
}

// GetAssetsLatestPrice returns every asset with its most recent price.
// Assets that were never priced are included with NULL price columns.
func (s *assetService) GetAssetsLatestPrice(ctx context.Context) (*Table, error) {
	return queryTable(ctx, s.db, `
		SELECT a.asset_id, a.symbol, p.price_date, p.price
		FROM assets a
		LEFT JOIN prices p ON p.asset_id = a.asset_id
			AND p.price_date = (
				SELECT MAX(p2.price_date) FROM prices p2 WHERE p2.asset_id = a.asset_id
			)
		ORDER BY a.asset_id`)
}

// GetNotesWithPossibleAssets returns every note and its linked asset, if any.
func (s *assetService) GetNotesWithPossibleAssets(ctx context.Context) (*Table, error) {
	return queryTable(ctx, s.db, `
		SELECT n.note_id, n.note, a.asset_id, a.symbol
		FROM asset_notes n
		LEFT JOIN assets a ON n.asset_id = a.asset_id
		ORDER BY n.note_id`)
}

// GetAssetsWithPossibleNotes returns every asset and its notes, if any.
func (s *assetService) GetAssetsWithPossibleNotes(ctx context.Context) (*Table, error) {
	return queryTable(ctx, s.db, `
		SELECT a.asset_id, a.symbol, n.note_id, n.note
		FROM assets a
		LEFT JOIN asset_notes n ON a.asset_id = n.asset_id
		ORDER BY a.asset_id, n.note_id`)
}

// GetAllAssetsAndNotes returns every asset and every note, matched where
// linked: assets without notes and unlinked notes both appear.
func (s *assetService) GetAllAssetsAndNotes(ctx context.Context) (*Table, error) {
	return queryTable(ctx, s.db, `
		SELECT a.asset_id, a.symbol, n.note_id, n.note
		FROM assets a
		FULL OUTER JOIN asset_notes n ON a.asset_id = n.asset_id
		ORDER BY a.asset_id, n.note_id`)
}

// truncateDay drops the time of day, keeping the calendar date of t.
func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// isUniqueConstraintError checks if a GORM error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // SQLite
		strings.Contains(msg, "duplicate key value violates unique constraint") // PostgreSQL
}
