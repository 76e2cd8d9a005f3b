package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "portfoliodb/internal/errors"
	"portfoliodb/internal/logger"
	"portfoliodb/internal/models"
)

var (
	seedAssetClasses   = []string{"Stock", "Bond", "Forex", "Crypto"}
	seedBaseCurrencies = []string{"USD", "EUR", "GBP", "JPY"}
)

// linkedNoteRatio is the share of generated notes attached to an asset.
const linkedNoteRatio = 0.8

// seedService generates random sample data.
type seedService struct {
	db    *gorm.DB
	faker *gofakeit.Faker
	now   func() time.Time
}

// NewSeedService creates a SeedServicer. The same non-zero seed always
// produces the same dataset; seed 0 picks a random one.
func NewSeedService(db *gorm.DB, seed uint64) SeedServicer {
	return &seedService{db: db, faker: gofakeit.New(seed), now: time.Now}
}

// Generate inserts clients, portfolios, assets, trades, prices and notes in
// one transaction. Portfolios reference generated clients, trades and prices
// reference generated portfolios and assets.
func (s *seedService) Generate(ctx context.Context, counts SeedCounts) (*SeedSummary, error) {
	if counts.Clients < 1 && (counts.Portfolios > 0) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Portfolios need at least one client")
	}
	if (counts.Portfolios < 1 || counts.Assets < 1) && counts.Trades > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Trades need at least one portfolio and one asset")
	}
	if counts.Assets < 1 && counts.Prices > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Prices need at least one asset")
	}

	log := logger.Get()
	summary := &SeedSummary{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		log.Info("Generating clients...")
		clientIDs, err := s.generateClients(tx, counts.Clients)
		if err != nil {
			return fmt.Errorf("clients: %w", err)
		}
		summary.Clients = len(clientIDs)

		log.Info("Generating portfolios...")
		portfolioIDs, err := s.generatePortfolios(tx, counts.Portfolios, clientIDs)
		if err != nil {
			return fmt.Errorf("portfolios: %w", err)
		}
		summary.Portfolios = len(portfolioIDs)

		log.Info("Generating assets...")
		assetIDs, err := s.generateAssets(tx, counts.Assets)
		if err != nil {
			return fmt.Errorf("assets: %w", err)
		}
		summary.Assets = len(assetIDs)

		log.Info("Generating trades...")
		if summary.Trades, err = s.generateTrades(tx, counts.Trades, portfolioIDs, assetIDs); err != nil {
			return fmt.Errorf("trades: %w", err)
		}

		log.Info("Generating prices...")
		if summary.Prices, err = s.generatePrices(tx, counts.Prices, assetIDs); err != nil {
			return fmt.Errorf("prices: %w", err)
		}

		log.Info("Generating asset notes...")
		if summary.Notes, err = s.generateNotes(tx, counts.Notes, assetIDs); err != nil {
			return fmt.Errorf("notes: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return summary, nil
}

func (s *seedService) generateClients(tx *gorm.DB, n int) ([]uint, error) {
	ids := make([]uint, 0, n)
	for i := 0; i < n; i++ {
		c := models.Client{FirstName: s.faker.FirstName(), LastName: s.faker.LastName()}
		if err := tx.Create(&c).Error; err != nil {
			return nil, err
		}
		ids = append(ids, c.ClientID)
	}
	return ids, nil
}

func (s *seedService) generatePortfolios(tx *gorm.DB, n int, clientIDs []uint) ([]uint, error) {
	ids := make([]uint, 0, n)
	for i := 0; i < n; i++ {
		p := models.Portfolio{
			ClientID:    s.pick(clientIDs),
			CashBalance: s.money(1000, 10000),
		}
		if err := tx.Create(&p).Error; err != nil {
			return nil, err
		}
		ids = append(ids, p.PortfolioID)
	}
	return ids, nil
}

func (s *seedService) generateAssets(tx *gorm.DB, n int) ([]uint, error) {
	var existing []string
	if err := tx.Model(&models.Asset{}).Pluck("symbol", &existing).Error; err != nil {
		return nil, err
	}

	ids := make([]uint, 0, n)
	seen := make(map[string]bool, n+len(existing))
	for _, symbol := range existing {
		seen[symbol] = true
	}
	for len(ids) < n {
		symbol := strings.ToUpper(s.faker.Lexify("????"))
		if seen[symbol] {
			continue
		}
		seen[symbol] = true

		a := models.Asset{
			Symbol:       symbol,
			AssetClass:   s.faker.RandomString(seedAssetClasses),
			BaseCurrency: s.faker.RandomString(seedBaseCurrencies),
		}
		if err := tx.Create(&a).Error; err != nil {
			return nil, err
		}
		ids = append(ids, a.AssetID)
	}
	return ids, nil
}

func (s *seedService) generateTrades(tx *gorm.DB, n int, portfolioIDs, assetIDs []uint) (int, error) {
	start, end := s.thisYear()
	for i := 0; i < n; i++ {
		side := models.TradeSideBuy
		if s.faker.Bool() {
			side = models.TradeSideSell
		}
		t := models.Trade{
			PortfolioID: s.pick(portfolioIDs),
			AssetID:     s.pick(assetIDs),
			TradeDate:   s.faker.DateRange(start, end).UTC().Truncate(time.Second),
			Side:        side,
			Quantity:    s.money(1, 100),
			Price:       s.money(10, 500),
		}
		if err := tx.Create(&t).Error; err != nil {
			return i, err
		}
	}
	return n, nil
}

// generatePrices inserts n random prices, ignoring collisions on
// (asset_id, price_date). It returns how many rows were actually inserted.
func (s *seedService) generatePrices(tx *gorm.DB, n int, assetIDs []uint) (int, error) {
	start, end := s.thisYear()
	inserted := 0
	for i := 0; i < n; i++ {
		p := models.Price{
			AssetID:   s.pick(assetIDs),
			PriceDate: truncateDay(s.faker.DateRange(start, end)),
			Price:     decimal.NewFromFloat(s.faker.Float64Range(10, 200)).Round(4),
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&p)
		if res.Error != nil {
			return inserted, res.Error
		}
		inserted += int(res.RowsAffected)
	}
	return inserted, nil
}

func (s *seedService) generateNotes(tx *gorm.DB, n int, assetIDs []uint) (int, error) {
	for i := 0; i < n; i++ {
		note := models.AssetNote{Note: s.faker.Sentence(10)}
		if len(assetIDs) > 0 && s.faker.Float64Range(0, 1) < linkedNoteRatio {
			id := s.pick(assetIDs)
			note.AssetID = &id
		}
		if err := tx.Create(&note).Error; err != nil {
			return i, err
		}
	}
	return n, nil
}

func (s *seedService) pick(ids []uint) uint {
	return ids[s.faker.Number(0, len(ids)-1)]
}

// money returns a random amount in [min, max] with two decimals.
func (s *seedService) money(min, max float64) decimal.Decimal {
	return decimal.NewFromFloat(s.faker.Float64Range(min, max)).Round(2)
}

// thisYear returns January 1st of the current year and now.
func (s *seedService) thisYear() (time.Time, time.Time) {
	now := s.now().UTC()
	return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), now
}
