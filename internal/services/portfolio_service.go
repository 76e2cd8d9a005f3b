package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "portfoliodb/internal/errors"
	"portfoliodb/internal/logger"
	"portfoliodb/internal/models"
)

// DefaultTopPortfolios is the limit used by GetTopPortfoliosByValue callers
// that do not pass one.
const DefaultTopPortfolios = 5

// portfolioService handles portfolio inserts and analytics.
type portfolioService struct {
	db *gorm.DB
}

// NewPortfolioService creates a new PortfolioServicer.
func NewPortfolioService(db *gorm.DB) PortfolioServicer {
	return &portfolioService{db: db}
}

// AddPortfolio creates a portfolio for an existing client.
func (s *portfolioService) AddPortfolio(ctx context.Context, clientID uint, cashBalance decimal.Decimal) (*models.Portfolio, error) {
	if cashBalance.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Cash balance cannot be negative")
	}

	db := s.db.WithContext(ctx)
	var client models.Client
	if err := db.First(&client, clientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrClientNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	portfolio := &models.Portfolio{ClientID: clientID, CashBalance: cashBalance}
	if err := db.Create(portfolio).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	logger.Get().Debugw("portfolio added", "portfolio_id", portfolio.PortfolioID, "client_id", clientID)
	return portfolio, nil
}

// GetPortfoliosWithClients maps each portfolio to its owner's name.
func (s *portfolioService) GetPortfoliosWithClients(ctx context.Context) (*Table, error) {
	return queryTable(ctx, s.db, `
		SELECT p.portfolio_id, c.first_name || ' ' || c.last_name AS client_name
		FROM portfolios p
		INNER JOIN clients c ON p.client_id = c.client_id
		ORDER BY p.portfolio_id`)
}

// GetPortfolioTotalValues sums trade notional per portfolio. Portfolios
// without trades are omitted.
func (s *portfolioService) GetPortfolioTotalValues(ctx context.Context) (*Table, error) {
	return queryTable(ctx, s.db, `
		SELECT p.portfolio_id, SUM(t.quantity * t.price) AS total_value
		FROM portfolios p
		JOIN trades t ON p.portfolio_id = t.portfolio_id
		GROUP BY p.portfolio_id
		ORDER BY p.portfolio_id`)
}

// GetPercentageInvested returns 100 * notional / (notional + cash) for every
// portfolio, formatted with exactly two decimals. A portfolio with no trades has notional 0;
// one with neither trades nor cash yields NULL.
func (s *portfolioService) GetPercentageInvested(ctx context.Context) (*Table, error) {
	table, err := queryTable(ctx, s.db, `
		SELECT p.portfolio_id,
			ROUND(
				100.0 * COALESCE(SUM(t.quantity * t.price), 0) /
				NULLIF(COALESCE(SUM(t.quantity * t.price), 0) + p.cash_balance, 0), 2
			) AS percentage_invested
		FROM portfolios p
		LEFT JOIN trades t ON p.portfolio_id = t.portfolio_id
		GROUP BY p.portfolio_id, p.cash_balance
		ORDER BY p.portfolio_id`)
	if err != nil {
		return nil, err
	}
	if err := table.fixColumn("percentage_invested", 2); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return table, nil
}

// GetTopPortfoliosByValue returns the limit portfolios with the largest total
// trade notional. Ties are broken by ascending portfolio id.
func (s *portfolioService) GetTopPortfoliosByValue(ctx context.Context, limit int) (*Table, error) {
	if limit < 1 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Limit must be at least 1")
	}
	return queryTable(ctx, s.db, `
		SELECT p.portfolio_id, SUM(t.quantity * t.price) AS total_value
		FROM portfolios p
		JOIN trades t ON p.portfolio_id = t.portfolio_id
		GROUP BY p.portfolio_id
		ORDER BY total_value DESC, p.portfolio_id ASC
		LIMIT ?`, limit)
}
