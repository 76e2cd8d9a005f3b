package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	apperrors "portfoliodb/internal/errors"
	"portfoliodb/internal/logger"
	"portfoliodb/internal/models"
)

// clientService handles client-related queries and inserts.
type clientService struct {
	db *gorm.DB
}

// NewClientService creates a new ClientServicer.
func NewClientService(db *gorm.DB) ClientServicer {
	return &clientService{db: db}
}

// AddClient inserts a client. The name is split on its first space into
// first and last name; a single word leaves the last name empty.
func (s *clientService) AddClient(ctx context.Context, name string) (*models.Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Client name is required")
	}

	parts := strings.SplitN(name, " ", 2)
	client := &models.Client{FirstName: parts[0]}
	if len(parts) > 1 {
		client.LastName = strings.TrimSpace(parts[1])
	}

	if err := s.db.WithContext(ctx).Create(client).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	logger.Get().Debugw("client added", "client_id", client.ClientID)
	return client, nil
}

// GetAllClients returns every client with its full name.
func (s *clientService) GetAllClients(ctx context.Context) (*Table, error) {
	return queryTable(ctx, s.db, `
		SELECT client_id, first_name, last_name, first_name || ' ' || last_name AS full_name
		FROM clients
		ORDER BY client_id`)
}

// SearchClientsByName matches name case-insensitively anywhere in the full
// name, the first name or the last name.
func (s *clientService) SearchClientsByName(ctx context.Context, name string) (*Table, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Search name is required")
	}

	pattern := "%" + strings.ToLower(name) + "%"
	return queryTable(ctx, s.db, `
		SELECT client_id, first_name, last_name, first_name || ' ' || last_name AS full_name
		FROM clients
		WHERE LOWER(first_name || ' ' || last_name) LIKE ?
		   OR LOWER(first_name) LIKE ?
		   OR LOWER(last_name) LIKE ?
		ORDER BY client_id`, pattern, pattern, pattern)
}

// GetClientsWithNoTrades returns clients none of whose portfolios hold a trade.
func (s *clientService) GetClientsWithNoTrades(ctx context.Context) (*Table, error) {
	return queryTable(ctx, s.db, `
		SELECT c.client_id, c.first_name || ' ' || c.last_name AS client_name
		FROM clients c
		WHERE NOT EXISTS (
			SELECT 1
			FROM portfolios p
			JOIN trades t ON p.portfolio_id = t.portfolio_id
			WHERE p.client_id = c.client_id
		)
		ORDER BY c.client_id`)
}
