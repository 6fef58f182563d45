package postgres_adapter

import (
	"context"
	"errors"
	"fmt"

	"real-estate-system/internal/contextkeys"
	"real-estate-system/internal/core/domain"
	"real-estate-system/internal/core/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PropertyRepository читает объекты, которые ведет сервис объявлений.
type PropertyRepository struct {
	pool *pgxpool.Pool
}

func NewPropertyRepository(pool *pgxpool.Pool) (*PropertyRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PropertyRepository{pool: pool}, nil
}

func (r *PropertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":   "PropertyRepository",
		"method":      "FindByID",
		"property_id": id.String(),
	})

	query := `SELECT id, owner_id, title, address, status FROM properties WHERE id = $1`

	var p domain.Property
	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.OwnerID, &p.Title, &p.Address, &p.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			repoLogger.Debug("Property not found by ID.", nil)
			return nil, nil
		}
		repoLogger.Error("Failed to find property by ID", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to find property by id: %w", err)
	}
	return &p, nil
}
