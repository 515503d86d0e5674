package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-agent/internal/domain"
)

// InventoryRepository reads product stock levels.
type InventoryRepository interface {
	GetByProductID(ctx context.Context, productID string) (*domain.InventoryItem, error)
}

type inventoryRepository struct {
	pool *pgxpool.Pool
}

// NewInventoryRepository builds the repository.
func NewInventoryRepository(pool *pgxpool.Pool) InventoryRepository {
	return &inventoryRepository{pool: pool}
}

func (r *inventoryRepository) GetByProductID(ctx context.Context, productID string) (*domain.InventoryItem, error) {
	if r.pool == nil {
		return nil, ErrNotConfigured
	}
	const query = `
        SELECT product_id, name, quantity, next_restock_date
        FROM inventory WHERE product_id=$1`
	var item domain.InventoryItem
	if err := r.pool.QueryRow(ctx, query, productID).Scan(
		&item.ProductID,
		&item.Name,
		&item.Quantity,
		&item.NextRestock,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
