package repository

import (
	"context"

	"github.com/mezshop/shop-api/internal/domain/entity"
)

type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context) ([]*entity.Product, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.Product, error)
	Update(ctx context.Context, p *entity.Product) error
	// Delete is owner-scoped: deleting someone else's product affects zero
	// rows and returns ErrNotFound.
	Delete(ctx context.Context, id, ownerID string) error
}
