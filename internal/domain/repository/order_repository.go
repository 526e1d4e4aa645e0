package repository

import (
	"context"

	"github.com/mezshop/shop-api/internal/domain/entity"
)

type CartRepository interface {
	Get(ctx context.Context, userID string) ([]*entity.CartItem, error)
	// Add upserts the line, incrementing quantity by qty.
	Add(ctx context.Context, userID, productID string, qty int32) error
	Remove(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
}

type OrderRepository interface {
	// CreateFromCart snapshots the user's cart into an order and clears the
	// cart inside a single transaction. Returns ErrNotFound for an empty cart.
	CreateFromCart(ctx context.Context, userID string) (*entity.Order, error)
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Order, error)
}
