package repository

import (
	"context"
	"time"

	"github.com/mezshop/shop-api/internal/domain/entity"
)

// UserRepository is the credential store. All operations are atomic at the
// single-row level; that is the only concurrency guarantee the auth workflow
// relies on.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByEmail expects an already-normalized (lowercased) email.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetByResetToken only returns a user whose token is still live at now.
	GetByResetToken(ctx context.Context, token string, now time.Time) (*entity.User, error)
	// SetResetToken stores token+expiry together, replacing any previous pair.
	SetResetToken(ctx context.Context, id, token string, expires time.Time) error
	// UpdatePasswordByResetToken swaps the password hash and clears the
	// token pair in one conditional UPDATE. It fails with ErrNotFound when
	// the (id, token) pair does not match a live reset window, so two racing
	// completions can never both succeed.
	UpdatePasswordByResetToken(ctx context.Context, id, token, passwordHash string, now time.Time) error
}
