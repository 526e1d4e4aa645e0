package entity

import (
	"time"
)

// Product is owned by the user who created it; only the owner may change or
// delete it.
type Product struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	// PriceCents avoids floating point money.
	PriceCents int64
	ImageURL   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
