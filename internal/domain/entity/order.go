package entity

import (
	"time"
)

// Order snapshots the cart at placement time. Items carry their own copy of
// title and unit price so later product edits do not rewrite history.
type Order struct {
	ID         string
	UserID     string
	TotalCents int64
	Items      []OrderItem
	CreatedAt  time.Time
}

type OrderItem struct {
	ProductID      string
	Title          string
	UnitPriceCents int64
	Quantity       int32
}
