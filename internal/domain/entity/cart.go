package entity

// CartItem is one line of a user's cart. The cart belongs exclusively to its
// user; quantities are always positive.
type CartItem struct {
	ProductID string
	Title     string
	// PriceCents is the current product price, not a snapshot.
	PriceCents int64
	Quantity   int32
}
