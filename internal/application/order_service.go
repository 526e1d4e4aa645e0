package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mezshop/shop-api/config"
	"github.com/mezshop/shop-api/internal/domain/entity"
	"github.com/mezshop/shop-api/internal/domain/repository"
	"github.com/mezshop/shop-api/pkg/helpers"
	"github.com/mezshop/shop-api/pkg/mailer"
	tpl "github.com/mezshop/shop-api/pkg/mailer/templates"
)

// OrderService covers the cart and order placement, plus signed invoice
// download links.
type OrderService struct {
	Cart     repository.CartRepository
	Orders   repository.OrderRepository
	Products repository.ProductRepository
	Invoices *helpers.InvoiceTokenManager
	Queue    EmailQueue
	Cfg      *config.Config
	Logger   *logrus.Logger
}

func NewOrderService(cart repository.CartRepository, orders repository.OrderRepository, products repository.ProductRepository, invoices *helpers.InvoiceTokenManager, queue EmailQueue, cfg *config.Config, logger *logrus.Logger) *OrderService {
	return &OrderService{Cart: cart, Orders: orders, Products: products, Invoices: invoices, Queue: queue, Cfg: cfg, Logger: logger}
}

func (s *OrderService) GetCart(ctx context.Context, userID string) ([]*entity.CartItem, error) {
	return s.Cart.Get(ctx, userID)
}

func (s *OrderService) AddToCart(ctx context.Context, userID, productID string) error {
	if _, err := s.Products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.Cart.Add(ctx, userID, productID, 1)
}

func (s *OrderService) RemoveFromCart(ctx context.Context, userID, productID string) error {
	return s.Cart.Remove(ctx, userID, productID)
}

// PlaceOrder converts the cart into an order and mails a confirmation.
func (s *OrderService) PlaceOrder(ctx context.Context, u *entity.User) (*entity.Order, error) {
	o, err := s.Orders.CreateFromCart(ctx, u.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEmptyCart
		}
		return nil, err
	}

	s.enqueueConfirmation(ctx, u, o)
	return o, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]*entity.Order, error) {
	return s.Orders.ListByUser(ctx, userID)
}

// GetOrder is owner-scoped; someone else's order reads as absent rather than
// forbidden, so order ids can't be probed.
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID string) (*entity.Order, error) {
	o, err := s.Orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if o.UserID != userID {
		return nil, ErrNotFound
	}
	return o, nil
}

// InvoiceLink signs a short-lived token bound to the order/user pair and
// returns a shareable download URL.
func (s *OrderService) InvoiceLink(ctx context.Context, userID, orderID string) (string, error) {
	o, err := s.GetOrder(ctx, userID, orderID)
	if err != nil {
		return "", err
	}
	token, _, err := s.Invoices.Generate(o.ID, o.UserID)
	if err != nil {
		return "", err
	}
	return s.Cfg.InvoiceURL + "?token=" + token, nil
}

// RenderInvoice verifies the signed token and renders the invoice as plain
// text. This is the one sessionless read in the API.
func (s *OrderService) RenderInvoice(ctx context.Context, token string) (string, error) {
	claims, err := s.Invoices.Parse(token)
	if err != nil {
		return "", ErrInvalidOrExpiredToken
	}
	o, err := s.GetOrder(ctx, claims.UserID, claims.OrderID)
	if err != nil {
		return "", ErrInvalidOrExpiredToken
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Invoice %s\n", o.ID)
	fmt.Fprintf(&b, "Date: %s\n\n", o.CreatedAt.UTC().Format("2006-01-02"))
	for _, it := range o.Items {
		fmt.Fprintf(&b, "%s x%d  %s\n", it.Title, it.Quantity, formatCents(it.UnitPriceCents*int64(it.Quantity)))
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", formatCents(o.TotalCents))
	return b.String(), nil
}

func formatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

func (s *OrderService) enqueueConfirmation(ctx context.Context, u *entity.User, o *entity.Order) {
	if s.Queue == nil || (s.Cfg != nil && !s.Cfg.MailSendEnabled) {
		return
	}
	lines := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, fmt.Sprintf("%s x%d (%s)", it.Title, it.Quantity, formatCents(it.UnitPriceCents)))
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: tpl.OrderConfirmation,
		Data:     tpl.NewOrderConfirmationData(s.Cfg, u.Name, u.Email, o.ID, lines, formatCents(o.TotalCents)),
	}
	if err := s.Queue.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("order_id", o.ID).Warn("failed to enqueue email job")
	}
}
