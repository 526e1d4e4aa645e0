package application

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mezshop/shop-api/config"
	"github.com/mezshop/shop-api/internal/domain/entity"
	"github.com/mezshop/shop-api/internal/domain/repository"
	"github.com/mezshop/shop-api/pkg/helpers"
)

type fakeCartRepo struct {
	mu    sync.Mutex
	lines map[string]map[string]int32 // userID -> productID -> qty
	prods *fakeProductRepo
}

func newFakeCartRepo(prods *fakeProductRepo) *fakeCartRepo {
	return &fakeCartRepo{lines: map[string]map[string]int32{}, prods: prods}
}

func (r *fakeCartRepo) Get(ctx context.Context, userID string) ([]*entity.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*entity.CartItem{}
	for pid, qty := range r.lines[userID] {
		p, err := r.prods.GetByID(ctx, pid)
		if err != nil {
			continue
		}
		out = append(out, &entity.CartItem{ProductID: pid, Title: p.Title, PriceCents: p.PriceCents, Quantity: qty})
	}
	return out, nil
}

func (r *fakeCartRepo) Add(_ context.Context, userID, productID string, qty int32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lines[userID] == nil {
		r.lines[userID] = map[string]int32{}
	}
	r.lines[userID][productID] += qty
	return nil
}

func (r *fakeCartRepo) Remove(_ context.Context, userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.lines[userID], productID)
	return nil
}

func (r *fakeCartRepo) Clear(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.lines, userID)
	return nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	seq    int
	cart   *fakeCartRepo
	orders map[string]*entity.Order
}

func newFakeOrderRepo(cart *fakeCartRepo) *fakeOrderRepo {
	return &fakeOrderRepo{cart: cart, orders: map[string]*entity.Order{}}
}

func (r *fakeOrderRepo) CreateFromCart(ctx context.Context, userID string) (*entity.Order, error) {
	items, err := r.cart.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, repository.ErrNotFound
	}

	r.mu.Lock()
	r.seq++
	o := &entity.Order{
		ID:        "order-" + strconv.Itoa(r.seq),
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	for _, it := range items {
		o.Items = append(o.Items, entity.OrderItem{
			ProductID:      it.ProductID,
			Title:          it.Title,
			UnitPriceCents: it.PriceCents,
			Quantity:       it.Quantity,
		})
		o.TotalCents += it.PriceCents * int64(it.Quantity)
	}
	cp := *o
	r.orders[o.ID] = &cp
	r.mu.Unlock()

	return o, r.cart.Clear(ctx, userID)
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.orders[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeOrderRepo) ListByUser(_ context.Context, userID string) ([]*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*entity.Order{}
	for _, o := range r.orders {
		if o.UserID == userID {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

type orderFixture struct {
	svc   *OrderService
	prods *fakeProductRepo
	cart  *fakeCartRepo
	queue *fakeQueue
}

func newOrderFixture() *orderFixture {
	prods := newFakeProductRepo()
	cart := newFakeCartRepo(prods)
	orders := newFakeOrderRepo(cart)
	queue := &fakeQueue{}
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	cfg := &config.Config{
		InvoiceURL:      "http://localhost:8080/api/invoices",
		MailSendEnabled: true,
	}
	invoices := helpers.NewInvoiceTokenManager("order-test-secret", 15*time.Minute)
	return &orderFixture{
		svc:   NewOrderService(cart, orders, prods, invoices, queue, cfg, logger),
		prods: prods,
		cart:  cart,
		queue: queue,
	}
}

func (f *orderFixture) seedProduct(t *testing.T, title string, priceCents int64) *entity.Product {
	t.Helper()
	p := &entity.Product{OwnerID: "seller", Title: title, PriceCents: priceCents}
	require.NoError(t, f.prods.Create(context.Background(), p))
	return p
}

func TestOrderService_AddToCart(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	p := f.seedProduct(t, "A Book", 1299)

	require.NoError(t, f.svc.AddToCart(ctx, "buyer", p.ID))
	require.NoError(t, f.svc.AddToCart(ctx, "buyer", p.ID))

	items, err := f.svc.GetCart(ctx, "buyer")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int32(2), items[0].Quantity, "adding the same product increments quantity")
	assert.Equal(t, int64(1299), items[0].PriceCents)
}

func TestOrderService_AddMissingProduct(t *testing.T) {
	f := newOrderFixture()

	err := f.svc.AddToCart(context.Background(), "buyer", "no-such-product")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderService_RemoveFromCart(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	p := f.seedProduct(t, "A Book", 1299)

	require.NoError(t, f.svc.AddToCart(ctx, "buyer", p.ID))
	require.NoError(t, f.svc.RemoveFromCart(ctx, "buyer", p.ID))

	items, err := f.svc.GetCart(ctx, "buyer")
	require.NoError(t, err)
	assert.Empty(t, items)

	// Removing an absent line is not an error.
	assert.NoError(t, f.svc.RemoveFromCart(ctx, "buyer", p.ID))
}

func TestOrderService_PlaceOrderSnapshotsAndClearsCart(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	book := f.seedProduct(t, "A Book", 1299)
	mug := f.seedProduct(t, "A Mug", 899)
	buyer := &entity.User{ID: "buyer", Email: "buyer@example.com", Name: "Buyer"}

	require.NoError(t, f.svc.AddToCart(ctx, buyer.ID, book.ID))
	require.NoError(t, f.svc.AddToCart(ctx, buyer.ID, book.ID))
	require.NoError(t, f.svc.AddToCart(ctx, buyer.ID, mug.ID))

	o, err := f.svc.PlaceOrder(ctx, buyer)
	require.NoError(t, err)
	assert.Equal(t, int64(2*1299+899), o.TotalCents)
	assert.Len(t, o.Items, 2)

	items, err := f.svc.GetCart(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, items, "cart is cleared by checkout")

	// A later price change does not rewrite the order.
	book.PriceCents = 9999
	require.NoError(t, f.prods.Update(ctx, book))
	got, err := f.svc.GetOrder(ctx, buyer.ID, o.ID)
	require.NoError(t, err)
	for _, it := range got.Items {
		if it.ProductID == book.ID {
			assert.Equal(t, int64(1299), it.UnitPriceCents)
		}
	}

	jobs := f.queue.all()
	require.Len(t, jobs, 1)
	assert.Equal(t, "order_confirmation", jobs[0].Template)
	assert.Equal(t, "buyer@example.com", jobs[0].To)
}

func TestOrderService_PlaceOrderEmptyCart(t *testing.T) {
	f := newOrderFixture()
	buyer := &entity.User{ID: "buyer", Email: "buyer@example.com"}

	_, err := f.svc.PlaceOrder(context.Background(), buyer)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, f.queue.all())
}

func TestOrderService_GetOrderForeignReadsAsAbsent(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	p := f.seedProduct(t, "A Book", 1299)
	buyer := &entity.User{ID: "buyer", Email: "buyer@example.com"}

	require.NoError(t, f.svc.AddToCart(ctx, buyer.ID, p.ID))
	o, err := f.svc.PlaceOrder(ctx, buyer)
	require.NoError(t, err)

	_, err = f.svc.GetOrder(ctx, "someone-else", o.ID)
	assert.ErrorIs(t, err, ErrNotFound, "foreign orders are absent, not forbidden")
}

func TestOrderService_InvoiceLinkAndRender(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	p := f.seedProduct(t, "A Book", 1299)
	buyer := &entity.User{ID: "buyer", Email: "buyer@example.com"}

	require.NoError(t, f.svc.AddToCart(ctx, buyer.ID, p.ID))
	o, err := f.svc.PlaceOrder(ctx, buyer)
	require.NoError(t, err)

	link, err := f.svc.InvoiceLink(ctx, buyer.ID, o.ID)
	require.NoError(t, err)
	require.Contains(t, link, "?token=")
	token := link[strings.Index(link, "?token=")+len("?token="):]

	text, err := f.svc.RenderInvoice(ctx, token)
	require.NoError(t, err)
	assert.Contains(t, text, o.ID)
	assert.Contains(t, text, "A Book x1")
	assert.Contains(t, text, "Total: $12.99")
}

func TestOrderService_InvoiceLinkForeignOrder(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	p := f.seedProduct(t, "A Book", 1299)
	buyer := &entity.User{ID: "buyer", Email: "buyer@example.com"}

	require.NoError(t, f.svc.AddToCart(ctx, buyer.ID, p.ID))
	o, err := f.svc.PlaceOrder(ctx, buyer)
	require.NoError(t, err)

	_, err = f.svc.InvoiceLink(ctx, "someone-else", o.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderService_RenderInvoiceRejectsBadToken(t *testing.T) {
	f := newOrderFixture()

	_, err := f.svc.RenderInvoice(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)

	// A token signed with another secret is rejected too.
	other := helpers.NewInvoiceTokenManager("wrong-secret", time.Minute)
	tok, _, err := other.Generate("order-1", "buyer")
	require.NoError(t, err)
	_, err = f.svc.RenderInvoice(context.Background(), tok)
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}
