package application

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mezshop/shop-api/internal/domain/entity"
	"github.com/mezshop/shop-api/internal/domain/repository"
)

type fakeProductRepo struct {
	mu       sync.Mutex
	seq      int
	products map[string]*entity.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[string]*entity.Product{}}
}

func (r *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	p.ID = "prod-" + strconv.Itoa(r.seq)
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeProductRepo) List(_ context.Context) ([]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Product, 0, len(r.products))
	for _, p := range r.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeProductRepo) ListByOwner(_ context.Context, ownerID string) ([]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*entity.Product{}
	for _, p := range r.products {
		if p.OwnerID == ownerID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID]; !ok {
		return repository.ErrNotFound
	}
	p.UpdatedAt = time.Now()
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok || p.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func newCatalogService(repo repository.ProductRepository) *CatalogService {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	// No GCS or ES in unit tests; image upload and indexing degrade to no-ops.
	return NewCatalogService(repo, nil, "", nil, "", logger)
}

func TestCatalogService_CreateAndGet(t *testing.T) {
	svc := newCatalogService(newFakeProductRepo())
	ctx := context.Background()

	p, err := svc.Create(ctx, "owner-1", ProductInput{Title: "A Book", Description: "Readable", PriceCents: 1299})
	require.NoError(t, err)
	require.NotEmpty(t, p.ID)

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "A Book", got.Title)
	assert.Equal(t, "owner-1", got.OwnerID)
	assert.Equal(t, int64(1299), got.PriceCents)
}

func TestCatalogService_GetMissing(t *testing.T) {
	svc := newCatalogService(newFakeProductRepo())

	_, err := svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogService_UpdateByOwner(t *testing.T) {
	svc := newCatalogService(newFakeProductRepo())
	ctx := context.Background()

	p, err := svc.Create(ctx, "owner-1", ProductInput{Title: "A Book", PriceCents: 1299})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "owner-1", p.ID, ProductInput{Title: "A Better Book", Description: "Now improved", PriceCents: 1499})
	require.NoError(t, err)
	assert.Equal(t, "A Better Book", updated.Title)
	assert.Equal(t, int64(1499), updated.PriceCents)
}

func TestCatalogService_UpdateByStrangerForbidden(t *testing.T) {
	repo := newFakeProductRepo()
	svc := newCatalogService(repo)
	ctx := context.Background()

	p, err := svc.Create(ctx, "owner-1", ProductInput{Title: "A Book", PriceCents: 1299})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "intruder", p.ID, ProductInput{Title: "Hijacked", PriceCents: 1})
	assert.ErrorIs(t, err, ErrForbidden)

	// The row is untouched.
	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "A Book", got.Title)
	assert.Equal(t, int64(1299), got.PriceCents)
}

func TestCatalogService_DeleteByStrangerForbidden(t *testing.T) {
	svc := newCatalogService(newFakeProductRepo())
	ctx := context.Background()

	p, err := svc.Create(ctx, "owner-1", ProductInput{Title: "A Book", PriceCents: 1299})
	require.NoError(t, err)

	err = svc.Delete(ctx, "intruder", p.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Get(ctx, p.ID)
	assert.NoError(t, err, "product survives a forbidden delete")
}

func TestCatalogService_DeleteByOwner(t *testing.T) {
	svc := newCatalogService(newFakeProductRepo())
	ctx := context.Background()

	p, err := svc.Create(ctx, "owner-1", ProductInput{Title: "A Book", PriceCents: 1299})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "owner-1", p.ID))

	_, err = svc.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogService_ListByOwnerScoped(t *testing.T) {
	svc := newCatalogService(newFakeProductRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, "owner-1", ProductInput{Title: "Mine", PriceCents: 100})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "owner-2", ProductInput{Title: "Theirs", PriceCents: 200})
	require.NoError(t, err)

	mine, err := svc.ListByOwner(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Mine", mine[0].Title)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCatalogService_UploadImageRejectsNonImage(t *testing.T) {
	svc := newCatalogService(newFakeProductRepo())
	ctx := context.Background()

	p, err := svc.Create(ctx, "owner-1", ProductInput{Title: "A Book", PriceCents: 1299})
	require.NoError(t, err)

	_, err = svc.UploadImage(ctx, "owner-1", p.ID, nil, "evil.pdf", "application/pdf")
	assert.Error(t, err)
}
