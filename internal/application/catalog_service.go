package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mezshop/shop-api/internal/domain/entity"
	"github.com/mezshop/shop-api/internal/domain/repository"
	"github.com/mezshop/shop-api/pkg/helpers"
)

// CatalogService owns product CRUD, image storage, and search indexing.
// Mutations re-verify ownership against the requesting user on every call;
// nothing is trusted from an earlier read.
type CatalogService struct {
	Repo            repository.ProductRepository
	GCS             *storage.Client
	GCSBucket       string
	ES              *elasticsearch.Client
	ESProductsIndex string
	Logger          *logrus.Logger
}

func NewCatalogService(repo repository.ProductRepository, gcs *storage.Client, gcsBucket string, es *elasticsearch.Client, esProductsIndex string, logger *logrus.Logger) *CatalogService {
	return &CatalogService{Repo: repo, GCS: gcs, GCSBucket: gcsBucket, ES: es, ESProductsIndex: esProductsIndex, Logger: logger}
}

type ProductInput struct {
	Title       string
	Description string
	PriceCents  int64
}

func (s *CatalogService) List(ctx context.Context) ([]*entity.Product, error) {
	return s.Repo.List(ctx)
}

func (s *CatalogService) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Product, error) {
	return s.Repo.ListByOwner(ctx, ownerID)
}

func (s *CatalogService) Get(ctx context.Context, id string) (*entity.Product, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) Create(ctx context.Context, ownerID string, in ProductInput) (*entity.Product, error) {
	p := &entity.Product{
		OwnerID:     ownerID,
		Title:       in.Title,
		Description: in.Description,
		PriceCents:  in.PriceCents,
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.indexProduct(ctx, p)
	return p, nil
}

// Update fails with ErrForbidden when the product belongs to someone else;
// the row is left untouched.
func (s *CatalogService) Update(ctx context.Context, ownerID, id string, in ProductInput) (*entity.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	p.Title = in.Title
	p.Description = in.Description
	p.PriceCents = in.PriceCents
	if err := s.Repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.indexProduct(ctx, p)
	return p, nil
}

func (s *CatalogService) Delete(ctx context.Context, ownerID, id string) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if p.OwnerID != ownerID {
		return ErrForbidden
	}
	if err := s.Repo.Delete(ctx, id, ownerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.deleteFromIndex(ctx, id)
	return nil
}

// UploadImage streams a product image to GCS and stores the public URL.
// Only the owner may attach an image; only png/jpeg are accepted, matching
// the storefront's upload filter.
func (s *CatalogService) UploadImage(ctx context.Context, ownerID, id string, r io.Reader, filename, contentType string) (*entity.Product, error) {
	switch strings.ToLower(contentType) {
	case "image/png", "image/jpg", "image/jpeg":
	default:
		return nil, errors.New("attached file is not an image")
	}

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return nil, errors.New("gcs not configured")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("products", id, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return nil, err
	}
	p.ImageURL = url
	if err := s.Repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.indexProduct(ctx, p)
	return p, nil
}

func (s *CatalogService) indexProduct(ctx context.Context, p *entity.Product) {
	if s.ES == nil || s.ESProductsIndex == "" {
		return
	}
	doc := map[string]any{
		"id":          p.ID,
		"owner_id":    p.OwnerID,
		"title":       p.Title,
		"description": p.Description,
		"price_cents": p.PriceCents,
		"image_url":   p.ImageURL,
		"created_at":  p.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":  p.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESProductsIndex, DocumentID: p.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("product_id", p.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("product_id", p.ID).Warn("es index response error")
	}
}

func (s *CatalogService) deleteFromIndex(ctx context.Context, id string) {
	if s.ES == nil || s.ESProductsIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESProductsIndex, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("product_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// Search runs a multi_match over title and description.
func (s *CatalogService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESProductsIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "description"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESProductsIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
