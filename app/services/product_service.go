package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/furnistor/app/models"
	"github.com/shashiranjanraj/furnistor/app/repositories"
	"github.com/shashiranjanraj/furnistor/pkg/cache"
	"github.com/shashiranjanraj/furnistor/pkg/logger"
	"github.com/shashiranjanraj/furnistor/pkg/response"
	"github.com/shashiranjanraj/furnistor/pkg/storage"
)

const (
	featuredCacheKey = "products:featured"
	featuredLimit    = 8
	relatedLimit     = 4
	cacheTTL         = 5 * time.Minute
)

// ProductService implements the catalog, reviews, and admin product CRUD.
type ProductService struct {
	products repositories.ProductRepository
	orders   repositories.OrderRepository
}

func NewProductService(products repositories.ProductRepository, orders repositories.OrderRepository) *ProductService {
	return &ProductService{products: products, orders: orders}
}

// List runs a catalog query and returns the page with pagination metadata.
// An out-of-range page yields an empty page, not an error.
func (s *ProductService) List(ctx context.Context, q repositories.CatalogQuery) ([]models.Product, response.Pagination, error) {
	q.Normalize()
	items, total, err := s.products.Find(ctx, q)
	if err != nil {
		return nil, response.Pagination{}, err
	}
	return items, response.NewPagination(q.Page, q.Limit, total), nil
}

// Featured serves up to 8 featured products through the cache.
func (s *ProductService) Featured(ctx context.Context) ([]models.Product, error) {
	var cached []models.Product
	if cache.Get(featuredCacheKey, &cached) {
		return cached, nil
	}

	items, err := s.products.Featured(ctx, featuredLimit)
	if err != nil {
		return nil, err
	}
	if err := cache.Set(featuredCacheKey, items, cacheTTL); err != nil {
		logger.WithCtx(ctx).Warn("products: cache featured", "error", err)
	}
	return items, nil
}

// Get returns a product by its hex id. A malformed id behaves like a miss.
func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrNotFound
	}
	return s.products.FindByID(ctx, oid)
}

// Related returns up to 4 products sharing the category, excluding itself.
func (s *ProductService) Related(ctx context.Context, id string) ([]models.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.products.Related(ctx, p, relatedLimit)
}

// AddReview upserts the caller's review on the product. The verifiedPurchase
// flag is set when the caller has a Shipped or Delivered order containing it.
func (s *ProductService) AddReview(ctx context.Context, userID primitive.ObjectID, productID string, rating int, comment string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, repositories.ErrNotFound
	}

	verified, err := s.orders.HasDeliveredProduct(ctx, userID, oid)
	if err != nil {
		return nil, err
	}

	return s.products.UpsertReview(ctx, oid, models.Review{
		User:             userID,
		Rating:           rating,
		Comment:          comment,
		VerifiedPurchase: verified,
	})
}

// ------------------- Admin -------------------

func (s *ProductService) Create(ctx context.Context, p *models.Product) error {
	if err := s.products.Create(ctx, p); err != nil {
		return err
	}
	s.invalidateCache()
	return nil
}

func (s *ProductService) Update(ctx context.Context, id string, fields bson.M) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrNotFound
	}
	p, err := s.products.Update(ctx, oid, fields)
	if err != nil {
		return nil, err
	}
	s.invalidateCache()
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repositories.ErrNotFound
	}
	if err := s.products.Delete(ctx, oid); err != nil {
		return err
	}
	s.invalidateCache()
	return nil
}

// UploadImage stores a product image on the configured disk and appends its
// public URL to the product.
func (s *ProductService) UploadImage(ctx context.Context, id, filename string, file io.Reader) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrNotFound
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return nil, ErrUnsupportedImage
	}

	path := fmt.Sprintf("products/%s/%d%s", id, time.Now().UnixNano(), ext)
	if err := storage.PutStream(path, file); err != nil {
		return nil, fmt.Errorf("services: store image: %w", err)
	}

	p, err := s.products.AppendImage(ctx, oid, storage.URL(path))
	if err != nil {
		return nil, err
	}
	s.invalidateCache()
	return p, nil
}

func (s *ProductService) invalidateCache() {
	if err := cache.Forget(featuredCacheKey); err != nil {
		logger.Warn("products: invalidate cache", "error", err)
	}
}
