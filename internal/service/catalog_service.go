package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/marketplace/internal/config"
	"github.com/spec-kit/marketplace/internal/domain"
	"github.com/spec-kit/marketplace/internal/events"
	"github.com/spec-kit/marketplace/internal/observability"
	"github.com/spec-kit/marketplace/internal/repository"
	apperrors "github.com/spec-kit/marketplace/pkg/util"
)

// ProductCreateInput carries a new catalog entry.
type ProductCreateInput struct {
	Title       string
	Description string
	Price       domain.Price
	Images      []string
	Stock       int
}

// ProductUpdateInput carries a partial update; nil fields are untouched.
type ProductUpdateInput struct {
	Title       *string
	Description *string
	PriceAmount *float64
	Currency    *domain.Currency
	Images      []string
	Stock       *int
}

// ProductListQuery captures public listing filters.
type ProductListQuery struct {
	Search   string
	MinPrice *float64
	MaxPrice *float64
	Skip     int
}

// CatalogService manages products on behalf of authenticated sellers. It
// never sees a token: the gate has already reduced the credential to a
// subject id and role by the time a handler calls in.
type CatalogService struct {
	products   repository.ProductRepository
	cache      repository.ProductCache
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	pageSize   int
}

// CatalogDependencies encapsulates collaborator requirements.
type CatalogDependencies struct {
	ProductRepo repository.ProductRepository
	Cache       repository.ProductCache
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
}

// NewCatalogService builds the service.
func NewCatalogService(cfg config.Config, deps CatalogDependencies) *CatalogService {
	pageSize := cfg.Catalog.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	return &CatalogService{
		products:   deps.ProductRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		pageSize:   pageSize,
	}
}

// Create adds a product owned by the calling seller.
func (s *CatalogService) Create(ctx context.Context, sellerID string, input ProductCreateInput) (*domain.Product, error) {
	currency := input.Price.Currency
	if currency == "" {
		currency = domain.CurrencyINR
	}

	product := &domain.Product{
		Title:       input.Title,
		Description: input.Description,
		Price:       domain.Price{Amount: input.Price.Amount, Currency: currency},
		SellerID:    sellerID,
		Images:      input.Images,
		Stock:       input.Stock,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.EventProductCreated, product.ID, events.ProductCreatedPayload{
		ProductID: product.ID,
		SellerID:  product.SellerID,
		Title:     product.Title,
		Price:     product.Price,
		Stock:     product.Stock,
	})
	return product, nil
}

// List returns one public page of matching products.
func (s *CatalogService) List(ctx context.Context, query ProductListQuery) ([]domain.Product, error) {
	products, err := s.products.List(ctx, repository.ProductFilter{
		Search:   query.Search,
		MinPrice: query.MinPrice,
		MaxPrice: query.MaxPrice,
		Skip:     query.Skip,
		Limit:    s.pageSize,
	})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return products, nil
}

// Get fetches one product, read-through cached.
func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Product, error) {
	if s.cache != nil {
		if product, ok := s.cache.Get(ctx, id); ok {
			s.metrics.RecordCacheOutcome("hit")
			return product, nil
		}
		s.metrics.RecordCacheOutcome("miss")
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("product", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}

	if s.cache != nil {
		s.cache.Set(ctx, product)
	}
	return product, nil
}

// ListBySeller returns the calling seller's own products.
func (s *CatalogService) ListBySeller(ctx context.Context, sellerID string) ([]domain.Product, error) {
	products, err := s.products.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return products, nil
}

// Update applies a partial update to a product the caller owns. A product
// owned by someone else reads as not found, same as a missing one.
func (s *CatalogService) Update(ctx context.Context, sellerID, id string, input ProductUpdateInput) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("product", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	if product.SellerID != sellerID {
		return nil, apperrors.NewNotFound("product", nil)
	}

	if input.Title != nil {
		product.Title = *input.Title
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.PriceAmount != nil {
		product.Price.Amount = *input.PriceAmount
	}
	if input.Currency != nil {
		product.Price.Currency = *input.Currency
	}
	if input.Images != nil {
		product.Images = input.Images
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}

	if err := s.products.Update(ctx, product); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("product", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}
	s.publish(ctx, events.EventProductUpdated, id, events.ProductChangedPayload{ProductID: id, SellerID: sellerID})
	return product, nil
}

// Delete removes a product the caller owns.
func (s *CatalogService) Delete(ctx context.Context, sellerID, id string) error {
	if err := s.products.Delete(ctx, id, sellerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("product", nil)
		}
		return apperrors.NewInternalError(err)
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}
	s.publish(ctx, events.EventProductDeleted, id, events.ProductChangedPayload{ProductID: id, SellerID: sellerID})
	return nil
}

func (s *CatalogService) publish(ctx context.Context, eventType events.EventType, subjectID string, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
