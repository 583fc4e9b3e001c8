package catalog

import (
	"context"

	"go.uber.org/zap"

	"storefront/apperror"
	"storefront/models"
)

// Store is the product persistence the catalog needs
type Store interface {
	List(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)
	Insert(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id string, fields models.ProductFields) (*models.Product, error)
	Delete(ctx context.Context, id string) error
}

// Cache is an optional read-through layer in front of Store
type Cache interface {
	GetList(ctx context.Context) ([]models.Product, bool)
	SetList(ctx context.Context, products []models.Product)
	GetProduct(ctx context.Context, id string) (*models.Product, bool)
	SetProduct(ctx context.Context, product *models.Product)
	Invalidate(ctx context.Context, id string)
}

// Service implements list/get/create/update/delete over the product store.
// Callers are responsible for the admin check on mutations.
type Service struct {
	store Store
	cache Cache
}

// NewService creates a catalog service. cache may be nil.
func NewService(store Store, cache Cache) *Service {
	if cache == nil {
		cache = noCache{}
	}
	return &Service{store: store, cache: cache}
}

// List returns every product, newest first
func (s *Service) List(ctx context.Context) ([]models.Product, error) {
	if products, ok := s.cache.GetList(ctx); ok {
		return products, nil
	}
	products, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetList(ctx, products)
	return products, nil
}

// Get returns one product or NotFound
func (s *Service) Get(ctx context.Context, id string) (*models.Product, error) {
	if product, ok := s.cache.GetProduct(ctx, id); ok {
		return product, nil
	}
	product, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.SetProduct(ctx, product)
	return product, nil
}

// Create validates required fields and stores a new product
func (s *Service) Create(ctx context.Context, fields models.ProductFields) (*models.Product, error) {
	if fields.Name == nil || *fields.Name == "" ||
		fields.Description == nil || *fields.Description == "" ||
		fields.Price == nil {
		return nil, apperror.Validation("name, description, and a valid price are required.")
	}

	product := &models.Product{
		Name:          *fields.Name,
		Description:   *fields.Description,
		Price:         *fields.Price,
		OriginalPrice: fields.OriginalPrice,
		Discount:      fields.Discount,
		Gallery:       fields.Gallery,
	}
	if fields.Rating != nil {
		product.Rating = *fields.Rating
	}
	if fields.Reviews != nil {
		product.Reviews = *fields.Reviews
	}
	if fields.PhotoPath != nil {
		product.PhotoPath = *fields.PhotoPath
	}
	if fields.Stock != nil {
		product.Stock = *fields.Stock
	}
	if fields.Category != nil {
		product.Category = *fields.Category
	}

	if err := s.store.Insert(ctx, product); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, product.ID.Hex())
	zap.S().Infow("Product created", "id", product.ID.Hex(), "name", product.Name)
	return product, nil
}

// Update applies a partial update. Required text fields may not be blanked.
func (s *Service) Update(ctx context.Context, id string, fields models.ProductFields) (*models.Product, error) {
	if fields.Name != nil && *fields.Name == "" {
		return nil, apperror.Validation("Name cannot be empty")
	}
	if fields.Description != nil && *fields.Description == "" {
		return nil, apperror.Validation("Description cannot be empty")
	}

	product, err := s.store.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, id)
	zap.S().Infow("Product updated", "id", id)
	return product, nil
}

// Delete removes a product or returns NotFound
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, id)
	zap.S().Infow("Product deleted", "id", id)
	return nil
}

type noCache struct{}

func (noCache) GetList(context.Context) ([]models.Product, bool)            { return nil, false }
func (noCache) SetList(context.Context, []models.Product)                   {}
func (noCache) GetProduct(context.Context, string) (*models.Product, bool) { return nil, false }
func (noCache) SetProduct(context.Context, *models.Product)                 {}
func (noCache) Invalidate(context.Context, string)                          {}
