package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// ProductService handles catalog business operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	publisher    shared.EventPublisher
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	publisher shared.EventPublisher,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		publisher:    publisher,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	if _, err := s.categoryRepo.FindByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
		}
		return nil, err
	}

	price := valueobject.NewMoneyUSD(req.Price)
	product, err := catalog.NewProduct(req.Name, req.Description, req.Brand, price, req.CategoryID, req.Stock)
	if err != nil {
		return nil, err
	}

	if req.OriginalPrice != nil {
		original := valueobject.NewMoneyUSD(*req.OriginalPrice)
		if err := product.SetPricing(price, &original); err != nil {
			return nil, err
		}
	}
	if req.LowStockThreshold != nil {
		if err := product.SetLowStockThreshold(*req.LowStockThreshold); err != nil {
			return nil, err
		}
	}
	if len(req.Images) > 0 {
		product.SetImages(req.Images)
	}
	if len(req.Features) > 0 {
		product.SetFeatures(req.Features)
	}
	if len(req.Specifications) > 0 {
		product.SetSpecifications(req.Specifications)
	}
	if len(req.Tags) > 0 {
		product.SetTags(req.Tags)
	}
	if req.IsFeatured {
		product.SetFeatured(true)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	return ToProductResponse(product), nil
}

// Update applies a partial update to a product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil || req.Brand != nil {
		name := product.Name
		description := product.Description
		brand := product.Brand
		if req.Name != nil {
			name = *req.Name
		}
		if req.Description != nil {
			description = *req.Description
		}
		if req.Brand != nil {
			brand = *req.Brand
		}
		if err := product.Update(name, description, brand); err != nil {
			return nil, err
		}
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
			}
			return nil, err
		}
		if err := product.SetCategory(*req.CategoryID); err != nil {
			return nil, err
		}
	}

	if req.Price != nil || req.OriginalPrice != nil {
		price := valueobject.NewMoneyUSD(product.Price)
		if req.Price != nil {
			price = valueobject.NewMoneyUSD(*req.Price)
		}
		var original *valueobject.Money
		if req.OriginalPrice != nil {
			m := valueobject.NewMoneyUSD(*req.OriginalPrice)
			original = &m
		} else if product.OriginalPrice != nil {
			m := valueobject.NewMoneyUSD(*product.OriginalPrice)
			original = &m
		}
		if err := product.SetPricing(price, original); err != nil {
			return nil, err
		}
	}

	if req.Stock != nil {
		if err := product.SetStock(*req.Stock); err != nil {
			return nil, err
		}
	}
	if req.LowStockThreshold != nil {
		if err := product.SetLowStockThreshold(*req.LowStockThreshold); err != nil {
			return nil, err
		}
	}
	if req.Images != nil {
		product.SetImages(*req.Images)
	}
	if req.Features != nil {
		product.SetFeatures(*req.Features)
	}
	if req.Specifications != nil {
		product.SetSpecifications(*req.Specifications)
	}
	if req.Tags != nil {
		product.SetTags(*req.Tags)
	}
	if req.IsFeatured != nil {
		product.SetFeatured(*req.IsFeatured)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	return ToProductResponse(product), nil
}

// Get returns a single product by ID, including inactive ones
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// List runs the storefront catalog query
func (s *ProductService) List(ctx context.Context, q ProductListQuery) (shared.Paginated[ProductResponse], error) {
	query := catalog.DefaultProductQuery()
	query.Search = q.Search
	query.CategoryID = q.CategoryID
	query.Brand = q.Brand
	query.MinPrice = q.MinPrice
	query.MaxPrice = q.MaxPrice
	query.FeaturedOnly = q.Featured
	if q.Sort != "" {
		query.Sort = catalog.ProductSort(q.Sort)
	}
	if q.Page > 0 {
		query.Page = q.Page
	}
	if q.PageSize > 0 {
		query.PageSize = q.PageSize
	}

	page, err := s.productRepo.Query(ctx, query)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}

	items := make([]ProductResponse, len(page.Items))
	for i := range page.Items {
		items[i] = *ToProductResponse(&page.Items[i])
	}

	return shared.Paginated[ProductResponse]{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}

// FeaturedLimit caps the storefront featured strip
const FeaturedLimit = 8

// ListFeatured returns the storefront featured products
func (s *ProductService) ListFeatured(ctx context.Context) ([]ProductResponse, error) {
	products, err := s.productRepo.FindFeatured(ctx, FeaturedLimit)
	if err != nil {
		return nil, err
	}

	items := make([]ProductResponse, len(products))
	for i := range products {
		items[i] = *ToProductResponse(&products[i])
	}
	return items, nil
}

// UpdateStock sets the absolute stock level for a product
func (s *ProductService) UpdateStock(ctx context.Context, id uuid.UUID, req UpdateStockRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.SetStock(req.Stock); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	return ToProductResponse(product), nil
}

// Delete soft-deletes a product so historical order items stay resolvable
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := product.Deactivate(); err != nil {
		return err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return err
	}

	s.publishEvents(ctx, product)

	return nil
}

// Restore reactivates a soft-deleted product
func (s *ProductService) Restore(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.Activate(); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	return ToProductResponse(product), nil
}

// publishEvents drains and publishes the aggregate's pending events.
// Publication is best-effort after a successful save
func (s *ProductService) publishEvents(ctx context.Context, product *catalog.Product) {
	events := product.GetDomainEvents()
	product.ClearDomainEvents()
	if len(events) > 0 && s.publisher != nil {
		_ = s.publisher.Publish(ctx, events...)
	}
}
