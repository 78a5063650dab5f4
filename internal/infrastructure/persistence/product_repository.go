package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindActiveByID finds a product by ID, excluding deactivated products
func (r *GormProductRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByIDs finds multiple products by their IDs
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}

	var products []catalog.Product
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Query finds products matching the catalog query with a total count
func (r *GormProductRepository) Query(ctx context.Context, query catalog.ProductQuery) (shared.Paginated[catalog.Product], error) {
	// Session makes the filtered query reusable for both count and fetch
	base := r.applyQuery(r.db.WithContext(ctx).Model(&catalog.Product{}), query).
		Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return shared.Paginated[catalog.Product]{}, err
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = catalog.DefaultProductQuery().PageSize
	}

	var products []catalog.Product
	if err := base.
		Order(sortClause(query.Sort)).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&products).Error; err != nil {
		return shared.Paginated[catalog.Product]{}, err
	}

	return shared.NewPaginated(products, total, page, pageSize), nil
}

// FindFeatured finds up to limit active featured products
func (r *GormProductRepository) FindFeatured(ctx context.Context, limit int) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := r.db.WithContext(ctx).
		Where("is_active = ? AND is_featured = ?", true, true).
		Order("rating DESC, review_count DESC").
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// DecrementStock atomically decrements stock for an active product,
// constrained to stock >= quantity
func (r *GormProductRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (int, error) {
	var remaining int
	result := r.db.WithContext(ctx).Raw(
		`UPDATE products
		 SET stock = stock - ?, updated_at = NOW()
		 WHERE id = ? AND is_active = true AND stock >= ?
		 RETURNING stock`,
		quantity, id, quantity,
	).Scan(&remaining)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		// Distinguish a missing product from an oversell attempt
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&catalog.Product{}).
			Where("id = ? AND is_active = ?", id, true).
			Count(&count).Error; err != nil {
			return 0, err
		}
		if count == 0 {
			return 0, shared.ErrNotFound
		}
		return 0, shared.ErrInsufficientStock
	}
	return remaining, nil
}

// CountByCategory counts active products in a category
func (r *GormProductRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("category_id = ? AND is_active = ?", categoryID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&catalog.Product{})
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyQuery applies the catalog query conditions, without sorting or pagination
func (r *GormProductRepository) applyQuery(query *gorm.DB, q catalog.ProductQuery) *gorm.DB {
	if !q.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}
	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		query = query.Where(
			"(name ILIKE ? OR description ILIKE ? OR brand ILIKE ?)",
			pattern, pattern, pattern,
		)
	}
	if q.CategoryID != nil {
		query = query.Where("category_id = ?", *q.CategoryID)
	}
	if q.Brand != "" {
		query = query.Where("brand ILIKE ?", q.Brand)
	}
	if q.MinPrice != nil {
		query = query.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		query = query.Where("price <= ?", *q.MaxPrice)
	}
	if q.FeaturedOnly {
		query = query.Where("is_featured = ?", true)
	}
	return query
}

// sortClause maps a catalog sort order to a SQL ORDER BY clause
func sortClause(sort catalog.ProductSort) string {
	switch sort {
	case catalog.SortPriceLow:
		return "price ASC, created_at DESC"
	case catalog.SortPriceHigh:
		return "price DESC, created_at DESC"
	case catalog.SortRating:
		return "rating DESC, review_count DESC"
	case catalog.SortName:
		return "name ASC"
	default:
		return "created_at DESC"
	}
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
