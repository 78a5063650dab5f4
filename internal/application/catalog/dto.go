package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/catalog"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name              string            `json:"name" binding:"required,min=2,max=255"`
	Description       string            `json:"description" binding:"required"`
	Brand             string            `json:"brand" binding:"required,min=1,max=100"`
	CategoryID        uuid.UUID         `json:"category_id" binding:"required"`
	Price             decimal.Decimal   `json:"price" binding:"required"`
	OriginalPrice     *decimal.Decimal  `json:"original_price"`
	Stock             int               `json:"stock" binding:"min=0"`
	LowStockThreshold *int              `json:"low_stock_threshold"`
	Images            []string          `json:"images" binding:"omitempty,dive,url"`
	Features          []string          `json:"features"`
	Specifications    map[string]string `json:"specifications"`
	Tags              []string          `json:"tags"`
	IsFeatured        bool              `json:"is_featured"`
}

// UpdateProductRequest represents a request to update a product
// Nil fields are left unchanged
type UpdateProductRequest struct {
	Name              *string            `json:"name" binding:"omitempty,min=2,max=255"`
	Description       *string            `json:"description"`
	Brand             *string            `json:"brand" binding:"omitempty,min=1,max=100"`
	CategoryID        *uuid.UUID         `json:"category_id"`
	Price             *decimal.Decimal   `json:"price"`
	OriginalPrice     *decimal.Decimal   `json:"original_price"`
	Stock             *int               `json:"stock" binding:"omitempty,min=0"`
	LowStockThreshold *int               `json:"low_stock_threshold"`
	Images            *[]string          `json:"images" binding:"omitempty,dive,url"`
	Features          *[]string          `json:"features"`
	Specifications    *map[string]string `json:"specifications"`
	Tags              *[]string          `json:"tags"`
	IsFeatured        *bool              `json:"is_featured"`
}

// UpdateStockRequest sets an absolute stock level
type UpdateStockRequest struct {
	Stock int `json:"stock" binding:"min=0"`
}

// ProductListQuery represents the storefront catalog query parameters
type ProductListQuery struct {
	Search     string     `form:"search"`
	CategoryID *uuid.UUID `form:"category_id"`
	Brand      string     `form:"brand"`
	MinPrice   *float64   `form:"min_price" binding:"omitempty,min=0"`
	MaxPrice   *float64   `form:"max_price" binding:"omitempty,min=0"`
	Featured   bool       `form:"featured"`
	Sort       string     `form:"sort" binding:"omitempty,oneof=newest price-low price-high rating name"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID                uuid.UUID         `json:"id"`
	Name              string            `json:"name"`
	Description       string            `json:"description"`
	Brand             string            `json:"brand"`
	CategoryID        uuid.UUID         `json:"category_id"`
	Price             decimal.Decimal   `json:"price"`
	OriginalPrice     *decimal.Decimal  `json:"original_price,omitempty"`
	Stock             int               `json:"stock"`
	LowStockThreshold int               `json:"low_stock_threshold"`
	Images            []string          `json:"images"`
	Features          []string          `json:"features"`
	Specifications    map[string]string `json:"specifications"`
	Tags              []string          `json:"tags"`
	Rating            decimal.Decimal   `json:"rating"`
	ReviewCount       int               `json:"review_count"`
	IsActive          bool              `json:"is_active"`
	IsFeatured        bool              `json:"is_featured"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// ToProductResponse converts a product aggregate to its API shape
func ToProductResponse(p *catalog.Product) *ProductResponse {
	return &ProductResponse{
		ID:                p.ID,
		Name:              p.Name,
		Description:       p.Description,
		Brand:             p.Brand,
		CategoryID:        p.CategoryID,
		Price:             p.Price,
		OriginalPrice:     p.OriginalPrice,
		Stock:             p.Stock,
		LowStockThreshold: p.LowStockThreshold,
		Images:            p.Images,
		Features:          p.Features,
		Specifications:    p.Specifications,
		Tags:              p.Tags,
		Rating:            p.Rating,
		ReviewCount:       p.ReviewCount,
		IsActive:          p.IsActive,
		IsFeatured:        p.IsFeatured,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// CreateCategoryRequest represents a request to create a new category
type CreateCategoryRequest struct {
	Name        string     `json:"name" binding:"required,min=1,max=100"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
	ImageURL    string     `json:"image_url" binding:"omitempty,url,max=500"`
	SortOrder   *int       `json:"sort_order"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name        *string    `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string    `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
	ImageURL    *string    `json:"image_url" binding:"omitempty,url,max=500"`
	SortOrder   *int       `json:"sort_order"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	ParentID     *uuid.UUID `json:"parent_id,omitempty"`
	ImageURL     string     `json:"image_url"`
	SortOrder    int        `json:"sort_order"`
	IsActive     bool       `json:"is_active"`
	ProductCount *int64     `json:"product_count,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ToCategoryResponse converts a category aggregate to its API shape
func ToCategoryResponse(c *catalog.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ParentID:    c.ParentID,
		ImageURL:    c.ImageURL,
		SortOrder:   c.SortOrder,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ToCategoryWithCountResponse converts a counted category row to its API shape
func ToCategoryWithCountResponse(c *catalog.CategoryWithCount) *CategoryResponse {
	resp := ToCategoryResponse(&c.Category)
	count := c.ProductCount
	resp.ProductCount = &count
	return resp
}
