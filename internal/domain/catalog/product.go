package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// DefaultLowStockThreshold is the stock level at or below which a product
// is considered low on stock unless the product overrides it
const DefaultLowStockThreshold = 5

// Product represents a sellable item in the catalog
// It is the aggregate root for catalog operations
type Product struct {
	shared.BaseAggregateRoot
	Name              string           `gorm:"type:varchar(255);not null;index"`
	Description       string           `gorm:"type:text;not null"`
	Brand             string           `gorm:"type:varchar(100);not null;index"`
	CategoryID        uuid.UUID        `gorm:"type:uuid;not null;index"`
	Price             decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	OriginalPrice     *decimal.Decimal `gorm:"type:decimal(10,2)"`
	Stock             int              `gorm:"not null;default:0;check:stock >= 0"`
	LowStockThreshold int              `gorm:"not null;default:5"`
	Images            StringList       `gorm:"type:jsonb;not null;default:'[]'"`
	Features          StringList       `gorm:"type:jsonb;not null;default:'[]'"`
	Specifications    JSONMap          `gorm:"type:jsonb;not null;default:'{}'"`
	Tags              pq.StringArray   `gorm:"type:text[]"`
	Rating            decimal.Decimal  `gorm:"type:decimal(3,2);not null;default:0"`
	ReviewCount       int              `gorm:"not null;default:0"`
	IsActive          bool             `gorm:"not null;default:true;index"`
	IsFeatured        bool             `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new active product
func NewProduct(name, description, brand string, price valueobject.Money, categoryID uuid.UUID, stock int) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}
	if err := validateBrand(brand); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category is required")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
		Brand:             brand,
		CategoryID:        categoryID,
		Price:             price.Amount(),
		Stock:             stock,
		LowStockThreshold: DefaultLowStockThreshold,
		Images:            StringList{},
		Features:          StringList{},
		Specifications:    JSONMap{},
		Rating:            decimal.Zero,
		IsActive:          true,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description, brand string) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if err := validateDescription(description); err != nil {
		return err
	}
	if err := validateBrand(brand); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.Brand = brand
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetPricing sets the selling price and optional original (pre-discount) price
func (p *Product) SetPricing(price valueobject.Money, originalPrice *valueobject.Money) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if originalPrice != nil && originalPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Original price cannot be negative")
	}

	oldPrice := p.Price
	p.Price = price.Amount()
	if originalPrice != nil {
		amount := originalPrice.Amount()
		p.OriginalPrice = &amount
	} else {
		p.OriginalPrice = nil
	}
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductPriceChangedEvent(p, oldPrice))

	return nil
}

// SetCategory moves the product to another category
func (p *Product) SetCategory(categoryID uuid.UUID) error {
	if categoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_CATEGORY", "Category is required")
	}

	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetStock replaces the current stock level
func (p *Product) SetStock(stock int) error {
	if stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	p.Stock = stock
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetLowStockThreshold sets the level at which stock alerts fire
func (p *Product) SetLowStockThreshold(threshold int) error {
	if threshold < 0 {
		return shared.NewDomainError("INVALID_THRESHOLD", "Low stock threshold cannot be negative")
	}

	p.LowStockThreshold = threshold
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetImages replaces the ordered image URI list
func (p *Product) SetImages(images []string) {
	p.Images = StringList(images)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetFeatures replaces the feature bullet list
func (p *Product) SetFeatures(features []string) {
	p.Features = StringList(features)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetSpecifications replaces the specification document
func (p *Product) SetSpecifications(specs map[string]string) {
	p.Specifications = JSONMap(specs)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetTags replaces the tag set
func (p *Product) SetTags(tags []string) {
	p.Tags = pq.StringArray(tags)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetFeatured marks or unmarks the product as featured on the storefront
func (p *Product) SetFeatured(featured bool) {
	p.IsFeatured = featured
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Activate makes the product visible and sellable again
func (p *Product) Activate() error {
	if p.IsActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}

	p.IsActive = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, false, true))

	return nil
}

// Deactivate soft-deletes the product
// The row is kept so historical order items remain resolvable
func (p *Product) Deactivate() error {
	if !p.IsActive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Product is already inactive")
	}

	p.IsActive = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, true, false))

	return nil
}

// HasStock returns true if at least quantity units are available
func (p *Product) HasStock(quantity int) bool {
	return quantity > 0 && p.Stock >= quantity
}

// IsLowStock returns true if stock is at or below the alert threshold
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.LowStockThreshold
}

// HasDiscount returns true if an original price above the current price is set
func (p *Product) HasDiscount() bool {
	return p.OriginalPrice != nil && p.OriginalPrice.GreaterThan(p.Price)
}

// PriceMoney returns the selling price as a Money value object
func (p *Product) PriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.Price)
}

// PrimaryImage returns the first image URI, or empty if none are set
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

func validateProductName(name string) error {
	if len(name) < 2 {
		return shared.NewDomainError("INVALID_NAME", "Product name must be at least 2 characters")
	}
	if len(name) > 255 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 255 characters")
	}
	return nil
}

func validateDescription(description string) error {
	if description == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Product description cannot be empty")
	}
	return nil
}

func validateBrand(brand string) error {
	if brand == "" {
		return shared.NewDomainError("INVALID_BRAND", "Brand cannot be empty")
	}
	if len(brand) > 100 {
		return shared.NewDomainError("INVALID_BRAND", "Brand cannot exceed 100 characters")
	}
	return nil
}
