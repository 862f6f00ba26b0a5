package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status tags rows that support soft deletion.
type Status string

const (
	StatusActive  Status = "active"
	StatusDeleted Status = "deleted"
)

// Product represents an item in the catalogue.
// Price is derived from BeforeDiscountPrice and DiscountPercentage and is never set directly.
type Product struct {
	ID                  int64           `json:"id" db:"id"`
	Title               string          `json:"title" db:"title"`
	Description         string          `json:"description" db:"description"`
	Features            []string        `json:"features" db:"features"`
	Image1              string          `json:"image1" db:"image1"`
	Image2              *string         `json:"image2,omitempty" db:"image2"`
	Image3              *string         `json:"image3,omitempty" db:"image3"`
	CategoryID          *int64          `json:"categoryId,omitempty" db:"category_id"`
	ShowInHomePage      bool            `json:"showInHomePage" db:"show_in_home_page"`
	Stock               int             `json:"stock" db:"stock"`
	BeforeDiscountPrice decimal.Decimal `json:"beforeDiscountPrice" db:"before_discount_price"`
	DiscountPercentage  decimal.Decimal `json:"discountPercentage" db:"discount_percentage"`
	Price               decimal.Decimal `json:"price" db:"price"`
	SoldCount           int             `json:"soldCount" db:"sold_count"`
	Status              Status          `json:"status" db:"status"`
	DeletedAt           *time.Time      `json:"deletedAt,omitempty" db:"deleted_at"`
	CreatedAt           time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time       `json:"updatedAt" db:"updated_at"`
}

// IsActive reports whether the product can be sold.
func (p *Product) IsActive() bool {
	return p.Status == StatusActive
}

// ImageKeys returns the object store keys referenced by the product.
func (p *Product) ImageKeys() []string {
	keys := []string{p.Image1}
	for _, img := range []*string{p.Image2, p.Image3} {
		if img != nil && *img != "" {
			keys = append(keys, *img)
		}
	}
	return keys
}

// Product list orderings
const (
	OrderByNewest         = "newest"
	OrderByMostSold       = "most_sold"
	OrderByMostExpensive  = "most_expensive"
	OrderByLeastExpensive = "least_expensive"
)

// ProductFilter narrows product listings.
type ProductFilter struct {
	Search      string
	CategoryID  *int64
	CategoryIDs []int64
	OrderBy     string
	Status      Status
	HomePage    bool
	Limit       int
	Offset      int
}

// ProductInput is the payload for creating or replacing a product.
type ProductInput struct {
	Title               string          `json:"title" validate:"required,max=255"`
	Description         string          `json:"description" validate:"required"`
	Features            []string        `json:"features" validate:"dive,required"`
	Image1              string          `json:"image1" validate:"required"`
	Image2              *string         `json:"image2,omitempty"`
	Image3              *string         `json:"image3,omitempty"`
	CategoryID          *int64          `json:"categoryId,omitempty" validate:"omitempty,gt=0"`
	ShowInHomePage      bool            `json:"showInHomePage"`
	Stock               int             `json:"stock" validate:"gte=0"`
	BeforeDiscountPrice decimal.Decimal `json:"beforeDiscountPrice"`
	DiscountPercentage  decimal.Decimal `json:"discountPercentage"`
}
