package model

import "time"

// Category groups products in a tree. Main categories have no parent.
type Category struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Slug      string    `json:"slug" db:"slug"`
	ParentID  *int64    `json:"parentId,omitempty" db:"parent_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// CategoryDetail is a category with every active product in its subtree.
type CategoryDetail struct {
	Category
	Products []Product `json:"products"`
}

// CategoryInput is the payload for creating or replacing a category.
type CategoryInput struct {
	Title    string `json:"title" validate:"required,max=255"`
	ParentID *int64 `json:"parentId,omitempty" validate:"omitempty,gt=0"`
}

// CategoryFilter narrows category listings.
type CategoryFilter struct {
	ParentID *int64
	MainOnly bool
}
