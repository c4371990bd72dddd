package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine represents one distinct (product, size, color) selection for a
// user, stored in the local SQLite `cart` table. Display fields are
// snapshotted from the catalog at add time and never re-synced.
type CartLine struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	UserID       string          `gorm:"column:user_id;not null;uniqueIndex:idx_cart_line_key" json:"user_id"`
	ProductID    string          `gorm:"column:product_id;not null;uniqueIndex:idx_cart_line_key" json:"product_id"`
	Quantity     int             `gorm:"not null;default:1" json:"quantity"`
	Brand        string          `gorm:"column:brand" json:"brand"`
	Category     string          `gorm:"column:category" json:"category"`
	Size         string          `gorm:"column:size;uniqueIndex:idx_cart_line_key" json:"size"`
	Color        string          `gorm:"column:color;uniqueIndex:idx_cart_line_key" json:"color"`
	Gender       string          `gorm:"column:gender" json:"gender"`
	ProductImage string          `gorm:"column:productImage" json:"product_image"`
	ProductName  string          `gorm:"column:productName" json:"product_name"`
	ProductPrice decimal.Decimal `gorm:"column:productPrice;type:numeric" json:"product_price"`
	CreatedAt    time.Time       `gorm:"column:createdAt" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"column:updatedAt" json:"updated_at"`
}

func (CartLine) TableName() string {
	return "cart"
}

// CartPatch is a partial update for a cart line. Only non-nil fields are
// applied; callers omit fields they do not want touched. Changing Size or
// Color may collide with another line holding the prospective key, in which
// case the store merges quantities into the pre-existing line.
type CartPatch struct {
	Quantity     *int             `json:"quantity" binding:"omitempty,gte=1"`
	Brand        *string          `json:"brand"`
	Category     *string          `json:"category"`
	Size         *string          `json:"size"`
	Color        *string          `json:"color"`
	Gender       *string          `json:"gender"`
	ProductImage *string          `json:"product_image"`
	ProductName  *string          `json:"product_name"`
	ProductPrice *decimal.Decimal `json:"product_price"`
}

// TouchesKey reports whether the patch changes any part of the
// (size, color) uniqueness key.
func (p *CartPatch) TouchesKey() bool {
	return p.Size != nil || p.Color != nil
}

// IsEmpty reports whether the patch carries no fields at all.
func (p *CartPatch) IsEmpty() bool {
	return p.Quantity == nil && p.Brand == nil && p.Category == nil &&
		p.Size == nil && p.Color == nil && p.Gender == nil &&
		p.ProductImage == nil && p.ProductName == nil && p.ProductPrice == nil
}

// AddItemRequest is the payload for adding a product selection to the cart.
// Quantity defaults to 1 when absent or non-positive.
type AddItemRequest struct {
	ProductID    string          `json:"product_id" binding:"required"`
	Quantity     int             `json:"quantity"`
	Brand        string          `json:"brand"`
	Category     string          `json:"category"`
	Size         string          `json:"size"`
	Color        string          `json:"color"`
	Gender       string          `json:"gender"`
	ProductImage string          `json:"product_image"`
	ProductName  string          `json:"product_name"`
	ProductPrice decimal.Decimal `json:"product_price"`
}

// SetQuantityRequest is the payload for overwriting a line's quantity.
// The value is stored verbatim; callers wanting a line gone must remove it
// rather than set quantity to zero.
type SetQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,gte=1"`
}

// RemoveManyRequest is the payload for bulk product removal.
type RemoveManyRequest struct {
	ProductIDs []string `json:"product_ids"`
}
