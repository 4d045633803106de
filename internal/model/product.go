package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a purchasable catalog item. Stock is decremented only by the
// order workflow; no other writer touches it.
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"size:255;not null;index"`
	Description string          `json:"description" gorm:"size:1000"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(20,2);not null"`
	Stock       int             `json:"stock" gorm:"not null;default:0"`
	ImageURL    string          `json:"image_url" gorm:"size:500"`
	CategoryID  uint            `json:"category_id" gorm:"not null;index"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `json:"-" gorm:"index"`

	// Relations
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}
