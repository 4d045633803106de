package model

import (
	"time"

	"gorm.io/gorm"
)

// Category groups products in the catalog.
type Category struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"uniqueIndex;size:255;not null"`
	Description string         `json:"description" gorm:"size:500"`
	ImageURL    string         `json:"image_url" gorm:"size:500"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Products []Product `json:"-" gorm:"foreignKey:CategoryID"`
}
