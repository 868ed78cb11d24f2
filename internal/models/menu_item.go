package models

import "gorm.io/gorm"

// MenuItem represents a dish on the menu. Prices are stored in integer
// minor-currency units (cents) so order totals never accumulate rounding
// drift.
type MenuItem struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Title       string `json:"title" gorm:"type:varchar(100)" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
	PriceCents  int64  `json:"price_cents" validate:"required,gt=0"`
	gorm.Model         // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
