package models

import "gorm.io/gorm"

// CartItem is one line of a user's open cart: a single menu item and how many
// of it the user intends to buy. Cart lines are ephemeral; the whole set for a
// user is deleted when a checkout session reconciles into an order.
type CartItem struct {
	ID         uint     `json:"id" gorm:"primaryKey"`
	UserID     uint     `json:"user_id" gorm:"index" validate:"required"`
	MenuItemID uint     `json:"menu_item_id" validate:"required"`
	MenuItem   MenuItem `json:"menu_item" gorm:"foreignKey:MenuItemID;constraint:OnDelete:CASCADE"`
	Quantity   int      `json:"quantity" gorm:"default:1" validate:"required,gt=0"`
	gorm.Model          // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
