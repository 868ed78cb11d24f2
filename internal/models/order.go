package models

import "time"

// Order statuses. There is no pending state: an order only comes into
// existence once the payment gateway reports a completed checkout session.
const (
	OrderStatusSuccess  = "success"
	OrderStatusCanceled = "canceled"
)

// Order is the durable record of a completed purchase. CheckoutSessionID is
// the gateway's own session identifier; its unique index is what makes
// reconciliation idempotent under webhook redelivery.
type Order struct {
	ID                uint        `json:"id" gorm:"primaryKey"`
	UserID            uint        `json:"user_id" gorm:"index"`
	TotalPriceCents   int64       `json:"total_price_cents"`
	IsPaid            bool        `json:"is_paid"`
	Status            string      `json:"status" gorm:"type:varchar(20);default:success"`
	CheckoutSessionID string      `json:"checkout_session_id" gorm:"uniqueIndex;type:varchar(255)"`
	OrderedAt         time.Time   `json:"ordered_at"`
	Items             []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem is a single line within an order. PriceCents is the unit price
// snapshot captured when the checkout session was created, not the catalog
// price at reconciliation time.
type OrderItem struct {
	ID         uint  `json:"id" gorm:"primaryKey"`
	OrderID    uint  `json:"order_id" gorm:"index"`
	MenuItemID uint  `json:"menu_item_id"`
	Quantity   int   `json:"quantity"`
	PriceCents int64 `json:"price_cents"`
}
