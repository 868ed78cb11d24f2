package repositories

import (
	"errors"

	"github.com/kaushalNeupane10/CloudBite/internal/models"
)

// ErrDuplicateSession is returned by Reconcile when an order already exists
// for the checkout session, i.e. the webhook is a redelivery that lost the
// race against an earlier attempt.
var ErrDuplicateSession = errors.New("order already exists for checkout session")

// OrderRepository defines the interface for order data access. Orders are
// insert-only for the checkout flow; Reconcile is the single transactional
// entry point that turns a completed checkout session into durable state.
type OrderRepository interface {
	GetByUser(userID uint) ([]models.Order, error)
	GetByID(id uint) (*models.Order, error)
	ExistsBySessionID(sessionID string) (bool, error)
	// Reconcile atomically deletes the user's cart lines, re-resolves every
	// menu item referenced by the order's lines, and inserts the order with
	// its lines. Nothing is persisted if any step fails. A duplicate
	// checkout session ID surfaces as ErrDuplicateSession.
	Reconcile(order *models.Order) error
}
