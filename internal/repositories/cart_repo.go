package repositories

import (
	"errors"

	"github.com/kaushalNeupane10/CloudBite/internal/models"
)

// ErrCartLineNotFound is returned by lookups when the user has no matching
// cart line. Callers use it to tell "not there" apart from a failed query.
var ErrCartLineNotFound = errors.New("cart line not found")

// CartItemRepository defines the interface for cart line data access. All
// reads and writes are scoped to a single user; cart lines are never shared.
type CartItemRepository interface {
	GetByUser(userID uint) ([]models.CartItem, error)
	GetByUserAndMenuItem(userID, menuItemID uint) (*models.CartItem, error)
	Create(item *models.CartItem) error
	UpdateQuantity(id uint, quantity int) error
	Delete(userID, id uint) error
}
