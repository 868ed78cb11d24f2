package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/kaushalNeupane10/CloudBite/internal/models"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// GetByUser retrieves one user's orders, newest first, with lines preloaded.
func (r *GORMOrderRepository) GetByUser(userID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items").Where("user_id = ?", userID).Order("ordered_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders for user %d: %w", userID, err)
	}
	return orders, nil
}

// GetByID retrieves a single order with its lines.
func (r *GORMOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order with ID %d not found", id)
		}
		return nil, fmt.Errorf("failed to get order by ID %d: %w", id, err)
	}
	return &order, nil
}

// ExistsBySessionID reports whether an order has already been created for one
// checkout session.
func (r *GORMOrderRepository) ExistsBySessionID(sessionID string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Order{}).Where("checkout_session_id = ?", sessionID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check order for session %s: %w", sessionID, err)
	}
	return count > 0, nil
}

// Reconcile runs the persistence step of webhook reconciliation as one
// transaction: every referenced menu item must still exist, the user's cart is
// cleared, and the order plus its lines are inserted together. Any failure
// rolls the whole thing back, leaving cart and orders untouched so the
// gateway's redelivery can try again.
func (r *GORMOrderRepository) Reconcile(order *models.Order) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, line := range order.Items {
			var item models.MenuItem
			if err := tx.First(&item, "id = ?", line.MenuItemID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("menu item with ID %d not found", line.MenuItemID)
				}
				return fmt.Errorf("failed to resolve menu item %d: %w", line.MenuItemID, err)
			}
		}

		if err := tx.Delete(&models.CartItem{}, "user_id = ?", order.UserID).Error; err != nil {
			return fmt.Errorf("failed to clear cart for user %d: %w", order.UserID, err)
		}

		// Creating the order cascades to its lines through the association.
		// The unique index on checkout_session_id makes a racing redelivery
		// fail here instead of double-inserting.
		if err := tx.Create(order).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateSession
			}
			return fmt.Errorf("failed to create order for session %s: %w", order.CheckoutSessionID, err)
		}
		return nil
	})
}
