package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/kaushalNeupane10/CloudBite/internal/models"
)

// GORMCartItemRepository is a GORM implementation of CartItemRepository.
type GORMCartItemRepository struct {
	db *gorm.DB
}

// NewGORMCartItemRepository creates a new instance of GORMCartItemRepository.
func NewGORMCartItemRepository(db *gorm.DB) *GORMCartItemRepository {
	return &GORMCartItemRepository{
		db: db,
	}
}

// GetByUser retrieves all cart lines for one user, with their menu items
// preloaded.
func (r *GORMCartItemRepository) GetByUser(userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.Preload("MenuItem").Where("user_id = ?", userID).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get cart for user %d: %w", userID, err)
	}
	return items, nil
}

// GetByUserAndMenuItem retrieves the user's cart line for one menu item.
// A missing line is ErrCartLineNotFound; anything else is a query failure.
func (r *GORMCartItemRepository) GetByUserAndMenuItem(userID, menuItemID uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.First(&item, "user_id = ? AND menu_item_id = ?", userID, menuItemID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: menu item %d", ErrCartLineNotFound, menuItemID)
		}
		return nil, fmt.Errorf("failed to get cart line for user %d: %w", userID, err)
	}
	return &item, nil
}

// Create creates a new cart line.
func (r *GORMCartItemRepository) Create(item *models.CartItem) error {
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create cart line: %w", err)
	}
	return nil
}

// UpdateQuantity sets the quantity of an existing cart line.
func (r *GORMCartItemRepository) UpdateQuantity(id uint, quantity int) error {
	res := r.db.Model(&models.CartItem{}).Where("id = ?", id).Update("quantity", quantity)
	if res.Error != nil {
		return fmt.Errorf("failed to update cart line quantity: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart line with ID %d not found for update", id)
	}
	return nil
}

// Delete removes one cart line, scoped by user so a caller can never delete
// another user's line.
func (r *GORMCartItemRepository) Delete(userID, id uint) error {
	res := r.db.Delete(&models.CartItem{}, "id = ? AND user_id = ?", id, userID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart line: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart line with ID %d not found for deletion", id)
	}
	return nil
}
