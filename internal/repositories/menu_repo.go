package repositories

import (
	"github.com/kaushalNeupane10/CloudBite/internal/models"
)

// MenuItemRepository defines the interface for menu item data access.
type MenuItemRepository interface {
	GetAll() ([]models.MenuItem, error)
	Search(query string) ([]models.MenuItem, error)
	GetByID(id uint) (*models.MenuItem, error)
	Create(item *models.MenuItem) error
	Update(item *models.MenuItem) error
	Delete(id uint) error
}
