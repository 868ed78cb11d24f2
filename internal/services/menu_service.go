package services

import (
	"fmt"

	"github.com/kaushalNeupane10/CloudBite/internal/models"
	"github.com/kaushalNeupane10/CloudBite/internal/repositories"
)

// MenuService handles business logic related to the menu.
type MenuService struct {
	repo repositories.MenuItemRepository
}

// NewMenuService creates a new MenuService.
func NewMenuService(repo repositories.MenuItemRepository) *MenuService {
	return &MenuService{
		repo: repo,
	}
}

// GetMenuItems retrieves all menu items, optionally filtered by a search
// query over title and description.
func (s *MenuService) GetMenuItems(search string) ([]models.MenuItem, error) {
	if search != "" {
		return s.repo.Search(search)
	}
	return s.repo.GetAll()
}

// GetMenuItemByID retrieves a single menu item by its ID.
func (s *MenuService) GetMenuItemByID(id uint) (*models.MenuItem, error) {
	item, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMenuItemNotFound, err)
	}
	return item, nil
}

// CreateMenuItem creates a new menu item.
func (s *MenuService) CreateMenuItem(item *models.MenuItem) error {
	return s.repo.Create(item)
}

// UpdateMenuItem updates an existing menu item.
func (s *MenuService) UpdateMenuItem(item *models.MenuItem) error {
	return s.repo.Update(item)
}

// DeleteMenuItem deletes a menu item by its ID.
func (s *MenuService) DeleteMenuItem(id uint) error {
	return s.repo.Delete(id)
}
