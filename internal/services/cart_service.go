package services

import (
	"errors"
	"fmt"

	"github.com/kaushalNeupane10/CloudBite/internal/models"
	"github.com/kaushalNeupane10/CloudBite/internal/repositories"
)

// CartService handles business logic for a user's shopping cart. Every
// operation is scoped to the authenticated user's own lines.
type CartService struct {
	cartRepo repositories.CartItemRepository
	menuRepo repositories.MenuItemRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartItemRepository, menuRepo repositories.MenuItemRepository) *CartService {
	return &CartService{
		cartRepo: cartRepo,
		menuRepo: menuRepo,
	}
}

// GetCart retrieves all of a user's cart lines.
func (s *CartService) GetCart(userID uint) ([]models.CartItem, error) {
	return s.cartRepo.GetByUser(userID)
}

// AddItem puts a menu item in the user's cart. If the item is already there
// the quantities merge into the existing line instead of creating a second
// row for the same item.
func (s *CartService) AddItem(userID, menuItemID uint, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrQuantityInvalid
	}
	if _, err := s.menuRepo.GetByID(menuItemID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMenuItemNotFound, err)
	}

	existing, err := s.cartRepo.GetByUserAndMenuItem(userID, menuItemID)
	switch {
	case err == nil:
		merged := existing.Quantity + quantity
		if err := s.cartRepo.UpdateQuantity(existing.ID, merged); err != nil {
			return nil, fmt.Errorf("failed to merge cart line: %w", err)
		}
		existing.Quantity = merged
		return existing, nil
	case !errors.Is(err, repositories.ErrCartLineNotFound):
		return nil, fmt.Errorf("failed to look up cart line: %w", err)
	}

	line := &models.CartItem{
		UserID:     userID,
		MenuItemID: menuItemID,
		Quantity:   quantity,
	}
	if err := s.cartRepo.Create(line); err != nil {
		return nil, err
	}
	return line, nil
}

// UpdateQuantity sets the quantity of one of the user's cart lines.
func (s *CartService) UpdateQuantity(userID, cartItemID uint, quantity int) error {
	if quantity <= 0 {
		return ErrQuantityInvalid
	}

	lines, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if line.ID == cartItemID {
			return s.cartRepo.UpdateQuantity(cartItemID, quantity)
		}
	}
	return ErrCartLineNotFound
}

// RemoveItem deletes one of the user's cart lines.
func (s *CartService) RemoveItem(userID, cartItemID uint) error {
	if err := s.cartRepo.Delete(userID, cartItemID); err != nil {
		return fmt.Errorf("%w: %v", ErrCartLineNotFound, err)
	}
	return nil
}
