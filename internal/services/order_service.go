package services

import (
	"fmt"

	"github.com/kaushalNeupane10/CloudBite/internal/models"
	"github.com/kaushalNeupane10/CloudBite/internal/repositories"
)

// OrderService handles reads over a user's order history. Orders are only
// ever created by webhook reconciliation, so there is no create path here.
type OrderService struct {
	repo repositories.OrderRepository
}

// NewOrderService creates a new OrderService.
func NewOrderService(repo repositories.OrderRepository) *OrderService {
	return &OrderService{
		repo: repo,
	}
}

// GetOrders retrieves a user's orders, newest first.
func (s *OrderService) GetOrders(userID uint) ([]models.Order, error) {
	return s.repo.GetByUser(userID)
}

// GetOrderByID retrieves one order, refusing to return it to anyone but its
// owner. The caller cannot distinguish "not yours" from "does not exist".
func (s *OrderService) GetOrderByID(userID, orderID uint) (*models.Order, error) {
	order, err := s.repo.GetByID(orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderNotFound, err)
	}
	if order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}
