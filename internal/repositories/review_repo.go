package repositories

import (
	"github.com/kaushalNeupane10/CloudBite/internal/models"
)

// ReviewRepository defines the interface for review data access.
type ReviewRepository interface {
	GetAll() ([]models.Review, error)
	GetByMenuItem(menuItemID uint) ([]models.Review, error)
	Create(review *models.Review) error
}
