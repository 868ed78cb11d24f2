package services

import (
	"fmt"

	"github.com/kaushalNeupane10/CloudBite/internal/models"
	"github.com/kaushalNeupane10/CloudBite/internal/repositories"
)

// ReviewService handles business logic related to menu item reviews.
type ReviewService struct {
	reviewRepo repositories.ReviewRepository
	menuRepo   repositories.MenuItemRepository
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviewRepo repositories.ReviewRepository, menuRepo repositories.MenuItemRepository) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		menuRepo:   menuRepo,
	}
}

// GetReviews retrieves all reviews, newest first.
func (s *ReviewService) GetReviews() ([]models.Review, error) {
	return s.reviewRepo.GetAll()
}

// GetReviewsForMenuItem retrieves the reviews for one menu item.
func (s *ReviewService) GetReviewsForMenuItem(menuItemID uint) ([]models.Review, error) {
	return s.reviewRepo.GetByMenuItem(menuItemID)
}

// CreateReview creates a review after checking the menu item exists.
func (s *ReviewService) CreateReview(review *models.Review) error {
	if _, err := s.menuRepo.GetByID(review.MenuItemID); err != nil {
		return fmt.Errorf("%w: %v", ErrMenuItemNotFound, err)
	}
	return s.reviewRepo.Create(review)
}
