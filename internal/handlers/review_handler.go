package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/kaushalNeupane10/CloudBite/internal/models"
	"github.com/kaushalNeupane10/CloudBite/internal/services"
)

// ReviewHandler handles HTTP requests for menu item reviews.
type ReviewHandler struct {
	service  *services.ReviewService
	validate *validator.Validate
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(service *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the public review routes with the Fiber app.
func (h *ReviewHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/reviews", h.HandleGetReviews)
	router.Get("/menu-items/:id/reviews", h.HandleGetReviewsForMenuItem)
}

// RegisterProtectedRoutes registers the review routes that require an
// authenticated caller.
func (h *ReviewHandler) RegisterProtectedRoutes(router fiber.Router) {
	router.Post("/reviews", h.HandleCreateReview)
}

// HandleGetReviews retrieves all reviews, newest first.
func (h *ReviewHandler) HandleGetReviews(c *fiber.Ctx) error {
	reviews, err := h.service.GetReviews()
	if err != nil {
		log.Printf("Error getting reviews: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve reviews",
			"error":   err.Error(),
		})
	}
	return c.JSON(reviews)
}

// HandleGetReviewsForMenuItem retrieves the reviews for one menu item.
func (h *ReviewHandler) HandleGetReviewsForMenuItem(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	reviews, err := h.service.GetReviewsForMenuItem(id)
	if err != nil {
		log.Printf("Error getting reviews for menu item %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve reviews",
			"error":   err.Error(),
		})
	}
	return c.JSON(reviews)
}

// CreateReviewRequest is the request body for posting a review.
type CreateReviewRequest struct {
	MenuItemID uint   `json:"menu_item_id" validate:"required"`
	Rating     int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment    string `json:"comment" validate:"omitempty,max=1000"`
}

// HandleCreateReview creates a review authored by the authenticated user.
func (h *ReviewHandler) HandleCreateReview(c *fiber.Ctx) error {
	var req CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing review body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	review := models.Review{
		UserID:     currentUserID(c),
		MenuItemID: req.MenuItemID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := h.service.CreateReview(&review); err != nil {
		log.Printf("Error creating review: %v", err)
		if errors.Is(err, services.ErrMenuItemNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Could not create review",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create review",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}
