package handlers

import (
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/kaushalNeupane10/CloudBite/internal/models"
	"github.com/kaushalNeupane10/CloudBite/internal/services"
)

// MenuHandler handles HTTP requests for the menu.
type MenuHandler struct {
	service  *services.MenuService
	validate *validator.Validate
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(service *services.MenuService) *MenuHandler {
	return &MenuHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the public menu routes with the Fiber app.
func (h *MenuHandler) RegisterRoutes(router fiber.Router) {
	menuRoutes := router.Group("/menu-items")
	menuRoutes.Get("/", h.HandleGetMenuItems)
	menuRoutes.Get("/:id", h.HandleGetMenuItemByID)
}

// RegisterProtectedRoutes registers the menu management routes, which require
// an authenticated caller.
func (h *MenuHandler) RegisterProtectedRoutes(router fiber.Router) {
	menuRoutes := router.Group("/menu-items")
	menuRoutes.Post("/", h.HandleCreateMenuItem)
	menuRoutes.Put("/:id", h.HandleUpdateMenuItem)
	menuRoutes.Delete("/:id", h.HandleDeleteMenuItem)
}

// HandleGetMenuItems retrieves all menu items, optionally filtered by the
// `search` query parameter.
func (h *MenuHandler) HandleGetMenuItems(c *fiber.Ctx) error {
	items, err := h.service.GetMenuItems(c.Query("search"))
	if err != nil {
		log.Printf("Error getting menu items: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve menu items",
			"error":   err.Error(),
		})
	}
	return c.JSON(items)
}

// HandleGetMenuItemByID retrieves a single menu item by its ID.
func (h *MenuHandler) HandleGetMenuItemByID(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	item, err := h.service.GetMenuItemByID(id)
	if err != nil {
		log.Printf("Error getting menu item %d: %v", id, err)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Menu item with ID %d not found", id),
		})
	}
	return c.JSON(item)
}

// HandleCreateMenuItem creates a new menu item.
func (h *MenuHandler) HandleCreateMenuItem(c *fiber.Ctx) error {
	var item models.MenuItem
	if err := c.BodyParser(&item); err != nil {
		log.Printf("Error parsing menu item body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(item); err != nil {
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

	if err := h.service.CreateMenuItem(&item); err != nil {
		log.Printf("Error creating menu item: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create menu item",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleUpdateMenuItem updates an existing menu item.
func (h *MenuHandler) HandleUpdateMenuItem(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var item models.MenuItem
	if err := c.BodyParser(&item); err != nil {
		log.Printf("Error parsing menu item body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	item.ID = id

	if err := h.validate.Struct(item); err != nil {
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

	if err := h.service.UpdateMenuItem(&item); err != nil {
		log.Printf("Error updating menu item %d: %v", id, err)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Menu item update failed: %v", err),
		})
	}
	return c.JSON(item)
}

// HandleDeleteMenuItem deletes a menu item by its ID.
func (h *MenuHandler) HandleDeleteMenuItem(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteMenuItem(id); err != nil {
		log.Printf("Error deleting menu item %d: %v", id, err)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Menu item deletion failed: %v", err),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
