package handlers

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/kaushalNeupane10/CloudBite/internal/services"
	"github.com/kaushalNeupane10/CloudBite/pkg/stripe"
)

// CheckoutHandler handles the payment flow's two HTTP surfaces: the
// authenticated session-creation endpoints and the unauthenticated (but
// signature-verified) gateway webhook.
type CheckoutHandler struct {
	service  *services.CheckoutService
	validate *validator.Validate
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(service *services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the session-creation routes. These require an
// authenticated caller.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	checkoutRoutes := router.Group("/checkout")
	checkoutRoutes.Post("/session", h.HandleCreateSession)
	checkoutRoutes.Post("/cart-session", h.HandleCreateCartSession)
}

// RegisterWebhookRoutes registers the gateway webhook route. It carries no
// application authentication; trust comes entirely from the payload
// signature.
func (h *CheckoutHandler) RegisterWebhookRoutes(router fiber.Router) {
	router.Post("/webhooks/stripe", h.HandleWebhook)
}

// CreateSessionRequest is the request body for single-item checkout.
// Quantity is optional and defaults to a single unit.
type CreateSessionRequest struct {
	MenuItemID uint `json:"menu_item_id" validate:"required"`
	Quantity   int  `json:"quantity" validate:"omitempty,gte=1"`
}

// HandleCreateSession starts a checkout session for one menu item.
func (h *CheckoutHandler) HandleCreateSession(c *fiber.Ctx) error {
	var req CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing checkout request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "menu_item_id and a positive quantity are required",
		})
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	sessionID, err := h.service.CreateSession(currentUserID(c), req.MenuItemID, req.Quantity)
	if err != nil {
		return h.sessionError(c, err)
	}
	return c.JSON(fiber.Map{"session_id": sessionID})
}

// HandleCreateCartSession starts a checkout session covering the user's
// whole cart.
func (h *CheckoutHandler) HandleCreateCartSession(c *fiber.Ctx) error {
	sessionID, err := h.service.CreateCartSession(currentUserID(c))
	if err != nil {
		return h.sessionError(c, err)
	}
	return c.JSON(fiber.Map{"session_id": sessionID})
}

// sessionError maps initiator failures onto HTTP statuses. Gateway failures
// are client-correctable per the flow's contract, so they surface as 400s
// carrying the gateway's message.
func (h *CheckoutHandler) sessionError(c *fiber.Ctx, err error) error {
	log.Printf("Error creating checkout session: %v", err)

	var gatewayErr *services.GatewayError
	switch {
	case errors.Is(err, services.ErrEmptyCart):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Your cart is empty",
		})
	case errors.Is(err, services.ErrMenuItemNotFound),
		errors.Is(err, services.ErrQuantityInvalid),
		errors.Is(err, services.ErrMetadataTooLarge):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.As(err, &gatewayErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": gatewayErr.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Could not create checkout session",
	})
}

// HandleWebhook receives a signed gateway notification. 400 tells the gateway
// the payload failed verification and must not be retried; 500 tells it the
// event was verified but could not be persisted, so it should redeliver.
func (h *CheckoutHandler) HandleWebhook(c *fiber.Ctx) error {
	err := h.service.HandleWebhook(c.Body(), c.Get(stripe.SignatureHeader))
	if err != nil {
		if errors.Is(err, stripe.ErrSignature) {
			return c.SendStatus(fiber.StatusBadRequest)
		}
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.SendStatus(fiber.StatusOK)
}
