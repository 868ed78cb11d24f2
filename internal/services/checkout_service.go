package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/kaushalNeupane10/CloudBite/internal/models"
	"github.com/kaushalNeupane10/CloudBite/internal/repositories"
	"github.com/kaushalNeupane10/CloudBite/pkg/rabbitmq"
	"github.com/kaushalNeupane10/CloudBite/pkg/stripe"
)

// Metadata keys carried on the checkout session. The serialized purchase
// descriptor and the user identity are the only link between session creation
// and webhook reconciliation.
const (
	metadataUserKey = "user_id"
	metadataCartKey = "cart"
)

// CheckoutConfig holds the checkout-flow settings read once at startup.
type CheckoutConfig struct {
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
}

// CheckoutService owns the two halves of the payment flow: creating hosted
// checkout sessions against the gateway, and reconciling the gateway's
// completion webhooks into durable orders.
type CheckoutService struct {
	menuRepo  repositories.MenuItemRepository
	cartRepo  repositories.CartItemRepository
	orderRepo repositories.OrderRepository
	gateway   *stripe.Client
	mqClient  *rabbitmq.Client
	cfg       CheckoutConfig
}

// NewCheckoutService creates a new CheckoutService. mqClient may be nil, in
// which case post-reconciliation events are skipped.
func NewCheckoutService(
	menuRepo repositories.MenuItemRepository,
	cartRepo repositories.CartItemRepository,
	orderRepo repositories.OrderRepository,
	gateway *stripe.Client,
	mqClient *rabbitmq.Client,
	cfg CheckoutConfig,
) *CheckoutService {
	return &CheckoutService{
		menuRepo:  menuRepo,
		cartRepo:  cartRepo,
		orderRepo: orderRepo,
		gateway:   gateway,
		mqClient:  mqClient,
		cfg:       cfg,
	}
}

// checkoutLine pairs a resolved menu item with the quantity being bought.
type checkoutLine struct {
	item     *models.MenuItem
	quantity int
}

// CreateSession starts a checkout session for a single menu item. The current
// catalog price is captured into the session and is authoritative for the
// eventual order even if the menu changes before the payment completes.
func (s *CheckoutService) CreateSession(userID, menuItemID uint, quantity int) (string, error) {
	if quantity <= 0 {
		return "", ErrQuantityInvalid
	}
	item, err := s.menuRepo.GetByID(menuItemID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMenuItemNotFound, err)
	}
	return s.createSession(userID, []checkoutLine{{item: item, quantity: quantity}})
}

// CreateCartSession starts a checkout session covering every line in the
// user's cart. It reads the cart without mutating it; the cart is only
// cleared when the completion webhook reconciles.
func (s *CheckoutService) CreateCartSession(userID uint) (string, error) {
	cartLines, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return "", err
	}
	if len(cartLines) == 0 {
		return "", ErrEmptyCart
	}

	lines := make([]checkoutLine, 0, len(cartLines))
	for _, cl := range cartLines {
		item, err := s.menuRepo.GetByID(cl.MenuItemID)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrMenuItemNotFound, err)
		}
		lines = append(lines, checkoutLine{item: item, quantity: cl.Quantity})
	}
	return s.createSession(userID, lines)
}

// createSession builds the gateway line items and the purchase descriptor
// from the same resolved prices, attaches both to a hosted session request,
// and returns the gateway's session handle unchanged. No local state is
// touched.
func (s *CheckoutService) createSession(userID uint, lines []checkoutLine) (string, error) {
	gatewayItems := make([]stripe.LineItem, 0, len(lines))
	descriptor := models.PurchaseDescriptor{Lines: make([]models.DescriptorLine, 0, len(lines))}
	for _, l := range lines {
		gatewayItems = append(gatewayItems, stripe.LineItem{
			Name:       l.item.Title,
			UnitAmount: l.item.PriceCents,
			Quantity:   l.quantity,
		})
		descriptor.Lines = append(descriptor.Lines, models.DescriptorLine{
			MenuItemID: l.item.ID,
			Quantity:   l.quantity,
			PriceCents: l.item.PriceCents,
		})
	}

	encoded, err := descriptor.Encode()
	if err != nil {
		return "", err
	}
	if len(encoded) > stripe.MetadataValueMaxLen {
		return "", fmt.Errorf("%w: %d bytes", ErrMetadataTooLarge, len(encoded))
	}

	session, err := s.gateway.CreateCheckoutSession(stripe.CheckoutSessionParams{
		LineItems:  gatewayItems,
		SuccessURL: s.cfg.SuccessURL,
		CancelURL:  s.cfg.CancelURL,
		Metadata: map[string]string{
			metadataUserKey: strconv.FormatUint(uint64(userID), 10),
			metadataCartKey: encoded,
		},
	})
	if err != nil {
		return "", &GatewayError{Err: err}
	}
	return session.ID, nil
}

// HandleWebhook processes one signed gateway notification. Returning
// stripe.ErrSignature means the payload was rejected unverified; any other
// error means a verified completion event could not be reconciled and the
// gateway should redeliver it. A nil return acknowledges the event.
func (s *CheckoutService) HandleWebhook(payload []byte, sigHeader string) error {
	event, err := stripe.ConstructEvent(payload, sigHeader, s.cfg.WebhookSecret)
	if err != nil {
		log.Printf("Webhook rejected: %v", err)
		return err
	}

	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		log.Printf("Ignoring webhook event %s of type %s", event.ID, event.Type)
		return nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Object, &session); err != nil {
		log.Printf("Webhook event %s: failed to decode session object: %v", event.ID, err)
		return fmt.Errorf("failed to decode session object: %w", err)
	}

	userID, descriptor, err := parseSessionMetadata(session.Metadata)
	if err != nil {
		log.Printf("Webhook event %s (session %s): %v", event.ID, session.ID, err)
		return err
	}

	// Skip redeliveries of sessions that already reconciled. The unique
	// index on the session ID covers the race where two deliveries pass
	// this check concurrently.
	exists, err := s.orderRepo.ExistsBySessionID(session.ID)
	if err != nil {
		return err
	}
	if exists {
		log.Printf("Session %s already reconciled, acknowledging redelivery", session.ID)
		return nil
	}

	order := &models.Order{
		UserID:            userID,
		TotalPriceCents:   descriptor.TotalCents(),
		IsPaid:            true,
		Status:            models.OrderStatusSuccess,
		CheckoutSessionID: session.ID,
		OrderedAt:         time.Now(),
	}
	for _, line := range descriptor.Lines {
		order.Items = append(order.Items, models.OrderItem{
			MenuItemID: line.MenuItemID,
			Quantity:   line.Quantity,
			PriceCents: line.PriceCents,
		})
	}

	if err := s.orderRepo.Reconcile(order); err != nil {
		if errors.Is(err, repositories.ErrDuplicateSession) {
			log.Printf("Session %s reconciled by a concurrent delivery, acknowledging", session.ID)
			return nil
		}
		log.Printf("Failed to reconcile session %s for user %d: %v", session.ID, userID, err)
		return err
	}

	log.Printf("Order #%d created for user %d from session %s", order.ID, userID, session.ID)
	s.publishReconciled(order)
	return nil
}

// parseSessionMetadata extracts the user identity and purchase descriptor
// from the session's side-channel metadata.
func parseSessionMetadata(metadata map[string]string) (uint, models.PurchaseDescriptor, error) {
	rawUser, ok := metadata[metadataUserKey]
	if !ok {
		return 0, models.PurchaseDescriptor{}, fmt.Errorf("session metadata missing %s", metadataUserKey)
	}
	userID, err := strconv.ParseUint(rawUser, 10, 32)
	if err != nil || userID == 0 {
		return 0, models.PurchaseDescriptor{}, fmt.Errorf("session metadata has invalid %s %q", metadataUserKey, rawUser)
	}

	rawCart, ok := metadata[metadataCartKey]
	if !ok {
		return 0, models.PurchaseDescriptor{}, fmt.Errorf("session metadata missing %s", metadataCartKey)
	}
	descriptor, err := models.DecodePurchaseDescriptor(rawCart)
	if err != nil {
		return 0, models.PurchaseDescriptor{}, err
	}
	return uint(userID), descriptor, nil
}

// publishReconciled emits an order.reconciled event after the transaction has
// committed. Publishing is best-effort; a broker outage must not fail the
// webhook response and trigger a redelivery of an already-persisted order.
func (s *CheckoutService) publishReconciled(order *models.Order) {
	if s.mqClient == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"order_id":            order.ID,
		"user_id":             order.UserID,
		"total_price_cents":   order.TotalPriceCents,
		"checkout_session_id": order.CheckoutSessionID,
		"status":              order.Status,
	})
	if err != nil {
		log.Printf("Failed to marshal order event for order %d: %v", order.ID, err)
		return
	}
	if err := s.mqClient.Publish("order.reconciled", body); err != nil {
		log.Printf("Warning: failed to publish order.reconciled for order %d: %v", order.ID, err)
	}
}
