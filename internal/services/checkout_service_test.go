package services_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kaushalNeupane10/CloudBite/internal/models"
	"github.com/kaushalNeupane10/CloudBite/internal/repositories"
	"github.com/kaushalNeupane10/CloudBite/internal/services"
	"github.com/kaushalNeupane10/CloudBite/pkg/stripe"
)

const webhookSecret = "whsec_test"

// checkoutFixture wires a CheckoutService over an in-memory database and a
// fake gateway that records what the initiator sent it.
type checkoutFixture struct {
	db          *gorm.DB
	service     *services.CheckoutService
	gatewayForm map[string][]string
	gatewayHits int
}

func setupCheckout(t *testing.T) *checkoutFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	if err := db.AutoMigrate(&models.MenuItem{}, &models.CartItem{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	f := &checkoutFixture{db: db}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		f.gatewayForm = r.PostForm
		f.gatewayHits++
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"id": "cs_test_%d", "payment_status": "unpaid"}`, f.gatewayHits)
	}))
	t.Cleanup(server.Close)

	gateway := stripe.NewClient(stripe.Config{SecretKey: "sk_test", BaseURL: server.URL})
	f.service = services.NewCheckoutService(
		repositories.NewGORMMenuItemRepository(db),
		repositories.NewGORMCartItemRepository(db),
		repositories.NewGORMOrderRepository(db),
		gateway,
		nil, // no broker in tests; publishing is best-effort
		services.CheckoutConfig{
			WebhookSecret: webhookSecret,
			SuccessURL:    "http://localhost:3000/success",
			CancelURL:     "http://localhost:3000/cancel",
		},
	)
	return f
}

func (f *checkoutFixture) seedMenu(t *testing.T) (burger, fries models.MenuItem) {
	t.Helper()
	burger = models.MenuItem{Title: "Burger", Description: "Classic beef burger", PriceCents: 500}
	fries = models.MenuItem{Title: "Fries", Description: "Crispy golden fries", PriceCents: 250}
	assert.NoError(t, f.db.Create(&burger).Error)
	assert.NoError(t, f.db.Create(&fries).Error)
	return burger, fries
}

func (f *checkoutFixture) fillCart(t *testing.T, userID uint, lines ...models.CartItem) {
	t.Helper()
	for i := range lines {
		lines[i].UserID = userID
		assert.NoError(t, f.db.Create(&lines[i]).Error)
	}
}

// completedEvent builds a signed checkout.session.completed webhook using the
// metadata the fake gateway captured from the initiator, mimicking the
// gateway's round-trip of the side channel.
func (f *checkoutFixture) completedEvent(t *testing.T, sessionID string) ([]byte, string) {
	t.Helper()
	metadata := map[string]string{
		"user_id": f.gatewayForm["metadata[user_id]"][0],
		"cart":    f.gatewayForm["metadata[cart]"][0],
	}
	return signedEvent(t, "checkout.session.completed", sessionID, metadata)
}

func signedEvent(t *testing.T, eventType, sessionID string, metadata map[string]string) ([]byte, string) {
	t.Helper()
	payload, err := json.Marshal(map[string]interface{}{
		"id":   "evt_" + sessionID,
		"type": eventType,
		"data": map[string]interface{}{
			"object": map[string]interface{}{
				"id":       sessionID,
				"metadata": metadata,
			},
		},
	})
	assert.NoError(t, err)
	return payload, stripe.SignHeader(time.Now(), payload, webhookSecret)
}

func (f *checkoutFixture) cartCount(t *testing.T, userID uint) int64 {
	t.Helper()
	var n int64
	assert.NoError(t, f.db.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&n).Error)
	return n
}

func (f *checkoutFixture) orderCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	assert.NoError(t, f.db.Model(&models.Order{}).Count(&n).Error)
	return n
}

func TestCheckout_CartSessionThenReconcile(t *testing.T) {
	f := setupCheckout(t)
	burger, fries := f.seedMenu(t)
	userID := uint(7)
	f.fillCart(t, userID,
		models.CartItem{MenuItemID: burger.ID, Quantity: 2},
		models.CartItem{MenuItemID: fries.ID, Quantity: 1},
	)

	sessionID, err := f.service.CreateCartSession(userID)
	assert.NoError(t, err)
	assert.Equal(t, "cs_test_1", sessionID)

	// Gateway line items carry minor-unit prices: 5.00*100*2 + 2.50*100*1 = 1250.
	assert.Equal(t, "500", f.gatewayForm["line_items[0][price_data][unit_amount]"][0])
	assert.Equal(t, "2", f.gatewayForm["line_items[0][quantity]"][0])
	assert.Equal(t, "250", f.gatewayForm["line_items[1][price_data][unit_amount]"][0])
	assert.Equal(t, "1", f.gatewayForm["line_items[1][quantity]"][0])

	// Session creation has no local side effects.
	assert.Equal(t, int64(2), f.cartCount(t, userID))
	assert.Zero(t, f.orderCount(t))

	payload, sig := f.completedEvent(t, sessionID)
	assert.NoError(t, f.service.HandleWebhook(payload, sig))

	var order models.Order
	assert.NoError(t, f.db.Preload("Items").First(&order, "checkout_session_id = ?", sessionID).Error)
	assert.Equal(t, userID, order.UserID)
	assert.Equal(t, int64(1250), order.TotalPriceCents)
	assert.True(t, order.IsPaid)
	assert.Equal(t, models.OrderStatusSuccess, order.Status)
	assert.Len(t, order.Items, 2)

	// Total equals the sum of line subtotals exactly.
	var sum int64
	for _, item := range order.Items {
		sum += int64(item.Quantity) * item.PriceCents
	}
	assert.Equal(t, order.TotalPriceCents, sum)

	// Cart is gone after reconciliation.
	assert.Zero(t, f.cartCount(t, userID))
}

func TestCheckout_SingleItemSession(t *testing.T) {
	f := setupCheckout(t)
	burger, _ := f.seedMenu(t)

	sessionID, err := f.service.CreateSession(7, burger.ID, 3)
	assert.NoError(t, err)
	assert.NotEmpty(t, sessionID)
	assert.Equal(t, "500", f.gatewayForm["line_items[0][price_data][unit_amount]"][0])
	assert.Equal(t, "3", f.gatewayForm["line_items[0][quantity]"][0])
	assert.Equal(t, "[[1,3,500]]", f.gatewayForm["metadata[cart]"][0])
}

func TestCheckout_InvalidQuantity(t *testing.T) {
	f := setupCheckout(t)
	burger, _ := f.seedMenu(t)

	_, err := f.service.CreateSession(7, burger.ID, 0)
	assert.ErrorIs(t, err, services.ErrQuantityInvalid)
	assert.Zero(t, f.gatewayHits)
}

func TestCheckout_UnknownMenuItem(t *testing.T) {
	f := setupCheckout(t)
	f.seedMenu(t)

	_, err := f.service.CreateSession(7, 9999, 1)
	assert.ErrorIs(t, err, services.ErrMenuItemNotFound)
	assert.Zero(t, f.gatewayHits)
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := setupCheckout(t)
	f.seedMenu(t)

	_, err := f.service.CreateCartSession(7)
	assert.ErrorIs(t, err, services.ErrEmptyCart)
	assert.Zero(t, f.gatewayHits)
}

func TestCheckout_DescriptorExceedingMetadataLimit(t *testing.T) {
	f := setupCheckout(t)
	userID := uint(7)

	// Fifty cart lines encode to well over the gateway's 500-character
	// metadata value limit.
	for i := 0; i < 50; i++ {
		item := models.MenuItem{Title: fmt.Sprintf("Dish %d", i), PriceCents: 123456789}
		assert.NoError(t, f.db.Create(&item).Error)
		f.fillCart(t, userID, models.CartItem{MenuItemID: item.ID, Quantity: 1})
	}

	_, err := f.service.CreateCartSession(userID)
	assert.ErrorIs(t, err, services.ErrMetadataTooLarge)
	assert.Zero(t, f.gatewayHits)
}

func TestCheckout_GatewayFailure(t *testing.T) {
	f := setupCheckout(t)
	burger, _ := f.seedMenu(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"message": "Invalid currency"}}`))
	}))
	t.Cleanup(server.Close)

	failing := services.NewCheckoutService(
		repositories.NewGORMMenuItemRepository(f.db),
		repositories.NewGORMCartItemRepository(f.db),
		repositories.NewGORMOrderRepository(f.db),
		stripe.NewClient(stripe.Config{SecretKey: "sk_test", BaseURL: server.URL}),
		nil,
		services.CheckoutConfig{WebhookSecret: webhookSecret},
	)

	_, err := failing.CreateSession(7, burger.ID, 1)
	var gatewayErr *services.GatewayError
	assert.ErrorAs(t, err, &gatewayErr)
	assert.Contains(t, gatewayErr.Error(), "Invalid currency")
}

func TestWebhook_TamperedSignatureChangesNothing(t *testing.T) {
	f := setupCheckout(t)
	burger, _ := f.seedMenu(t)
	userID := uint(7)
	f.fillCart(t, userID, models.CartItem{MenuItemID: burger.ID, Quantity: 1})

	payload, _ := signedEvent(t, "checkout.session.completed", "cs_evil", map[string]string{
		"user_id": "7",
		"cart":    "[[1,1,500]]",
	})

	err := f.service.HandleWebhook(payload, stripe.SignHeader(time.Now(), []byte("other"), webhookSecret))
	assert.ErrorIs(t, err, stripe.ErrSignature)
	assert.Zero(t, f.orderCount(t))
	assert.Equal(t, int64(1), f.cartCount(t, userID))
}

func TestWebhook_OtherEventTypesAreAcknowledged(t *testing.T) {
	f := setupCheckout(t)
	f.seedMenu(t)

	payload, sig := signedEvent(t, "payment_intent.created", "pi_1", nil)
	assert.NoError(t, f.service.HandleWebhook(payload, sig))
	assert.Zero(t, f.orderCount(t))
}

func TestWebhook_DuplicateDeliveryCreatesOneOrder(t *testing.T) {
	f := setupCheckout(t)
	burger, _ := f.seedMenu(t)
	userID := uint(7)
	f.fillCart(t, userID, models.CartItem{MenuItemID: burger.ID, Quantity: 2})

	sessionID, err := f.service.CreateCartSession(userID)
	assert.NoError(t, err)

	payload, sig := f.completedEvent(t, sessionID)
	assert.NoError(t, f.service.HandleWebhook(payload, sig))
	// Redelivery of the same event acknowledges without a second order.
	assert.NoError(t, f.service.HandleWebhook(payload, sig))

	assert.Equal(t, int64(1), f.orderCount(t))
	assert.Zero(t, f.cartCount(t, userID))
}

func TestWebhook_VanishedMenuItemIsAllOrNothing(t *testing.T) {
	f := setupCheckout(t)
	burger, fries := f.seedMenu(t)
	userID := uint(7)
	f.fillCart(t, userID,
		models.CartItem{MenuItemID: burger.ID, Quantity: 1},
		models.CartItem{MenuItemID: fries.ID, Quantity: 1},
	)

	sessionID, err := f.service.CreateCartSession(userID)
	assert.NoError(t, err)

	// The burger is removed from the menu between session creation and the
	// completion webhook.
	assert.NoError(t, f.db.Unscoped().Delete(&models.MenuItem{}, burger.ID).Error)

	payload, sig := f.completedEvent(t, sessionID)
	err = f.service.HandleWebhook(payload, sig)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, stripe.ErrSignature)

	// No order, and the cart survives for the gateway's redelivery.
	assert.Zero(t, f.orderCount(t))
	assert.Equal(t, int64(2), f.cartCount(t, userID))
}

func TestWebhook_MalformedMetadata(t *testing.T) {
	f := setupCheckout(t)
	f.seedMenu(t)

	cases := []map[string]string{
		nil,
		{"user_id": "7"},
		{"cart": "[[1,1,500]]"},
		{"user_id": "abc", "cart": "[[1,1,500]]"},
		{"user_id": "7", "cart": "not-json"},
		{"user_id": "7", "cart": "[]"},
		{"user_id": "7", "cart": "[[1,0,500]]"},
	}
	for i, metadata := range cases {
		payload, sig := signedEvent(t, "checkout.session.completed", fmt.Sprintf("cs_bad_%d", i), metadata)
		err := f.service.HandleWebhook(payload, sig)
		assert.Error(t, err, "case %d", i)
		assert.NotErrorIs(t, err, stripe.ErrSignature, "case %d", i)
	}
	assert.Zero(t, f.orderCount(t))
}
