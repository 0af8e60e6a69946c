package services

import (
	"context"
	"math"

	"github.com/shashiranjanraj/furnistor/app/models"
	"github.com/shashiranjanraj/furnistor/app/repositories"
	"github.com/shashiranjanraj/furnistor/pkg/collection"
	"github.com/shashiranjanraj/furnistor/pkg/crypt"
	"github.com/shashiranjanraj/furnistor/pkg/event"
	"github.com/shashiranjanraj/furnistor/pkg/logger"
	"github.com/shashiranjanraj/furnistor/pkg/metrics"
	"github.com/shashiranjanraj/furnistor/pkg/payment"
)

// Gateway is the slice of the payment client the checkout flow needs.
type Gateway interface {
	Configured() bool
	CreateSession(ctx context.Context, clientReferenceID, currency string, items []payment.LineItem, metadata map[string]string) (*payment.Session, error)
	RetrieveSession(ctx context.Context, sessionID string) (*payment.Session, error)
}

// cartSnapshot is what survives the round trip through the processor: it is
// AES-GCM encrypted into the session metadata and decrypted on confirmation,
// so the order is built from data the client could never tamper with.
type cartSnapshot struct {
	UserID  string             `json:"userId"`
	Items   []models.OrderItem `json:"items"`
	Address models.Address     `json:"address"`
	Total   float64            `json:"total"`
}

const checkoutCurrency = "usd"

// CheckoutService implements the two-phase hosted card payment flow.
type CheckoutService struct {
	gateway  Gateway
	orders   repositories.OrderRepository
	products repositories.ProductRepository
	users    repositories.UserRepository
}

func NewCheckoutService(gateway Gateway, orders repositories.OrderRepository, products repositories.ProductRepository, users repositories.UserRepository) *CheckoutService {
	return &CheckoutService{gateway: gateway, orders: orders, products: products, users: users}
}

// CreateSession validates and re-prices the cart, then opens a hosted
// checkout session at the processor. No order exists after this call; the
// encrypted cart snapshot rides along as session metadata.
func (s *CheckoutService) CreateSession(ctx context.Context, user *models.User, in CheckoutInput) (string, map[string]string, error) {
	if !s.gateway.Configured() {
		return "", nil, ErrPaymentUnavailable
	}

	if errs := validateCart(in); len(errs) > 0 {
		return "", errs, nil
	}

	items, total, err := repriceCart(ctx, s.products, in.Items)
	if err != nil {
		return "", nil, err
	}
	if !totalsMatch(total, in.Total) {
		return "", nil, ErrTotalMismatch
	}

	snapshot, err := crypt.EncryptJSON(cartSnapshot{
		UserID:  user.ID.Hex(),
		Items:   items,
		Address: in.Address,
		Total:   total,
	})
	if err != nil {
		return "", nil, err
	}

	lineItems := collection.Map(items, func(item models.OrderItem) payment.LineItem {
		return payment.LineItem{
			Name:       item.Title,
			UnitAmount: int64(math.Round(item.UnitPrice * 100)),
			Quantity:   item.Quantity,
		}
	})

	sess, err := s.gateway.CreateSession(ctx, user.ID.Hex(), checkoutCurrency,
		lineItems, map[string]string{"cart": snapshot})
	if err != nil {
		return "", nil, err
	}

	metrics.CheckoutSessions.WithLabelValues("created").Inc()
	return sess.URL, nil, nil
}

// ConfirmSession turns a paid session into an order. The session must be
// paid and bound to the caller; the order is upserted keyed on the processor
// transaction id, so confirming the same session twice returns the one
// existing order instead of creating a duplicate.
func (s *CheckoutService) ConfirmSession(ctx context.Context, user *models.User, sessionID string) (*models.Order, error) {
	if !s.gateway.Configured() {
		return nil, ErrPaymentUnavailable
	}

	sess, err := s.gateway.RetrieveSession(ctx, sessionID)
	if err != nil {
		return nil, ErrInvalidSession
	}
	if !sess.Paid() || sess.ClientReferenceID != user.ID.Hex() {
		metrics.CheckoutSessions.WithLabelValues("rejected").Inc()
		return nil, ErrInvalidSession
	}

	var snapshot cartSnapshot
	if err := crypt.DecryptJSON(sess.Metadata["cart"], &snapshot); err != nil {
		metrics.CheckoutSessions.WithLabelValues("rejected").Inc()
		return nil, ErrInvalidSession
	}
	if snapshot.UserID != user.ID.Hex() {
		metrics.CheckoutSessions.WithLabelValues("rejected").Inc()
		return nil, ErrInvalidSession
	}

	order := &models.Order{
		User:          user.ID,
		Items:         snapshot.Items,
		Total:         snapshot.Total,
		Status:        models.StatusPending,
		Address:       snapshot.Address,
		PaymentMethod: models.PaymentCard,
		PaymentRef:    sess.Ref(),
	}

	saved, created, err := s.orders.UpsertByPaymentRef(ctx, order)
	if err != nil {
		return nil, err
	}

	if created {
		if err := s.users.AppendOrderRef(ctx, user.ID, saved.ID); err != nil {
			logger.WithCtx(ctx).Error("checkout: append order ref",
				"order", saved.ID.Hex(), "error", err)
		}
		metrics.OrdersPlaced.WithLabelValues("Card").Inc()
		metrics.CheckoutSessions.WithLabelValues("confirmed").Inc()
		event.FireAsync(EventOrderCreated, saved)
	}
	return saved, nil
}
