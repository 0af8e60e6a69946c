package services

import (
	"context"
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/furnistor/app/models"
	"github.com/shashiranjanraj/furnistor/app/repositories"
	"github.com/shashiranjanraj/furnistor/pkg/collection"
	"github.com/shashiranjanraj/furnistor/pkg/event"
	"github.com/shashiranjanraj/furnistor/pkg/logger"
	"github.com/shashiranjanraj/furnistor/pkg/metrics"
)

// Event names fired on the order lifecycle.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// CartItemInput is one line of a submitted cart. Any client-submitted price
// is ignored; items are re-priced from the live catalog.
type CartItemInput struct {
	ProductID string `json:"product" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// CheckoutInput is the payload shared by cash-on-delivery orders and hosted
// checkout sessions.
type CheckoutInput struct {
	Items   []CartItemInput `json:"items"`
	Address models.Address  `json:"address"`
	Total   float64         `json:"total"`
}

// validateCart returns a field-error map for structural problems.
func validateCart(in CheckoutInput) map[string]string {
	errs := map[string]string{}
	if len(in.Items) == 0 {
		errs["items"] = "items must not be empty"
	}
	for _, item := range in.Items {
		if item.ProductID == "" {
			errs["items"] = "every item needs a product id"
		}
		if item.Quantity < 1 {
			errs["items"] = "every item needs quantity of at least 1"
		}
	}
	if strings.TrimSpace(in.Address.Street) == "" {
		errs["address.street"] = "street is required"
	}
	if strings.TrimSpace(in.Address.City) == "" {
		errs["address.city"] = "city is required"
	}
	if strings.TrimSpace(in.Address.PostalCode) == "" {
		errs["address.postalCode"] = "postal code is required"
	}
	if strings.TrimSpace(in.Address.Country) == "" {
		errs["address.country"] = "country is required"
	}
	return errs
}

// repriceCart snapshots the cart against live catalog prices. Unknown
// products fail the whole cart.
func repriceCart(ctx context.Context, products repositories.ProductRepository, items []CartItemInput) ([]models.OrderItem, float64, error) {
	ids := make([]primitive.ObjectID, 0, len(items))
	for _, item := range items {
		oid, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			return nil, 0, ErrUnknownProduct
		}
		ids = append(ids, oid)
	}

	catalog, err := products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	byID := collection.KeyBy(catalog, func(p models.Product) primitive.ObjectID { return p.ID })

	snapshot := make([]models.OrderItem, 0, len(items))
	for i, item := range items {
		p, ok := byID[ids[i]]
		if !ok {
			return nil, 0, ErrUnknownProduct
		}
		image := ""
		if len(p.Images) > 0 {
			image = p.Images[0]
		}
		snapshot = append(snapshot, models.OrderItem{
			Product:   p.ID,
			Title:     p.Title,
			UnitPrice: p.Price,
			Quantity:  item.Quantity,
			Image:     image,
		})
	}

	total := collection.Sum(snapshot, func(i models.OrderItem) float64 {
		return i.UnitPrice * float64(i.Quantity)
	})
	return snapshot, math.Round(total*100) / 100, nil
}

// totalsMatch compares totals to the cent.
func totalsMatch(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

// OrderService implements cash-on-delivery checkout, order queries, and the
// admin order operations.
type OrderService struct {
	orders   repositories.OrderRepository
	products repositories.ProductRepository
	users    repositories.UserRepository
}

func NewOrderService(orders repositories.OrderRepository, products repositories.ProductRepository, users repositories.UserRepository) *OrderService {
	return &OrderService{orders: orders, products: products, users: users}
}

// PlaceCOD validates and re-prices the cart, then creates exactly one
// Pending cash-on-delivery order. A client total that disagrees with the
// recomputed total fails with ErrTotalMismatch; a field-error map signals
// structural problems.
func (s *OrderService) PlaceCOD(ctx context.Context, user *models.User, in CheckoutInput) (*models.Order, map[string]string, error) {
	if errs := validateCart(in); len(errs) > 0 {
		return nil, errs, nil
	}

	items, total, err := repriceCart(ctx, s.products, in.Items)
	if err != nil {
		return nil, nil, err
	}
	if !totalsMatch(total, in.Total) {
		return nil, nil, ErrTotalMismatch
	}

	order := &models.Order{
		User:          user.ID,
		Items:         items,
		Total:         total,
		Status:        models.StatusPending,
		Address:       in.Address,
		PaymentMethod: models.PaymentCOD,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, nil, err
	}

	if err := s.users.AppendOrderRef(ctx, user.ID, order.ID); err != nil {
		logger.WithCtx(ctx).Error("orders: append order ref",
			"order", order.ID.Hex(), "error", err)
	}

	metrics.OrdersPlaced.WithLabelValues("COD").Inc()
	event.FireAsync(EventOrderCreated, order)
	return order, nil, nil
}

// ListForUser returns the caller's orders newest-first.
func (s *OrderService) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.orders.FindByUser(ctx, userID)
}

// GetForUser returns the order only when the caller owns it; anything else
// is a not-found, including orders that belong to someone else.
func (s *OrderService) GetForUser(ctx context.Context, id string, userID primitive.ObjectID) (*models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrNotFound
	}
	order, err := s.orders.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if order.User != userID {
		return nil, repositories.ErrNotFound
	}
	return order, nil
}

// ------------------- Admin -------------------

// Get returns any order regardless of owner.
func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrNotFound
	}
	return s.orders.FindByID(ctx, oid)
}

func (s *OrderService) AdminList(ctx context.Context) ([]models.Order, error) {
	return s.orders.All(ctx)
}

// ChangeStatus validates the status value against the enum and the lifecycle
// before persisting, then fires order.status_changed.
func (s *OrderService) ChangeStatus(ctx context.Context, id, status string) (*models.Order, error) {
	if !models.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	next := models.OrderStatus(status)

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrNotFound
	}
	order, err := s.orders.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, ErrIllegalTransition
	}

	updated, err := s.orders.UpdateStatus(ctx, oid, next)
	if err != nil {
		return nil, err
	}

	event.FireAsync(EventOrderStatusChanged, updated)
	return updated, nil
}

// Analytics reports revenue and order count for the current calendar month,
// excluding Cancelled orders.
func (s *OrderService) Analytics(ctx context.Context) (*repositories.MonthlyAnalytics, error) {
	return s.orders.Analytics(ctx, MonthStart(time.Now().UTC()))
}

// MonthStart returns midnight UTC on the first day of t's month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
