package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/furnistor/app/models"
	"github.com/shashiranjanraj/furnistor/app/repositories"
)

func testCatalog() (*fakeProductRepo, *models.Product, *models.Product) {
	sofa := &models.Product{
		Title:    "Fjord Sofa",
		Category: models.CategorySofas,
		Price:    899.50,
		Images:   []string{"https://img.example.com/sofa.jpg"},
	}
	lamp := &models.Product{
		Title:    "Arc Floor Lamp",
		Category: models.CategoryLighting,
		Price:    120.25,
	}
	return newFakeProductRepo(sofa, lamp), sofa, lamp
}

func testUser(users *fakeUserRepo) *models.User {
	u := &models.User{Name: "Astrid", Email: "astrid@example.com", Role: models.RoleCustomer}
	_ = users.Create(context.Background(), u)
	return u
}

func TestPlaceCOD(t *testing.T) {
	products, sofa, lamp := testCatalog()
	orders := &fakeOrderRepo{}
	users := newFakeUserRepo()
	user := testUser(users)
	svc := NewOrderService(orders, products, users)

	in := CheckoutInput{
		Items: []CartItemInput{
			{ProductID: sofa.ID.Hex(), Quantity: 1},
			{ProductID: lamp.ID.Hex(), Quantity: 2},
		},
		Address: models.Address{Street: "1 Elm St", City: "Oslo", PostalCode: "0150", Country: "NO"},
		Total:   899.50 + 2*120.25,
	}

	order, fieldErrs, err := svc.PlaceCOD(context.Background(), user, in)
	require.NoError(t, err)
	require.Empty(t, fieldErrs)

	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, models.PaymentCOD, order.PaymentMethod)
	assert.Empty(t, order.PaymentRef)
	assert.Equal(t, 1140.0, order.Total)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Fjord Sofa", order.Items[0].Title)
	assert.Equal(t, 899.50, order.Items[0].UnitPrice, "price snapshotted from catalog")
	assert.Equal(t, "https://img.example.com/sofa.jpg", order.Items[0].Image)

	assert.Len(t, orders.orders, 1, "exactly one order created")
	assert.Len(t, users.orderRefs[user.ID], 1, "order id appended to the user")
}

func TestPlaceCODTotalMismatch(t *testing.T) {
	products, sofa, _ := testCatalog()
	users := newFakeUserRepo()
	user := testUser(users)
	orders := &fakeOrderRepo{}
	svc := NewOrderService(orders, products, users)

	in := CheckoutInput{
		Items:   []CartItemInput{{ProductID: sofa.ID.Hex(), Quantity: 1}},
		Address: models.Address{Street: "1 Elm St", City: "Oslo", PostalCode: "0150", Country: "NO"},
		Total:   1.00, // client claims a lower price
	}

	_, _, err := svc.PlaceCOD(context.Background(), user, in)
	assert.ErrorIs(t, err, ErrTotalMismatch)
	assert.Empty(t, orders.orders, "nothing persisted")
}

func TestPlaceCODValidation(t *testing.T) {
	products, sofa, _ := testCatalog()
	users := newFakeUserRepo()
	user := testUser(users)
	svc := NewOrderService(&fakeOrderRepo{}, products, users)

	_, fieldErrs, err := svc.PlaceCOD(context.Background(), user, CheckoutInput{})
	require.NoError(t, err)
	assert.Contains(t, fieldErrs, "items")
	assert.Contains(t, fieldErrs, "address.street")
	assert.Contains(t, fieldErrs, "address.city")
	assert.Contains(t, fieldErrs, "address.postalCode")
	assert.Contains(t, fieldErrs, "address.country")

	_, fieldErrs, err = svc.PlaceCOD(context.Background(), user, CheckoutInput{
		Items:   []CartItemInput{{ProductID: sofa.ID.Hex(), Quantity: 0}},
		Address: models.Address{Street: "s", City: "c", PostalCode: "p", Country: "n"},
	})
	require.NoError(t, err)
	assert.Contains(t, fieldErrs, "items", "zero quantity is rejected")
}

func TestPlaceCODUnknownProduct(t *testing.T) {
	products, _, _ := testCatalog()
	users := newFakeUserRepo()
	user := testUser(users)
	svc := NewOrderService(&fakeOrderRepo{}, products, users)

	in := CheckoutInput{
		Items:   []CartItemInput{{ProductID: primitive.NewObjectID().Hex(), Quantity: 1}},
		Address: models.Address{Street: "s", City: "c", PostalCode: "p", Country: "n"},
		Total:   10,
	}
	_, _, err := svc.PlaceCOD(context.Background(), user, in)
	assert.ErrorIs(t, err, ErrUnknownProduct)
}

func TestGetForUserOwnership(t *testing.T) {
	users := newFakeUserRepo()
	owner := testUser(users)
	orders := &fakeOrderRepo{}
	svc := NewOrderService(orders, newFakeProductRepo(), users)

	order := &models.Order{User: owner.ID, Status: models.StatusPending}
	require.NoError(t, orders.Create(context.Background(), order))

	got, err := svc.GetForUser(context.Background(), order.ID.Hex(), owner.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = svc.GetForUser(context.Background(), order.ID.Hex(), primitive.NewObjectID())
	assert.ErrorIs(t, err, repositories.ErrNotFound, "someone else's order reads as missing")

	_, err = svc.GetForUser(context.Background(), "not-a-hex-id", owner.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestChangeStatus(t *testing.T) {
	users := newFakeUserRepo()
	orders := &fakeOrderRepo{}
	svc := NewOrderService(orders, newFakeProductRepo(), users)

	order := &models.Order{User: primitive.NewObjectID(), Status: models.StatusPending}
	require.NoError(t, orders.Create(context.Background(), order))

	updated, err := svc.ChangeStatus(context.Background(), order.ID.Hex(), "Shipped")
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, updated.Status)

	// Shipped can only go to Delivered.
	_, err = svc.ChangeStatus(context.Background(), order.ID.Hex(), "Cancelled")
	assert.ErrorIs(t, err, ErrIllegalTransition)

	_, err = svc.ChangeStatus(context.Background(), order.ID.Hex(), "Returned")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	updated, err = svc.ChangeStatus(context.Background(), order.ID.Hex(), "Delivered")
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, updated.Status)

	// Delivered is terminal.
	_, err = svc.ChangeStatus(context.Background(), order.ID.Hex(), "Shipped")
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestAnalyticsWindow(t *testing.T) {
	users := newFakeUserRepo()
	orders := &fakeOrderRepo{}
	svc := NewOrderService(orders, newFakeProductRepo(), users)

	now := time.Now().UTC()
	orders.orders = []*models.Order{
		{ID: primitive.NewObjectID(), Total: 100, Status: models.StatusPending, CreatedAt: now},
		{ID: primitive.NewObjectID(), Total: 50, Status: models.StatusCancelled, CreatedAt: now},
		{ID: primitive.NewObjectID(), Total: 999, Status: models.StatusDelivered, CreatedAt: now.AddDate(0, -2, 0)},
	}

	report, err := svc.Analytics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 100.0, report.Revenue, "cancelled and prior-month orders excluded")
	assert.Equal(t, int64(1), report.OrderCount)
}

func TestMonthStart(t *testing.T) {
	ts := time.Date(2026, 8, 31, 17, 4, 5, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), MonthStart(ts))
}
