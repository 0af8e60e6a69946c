package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/furnistor/app/models"
	"github.com/shashiranjanraj/furnistor/pkg/crypt"
)

func validCardInput(sofa *models.Product) CheckoutInput {
	return CheckoutInput{
		Items:   []CartItemInput{{ProductID: sofa.ID.Hex(), Quantity: 1}},
		Address: models.Address{Street: "1 Elm St", City: "Oslo", PostalCode: "0150", Country: "NO"},
		Total:   sofa.Price,
	}
}

func TestCreateSessionUnconfigured(t *testing.T) {
	gateway := newFakeGateway()
	gateway.configured = false
	users := newFakeUserRepo()
	user := testUser(users)
	products, sofa, _ := testCatalog()
	svc := NewCheckoutService(gateway, &fakeOrderRepo{}, products, users)

	_, _, err := svc.CreateSession(context.Background(), user, validCardInput(sofa))
	assert.ErrorIs(t, err, ErrPaymentUnavailable)
}

func TestCreateSession(t *testing.T) {
	gateway := newFakeGateway()
	users := newFakeUserRepo()
	user := testUser(users)
	products, sofa, _ := testCatalog()
	orders := &fakeOrderRepo{}
	svc := NewCheckoutService(gateway, orders, products, users)

	url, fieldErrs, err := svc.CreateSession(context.Background(), user, validCardInput(sofa))
	require.NoError(t, err)
	require.Empty(t, fieldErrs)
	assert.NotEmpty(t, url)
	assert.Empty(t, orders.orders, "no order exists before payment")

	require.Len(t, gateway.created, 1)
	sess := gateway.created[0]
	assert.Equal(t, user.ID.Hex(), sess.ClientReferenceID)
	assert.Equal(t, int64(89950), sess.AmountTotal, "unit amount in cents")

	// The metadata snapshot is encrypted but decryptable with the app key.
	var snapshot cartSnapshot
	require.NoError(t, crypt.DecryptJSON(sess.Metadata["cart"], &snapshot))
	assert.Equal(t, user.ID.Hex(), snapshot.UserID)
	assert.Equal(t, sofa.Price, snapshot.Total)
	require.Len(t, snapshot.Items, 1)
	assert.Equal(t, sofa.Price, snapshot.Items[0].UnitPrice)
}

func TestCreateSessionTotalMismatch(t *testing.T) {
	gateway := newFakeGateway()
	users := newFakeUserRepo()
	user := testUser(users)
	products, sofa, _ := testCatalog()
	svc := NewCheckoutService(gateway, &fakeOrderRepo{}, products, users)

	in := validCardInput(sofa)
	in.Total = 1.00
	_, _, err := svc.CreateSession(context.Background(), user, in)
	assert.ErrorIs(t, err, ErrTotalMismatch)
	assert.Empty(t, gateway.created, "no session opened for a tampered total")
}

func TestConfirmSessionUnpaid(t *testing.T) {
	gateway := newFakeGateway()
	users := newFakeUserRepo()
	user := testUser(users)
	products, sofa, _ := testCatalog()
	orders := &fakeOrderRepo{}
	svc := NewCheckoutService(gateway, orders, products, users)

	_, _, err := svc.CreateSession(context.Background(), user, validCardInput(sofa))
	require.NoError(t, err)
	sessID := gateway.created[0].ID

	// Session exists but was never paid.
	_, err = svc.ConfirmSession(context.Background(), user, sessID)
	assert.ErrorIs(t, err, ErrInvalidSession)
	assert.Empty(t, orders.orders)
}

func TestConfirmSessionWrongUser(t *testing.T) {
	gateway := newFakeGateway()
	users := newFakeUserRepo()
	user := testUser(users)
	products, sofa, _ := testCatalog()
	svc := NewCheckoutService(gateway, &fakeOrderRepo{}, products, users)

	_, _, err := svc.CreateSession(context.Background(), user, validCardInput(sofa))
	require.NoError(t, err)
	sessID := gateway.created[0].ID
	gateway.markPaid(sessID)

	other := &models.User{ID: primitive.NewObjectID(), Role: models.RoleCustomer}
	_, err = svc.ConfirmSession(context.Background(), other, sessID)
	assert.ErrorIs(t, err, ErrInvalidSession, "a paid session only converts for its own user")
}

func TestConfirmSessionUnknown(t *testing.T) {
	gateway := newFakeGateway()
	users := newFakeUserRepo()
	user := testUser(users)
	svc := NewCheckoutService(gateway, &fakeOrderRepo{}, newFakeProductRepo(), users)

	_, err := svc.ConfirmSession(context.Background(), user, "cs_missing")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestConfirmSessionCreatesOrderOnce(t *testing.T) {
	gateway := newFakeGateway()
	users := newFakeUserRepo()
	user := testUser(users)
	products, sofa, _ := testCatalog()
	orders := &fakeOrderRepo{}
	svc := NewCheckoutService(gateway, orders, products, users)

	_, _, err := svc.CreateSession(context.Background(), user, validCardInput(sofa))
	require.NoError(t, err)
	sessID := gateway.created[0].ID
	gateway.markPaid(sessID)

	first, err := svc.ConfirmSession(context.Background(), user, sessID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, first.Status)
	assert.Equal(t, models.PaymentCard, first.PaymentMethod)
	assert.Equal(t, "pi_"+sessID, first.PaymentRef, "payment intent preferred as ref")
	assert.Equal(t, sofa.Price, first.Total)

	// Confirming the same paid session again returns the same order.
	second, err := svc.ConfirmSession(context.Background(), user, sessID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, orders.orders, 1, "no duplicate order for a re-confirmed session")
	assert.Len(t, users.orderRefs[user.ID], 1, "order ref appended once")
}
