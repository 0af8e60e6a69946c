package controllers

import (
	"github.com/shashiranjanraj/furnistor/app/resources"
	"github.com/shashiranjanraj/furnistor/app/services"
	"github.com/shashiranjanraj/furnistor/pkg/ctx"
)

type CheckoutController struct {
	checkout *services.CheckoutService
	users    *services.UserService
}

func NewCheckoutController(checkout *services.CheckoutService, users *services.UserService) *CheckoutController {
	return &CheckoutController{checkout: checkout, users: users}
}

// CreateSession opens a hosted card payment session for the cart and returns
// the redirect URL. No order exists until the session is confirmed paid.
func (cc *CheckoutController) CreateSession(c *ctx.Context) {
	user, ok := currentUser(c, cc.users)
	if !ok {
		return
	}

	var in services.CheckoutInput
	if !c.BindJSON(&in) {
		return
	}

	url, fieldErrs, err := cc.checkout.CreateSession(c.Context(), user, in)
	if fieldErrs != nil {
		c.ValidationError(fieldErrs)
		return
	}
	if err != nil {
		renderError(c, err)
		return
	}
	c.Success(map[string]string{"url": url})
}

type confirmRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

// Confirm finalizes a paid session into an order. Safe to call more than
// once for the same session; the order is only created the first time.
func (cc *CheckoutController) Confirm(c *ctx.Context) {
	user, ok := currentUser(c, cc.users)
	if !ok {
		return
	}

	var in confirmRequest
	if !c.BindJSON(&in) {
		return
	}

	order, err := cc.checkout.ConfirmSession(c.Context(), user, in.SessionID)
	if err != nil {
		renderError(c, err)
		return
	}
	c.Success(resources.Order(order))
}
