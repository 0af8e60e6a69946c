package controllers

import (
	"github.com/shashiranjanraj/furnistor/app/models"
	"github.com/shashiranjanraj/furnistor/app/resources"
	"github.com/shashiranjanraj/furnistor/app/services"
	"github.com/shashiranjanraj/furnistor/pkg/ctx"
)

type OrderController struct {
	orders *services.OrderService
	users  *services.UserService
}

func NewOrderController(orders *services.OrderService, users *services.UserService) *OrderController {
	return &OrderController{orders: orders, users: users}
}

// Create places a cash-on-delivery order. Card orders go through the
// checkout session flow instead.
func (oc *OrderController) Create(c *ctx.Context) {
	user, ok := currentUser(c, oc.users)
	if !ok {
		return
	}

	var in services.CheckoutInput
	if !c.BindJSON(&in) {
		return
	}

	order, fieldErrs, err := oc.orders.PlaceCOD(c.Context(), user, in)
	if fieldErrs != nil {
		c.ValidationError(fieldErrs)
		return
	}
	if err != nil {
		renderError(c, err)
		return
	}
	c.Created(resources.Order(order))
}

func (oc *OrderController) List(c *ctx.Context) {
	user, ok := currentUser(c, oc.users)
	if !ok {
		return
	}

	orders, err := oc.orders.ListForUser(c.Context(), user.ID)
	if err != nil {
		renderError(c, err)
		return
	}
	c.Success(resources.Orders(orders))
}

func (oc *OrderController) Show(c *ctx.Context) {
	user, ok := currentUser(c, oc.users)
	if !ok {
		return
	}

	// Staff can look up any order; customers only their own.
	var (
		order *models.Order
		err   error
	)
	if user.IsAdmin() {
		order, err = oc.orders.Get(c.Context(), c.Param("id"))
	} else {
		order, err = oc.orders.GetForUser(c.Context(), c.Param("id"), user.ID)
	}
	if err != nil {
		renderError(c, err)
		return
	}
	c.Success(resources.Order(order))
}
