package controllers

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/shashiranjanraj/furnistor/app/models"
	"github.com/shashiranjanraj/furnistor/app/resources"
	"github.com/shashiranjanraj/furnistor/app/services"
	"github.com/shashiranjanraj/furnistor/pkg/ctx"
	"github.com/shashiranjanraj/furnistor/pkg/ws"
)

// AdminController groups the staff-only endpoints. Routes mounting it must
// sit behind middleware.Auth plus an Admin role gate.
type AdminController struct {
	products *services.ProductService
	orders   *services.OrderService
	users    *services.UserService
	feed     *ws.Hub
}

func NewAdminController(products *services.ProductService, orders *services.OrderService, users *services.UserService, feed *ws.Hub) *AdminController {
	return &AdminController{products: products, orders: orders, users: users, feed: feed}
}

type productRequest struct {
	Title        string             `json:"title" validate:"required,max=200"`
	Brand        string             `json:"brand" validate:"max=100"`
	Description  string             `json:"description" validate:"max=5000"`
	Category     string             `json:"category" validate:"required"`
	Price        float64            `json:"price" validate:"required,gte=0"`
	Material     string             `json:"material" validate:"max=100"`
	Stock        int                `json:"stock" validate:"gte=0"`
	Images       []string           `json:"images"`
	Colors       []models.Color     `json:"colors"`
	Dimensions   *models.Dimensions `json:"dimensions"`
	IsFeatured   bool               `json:"isFeatured"`
	IsNewArrival bool               `json:"isNewArrival"`
}

func (ac *AdminController) CreateProduct(c *ctx.Context) {
	var in productRequest
	if !c.BindJSON(&in) {
		return
	}
	if !models.ValidCategory(in.Category) {
		c.ValidationError(map[string]string{"category": "Unknown category"})
		return
	}

	p := &models.Product{
		Title:        in.Title,
		Brand:        in.Brand,
		Description:  in.Description,
		Category:     models.Category(in.Category),
		Price:        in.Price,
		Material:     in.Material,
		Stock:        in.Stock,
		Images:       in.Images,
		Colors:       in.Colors,
		Dimensions:   in.Dimensions,
		IsFeatured:   in.IsFeatured,
		IsNewArrival: in.IsNewArrival,
	}

	if err := ac.products.Create(c.Context(), p); err != nil {
		renderError(c, err)
		return
	}
	c.Created(resources.Product(p))
}

// productUpdateRequest uses pointers so absent fields are left alone.
type productUpdateRequest struct {
	Title        *string            `json:"title" validate:"max=200"`
	Brand        *string            `json:"brand" validate:"max=100"`
	Description  *string            `json:"description" validate:"max=5000"`
	Category     *string            `json:"category"`
	Price        *float64           `json:"price"`
	Material     *string            `json:"material" validate:"max=100"`
	Stock        *int               `json:"stock"`
	Images       []string           `json:"images"`
	Colors       []models.Color     `json:"colors"`
	Dimensions   *models.Dimensions `json:"dimensions"`
	IsFeatured   *bool              `json:"isFeatured"`
	IsNewArrival *bool              `json:"isNewArrival"`
}

func (ac *AdminController) UpdateProduct(c *ctx.Context) {
	var in productUpdateRequest
	if !c.BindJSON(&in) {
		return
	}

	fields := bson.M{}
	if in.Title != nil {
		fields["title"] = *in.Title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Category != nil {
		if !models.ValidCategory(*in.Category) {
			c.ValidationError(map[string]string{"category": "Unknown category"})
			return
		}
		fields["category"] = *in.Category
	}
	if in.Price != nil {
		if *in.Price < 0 {
			c.ValidationError(map[string]string{"price": "Price must not be negative"})
			return
		}
		fields["price"] = *in.Price
	}
	if in.Material != nil {
		fields["material"] = *in.Material
	}
	if in.Brand != nil {
		fields["brand"] = *in.Brand
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			c.ValidationError(map[string]string{"stock": "Stock must not be negative"})
			return
		}
		fields["stock"] = *in.Stock
	}
	if in.Images != nil {
		fields["images"] = in.Images
	}
	if in.Colors != nil {
		fields["colors"] = in.Colors
	}
	if in.Dimensions != nil {
		fields["dimensions"] = *in.Dimensions
	}
	if in.IsFeatured != nil {
		fields["isFeatured"] = *in.IsFeatured
	}
	if in.IsNewArrival != nil {
		fields["isNewArrival"] = *in.IsNewArrival
	}
	if len(fields) == 0 {
		c.ValidationError(map[string]string{"body": "Nothing to update"})
		return
	}

	p, err := ac.products.Update(c.Context(), c.Param("id"), fields)
	if err != nil {
		renderError(c, err)
		return
	}
	c.Success(resources.Product(p))
}

func (ac *AdminController) DeleteProduct(c *ctx.Context) {
	if err := ac.products.Delete(c.Context(), c.Param("id")); err != nil {
		renderError(c, err)
		return
	}
	c.Message("Product deleted")
}

// UploadImage accepts a multipart "image" file and appends the stored URL
// to the product's image list.
func (ac *AdminController) UploadImage(c *ctx.Context) {
	file, header, err := c.FormFile("image")
	if err != nil {
		c.ValidationError(map[string]string{"image": "An image file is required"})
		return
	}
	defer file.Close()

	p, err := ac.products.UploadImage(c.Context(), c.Param("id"), header.Filename, file)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedImage) {
			c.ValidationError(map[string]string{"image": "Unsupported image type"})
			return
		}
		renderError(c, err)
		return
	}
	c.Created(resources.Product(p))
}

func (ac *AdminController) ListOrders(c *ctx.Context) {
	orders, err := ac.orders.AdminList(c.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.Success(resources.Orders(orders))
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateOrderStatus moves an order along its lifecycle. Jumps that skip a
// step or revive a cancelled order are rejected.
func (ac *AdminController) UpdateOrderStatus(c *ctx.Context) {
	var in statusRequest
	if !c.BindJSON(&in) {
		return
	}

	order, err := ac.orders.ChangeStatus(c.Context(), c.Param("id"), in.Status)
	if err != nil {
		switch err {
		case services.ErrInvalidStatus:
			c.ValidationError(map[string]string{"status": "Unknown order status"})
		case services.ErrIllegalTransition:
			c.ValidationError(map[string]string{"status": "Order cannot move to this status"})
		default:
			renderError(c, err)
		}
		return
	}
	c.Success(resources.Order(order))
}

func (ac *AdminController) Analytics(c *ctx.Context) {
	stats, err := ac.orders.Analytics(c.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.Success(map[string]interface{}{
		"revenue":    stats.Revenue,
		"orderCount": stats.OrderCount,
	})
}

// OrderFeed upgrades the connection to a websocket that streams order
// events (placements and status changes) to the admin dashboard.
func (ac *AdminController) OrderFeed(c *ctx.Context) {
	ws.Upgrade(c.W, c.R, ac.feed)
}
