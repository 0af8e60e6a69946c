package controllers

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/furnistor/app/resources"
	"github.com/shashiranjanraj/furnistor/app/services"
	"github.com/shashiranjanraj/furnistor/pkg/ctx"
)

type UserController struct {
	users    *services.UserService
	products *services.ProductService
}

func NewUserController(users *services.UserService, products *services.ProductService) *UserController {
	return &UserController{users: users, products: products}
}

type profileRequest struct {
	Name   string `json:"name" validate:"max=100"`
	Avatar string `json:"avatar" validate:"max=500"`
}

// UpdateProfile changes name and avatar. Empty fields are left untouched,
// so a partial body only updates what it names.
func (uc *UserController) UpdateProfile(c *ctx.Context) {
	user, ok := currentUser(c, uc.users)
	if !ok {
		return
	}

	var in profileRequest
	if !c.BindJSON(&in) {
		return
	}

	updated, err := uc.users.UpdateProfile(c.Context(), user.ID, in.Name, in.Avatar)
	if err != nil {
		renderError(c, err)
		return
	}
	c.Success(resources.User(updated))
}

// Favorites returns the user's favorite products resolved to full documents.
func (uc *UserController) Favorites(c *ctx.Context) {
	user, ok := currentUser(c, uc.users)
	if !ok {
		return
	}

	items := make([]interface{}, 0, len(user.Favorites))
	for _, id := range user.Favorites {
		p, err := uc.products.Get(c.Context(), id.Hex())
		if err != nil {
			// Favorited products can be deleted from the catalog; skip them.
			continue
		}
		items = append(items, resources.Product(p))
	}
	c.Success(items)
}

func (uc *UserController) AddFavorite(c *ctx.Context) {
	user, ok := currentUser(c, uc.users)
	if !ok {
		return
	}

	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.NotFound()
		return
	}
	// Reject ids that do not point at a real product.
	if _, err := uc.products.Get(c.Context(), productID.Hex()); err != nil {
		renderError(c, err)
		return
	}

	updated, err := uc.users.AddFavorite(c.Context(), user.ID, productID)
	if err != nil {
		renderError(c, err)
		return
	}
	c.Success(resources.User(updated))
}

func (uc *UserController) RemoveFavorite(c *ctx.Context) {
	user, ok := currentUser(c, uc.users)
	if !ok {
		return
	}

	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.NotFound()
		return
	}

	updated, err := uc.users.RemoveFavorite(c.Context(), user.ID, productID)
	if err != nil {
		renderError(c, err)
		return
	}
	c.Success(resources.User(updated))
}
