package controllers

import (
	"strconv"

	"github.com/shashiranjanraj/furnistor/app/repositories"
	"github.com/shashiranjanraj/furnistor/app/resources"
	"github.com/shashiranjanraj/furnistor/app/services"
	"github.com/shashiranjanraj/furnistor/pkg/ctx"
)

type ProductController struct {
	products *services.ProductService
	users    *services.UserService
}

func NewProductController(products *services.ProductService, users *services.UserService) *ProductController {
	return &ProductController{products: products, users: users}
}

// parseCatalogQuery reads the catalog filters off the query string. Values
// that fail to parse are dropped rather than rejected; Normalize clamps the
// rest on the repository side.
func parseCatalogQuery(c *ctx.Context) repositories.CatalogQuery {
	q := repositories.CatalogQuery{
		Page:     c.QueryInt("page", 0),
		Limit:    c.QueryInt("limit", 0),
		Category: c.Query("category"),
		Material: c.Query("material"),
		Search:   c.Query("search"),
	}
	if v, err := strconv.ParseFloat(c.Query("minPrice"), 64); err == nil {
		q.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(c.Query("maxPrice"), 64); err == nil {
		q.MaxPrice = &v
	}
	if raw := c.Query("featured"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			q.Featured = &v
		}
	}
	if raw := c.Query("newArrival"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			q.NewArrival = &v
		}
	}
	return q
}

func (pc *ProductController) List(c *ctx.Context) {
	items, pagination, err := pc.products.List(c.Context(), parseCatalogQuery(c))
	if err != nil {
		renderError(c, err)
		return
	}
	c.Paginated(resources.Products(items), pagination)
}

func (pc *ProductController) Featured(c *ctx.Context) {
	items, err := pc.products.Featured(c.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.Success(resources.Products(items))
}

func (pc *ProductController) Show(c *ctx.Context) {
	p, err := pc.products.Get(c.Context(), c.Param("id"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.Success(resources.Product(p))
}

func (pc *ProductController) Related(c *ctx.Context) {
	items, err := pc.products.Related(c.Context(), c.Param("id"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.Success(resources.Products(items))
}

type reviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// AddReview creates or replaces the caller's review on a product. One review
// per user per product; resubmitting overwrites the previous one.
func (pc *ProductController) AddReview(c *ctx.Context) {
	user, ok := currentUser(c, pc.users)
	if !ok {
		return
	}

	var in reviewRequest
	if !c.BindJSON(&in) {
		return
	}

	p, err := pc.products.AddReview(c.Context(), user.ID, c.Param("id"), in.Rating, in.Comment)
	if err != nil {
		renderError(c, err)
		return
	}
	c.Created(resources.Product(p))
}
