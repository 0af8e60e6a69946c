// Package routes wires controllers onto the router. Everything the HTTP
// surface exposes is registered here, so `route:list` gives the full picture.
package routes

import (
	"time"

	"github.com/shashiranjanraj/furnistor/app/controllers"
	appgraphql "github.com/shashiranjanraj/furnistor/app/graphql"
	"github.com/shashiranjanraj/furnistor/app/models"
	"github.com/shashiranjanraj/furnistor/app/services"
	"github.com/shashiranjanraj/furnistor/config"
	"github.com/shashiranjanraj/furnistor/pkg/ctx"
	pkggraphql "github.com/shashiranjanraj/furnistor/pkg/graphql"
	"github.com/shashiranjanraj/furnistor/pkg/logger"
	"github.com/shashiranjanraj/furnistor/pkg/metrics"
	"github.com/shashiranjanraj/furnistor/pkg/middleware"
	"github.com/shashiranjanraj/furnistor/pkg/rbac"
	"github.com/shashiranjanraj/furnistor/pkg/reqid"
	"github.com/shashiranjanraj/furnistor/pkg/router"
	"github.com/shashiranjanraj/furnistor/pkg/ws"
)

// Services carries the constructed service layer into route registration.
type Services struct {
	Auth     *services.AuthService
	Users    *services.UserService
	Products *services.ProductService
	Orders   *services.OrderService
	Checkout *services.CheckoutService
	Feed     *ws.Hub
}

// RegisterAPI mounts every endpoint on r.
func RegisterAPI(r *router.Router, s Services) {
	r.Use(
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		metrics.Middleware(),
		middleware.CORS(middleware.DefaultCORSOptions(config.FrontendURL())),
		middleware.RateLimit(300, time.Minute),
	)

	auth := controllers.NewAuthController(s.Auth, s.Users)
	users := controllers.NewUserController(s.Users, s.Products)
	products := controllers.NewProductController(s.Products, s.Users)
	orders := controllers.NewOrderController(s.Orders, s.Users)
	checkout := controllers.NewCheckoutController(s.Checkout, s.Users)
	admin := controllers.NewAdminController(s.Products, s.Orders, s.Users, s.Feed)

	r.Get("/api/health", "health", ctx.Wrap(health))
	r.Handle("/metrics", metrics.Handler())

	// Login and register get a tighter rate limit than the rest of the API.
	authLimit := middleware.RateLimit(10, time.Minute)

	api := r.Group("/api")

	api.Post("/auth/register", "auth.register", ctx.Wrap(auth.Register), authLimit)
	api.Post("/auth/login", "auth.login", ctx.Wrap(auth.Login), authLimit)
	api.Post("/auth/logout", "auth.logout", ctx.Wrap(auth.Logout))
	api.Get("/auth/verify-email/{token}", "auth.verify", ctx.Wrap(auth.VerifyEmail))
	api.Get("/auth/me", "auth.me", ctx.Wrap(auth.Me), middleware.Auth)

	api.Get("/products", "products.index", ctx.Wrap(products.List))
	api.Get("/products/featured", "products.featured", ctx.Wrap(products.Featured))
	api.Get("/products/{id}", "products.show", ctx.Wrap(products.Show))
	api.Get("/products/{id}/related", "products.related", ctx.Wrap(products.Related))
	api.Post("/products/{id}/reviews", "products.reviews.store", ctx.Wrap(products.AddReview), middleware.Auth)

	schema, err := pkggraphql.NewSchema(appgraphql.NewRootQuery(s.Products))
	if err != nil {
		logger.Error("routes: build graphql schema", "error", err)
	} else {
		api.Post("/graphql", "graphql", pkggraphql.Handler(schema))
	}

	protected := api.Group("", middleware.Auth)

	protected.Get("/users/profile", "users.profile", ctx.Wrap(auth.Me))
	protected.Patch("/users/profile", "users.profile.update", ctx.Wrap(users.UpdateProfile))
	protected.Get("/users/favorites", "users.favorites.index", ctx.Wrap(users.Favorites))
	protected.Post("/users/favorites/{id}", "users.favorites.store", ctx.Wrap(users.AddFavorite))
	protected.Delete("/users/favorites/{id}", "users.favorites.destroy", ctx.Wrap(users.RemoveFavorite))

	protected.Post("/orders", "orders.store", ctx.Wrap(orders.Create))
	protected.Get("/orders", "orders.index", ctx.Wrap(orders.List))
	protected.Get("/orders/{id}", "orders.show", ctx.Wrap(orders.Show))

	protected.Post("/checkout/session", "checkout.session", ctx.Wrap(checkout.CreateSession))
	protected.Post("/checkout/order", "checkout.order", ctx.Wrap(checkout.Confirm))

	staff := api.Group("/admin", middleware.Auth, rbac.HasRole(string(models.RoleAdmin)))

	staff.Get("/products", "admin.products.index", ctx.Wrap(products.List))
	staff.Post("/products", "admin.products.store", ctx.Wrap(admin.CreateProduct))
	staff.Patch("/products/{id}", "admin.products.update", ctx.Wrap(admin.UpdateProduct))
	staff.Delete("/products/{id}", "admin.products.destroy", ctx.Wrap(admin.DeleteProduct))
	staff.Post("/products/{id}/images", "admin.products.images", ctx.Wrap(admin.UploadImage))

	staff.Get("/orders", "admin.orders.index", ctx.Wrap(admin.ListOrders))
	staff.Patch("/orders/{id}/status", "admin.orders.status", ctx.Wrap(admin.UpdateOrderStatus))
	staff.Get("/orders/feed", "admin.orders.feed", ctx.Wrap(admin.OrderFeed))

	staff.Get("/analytics", "admin.analytics", ctx.Wrap(admin.Analytics))
}

func health(c *ctx.Context) {
	c.Success(map[string]string{"status": "ok"})
}
