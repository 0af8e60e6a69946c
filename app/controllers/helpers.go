package controllers

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/furnistor/app/models"
	"github.com/shashiranjanraj/furnistor/app/repositories"
	"github.com/shashiranjanraj/furnistor/app/services"
	"github.com/shashiranjanraj/furnistor/config"
	"github.com/shashiranjanraj/furnistor/pkg/ctx"
	"github.com/shashiranjanraj/furnistor/pkg/logger"
	"github.com/shashiranjanraj/furnistor/pkg/middleware"
)

// currentUser resolves the authenticated user behind middleware.Auth.
// A valid token for a user that no longer exists still gets a 401, not a 404.
func currentUser(c *ctx.Context, users *services.UserService) (*models.User, bool) {
	claims, ok := middleware.ClaimsFromCtx(c.Context())
	if !ok {
		c.Unauthorized("Unauthenticated")
		return nil, false
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		c.Unauthorized("Unknown user")
		return nil, false
	}
	user, err := users.Get(c.Context(), id)
	if errors.Is(err, repositories.ErrNotFound) {
		c.Unauthorized("Unknown user")
		return nil, false
	}
	if err != nil {
		renderError(c, err)
		return nil, false
	}
	return user, true
}

// renderError maps service-layer errors onto the response envelope.
func renderError(c *ctx.Context, err error) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		c.NotFound()
	case errors.Is(err, services.ErrUnknownProduct):
		c.Error(400, "Unknown product in cart")
	case errors.Is(err, services.ErrTotalMismatch):
		c.Error(400, "Cart total does not match current prices")
	case errors.Is(err, services.ErrInvalidSession):
		c.Error(400, "Invalid checkout session")
	case errors.Is(err, services.ErrPaymentUnavailable):
		c.Error(503, "Card payment is not available")
	case errors.Is(err, services.ErrTokenInvalid):
		c.Error(400, "Invalid or expired verification token")
	default:
		logger.WithCtx(c.Context()).Error("request failed", "error", err, "path", c.Path())
		c.Error(500, "Something went wrong")
	}
}

func setAuthCookie(c *ctx.Context, token string) {
	secure := config.AppEnv() == "production"
	c.SetCookie(middleware.TokenCookie, token, int(config.TokenTTL().Seconds()), "/", "", secure, true)
}

func clearAuthCookie(c *ctx.Context) {
	secure := config.AppEnv() == "production"
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", secure, true)
}
