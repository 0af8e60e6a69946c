package controllers

import (
	"errors"

	"github.com/shashiranjanraj/furnistor/app/resources"
	"github.com/shashiranjanraj/furnistor/app/services"
	"github.com/shashiranjanraj/furnistor/pkg/ctx"
)

type AuthController struct {
	auth  *services.AuthService
	users *services.UserService
}

func NewAuthController(auth *services.AuthService, users *services.UserService) *AuthController {
	return &AuthController{auth: auth, users: users}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (ac *AuthController) Register(c *ctx.Context) {
	var in registerRequest
	if !c.BindJSON(&in) {
		return
	}

	user, token, err := ac.auth.Register(c.Context(), in.Name, in.Email, in.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			c.ValidationError(map[string]string{"email": "This email is already registered"})
			return
		}
		renderError(c, err)
		return
	}

	setAuthCookie(c, token)
	c.Created(resources.User(user))
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (ac *AuthController) Login(c *ctx.Context) {
	var in loginRequest
	if !c.BindJSON(&in) {
		return
	}

	user, token, err := ac.auth.Login(c.Context(), in.Email, in.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.Unauthorized("Invalid email or password")
			return
		}
		renderError(c, err)
		return
	}

	setAuthCookie(c, token)
	c.Success(resources.User(user))
}

func (ac *AuthController) Logout(c *ctx.Context) {
	clearAuthCookie(c)
	c.Message("Logged out")
}

// VerifyEmail consumes the single-use token from the verification link.
func (ac *AuthController) VerifyEmail(c *ctx.Context) {
	user, err := ac.auth.VerifyEmail(c.Context(), c.Param("token"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.Success(resources.User(user))
}

func (ac *AuthController) Me(c *ctx.Context) {
	user, ok := currentUser(c, ac.users)
	if !ok {
		return
	}
	c.Success(resources.User(user))
}
