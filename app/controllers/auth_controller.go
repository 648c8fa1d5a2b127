package controllers

import (
	"net/http"

	"github.com/granthkosh/granthkosh/app/services"
	"github.com/granthkosh/granthkosh/pkg/bind"
	"github.com/granthkosh/granthkosh/pkg/middleware"
	"github.com/granthkosh/granthkosh/pkg/response"
)

// AuthController serves registration, login, profile and token refresh.
type AuthController struct {
	auth *services.AuthService
}

// NewAuthController wires the controller to its service.
func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

type authPayload struct {
	User   any                `json:"user"`
	Tokens services.TokenPair `json:"tokens"`
}

// Register handles POST /auth/register.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, tokens, err := c.auth.Register(r.Context(), in)
	if err != nil {
		fail(w, r, err, "")
		return
	}
	response.Created(w, authPayload{User: user, Tokens: tokens})
}

// Login handles POST /auth/login.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, tokens, err := c.auth.Login(r.Context(), in)
	if err != nil {
		fail(w, r, err, "")
		return
	}
	response.Success(w, authPayload{User: user, Tokens: tokens})
}

// Profile handles GET /auth/me.
func (c *AuthController) Profile(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	user, err := c.auth.Profile(r.Context(), id.UserID)
	if err != nil {
		fail(w, r, err, "Account not found")
		return
	}
	response.Success(w, user)
}

// Refresh handles POST /auth/refresh.
func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	var in struct {
		RefreshToken string `json:"refreshToken" validate:"required"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	tokens, err := c.auth.Refresh(r.Context(), in.RefreshToken)
	if err != nil {
		fail(w, r, err, "")
		return
	}
	response.Success(w, tokens)
}
