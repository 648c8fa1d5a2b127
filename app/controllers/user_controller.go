package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/granthkosh/granthkosh/app/services"
	"github.com/granthkosh/granthkosh/pkg/bind"
	"github.com/granthkosh/granthkosh/pkg/middleware"
	"github.com/granthkosh/granthkosh/pkg/response"
)

// UserController serves the admin account management surface.
type UserController struct {
	users *services.UserService
}

// NewUserController wires the controller to its service.
func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

// Index handles GET /users (admin): accounts with their order counts.
func (c *UserController) Index(w http.ResponseWriter, r *http.Request) {
	users, err := c.users.ListWithOrders(r.Context())
	if err != nil {
		fail(w, r, err, "")
		return
	}
	response.Success(w, users)
}

// UpdateRole handles PATCH /users/{id}/role (admin).
func (c *UserController) UpdateRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.IdentityFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	var in struct {
		Role string `json:"role" validate:"required"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.users.UpdateRole(r.Context(), chi.URLParam(r, "id"), in.Role, actor.UserID)
	if err != nil {
		fail(w, r, err, "Account not found")
		return
	}
	response.Success(w, user)
}

// Delete handles DELETE /users/{id} (admin).
func (c *UserController) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.IdentityFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	if err := c.users.Delete(r.Context(), chi.URLParam(r, "id"), actor.UserID); err != nil {
		fail(w, r, err, "Account not found")
		return
	}
	response.Message(w, "Account deleted")
}

// Stats handles GET /admin/stats (admin).
func (c *UserController) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.users.DashboardStats(r.Context())
	if err != nil {
		fail(w, r, err, "")
		return
	}
	response.Success(w, stats)
}
