// Package controllers maps HTTP requests onto the services and service
// errors back onto the JSON envelope.
package controllers

import (
	"errors"
	"net/http"

	"github.com/granthkosh/granthkosh/app/repositories"
	"github.com/granthkosh/granthkosh/app/services"
	"github.com/granthkosh/granthkosh/pkg/logger"
	"github.com/granthkosh/granthkosh/pkg/response"
)

// fail translates a service error into the right HTTP response.
// notFoundMsg names the resource in the 404 body ("Book not found").
func fail(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	if ve, ok := services.AsValidation(err); ok {
		response.ValidationError(w, ve.Fields)
		return
	}

	switch {
	case errors.Is(err, repositories.ErrNotFound):
		response.NotFound(w, notFoundMsg)
	case errors.Is(err, services.ErrForbidden):
		response.Forbidden(w)
	case errors.Is(err, services.ErrInvalidCredentials):
		response.Error(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, services.ErrEmailTaken):
		response.ValidationError(w, map[string]string{"email": "email is already registered"})
	case errors.Is(err, services.ErrEmptyCart):
		response.BadRequest(w, "Your cart is empty")
	case errors.Is(err, services.ErrInvalidStatus):
		response.BadRequest(w, "Invalid order status")
	case errors.Is(err, services.ErrInvalidTransition):
		response.BadRequest(w, "Invalid status transition")
	case errors.Is(err, services.ErrInvalidRole):
		response.BadRequest(w, "Invalid role")
	default:
		logger.WithCtx(r.Context()).Error("request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		response.Error(w, http.StatusInternalServerError, "Something went wrong")
	}
}
