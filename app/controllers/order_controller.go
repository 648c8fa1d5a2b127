package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/granthkosh/granthkosh/app/models"
	"github.com/granthkosh/granthkosh/app/services"
	"github.com/granthkosh/granthkosh/pkg/bind"
	"github.com/granthkosh/granthkosh/pkg/cart"
	"github.com/granthkosh/granthkosh/pkg/middleware"
	"github.com/granthkosh/granthkosh/pkg/response"
)

// OrderController serves checkout, customer order history and the admin
// order workflow.
type OrderController struct {
	checkout *services.CheckoutService
	orders   *services.OrderService
	store    cart.Store
}

// NewOrderController wires the controller to its services and cart store.
func NewOrderController(checkout *services.CheckoutService, orders *services.OrderService, store cart.Store) *OrderController {
	return &OrderController{checkout: checkout, orders: orders, store: store}
}

// Checkout handles POST /checkout (and its POST /orders alias).
func (c *OrderController) Checkout(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	var shipping models.ShippingAddress
	if errs, err := bind.JSON(r, &shipping); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	holder := cart.NewHolder(c.store, id.UserID)
	order, err := c.checkout.Checkout(r.Context(), id.UserID, holder, shipping)
	if err != nil {
		fail(w, r, err, "")
		return
	}
	response.Created(w, order)
}

// Mine handles GET /orders/my-orders.
func (c *OrderController) Mine(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	orders, err := c.orders.ListMine(r.Context(), id.UserID)
	if err != nil {
		fail(w, r, err, "")
		return
	}
	response.Success(w, orders)
}

// Show handles GET /orders/{id}. Customers see only their own orders.
func (c *OrderController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	order, err := c.orders.Get(r.Context(), chi.URLParam(r, "id"), id)
	if err != nil {
		fail(w, r, err, "Order not found")
		return
	}
	response.Success(w, order)
}

// Index handles GET /orders (admin).
func (c *OrderController) Index(w http.ResponseWriter, r *http.Request) {
	orders, err := c.orders.ListAll(r.Context())
	if err != nil {
		fail(w, r, err, "")
		return
	}
	response.Success(w, orders)
}

// UpdateStatus handles PUT /orders/{id}/status (admin).
func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Status models.OrderStatus `json:"status" validate:"required"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), in.Status)
	if err != nil {
		fail(w, r, err, "Order not found")
		return
	}
	response.Success(w, order)
}

// Delete handles DELETE /orders/{id} (admin).
func (c *OrderController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.orders.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, r, err, "Order not found")
		return
	}
	response.Message(w, "Order deleted")
}
