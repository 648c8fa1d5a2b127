package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/granthkosh/granthkosh/app/services"
	"github.com/granthkosh/granthkosh/pkg/bind"
	"github.com/granthkosh/granthkosh/pkg/cart"
	"github.com/granthkosh/granthkosh/pkg/event"
	"github.com/granthkosh/granthkosh/pkg/middleware"
	"github.com/granthkosh/granthkosh/pkg/response"
)

// CartController serves the authenticated user's server-side cart. Every
// mutation returns the full cart so clients re-render from the response.
type CartController struct {
	store   cart.Store
	catalog *services.CatalogService
}

// NewCartController wires the controller to the cart store and catalogue.
func NewCartController(store cart.Store, catalog *services.CatalogService) *CartController {
	return &CartController{store: store, catalog: catalog}
}

func (c *CartController) holder(r *http.Request) (*cart.Holder, string, bool) {
	id, ok := middleware.IdentityFromCtx(r.Context())
	if !ok {
		return nil, "", false
	}
	return cart.NewHolder(c.store, id.UserID), id.UserID, true
}

// Show handles GET /cart.
func (c *CartController) Show(w http.ResponseWriter, r *http.Request) {
	holder, _, ok := c.holder(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	response.Success(w, holder.Items(r.Context()))
}

// AddItem handles POST /cart/items.
func (c *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	holder, userID, ok := c.holder(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	var in struct {
		ProductID string `json:"productId" validate:"required"`
		Quantity  int    `json:"quantity"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	book, err := c.catalog.Get(r.Context(), in.ProductID)
	if err != nil {
		fail(w, r, err, "Book not found")
		return
	}

	items, err := holder.Add(r.Context(), book, in.Quantity)
	if err != nil {
		fail(w, r, err, "")
		return
	}

	event.Fire(event.CartUpdated, userID)
	response.Success(w, items)
}

// UpdateItem handles PATCH /cart/items/{productId}.
func (c *CartController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	holder, userID, ok := c.holder(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	var in struct {
		Quantity int `json:"quantity"`
	}
	if _, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	items, err := holder.UpdateQuantity(r.Context(), chi.URLParam(r, "productId"), in.Quantity)
	if err != nil {
		fail(w, r, err, "")
		return
	}

	event.Fire(event.CartUpdated, userID)
	response.Success(w, items)
}

// RemoveItem handles DELETE /cart/items/{productId}.
func (c *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	holder, userID, ok := c.holder(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	items, err := holder.Remove(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		fail(w, r, err, "")
		return
	}

	event.Fire(event.CartUpdated, userID)
	response.Success(w, items)
}

// Clear handles DELETE /cart.
func (c *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	holder, userID, ok := c.holder(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	if err := holder.Clear(r.Context()); err != nil {
		fail(w, r, err, "")
		return
	}

	event.Fire(event.CartUpdated, userID)
	response.Message(w, "Cart cleared")
}
