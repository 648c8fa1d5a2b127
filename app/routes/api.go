// Package routes assembles the HTTP route table.
package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/granthkosh/granthkosh/app/controllers"
	"github.com/granthkosh/granthkosh/app/models"
	"github.com/granthkosh/granthkosh/pkg/metrics"
	"github.com/granthkosh/granthkosh/pkg/middleware"
	"github.com/granthkosh/granthkosh/pkg/reqid"
	"github.com/granthkosh/granthkosh/pkg/response"
	"github.com/granthkosh/granthkosh/pkg/ws"
)

// Controllers bundles everything the route table mounts.
type Controllers struct {
	Auth     *controllers.AuthController
	Products *controllers.ProductController
	Cart     *controllers.CartController
	Orders   *controllers.OrderController
	Users    *controllers.UserController
	GraphQL  http.HandlerFunc
	OrderHub *ws.Hub
}

// New builds the router with the full middleware chain and every endpoint.
func New(c Controllers) chi.Router {
	r := chi.NewRouter()

	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.RateLimit(300, time.Minute))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		response.Message(w, "ok")
	})
	r.Get("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		// Public storefront.
		r.Get("/products", c.Products.Index)
		r.Get("/products/categories", c.Products.Categories)
		r.Get("/products/{id}", c.Products.Show)

		r.Post("/auth/register", c.Auth.Register)
		r.Post("/auth/login", c.Auth.Login)
		r.Post("/auth/refresh", c.Auth.Refresh)

		if c.GraphQL != nil {
			r.Handle("/graphql", c.GraphQL)
		}

		// Any signed-in customer.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/auth/me", c.Auth.Profile)

			r.Get("/cart", c.Cart.Show)
			r.Delete("/cart", c.Cart.Clear)
			r.Post("/cart/items", c.Cart.AddItem)
			r.Patch("/cart/items/{productId}", c.Cart.UpdateItem)
			r.Delete("/cart/items/{productId}", c.Cart.RemoveItem)

			r.Post("/checkout", c.Orders.Checkout)
			r.Post("/orders", c.Orders.Checkout)
			r.Get("/orders/my-orders", c.Orders.Mine)
			r.Get("/orders/{id}", c.Orders.Show)
		})

		// Admin back office.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.RequireRole(models.RoleAdmin))

			r.Post("/products", c.Products.Create)
			r.Put("/products/{id}", c.Products.Update)
			r.Delete("/products/{id}", c.Products.Delete)
			r.Post("/products/{id}/cover", c.Products.UploadCover)

			r.Get("/orders", c.Orders.Index)
			r.Put("/orders/{id}/status", c.Orders.UpdateStatus)
			r.Delete("/orders/{id}", c.Orders.Delete)

			r.Get("/users", c.Users.Index)
			r.Patch("/users/{id}/role", c.Users.UpdateRole)
			r.Delete("/users/{id}", c.Users.Delete)

			r.Get("/admin/stats", c.Users.Stats)
		})

		// Websocket order feed: browser clients cannot set the Authorization
		// header on an upgrade request, so the token may ride the query string.
		if c.OrderHub != nil {
			r.Group(func(r chi.Router) {
				r.Use(middleware.TokenFromQuery)
				r.Use(middleware.RequireAuth)
				r.Use(middleware.RequireRole(models.RoleAdmin))

				r.Get("/ws/orders", func(w http.ResponseWriter, req *http.Request) {
					ws.Upgrade(w, req, c.OrderHub)
				})
			})
		}
	})

	return r
}
