package services

import (
	"context"
	"errors"

	"github.com/granthkosh/granthkosh/app/models"
	"github.com/granthkosh/granthkosh/app/repositories"
	"github.com/granthkosh/granthkosh/pkg/event"
	"github.com/granthkosh/granthkosh/pkg/logger"
	"github.com/granthkosh/granthkosh/pkg/middleware"
)

// OrderService serves order reads and the admin status workflow.
type OrderService struct {
	orders OrderRepo
	books  BookRepo
}

// NewOrderService wires the service to its repositories.
func NewOrderService(orders OrderRepo, books BookRepo) *OrderService {
	return &OrderService{orders: orders, books: books}
}

// ListAll returns every order for the admin back office.
func (s *OrderService) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.orders.All(ctx)
}

// ListMine returns the calling customer's own orders.
func (s *OrderService) ListMine(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orders.ByCustomer(ctx, userID)
}

// Get returns one order. Customers may only see their own orders; admins
// may see any.
func (s *OrderService) Get(ctx context.Context, id string, caller middleware.Identity) (models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	if caller.Role != models.RoleAdmin && order.Customer.Hex() != caller.UserID {
		return models.Order{}, ErrForbidden
	}
	return order, nil
}

// UpdateStatus moves an order through its lifecycle. Only admissible
// transitions are allowed; cancelling a live order returns its stock to the
// catalogue.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, next models.OrderStatus) (models.Order, error) {
	if !models.ValidStatus(next) {
		return models.Order{}, ErrInvalidStatus
	}

	current, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	if !models.CanTransition(current.Status, next) {
		return models.Order{}, ErrInvalidTransition
	}

	// The update matches on the status we just read. A concurrent transition
	// makes it miss, so two racing cancels can never both restore stock.
	updated, err := s.orders.UpdateStatus(ctx, id, current.Status, next)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.Order{}, ErrInvalidTransition
	}
	if err != nil {
		return models.Order{}, err
	}

	if next == models.StatusCancelled {
		s.restoreStock(ctx, updated)
	}

	event.FireAsync(event.OrderStatusChanged, updated)
	return updated, nil
}

// Delete removes an order permanently (admin only, wired at the route).
func (s *OrderService) Delete(ctx context.Context, id string) error {
	return s.orders.Delete(ctx, id)
}

// Stats returns order aggregates for the admin dashboard.
func (s *OrderService) Stats(ctx context.Context) (repositories.OrderStats, error) {
	return s.orders.Stats(ctx)
}

func (s *OrderService) restoreStock(ctx context.Context, order models.Order) {
	for _, line := range order.Items {
		if line.BookID.IsZero() {
			continue
		}
		if err := s.books.IncrementStock(ctx, line.BookID.Hex(), line.Quantity); err != nil {
			logger.Error("orders: restore stock failed",
				"order", order.OrderNumber, "book", line.BookID.Hex(), "error", err)
		}
	}
}
