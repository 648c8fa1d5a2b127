package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/granthkosh/granthkosh/app/models"
	"github.com/granthkosh/granthkosh/app/repositories"
	"github.com/granthkosh/granthkosh/config"
	"github.com/granthkosh/granthkosh/pkg/cart"
	"github.com/granthkosh/granthkosh/pkg/event"
	"github.com/granthkosh/granthkosh/pkg/logger"
	"github.com/granthkosh/granthkosh/pkg/metrics"
	"github.com/granthkosh/granthkosh/pkg/validate"
)

// OrderRepo is the slice of the order repository the checkout, order and
// user services need.
type OrderRepo interface {
	NextOrderNumber(ctx context.Context) (string, error)
	Insert(ctx context.Context, order *models.Order) error
	All(ctx context.Context) ([]models.Order, error)
	ByCustomer(ctx context.Context, customerID string) ([]models.Order, error)
	FindByID(ctx context.Context, id string) (models.Order, error)
	UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus) (models.Order, error)
	Delete(ctx context.Context, id string) error
	CountsByCustomer(ctx context.Context) (map[primitive.ObjectID]int64, error)
	Stats(ctx context.Context) (repositories.OrderStats, error)
}

// CheckoutService turns a cart plus a shipping address into a stored order.
// Prices and totals are recomputed from the catalogue, never trusted from
// the client's cart snapshot, and stock is reserved before the order is
// written.
type CheckoutService struct {
	orders OrderRepo
	books  BookRepo
}

// NewCheckoutService wires the service to its repositories.
func NewCheckoutService(orders OrderRepo, books BookRepo) *CheckoutService {
	return &CheckoutService{orders: orders, books: books}
}

// Checkout places an order for the given user's cart. On success the cart
// is cleared. Any stock shortfall rolls back every reservation already made
// and fails the whole checkout.
func (s *CheckoutService) Checkout(ctx context.Context, userID string, holder *cart.Holder, shipping models.ShippingAddress) (models.Order, error) {
	items := holder.Items(ctx)
	if len(items) == 0 {
		return models.Order{}, ErrEmptyCart
	}

	if errs := validate.Struct(shipping); validate.HasErrors(errs) {
		return models.Order{}, NewValidationError(errs)
	}

	customer, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return models.Order{}, ErrForbidden
	}

	lines, subtotal, err := s.priceItems(ctx, items)
	if err != nil {
		return models.Order{}, err
	}

	if err := s.reserveStock(ctx, lines); err != nil {
		return models.Order{}, err
	}

	number, err := s.orders.NextOrderNumber(ctx)
	if err != nil {
		s.releaseStock(ctx, lines)
		return models.Order{}, err
	}

	shippingFee := config.ShippingFlatRate()
	taxes := roundCents(subtotal * config.TaxRate())

	order := models.Order{
		OrderNumber: number,
		Customer:    customer,
		Items:       lines,
		Shipping:    shipping,
		Subtotal:    roundCents(subtotal),
		ShippingFee: shippingFee,
		Taxes:       taxes,
		Total:       roundCents(subtotal + shippingFee + taxes),
		Status:      models.StatusPending,
	}
	if err := s.orders.Insert(ctx, &order); err != nil {
		s.releaseStock(ctx, lines)
		return models.Order{}, err
	}

	if err := holder.Clear(ctx); err != nil {
		// The order stands; a stale cart is an annoyance, not a failure.
		logger.Warn("checkout: clear cart failed", "order", number, "error", err)
	}

	metrics.OrdersCreated.Inc()
	metrics.OrderValue.Add(order.Total)
	event.Fire(event.CartUpdated, userID)
	event.FireAsync(event.OrderCreated, order)
	return order, nil
}

// priceItems reprices every cart line from the catalogue. A cart snapshot
// that drifted from the current price is honoured at the current price and
// logged.
func (s *CheckoutService) priceItems(ctx context.Context, items []cart.Item) ([]models.OrderItem, float64, error) {
	lines := make([]models.OrderItem, 0, len(items))
	var subtotal float64

	for _, it := range items {
		book, err := s.books.FindByID(ctx, it.ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, 0, NewValidationError(map[string]string{
					"items": fmt.Sprintf("%q is no longer available", it.Title),
				})
			}
			return nil, 0, err
		}

		price := book.EffectivePrice()
		if price != it.Price {
			logger.Warn("checkout: cart price drifted, using catalogue price",
				"book", book.ID.Hex(), "cart", it.Price, "catalogue", price)
		}

		lines = append(lines, models.OrderItem{
			BookID:   book.ID,
			Title:    book.Title,
			Author:   book.Author,
			Quantity: it.Quantity,
			Price:    price,
		})
		subtotal += price * float64(it.Quantity)
	}
	return lines, subtotal, nil
}

// reserveStock decrements stock for every line. On a shortfall it releases
// everything reserved so far and reports which title ran out.
func (s *CheckoutService) reserveStock(ctx context.Context, lines []models.OrderItem) error {
	for i, line := range lines {
		err := s.books.DecrementStock(ctx, line.BookID.Hex(), line.Quantity)
		if err == nil {
			continue
		}

		s.releaseStock(ctx, lines[:i])
		if errors.Is(err, repositories.ErrInsufficientStock) {
			metrics.StockRejections.Inc()
			return NewValidationError(map[string]string{
				"items": fmt.Sprintf("not enough stock for %q", line.Title),
			})
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return NewValidationError(map[string]string{
				"items": fmt.Sprintf("%q is no longer available", line.Title),
			})
		}
		return err
	}
	return nil
}

func (s *CheckoutService) releaseStock(ctx context.Context, lines []models.OrderItem) {
	for _, line := range lines {
		if err := s.books.IncrementStock(ctx, line.BookID.Hex(), line.Quantity); err != nil {
			logger.Error("checkout: release stock failed",
				"book", line.BookID.Hex(), "qty", line.Quantity, "error", err)
		}
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
