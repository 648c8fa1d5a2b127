package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/granthkosh/granthkosh/app/models"
	"github.com/granthkosh/granthkosh/app/repositories"
	"github.com/granthkosh/granthkosh/pkg/cart"
	"github.com/granthkosh/granthkosh/pkg/event"
)

var validShipping = models.ShippingAddress{
	Email:     "asha@example.com",
	FirstName: "Asha",
	LastName:  "Verma",
	Address:   "12 Library Lane",
	City:      "Pune",
	ZipCode:   "411001",
}

func newTestCart(t *testing.T, books ...struct {
	book models.Book
	qty  int
}) *cart.Holder {
	t.Helper()
	h := cart.NewHolder(cart.NewMemoryStore(), "customer")
	for _, b := range books {
		_, err := h.Add(context.Background(), b.book, b.qty)
		require.NoError(t, err)
	}
	return h
}

func cartWith(t *testing.T, book models.Book, qty int) *cart.Holder {
	return newTestCart(t, struct {
		book models.Book
		qty  int
	}{book, qty})
}

func TestCheckoutEmptyCart(t *testing.T) {
	event.Flush()
	svc := NewCheckoutService(new(mockOrderRepo), new(mockBookRepo))
	holder := cart.NewHolder(cart.NewMemoryStore(), "customer")

	_, err := svc.Checkout(context.Background(), primitive.NewObjectID().Hex(), holder, validShipping)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutInvalidShipping(t *testing.T) {
	event.Flush()
	svc := NewCheckoutService(new(mockOrderRepo), new(mockBookRepo))
	book := models.Book{ID: primitive.NewObjectID(), Title: "Dune", Price: 18.50, Stock: 5}
	holder := cartWith(t, book, 1)

	bad := validShipping
	bad.Email = "not-an-email"

	_, err := svc.Checkout(context.Background(), primitive.NewObjectID().Hex(), holder, bad)
	ve, ok := AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "email")
}

func TestCheckoutComputesTotalsServerSide(t *testing.T) {
	event.Flush()
	books := new(mockBookRepo)
	orders := new(mockOrderRepo)
	svc := NewCheckoutService(orders, books)

	book := models.Book{ID: primitive.NewObjectID(), Title: "Dune", Author: "Frank Herbert", Price: 25.50, Stock: 10}
	holder := cartWith(t, book, 1)
	customer := primitive.NewObjectID()

	books.On("FindByID", mock.Anything, book.ID.Hex()).Return(book, nil)
	books.On("DecrementStock", mock.Anything, book.ID.Hex(), 1).Return(nil)
	orders.On("NextOrderNumber", mock.Anything).Return("ORD-20260830-000001", nil)
	orders.On("Insert", mock.Anything, mock.AnythingOfType("*models.Order")).Return(nil)

	order, err := svc.Checkout(context.Background(), customer.Hex(), holder, validShipping)
	require.NoError(t, err)

	assert.Equal(t, "ORD-20260830-000001", order.OrderNumber)
	assert.Equal(t, customer, order.Customer)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, 25.50, order.Subtotal)
	assert.Equal(t, 5.0, order.ShippingFee)
	assert.Equal(t, 2.55, order.Taxes)
	assert.Equal(t, 33.05, order.Total)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Dune", order.Items[0].Title)

	// Cart is cleared after a successful checkout.
	assert.Empty(t, holder.Items(context.Background()))

	books.AssertExpectations(t)
	orders.AssertExpectations(t)
}

func TestCheckoutUsesCataloguePriceOverCartSnapshot(t *testing.T) {
	event.Flush()
	books := new(mockBookRepo)
	orders := new(mockOrderRepo)
	svc := NewCheckoutService(orders, books)

	stale := models.Book{ID: primitive.NewObjectID(), Title: "Dune", Price: 18.50, Stock: 10}
	holder := cartWith(t, stale, 2)

	// Price changed after the book went into the cart.
	current := stale
	current.Price = 20.00
	books.On("FindByID", mock.Anything, stale.ID.Hex()).Return(current, nil)
	books.On("DecrementStock", mock.Anything, stale.ID.Hex(), 2).Return(nil)
	orders.On("NextOrderNumber", mock.Anything).Return("ORD-20260830-000002", nil)
	orders.On("Insert", mock.Anything, mock.AnythingOfType("*models.Order")).Return(nil)

	order, err := svc.Checkout(context.Background(), primitive.NewObjectID().Hex(), holder, validShipping)
	require.NoError(t, err)

	assert.Equal(t, 20.00, order.Items[0].Price)
	assert.Equal(t, 40.00, order.Subtotal)
}

func TestCheckoutInsufficientStockRollsBackReservations(t *testing.T) {
	event.Flush()
	books := new(mockBookRepo)
	orders := new(mockOrderRepo)
	svc := NewCheckoutService(orders, books)

	first := models.Book{ID: primitive.NewObjectID(), Title: "Dune", Price: 18.50, Stock: 10}
	second := models.Book{ID: primitive.NewObjectID(), Title: "Sapiens", Price: 21.00, Stock: 0}
	holder := newTestCart(t,
		struct {
			book models.Book
			qty  int
		}{first, 1},
		struct {
			book models.Book
			qty  int
		}{second, 3},
	)

	books.On("FindByID", mock.Anything, first.ID.Hex()).Return(first, nil)
	books.On("FindByID", mock.Anything, second.ID.Hex()).Return(second, nil)
	books.On("DecrementStock", mock.Anything, first.ID.Hex(), 1).Return(nil)
	books.On("DecrementStock", mock.Anything, second.ID.Hex(), 3).Return(repositories.ErrInsufficientStock)
	books.On("IncrementStock", mock.Anything, first.ID.Hex(), 1).Return(nil)

	_, err := svc.Checkout(context.Background(), primitive.NewObjectID().Hex(), holder, validShipping)
	ve, ok := AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields["items"], "Sapiens")

	// The first reservation was released, no order was written, and the
	// cart is untouched.
	books.AssertCalled(t, "IncrementStock", mock.Anything, first.ID.Hex(), 1)
	orders.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	assert.Len(t, holder.Items(context.Background()), 2)
}

func TestCheckoutVanishedBookFailsValidation(t *testing.T) {
	event.Flush()
	books := new(mockBookRepo)
	orders := new(mockOrderRepo)
	svc := NewCheckoutService(orders, books)

	ghost := models.Book{ID: primitive.NewObjectID(), Title: "Removed Title", Price: 9.99}
	holder := cartWith(t, ghost, 1)

	books.On("FindByID", mock.Anything, ghost.ID.Hex()).Return(models.Book{}, repositories.ErrNotFound)

	_, err := svc.Checkout(context.Background(), primitive.NewObjectID().Hex(), holder, validShipping)
	ve, ok := AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields["items"], "Removed Title")
	orders.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCheckoutInsertFailureReleasesStock(t *testing.T) {
	event.Flush()
	books := new(mockBookRepo)
	orders := new(mockOrderRepo)
	svc := NewCheckoutService(orders, books)

	book := models.Book{ID: primitive.NewObjectID(), Title: "Dune", Price: 18.50, Stock: 10}
	holder := cartWith(t, book, 2)

	books.On("FindByID", mock.Anything, book.ID.Hex()).Return(book, nil)
	books.On("DecrementStock", mock.Anything, book.ID.Hex(), 2).Return(nil)
	books.On("IncrementStock", mock.Anything, book.ID.Hex(), 2).Return(nil)
	orders.On("NextOrderNumber", mock.Anything).Return("ORD-20260830-000003", nil)
	orders.On("Insert", mock.Anything, mock.AnythingOfType("*models.Order")).Return(assert.AnError)

	_, err := svc.Checkout(context.Background(), primitive.NewObjectID().Hex(), holder, validShipping)
	require.Error(t, err)
	books.AssertCalled(t, "IncrementStock", mock.Anything, book.ID.Hex(), 2)
}
