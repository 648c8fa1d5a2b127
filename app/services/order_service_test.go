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
	"github.com/granthkosh/granthkosh/pkg/event"
	"github.com/granthkosh/granthkosh/pkg/middleware"
)

func pendingOrder(customer primitive.ObjectID) models.Order {
	return models.Order{
		ID:          primitive.NewObjectID(),
		OrderNumber: "ORD-20260830-000010",
		Customer:    customer,
		Status:      models.StatusPending,
		Items: []models.OrderItem{
			{BookID: primitive.NewObjectID(), Title: "Dune", Quantity: 2, Price: 18.50},
		},
	}
}

func TestGetOwnerSeesOwnOrder(t *testing.T) {
	orders := new(mockOrderRepo)
	svc := NewOrderService(orders, new(mockBookRepo))

	customer := primitive.NewObjectID()
	order := pendingOrder(customer)
	orders.On("FindByID", mock.Anything, order.ID.Hex()).Return(order, nil)

	got, err := svc.Get(context.Background(), order.ID.Hex(),
		middleware.Identity{UserID: customer.Hex(), Role: models.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, got.OrderNumber)
}

func TestGetStrangerIsForbidden(t *testing.T) {
	orders := new(mockOrderRepo)
	svc := NewOrderService(orders, new(mockBookRepo))

	order := pendingOrder(primitive.NewObjectID())
	orders.On("FindByID", mock.Anything, order.ID.Hex()).Return(order, nil)

	_, err := svc.Get(context.Background(), order.ID.Hex(),
		middleware.Identity{UserID: primitive.NewObjectID().Hex(), Role: models.RoleUser})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGetAdminSeesAnyOrder(t *testing.T) {
	orders := new(mockOrderRepo)
	svc := NewOrderService(orders, new(mockBookRepo))

	order := pendingOrder(primitive.NewObjectID())
	orders.On("FindByID", mock.Anything, order.ID.Hex()).Return(order, nil)

	_, err := svc.Get(context.Background(), order.ID.Hex(),
		middleware.Identity{UserID: primitive.NewObjectID().Hex(), Role: models.RoleAdmin})
	assert.NoError(t, err)
}

func TestUpdateStatusUnknownStatus(t *testing.T) {
	svc := NewOrderService(new(mockOrderRepo), new(mockBookRepo))

	_, err := svc.UpdateStatus(context.Background(), primitive.NewObjectID().Hex(), "Teleported")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateStatusRejectsBadTransition(t *testing.T) {
	event.Flush()
	orders := new(mockOrderRepo)
	svc := NewOrderService(orders, new(mockBookRepo))

	order := pendingOrder(primitive.NewObjectID())
	order.Status = models.StatusShipped
	orders.On("FindByID", mock.Anything, order.ID.Hex()).Return(order, nil)

	_, err := svc.UpdateStatus(context.Background(), order.ID.Hex(), models.StatusPending)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStatusTerminalStatesAreFrozen(t *testing.T) {
	event.Flush()
	orders := new(mockOrderRepo)
	svc := NewOrderService(orders, new(mockBookRepo))

	for _, terminal := range []models.OrderStatus{models.StatusDelivered, models.StatusCancelled} {
		order := pendingOrder(primitive.NewObjectID())
		order.Status = terminal
		orders.On("FindByID", mock.Anything, order.ID.Hex()).Return(order, nil)

		_, err := svc.UpdateStatus(context.Background(), order.ID.Hex(), models.StatusProcessing)
		assert.ErrorIs(t, err, ErrInvalidTransition, "from %s", terminal)
	}
}

func TestUpdateStatusHappyPath(t *testing.T) {
	event.Flush()
	orders := new(mockOrderRepo)
	svc := NewOrderService(orders, new(mockBookRepo))

	order := pendingOrder(primitive.NewObjectID())
	updated := order
	updated.Status = models.StatusProcessing

	orders.On("FindByID", mock.Anything, order.ID.Hex()).Return(order, nil)
	orders.On("UpdateStatus", mock.Anything, order.ID.Hex(), models.StatusPending, models.StatusProcessing).Return(updated, nil)

	got, err := svc.UpdateStatus(context.Background(), order.ID.Hex(), models.StatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, got.Status)
}

func TestUpdateStatusCancelRestoresStock(t *testing.T) {
	event.Flush()
	orders := new(mockOrderRepo)
	books := new(mockBookRepo)
	svc := NewOrderService(orders, books)

	order := pendingOrder(primitive.NewObjectID())
	cancelled := order
	cancelled.Status = models.StatusCancelled

	orders.On("FindByID", mock.Anything, order.ID.Hex()).Return(order, nil)
	orders.On("UpdateStatus", mock.Anything, order.ID.Hex(), models.StatusPending, models.StatusCancelled).Return(cancelled, nil)
	books.On("IncrementStock", mock.Anything, order.Items[0].BookID.Hex(), 2).Return(nil)

	_, err := svc.UpdateStatus(context.Background(), order.ID.Hex(), models.StatusCancelled)
	require.NoError(t, err)
	books.AssertExpectations(t)
}

func TestUpdateStatusConcurrentCancelRestoresStockOnce(t *testing.T) {
	event.Flush()
	orders := new(mockOrderRepo)
	books := new(mockBookRepo)
	svc := NewOrderService(orders, books)

	order := pendingOrder(primitive.NewObjectID())
	cancelled := order
	cancelled.Status = models.StatusCancelled

	// Both callers read Pending, but only the first conditional update
	// matches; the loser sees a miss from the repository.
	orders.On("FindByID", mock.Anything, order.ID.Hex()).Return(order, nil)
	orders.On("UpdateStatus", mock.Anything, order.ID.Hex(), models.StatusPending, models.StatusCancelled).
		Return(cancelled, nil).Once()
	orders.On("UpdateStatus", mock.Anything, order.ID.Hex(), models.StatusPending, models.StatusCancelled).
		Return(models.Order{}, repositories.ErrNotFound).Once()
	books.On("IncrementStock", mock.Anything, order.Items[0].BookID.Hex(), 2).Return(nil)

	_, err := svc.UpdateStatus(context.Background(), order.ID.Hex(), models.StatusCancelled)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), order.ID.Hex(), models.StatusCancelled)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	books.AssertNumberOfCalls(t, "IncrementStock", 1)
}

func TestListMineReturnsOnlyCallersOrders(t *testing.T) {
	orders := new(mockOrderRepo)
	svc := NewOrderService(orders, new(mockBookRepo))

	alice := primitive.NewObjectID()
	mine := []models.Order{pendingOrder(alice)}
	orders.On("ByCustomer", mock.Anything, alice.Hex()).Return(mine, nil)

	got, err := svc.ListMine(context.Background(), alice.Hex())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, alice, got[0].Customer)
	orders.AssertCalled(t, "ByCustomer", mock.Anything, alice.Hex())
}

func TestListMineEmptyForCustomerWithoutOrders(t *testing.T) {
	orders := new(mockOrderRepo)
	svc := NewOrderService(orders, new(mockBookRepo))

	bob := primitive.NewObjectID()
	orders.On("ByCustomer", mock.Anything, bob.Hex()).Return([]models.Order{}, nil)

	got, err := svc.ListMine(context.Background(), bob.Hex())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUpdateStatusMissingOrder(t *testing.T) {
	orders := new(mockOrderRepo)
	svc := NewOrderService(orders, new(mockBookRepo))

	id := primitive.NewObjectID().Hex()
	orders.On("FindByID", mock.Anything, id).Return(models.Order{}, repositories.ErrNotFound)

	_, err := svc.UpdateStatus(context.Background(), id, models.StatusProcessing)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
