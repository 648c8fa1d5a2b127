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
)

func TestListWithOrdersMergesCounts(t *testing.T) {
	users := new(mockUserRepo)
	orders := new(mockOrderRepo)
	svc := NewUserService(users, orders, new(mockBookRepo))

	buyer := models.User{ID: primitive.NewObjectID(), Name: "Asha", Role: models.RoleUser}
	browser := models.User{ID: primitive.NewObjectID(), Name: "Ravi", Role: models.RoleUser}

	users.On("All", mock.Anything).Return([]models.User{buyer, browser}, nil)
	orders.On("CountsByCustomer", mock.Anything).
		Return(map[primitive.ObjectID]int64{buyer.ID: 3}, nil)

	rows, err := svc.ListWithOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(3), rows[0].OrdersCount)
	assert.Equal(t, int64(0), rows[1].OrdersCount)
}

func TestUpdateRoleValidatesRole(t *testing.T) {
	svc := NewUserService(new(mockUserRepo), new(mockOrderRepo), new(mockBookRepo))

	_, err := svc.UpdateRole(context.Background(), "target", "superuser", "actor")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestUpdateRoleForbidsSelfChange(t *testing.T) {
	svc := NewUserService(new(mockUserRepo), new(mockOrderRepo), new(mockBookRepo))

	_, err := svc.UpdateRole(context.Background(), "same-id", models.RoleUser, "same-id")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateRolePromotes(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewUserService(users, new(mockOrderRepo), new(mockBookRepo))

	target := primitive.NewObjectID()
	users.On("UpdateRole", mock.Anything, target.Hex(), models.RoleAdmin).
		Return(models.User{ID: target, Role: models.RoleAdmin}, nil)

	user, err := svc.UpdateRole(context.Background(), target.Hex(), models.RoleAdmin, "someone-else")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
}

func TestDeleteForbidsSelf(t *testing.T) {
	svc := NewUserService(new(mockUserRepo), new(mockOrderRepo), new(mockBookRepo))
	assert.ErrorIs(t, svc.Delete(context.Background(), "me", "me"), ErrForbidden)
}

func TestDashboardStats(t *testing.T) {
	users := new(mockUserRepo)
	orders := new(mockOrderRepo)
	books := new(mockBookRepo)
	svc := NewUserService(users, orders, books)

	books.On("Stats", mock.Anything).
		Return(repositories.CatalogStats{TotalBooks: 12, TotalStock: 300, TotalValue: 4500}, nil)
	orders.On("Stats", mock.Anything).
		Return(repositories.OrderStats{TotalOrders: 8, TotalRevenue: 612.40, PendingOrders: 2}, nil)
	users.On("Count", mock.Anything).Return(int64(5), nil)

	stats, err := svc.DashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), stats.Catalog.TotalBooks)
	assert.Equal(t, int64(8), stats.Orders.TotalOrders)
	assert.Equal(t, int64(5), stats.Users)
}
