package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/granthkosh/granthkosh/app/models"
	"github.com/granthkosh/granthkosh/app/repositories"
)

type mockBookRepo struct{ mock.Mock }

func (m *mockBookRepo) All(ctx context.Context, f repositories.BookFilter) ([]models.Book, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *mockBookRepo) FindByID(ctx context.Context, id string) (models.Book, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Book), args.Error(1)
}

func (m *mockBookRepo) Create(ctx context.Context, book *models.Book) error {
	return m.Called(ctx, book).Error(0)
}

func (m *mockBookRepo) Update(ctx context.Context, book *models.Book) error {
	return m.Called(ctx, book).Error(0)
}

func (m *mockBookRepo) SetImage(ctx context.Context, id, url string) error {
	return m.Called(ctx, id, url).Error(0)
}

func (m *mockBookRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockBookRepo) DecrementStock(ctx context.Context, id string, qty int) error {
	return m.Called(ctx, id, qty).Error(0)
}

func (m *mockBookRepo) IncrementStock(ctx context.Context, id string, qty int) error {
	return m.Called(ctx, id, qty).Error(0)
}

func (m *mockBookRepo) Stats(ctx context.Context) (repositories.CatalogStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(repositories.CatalogStats), args.Error(1)
}

type mockOrderRepo struct{ mock.Mock }

func (m *mockOrderRepo) NextOrderNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockOrderRepo) Insert(ctx context.Context, order *models.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *mockOrderRepo) All(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *mockOrderRepo) ByCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *mockOrderRepo) FindByID(ctx context.Context, id string) (models.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Order), args.Error(1)
}

func (m *mockOrderRepo) UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus) (models.Order, error) {
	args := m.Called(ctx, id, from, to)
	return args.Get(0).(models.Order), args.Error(1)
}

func (m *mockOrderRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockOrderRepo) CountsByCustomer(ctx context.Context) (map[primitive.ObjectID]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[primitive.ObjectID]int64), args.Error(1)
}

func (m *mockOrderRepo) Stats(ctx context.Context) (repositories.OrderStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(repositories.OrderStats), args.Error(1)
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (models.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *mockUserRepo) All(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *mockUserRepo) UpdateRole(ctx context.Context, id, role string) (models.User, error) {
	args := m.Called(ctx, id, role)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
