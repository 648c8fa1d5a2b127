package services

import (
	"context"

	"github.com/granthkosh/granthkosh/app/models"
	"github.com/granthkosh/granthkosh/app/repositories"
)

// DashboardStats is the combined admin dashboard payload.
type DashboardStats struct {
	Catalog repositories.CatalogStats `json:"catalog"`
	Orders  repositories.OrderStats   `json:"orders"`
	Users   int64                     `json:"users"`
}

// UserService serves the admin account management surface.
type UserService struct {
	users  UserRepo
	orders OrderRepo
	books  BookRepo
}

// NewUserService wires the service to its repositories.
func NewUserService(users UserRepo, orders OrderRepo, books BookRepo) *UserService {
	return &UserService{users: users, orders: orders, books: books}
}

// ListWithOrders returns every account annotated with how many orders it
// has placed.
func (s *UserService) ListWithOrders(ctx context.Context) ([]models.UserWithOrders, error) {
	users, err := s.users.All(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.orders.CountsByCustomer(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.UserWithOrders, 0, len(users))
	for _, u := range users {
		out = append(out, models.UserWithOrders{
			ID:          u.ID,
			Name:        u.Name,
			Email:       u.Email,
			Role:        u.Role,
			CreatedAt:   u.CreatedAt,
			OrdersCount: counts[u.ID],
		})
	}
	return out, nil
}

// UpdateRole changes an account's role. Admins cannot change their own
// role, which keeps at least one admin in the system.
func (s *UserService) UpdateRole(ctx context.Context, id, role, actorID string) (models.User, error) {
	if role != models.RoleUser && role != models.RoleAdmin {
		return models.User{}, ErrInvalidRole
	}
	if id == actorID {
		return models.User{}, ErrForbidden
	}
	return s.users.UpdateRole(ctx, id, role)
}

// Delete removes an account. Admins cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, id, actorID string) error {
	if id == actorID {
		return ErrForbidden
	}
	return s.users.Delete(ctx, id)
}

// DashboardStats aggregates catalogue, order and account numbers for the
// admin dashboard.
func (s *UserService) DashboardStats(ctx context.Context) (DashboardStats, error) {
	catalog, err := s.books.Stats(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	orders, err := s.orders.Stats(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	users, err := s.users.Count(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	return DashboardStats{Catalog: catalog, Orders: orders, Users: users}, nil
}
