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
	"github.com/granthkosh/granthkosh/pkg/auth"
	"github.com/granthkosh/granthkosh/pkg/event"
)

func TestRegisterHappyPath(t *testing.T) {
	event.Flush()
	users := new(mockUserRepo)
	svc := NewAuthService(users)

	users.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).
		Run(func(args mock.Arguments) {
			u := args.Get(1).(*models.User)
			u.ID = primitive.NewObjectID()
		}).
		Return(nil)

	user, pair, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Asha",
		Email:    "Asha@Example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	assert.Equal(t, "asha@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "secret123", user.Password)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestRegisterValidation(t *testing.T) {
	svc := NewAuthService(new(mockUserRepo))

	_, _, err := svc.Register(context.Background(), RegisterInput{Email: "bad"})
	ve, ok := AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "name")
	assert.Contains(t, ve.Fields, "email")
	assert.Contains(t, ve.Fields, "password")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	event.Flush()
	users := new(mockUserRepo)
	svc := NewAuthService(users)

	users.On("Create", mock.Anything, mock.Anything).Return(repositories.ErrDuplicateKey)

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginHappyPath(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewAuthService(users)

	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)
	stored := models.User{
		ID:       primitive.NewObjectID(),
		Email:    "asha@example.com",
		Password: hash,
		Role:     models.RoleUser,
	}
	users.On("FindByEmail", mock.Anything, "asha@example.com").Return(stored, nil)

	user, pair, err := svc.Login(context.Background(), LoginInput{
		Email:    "asha@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, stored.ID, user.ID)

	claims, err := auth.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, stored.ID.Hex(), claims.UserID)
}

func TestLoginUnknownEmail(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewAuthService(users)

	users.On("FindByEmail", mock.Anything, "ghost@example.com").
		Return(models.User{}, repositories.ErrNotFound)

	_, _, err := svc.Login(context.Background(), LoginInput{
		Email:    "ghost@example.com",
		Password: "whatever1",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginWrongPassword(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewAuthService(users)

	hash, err := auth.HashPassword("correct-horse")
	require.NoError(t, err)
	users.On("FindByEmail", mock.Anything, "asha@example.com").
		Return(models.User{ID: primitive.NewObjectID(), Email: "asha@example.com", Password: hash}, nil)

	_, _, err = svc.Login(context.Background(), LoginInput{
		Email:    "asha@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshReloadsRole(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewAuthService(users)

	id := primitive.NewObjectID()
	refresh, err := auth.GenerateRefreshToken(id.Hex(), models.RoleUser)
	require.NoError(t, err)

	// Promoted to admin since the refresh token was issued.
	users.On("FindByID", mock.Anything, id.Hex()).
		Return(models.User{ID: id, Role: models.RoleAdmin}, nil)

	pair, err := svc.Refresh(context.Background(), refresh)
	require.NoError(t, err)

	claims, err := auth.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	svc := NewAuthService(new(mockUserRepo))

	_, err := svc.Refresh(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
