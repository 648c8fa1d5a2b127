package seeders

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/granthkosh/granthkosh/app/models"
	"github.com/granthkosh/granthkosh/config"
	"github.com/granthkosh/granthkosh/pkg/auth"
)

func init() {
	Register("admin user", seedAdmin)
}

// seedAdmin creates the initial admin account if none exists. Credentials
// come from ADMIN_EMAIL / ADMIN_PASSWORD, with local-only defaults.
func seedAdmin(ctx context.Context, db *mongo.Database) error {
	users := db.Collection("users")

	email := config.Get("ADMIN_EMAIL", "admin@granthkosh.local")
	err := users.FindOne(ctx, bson.M{"email": email}).Err()
	if err == nil {
		return nil // already seeded
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	hash, err := auth.HashPassword(config.Get("ADMIN_PASSWORD", "admin123"))
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = users.InsertOne(ctx, models.User{
		Name:      "Administrator",
		Email:     email,
		Password:  hash,
		Role:      models.RoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	})
	return err
}
