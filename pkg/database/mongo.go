// Package database owns the MongoDB connection used by the repositories.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/granthkosh/granthkosh/config"
)

var (
	client *mongo.Client
	db     *mongo.Database
)

// Connect opens the Mongo client, verifies it with a ping, and selects the
// application database.
func Connect(ctx context.Context) error {
	clientOpts := options.Client().ApplyURI(config.MongoURI()).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(25)

	c, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return fmt.Errorf("database: connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx, nil); err != nil {
		_ = c.Disconnect(context.Background())
		return fmt.Errorf("database: ping: %w", err)
	}

	client = c
	db = c.Database(config.MongoDB())
	return nil
}

// DB returns the selected application database. Connect must have run.
func DB() *mongo.Database {
	if db == nil {
		panic("database: Connect has not been called")
	}
	return db
}

// Collection is shorthand for DB().Collection(name).
func Collection(name string) *mongo.Collection {
	return DB().Collection(name)
}

// Disconnect closes the client. Called on shutdown.
func Disconnect(ctx context.Context) error {
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}
