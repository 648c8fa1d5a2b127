// Package seeders fills an empty database with a usable starting state: an
// admin account and a sample catalogue. Run via `granthkosh seed`.
package seeders

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
)

// SeederFunc is the signature for one seed step.
type SeederFunc func(ctx context.Context, db *mongo.Database) error

type entry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []entry
)

// Register adds a seeder to the registry. Called from init() in the files
// of this package.
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, entry{name: name, fn: fn})
}

// RunAll executes every registered seeder in registration order, stopping
// at the first error.
func RunAll(ctx context.Context, db *mongo.Database) error {
	mu.Lock()
	current := make([]entry, len(entries))
	copy(current, entries)
	mu.Unlock()

	for _, e := range current {
		fmt.Printf("  • seeding %s ... ", e.name)
		if err := e.fn(ctx, db); err != nil {
			fmt.Println("failed")
			return fmt.Errorf("seeder %s: %w", e.name, err)
		}
		fmt.Println("done")
	}
	return nil
}
