// Package repositories contains the MongoDB persistence layer. Each
// repository owns one collection and returns the sentinel errors from
// errors.go so callers never see driver internals.
package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/granthkosh/granthkosh/app/models"
)

// BookFilter narrows the catalogue listing. Nil price bounds are ignored.
type BookFilter struct {
	Category string
	Search   string
	MinPrice *float64
	MaxPrice *float64
}

// CatalogStats are the aggregates behind the admin dashboard cards.
type CatalogStats struct {
	TotalBooks int64   `bson:"totalBooks" json:"totalBooks"`
	TotalStock int64   `bson:"totalStock" json:"totalStock"`
	TotalValue float64 `bson:"totalValue" json:"totalValue"`
}

// BookRepository handles the books collection.
type BookRepository struct {
	col *mongo.Collection
}

// NewBookRepository creates the repository over the given database.
func NewBookRepository(db *mongo.Database) *BookRepository {
	return &BookRepository{col: db.Collection("books")}
}

// EnsureIndexes creates the indexes the listing queries rely on.
func (r *BookRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
	})
	return err
}

// All returns books matching the filter, newest first. Search is a
// case-insensitive title match.
func (r *BookRepository) All(ctx context.Context, f BookFilter) ([]models.Book, error) {
	query := bson.M{}
	if f.Category != "" {
		query["category"] = f.Category
	}
	if f.Search != "" {
		query["title"] = bson.M{"$regex": f.Search, "$options": "i"}
	}
	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		query["price"] = price
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("books: find: %w", err)
	}
	defer cur.Close(ctx)

	books := []models.Book{}
	if err := cur.All(ctx, &books); err != nil {
		return nil, fmt.Errorf("books: decode: %w", err)
	}
	return books, nil
}

// FindByID returns one book, or ErrNotFound.
func (r *BookRepository) FindByID(ctx context.Context, id string) (models.Book, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Book{}, ErrNotFound
	}

	var book models.Book
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&book)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Book{}, ErrNotFound
	}
	if err != nil {
		return models.Book{}, fmt.Errorf("books: find by id: %w", err)
	}
	return book, nil
}

// Create inserts a new book and fills in its ID and timestamps.
func (r *BookRepository) Create(ctx context.Context, book *models.Book) error {
	now := time.Now().UTC()
	book.CreatedAt = now
	book.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, book)
	if err != nil {
		return fmt.Errorf("books: insert: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		book.ID = oid
	}
	return nil
}

// Update replaces the mutable fields of an existing book.
func (r *BookRepository) Update(ctx context.Context, book *models.Book) error {
	book.UpdatedAt = time.Now().UTC()

	res, err := r.col.UpdateByID(ctx, book.ID, bson.M{"$set": bson.M{
		"title":         book.Title,
		"author":        book.Author,
		"description":   book.Description,
		"category":      book.Category,
		"price":         book.Price,
		"discountPrice": book.DiscountPrice,
		"stock":         book.Stock,
		"image":         book.Image,
		"updatedAt":     book.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("books: update: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetImage updates only the cover image URL.
func (r *BookRepository) SetImage(ctx context.Context, id, url string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := r.col.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"image":     url,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("books: set image: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a book permanently.
func (r *BookRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("books: delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DecrementStock atomically takes qty units off a book's stock. The filter
// requires stock >= qty, so the decrement either fully succeeds or reports
// ErrInsufficientStock (ErrNotFound when the book is gone).
func (r *BookRepository) DecrementStock(ctx context.Context, id string, qty int) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "stock": bson.M{"$gte": qty}},
		bson.M{"$inc": bson.M{"stock": -qty}},
	)
	if err != nil {
		return fmt.Errorf("books: decrement stock: %w", err)
	}
	if res.MatchedCount == 0 {
		if n, err := r.col.CountDocuments(ctx, bson.M{"_id": oid}); err == nil && n == 0 {
			return ErrNotFound
		}
		return ErrInsufficientStock
	}
	return nil
}

// IncrementStock returns qty units to a book's stock (cancellation release).
func (r *BookRepository) IncrementStock(ctx context.Context, id string, qty int) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	_, err = r.col.UpdateByID(ctx, oid, bson.M{"$inc": bson.M{"stock": qty}})
	if err != nil {
		return fmt.Errorf("books: increment stock: %w", err)
	}
	return nil
}

// Stats aggregates catalogue totals for the admin dashboard.
func (r *BookRepository) Stats(ctx context.Context) (CatalogStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":        nil,
			"totalBooks": bson.M{"$sum": 1},
			"totalStock": bson.M{"$sum": "$stock"},
			"totalValue": bson.M{"$sum": bson.M{"$multiply": bson.A{"$price", "$stock"}}},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return CatalogStats{}, fmt.Errorf("books: stats: %w", err)
	}
	defer cur.Close(ctx)

	var rows []CatalogStats
	if err := cur.All(ctx, &rows); err != nil {
		return CatalogStats{}, fmt.Errorf("books: stats decode: %w", err)
	}
	if len(rows) == 0 {
		return CatalogStats{}, nil
	}
	return rows[0], nil
}
