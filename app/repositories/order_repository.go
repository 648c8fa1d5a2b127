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

// OrderStats are the aggregates behind the admin dashboard order cards.
type OrderStats struct {
	TotalOrders   int64   `bson:"totalOrders" json:"totalOrders"`
	TotalRevenue  float64 `bson:"totalRevenue" json:"totalRevenue"`
	PendingOrders int64   `bson:"pendingOrders" json:"pendingOrders"`
}

// OrderRepository handles the orders collection plus the counters collection
// that backs sequential order numbers.
type OrderRepository struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

// NewOrderRepository creates the repository over the given database.
func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{
		col:      db.Collection("orders"),
		counters: db.Collection("counters"),
	}
}

// EnsureIndexes creates the unique order-number index and the lookup indexes
// used by customer and admin listings.
func (r *OrderRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "orderNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "customer", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	return err
}

// NextOrderNumber reserves the next order number via an atomic counter
// increment. Numbers look like ORD-20260830-000042: date-scoped and unique
// even under concurrent checkouts.
func (r *OrderRepository) NextOrderNumber(ctx context.Context) (string, error) {
	day := time.Now().UTC().Format("20060102")

	res := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "orders-" + day},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	if err := res.Decode(&counter); err != nil {
		return "", fmt.Errorf("orders: next number: %w", err)
	}
	return fmt.Sprintf("ORD-%s-%06d", day, counter.Seq), nil
}

// Insert stores a new order and fills in its ID and timestamps.
func (r *OrderRepository) Insert(ctx context.Context, order *models.Order) error {
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, order)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateKey
	}
	if err != nil {
		return fmt.Errorf("orders: insert: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = oid
	}
	return nil
}

// customerLookup joins the users collection into customerInfo for admin views.
var customerLookup = mongo.Pipeline{
	{{Key: "$lookup", Value: bson.M{
		"from": "users",
		"let":  bson.M{"cust": "$customer"},
		"pipeline": bson.A{
			bson.M{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$_id", "$$cust"}}}},
			bson.M{"$project": bson.M{"name": 1, "email": 1}},
		},
		"as": "customerInfo",
	}}},
	{{Key: "$unwind", Value: bson.M{
		"path":                       "$customerInfo",
		"preserveNullAndEmptyArrays": true,
	}}},
}

// All returns every order newest first, with customer identity joined in.
func (r *OrderRepository) All(ctx context.Context) ([]models.Order, error) {
	pipeline := append(mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
	}, customerLookup...)

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("orders: list: %w", err)
	}
	defer cur.Close(ctx)

	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("orders: decode: %w", err)
	}
	return orders, nil
}

// ByCustomer returns one customer's orders, newest first.
func (r *OrderRepository) ByCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(customerID)
	if err != nil {
		return []models.Order{}, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"customer": oid}, opts)
	if err != nil {
		return nil, fmt.Errorf("orders: by customer: %w", err)
	}
	defer cur.Close(ctx)

	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("orders: decode: %w", err)
	}
	return orders, nil
}

// FindByID returns one order with customer identity joined in, or ErrNotFound.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Order{}, ErrNotFound
	}

	pipeline := append(mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": oid}}},
	}, customerLookup...)

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return models.Order{}, fmt.Errorf("orders: find by id: %w", err)
	}
	defer cur.Close(ctx)

	var orders []models.Order
	if err := cur.All(ctx, &orders); err != nil {
		return models.Order{}, fmt.Errorf("orders: decode: %w", err)
	}
	if len(orders) == 0 {
		return models.Order{}, ErrNotFound
	}
	return orders[0], nil
}

// UpdateStatus moves an order from one status to another and returns the
// updated document. The update matches on the observed status, so a caller
// holding a stale read loses the race and gets ErrNotFound instead of
// overwriting a concurrent transition.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus) (models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Order{}, ErrNotFound
	}

	res := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "status": from},
		bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var order models.Order
	err = res.Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("orders: update status: %w", err)
	}
	return order, nil
}

// Delete removes an order permanently.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("orders: delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CountsByCustomer returns how many orders each customer has placed.
func (r *OrderRepository) CountsByCustomer(ctx context.Context) (map[primitive.ObjectID]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$customer",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("orders: counts by customer: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		ID    primitive.ObjectID `bson:"_id"`
		Count int64              `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("orders: counts decode: %w", err)
	}

	counts := make(map[primitive.ObjectID]int64, len(rows))
	for _, row := range rows {
		counts[row.ID] = row.Count
	}
	return counts, nil
}

// Stats aggregates order totals for the admin dashboard. Cancelled orders
// are excluded from revenue.
func (r *OrderRepository) Stats(ctx context.Context) (OrderStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":         nil,
			"totalOrders": bson.M{"$sum": 1},
			"totalRevenue": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$status", models.StatusCancelled}},
				0,
				"$total",
			}}},
			"pendingOrders": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$status", models.StatusPending}},
				1,
				0,
			}}},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return OrderStats{}, fmt.Errorf("orders: stats: %w", err)
	}
	defer cur.Close(ctx)

	var rows []OrderStats
	if err := cur.All(ctx, &rows); err != nil {
		return OrderStats{}, fmt.Errorf("orders: stats decode: %w", err)
	}
	if len(rows) == 0 {
		return OrderStats{}, nil
	}
	return rows[0], nil
}
