package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the order lifecycle state.
type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

// AllStatuses lists every valid order status.
var AllStatuses = []OrderStatus{
	StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled,
}

// ValidStatus reports whether s is one of the five order statuses.
func ValidStatus(s OrderStatus) bool {
	for _, v := range AllStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// validNext encodes the admissible status transitions. Delivered and
// Cancelled are terminal.
var validNext = map[OrderStatus]map[OrderStatus]bool{
	StatusPending:    {StatusProcessing: true, StatusShipped: true, StatusCancelled: true},
	StatusProcessing: {StatusShipped: true, StatusCancelled: true},
	StatusShipped:    {StatusDelivered: true},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

// OrderItem is a line entry: title/author/price are snapshots taken at
// checkout, so later catalogue edits never alter historical orders.
type OrderItem struct {
	BookID   primitive.ObjectID `bson:"bookId,omitempty" json:"bookId,omitempty"`
	Title    string             `bson:"title" json:"title"`
	Author   string             `bson:"author,omitempty" json:"author,omitempty"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Price    float64            `bson:"price" json:"price"`
}

// ShippingAddress is the delivery information collected at checkout.
type ShippingAddress struct {
	Email     string `bson:"email" json:"email" validate:"required,email"`
	FirstName string `bson:"firstName" json:"firstName" validate:"required"`
	LastName  string `bson:"lastName" json:"lastName" validate:"required"`
	Address   string `bson:"address" json:"address" validate:"required"`
	City      string `bson:"city,omitempty" json:"city,omitempty"`
	State     string `bson:"state,omitempty" json:"state,omitempty"`
	ZipCode   string `bson:"zipCode,omitempty" json:"zipCode,omitempty"`
}

// CustomerSummary is the joined-in identity shown on admin order views.
type CustomerSummary struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
}

// Order is an immutable-after-creation snapshot of a checkout, except for
// Status which only the admin status endpoint mutates.
type Order struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderNumber  string             `bson:"orderNumber" json:"orderNumber"`
	Customer     primitive.ObjectID `bson:"customer" json:"customerId"`
	CustomerInfo *CustomerSummary   `bson:"customerInfo,omitempty" json:"customer,omitempty"`
	Items        []OrderItem        `bson:"items" json:"items"`
	Shipping     ShippingAddress    `bson:"shippingAddress" json:"shippingAddress"`
	Subtotal     float64            `bson:"subtotal" json:"subtotal"`
	ShippingFee  float64            `bson:"shippingFee" json:"shippingFee"`
	Taxes        float64            `bson:"taxes" json:"taxes"`
	Total        float64            `bson:"total" json:"total"`
	Status       OrderStatus        `bson:"status" json:"status"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
