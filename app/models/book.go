package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Book is a catalogue entry. Rating and ReviewCount are aggregates computed
// server-side; no write path populates them yet.
type Book struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Author        string             `bson:"author" json:"author"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Category      string             `bson:"category,omitempty" json:"category,omitempty"`
	Price         float64            `bson:"price" json:"price"`
	DiscountPrice float64            `bson:"discountPrice,omitempty" json:"discountPrice,omitempty"`
	Stock         int                `bson:"stock" json:"stock"`
	Image         string             `bson:"image,omitempty" json:"image,omitempty"`
	Rating        float64            `bson:"rating,omitempty" json:"rating,omitempty"`
	ReviewCount   int                `bson:"reviewCount,omitempty" json:"reviewCount,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Categories is the enumerated set accepted on the admin write path. The
// read path leaves category free-form so legacy records keep rendering.
var Categories = []string{
	"Fiction",
	"Non-Fiction",
	"Science Fiction",
	"Mystery",
	"Fantasy",
	"Biography",
	"History",
	"Self-Help",
}

// ValidCategory reports whether c is in the enumerated set.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// EffectivePrice is the price a buyer pays right now: the discount price
// when one is set, the list price otherwise.
func (b Book) EffectivePrice() float64 {
	if b.DiscountPrice > 0 {
		return b.DiscountPrice
	}
	return b.Price
}
