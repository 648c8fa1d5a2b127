package seeders

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/granthkosh/granthkosh/app/models"
)

func init() {
	Register("sample books", seedBooks)
}

// seedBooks inserts a small starter catalogue into an empty books
// collection so the storefront has something to show.
func seedBooks(ctx context.Context, db *mongo.Database) error {
	books := db.Collection("books")

	n, err := books.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	samples := []models.Book{
		{
			Title:       "The Midnight Library",
			Author:      "Matt Haig",
			Description: "Between life and death there is a library of infinite choices.",
			Category:    "Fiction",
			Price:       14.99,
			Stock:       40,
		},
		{
			Title:         "Dune",
			Author:        "Frank Herbert",
			Description:   "The desert planet Arrakis and the spice that rules the universe.",
			Category:      "Science Fiction",
			Price:         18.50,
			DiscountPrice: 15.99,
			Stock:         25,
		},
		{
			Title:       "The Name of the Wind",
			Author:      "Patrick Rothfuss",
			Description: "The legend of Kvothe, told in his own words.",
			Category:    "Fantasy",
			Price:       16.00,
			Stock:       30,
		},
		{
			Title:       "Sapiens",
			Author:      "Yuval Noah Harari",
			Description: "A brief history of humankind.",
			Category:    "History",
			Price:       21.00,
			Stock:       35,
		},
		{
			Title:         "Atomic Habits",
			Author:        "James Clear",
			Description:   "Tiny changes, remarkable results.",
			Category:      "Self-Help",
			Price:         19.99,
			DiscountPrice: 12.75,
			Stock:         60,
		},
		{
			Title:       "The Girl with the Dragon Tattoo",
			Author:      "Stieg Larsson",
			Description: "A journalist and a hacker untangle a decades-old disappearance.",
			Category:    "Mystery",
			Price:       13.25,
			Stock:       20,
		},
	}

	now := time.Now().UTC()
	docs := make([]interface{}, len(samples))
	for i := range samples {
		samples[i].CreatedAt = now
		samples[i].UpdatedAt = now
		docs[i] = samples[i]
	}

	_, err = books.InsertMany(ctx, docs)
	return err
}
