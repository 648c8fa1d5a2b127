// Package graphql exposes a read-only catalogue query surface alongside the
// REST API, for storefront clients that prefer to fetch exactly the fields
// they render.
package graphql

import (
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/granthkosh/granthkosh/app/models"
	"github.com/granthkosh/granthkosh/app/repositories"
	"github.com/granthkosh/granthkosh/app/services"
	gql "github.com/granthkosh/granthkosh/pkg/graphql"
)

var bookType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Book",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if b, ok := p.Source.(models.Book); ok {
					return b.ID.Hex(), nil
				}
				return nil, nil
			},
		},
		"title":         &graphql.Field{Type: graphql.String},
		"author":        &graphql.Field{Type: graphql.String},
		"description":   &graphql.Field{Type: graphql.String},
		"category":      &graphql.Field{Type: graphql.String},
		"price":         &graphql.Field{Type: graphql.Float},
		"discountPrice": &graphql.Field{Type: graphql.Float},
		"effectivePrice": &graphql.Field{
			Type: graphql.Float,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if b, ok := p.Source.(models.Book); ok {
					return b.EffectivePrice(), nil
				}
				return nil, nil
			},
		},
		"stock":  &graphql.Field{Type: graphql.Int},
		"image":  &graphql.Field{Type: graphql.String},
		"rating": &graphql.Field{Type: graphql.Float},
	},
})

// NewHandler builds the /graphql endpoint over the catalogue service.
func NewHandler(catalog *services.CatalogService) (http.HandlerFunc, error) {
	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"books": &graphql.Field{
				Type: graphql.NewList(bookType),
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.String},
					"search":   &graphql.ArgumentConfig{Type: graphql.String},
					"minPrice": &graphql.ArgumentConfig{Type: graphql.Float},
					"maxPrice": &graphql.ArgumentConfig{Type: graphql.Float},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var filter repositories.BookFilter
					if v, ok := p.Args["category"].(string); ok {
						filter.Category = v
					}
					if v, ok := p.Args["search"].(string); ok {
						filter.Search = v
					}
					if v, ok := p.Args["minPrice"].(float64); ok {
						filter.MinPrice = &v
					}
					if v, ok := p.Args["maxPrice"].(float64); ok {
						filter.MaxPrice = &v
					}
					return catalog.List(p.Context, filter)
				},
			},
			"book": &graphql.Field{
				Type: bookType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					return catalog.Get(p.Context, id)
				},
			},
			"categories": &graphql.Field{
				Type: graphql.NewList(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return models.Categories, nil
				},
			},
		},
	})

	schema, err := gql.NewSchema(rootQuery)
	if err != nil {
		return nil, err
	}
	return gql.Handler(schema), nil
}
