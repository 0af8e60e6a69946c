// Package graphql exposes a read-only catalog query model alongside the REST
// API. Mutations stay on REST; this schema only covers product browsing.
package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/furnistor/app/models"
	"github.com/shashiranjanraj/furnistor/app/repositories"
	"github.com/shashiranjanraj/furnistor/app/services"
)

var colorType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Color",
	Fields: graphql.Fields{
		"name": &graphql.Field{Type: graphql.String},
		"hex":  &graphql.Field{Type: graphql.String},
	},
})

var reviewType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Review",
	Fields: graphql.Fields{
		"rating":           &graphql.Field{Type: graphql.Int},
		"comment":          &graphql.Field{Type: graphql.String},
		"verifiedPurchase": &graphql.Field{Type: graphql.Boolean},
		"createdAt":        &graphql.Field{Type: graphql.DateTime},
	},
})

func productType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Product",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.ID,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(models.Product).ID.Hex(), nil
				},
			},
			"title":        &graphql.Field{Type: graphql.String},
			"brand":        &graphql.Field{Type: graphql.String},
			"description":  &graphql.Field{Type: graphql.String},
			"category":     &graphql.Field{Type: graphql.String},
			"price":        &graphql.Field{Type: graphql.Float},
			"material":     &graphql.Field{Type: graphql.String},
			"stock":        &graphql.Field{Type: graphql.Int},
			"images":       &graphql.Field{Type: graphql.NewList(graphql.String)},
			"colors":       &graphql.Field{Type: graphql.NewList(colorType)},
			"isFeatured":   &graphql.Field{Type: graphql.Boolean},
			"isNewArrival": &graphql.Field{Type: graphql.Boolean},
			"reviews":      &graphql.Field{Type: graphql.NewList(reviewType)},
			"averageRating": &graphql.Field{
				Type: graphql.Float,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					prod := p.Source.(models.Product)
					return prod.AverageRating(), nil
				},
			},
			"reviewCount": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					prod := p.Source.(models.Product)
					return prod.ReviewCount(), nil
				},
			},
		},
	})
}

// NewRootQuery builds the catalog root query backed by the product service.
func NewRootQuery(products *services.ProductService) *graphql.Object {
	product := productType()

	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewList(product),
				Args: graphql.FieldConfigArgument{
					"page":     &graphql.ArgumentConfig{Type: graphql.Int},
					"limit":    &graphql.ArgumentConfig{Type: graphql.Int},
					"category": &graphql.ArgumentConfig{Type: graphql.String},
					"material": &graphql.ArgumentConfig{Type: graphql.String},
					"search":   &graphql.ArgumentConfig{Type: graphql.String},
					"minPrice": &graphql.ArgumentConfig{Type: graphql.Float},
					"maxPrice": &graphql.ArgumentConfig{Type: graphql.Float},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					q := repositories.CatalogQuery{}
					if v, ok := p.Args["page"].(int); ok {
						q.Page = v
					}
					if v, ok := p.Args["limit"].(int); ok {
						q.Limit = v
					}
					if v, ok := p.Args["category"].(string); ok {
						q.Category = v
					}
					if v, ok := p.Args["material"].(string); ok {
						q.Material = v
					}
					if v, ok := p.Args["search"].(string); ok {
						q.Search = v
					}
					if v, ok := p.Args["minPrice"].(float64); ok {
						q.MinPrice = &v
					}
					if v, ok := p.Args["maxPrice"].(float64); ok {
						q.MaxPrice = &v
					}
					items, _, err := products.List(p.Context, q)
					return items, err
				},
			},
			"product": &graphql.Field{
				Type: product,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					prod, err := products.Get(p.Context, id)
					if err != nil {
						return nil, err
					}
					return *prod, nil
				},
			},
		},
	})
}
