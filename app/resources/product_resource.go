package resources

import (
	"github.com/shashiranjanraj/furnistor/app/models"
	"github.com/shashiranjanraj/furnistor/pkg/resource"
)

// ProductResource adds the derived rating fields to the product document.
type ProductResource struct{ resource.Base }

func (r *ProductResource) ToArray(v interface{}) resource.Map {
	p, ok := v.(models.Product)
	if !ok {
		ptr, ok := v.(*models.Product)
		if !ok {
			return resource.Map{}
		}
		p = *ptr
	}

	return resource.Map{
		"id":            p.ID.Hex(),
		"title":         p.Title,
		"brand":         p.Brand,
		"price":         p.Price,
		"description":   p.Description,
		"category":      p.Category,
		"material":      p.Material,
		"dimensions":    p.Dimensions,
		"stock":         p.Stock,
		"images":        p.Images,
		"colors":        p.Colors,
		"isFeatured":    p.IsFeatured,
		"isNewArrival":  p.IsNewArrival,
		"reviews":       p.Reviews,
		"averageRating": p.AverageRating(),
		"reviewCount":   p.ReviewCount(),
		"createdAt":     p.CreatedAt,
	}
}

// Product is a convenience wrapper for a single product view.
func Product(p *models.Product) resource.Map {
	return (&ProductResource{}).ToArray(p)
}

// Products transforms a product slice.
func Products(ps []models.Product) []resource.Map {
	return resource.CollectionOf(&ProductResource{}, ps).Items()
}
