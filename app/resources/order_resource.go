package resources

import (
	"github.com/shashiranjanraj/furnistor/app/models"
	"github.com/shashiranjanraj/furnistor/pkg/resource"
)

// OrderResource is the order view returned to both customers and admins.
type OrderResource struct{ resource.Base }

func (r *OrderResource) ToArray(v interface{}) resource.Map {
	o, ok := v.(models.Order)
	if !ok {
		ptr, ok := v.(*models.Order)
		if !ok {
			return resource.Map{}
		}
		o = *ptr
	}

	return resource.Map{
		"id":            o.ID.Hex(),
		"user":          o.User.Hex(),
		"items":         o.Items,
		"total":         o.Total,
		"status":        o.Status,
		"address":       o.Address,
		"paymentMethod": o.PaymentMethod,
		"paymentRef":    o.PaymentRef,
		"createdAt":     o.CreatedAt,
		"updatedAt":     o.UpdatedAt,
	}
}

// Order is a convenience wrapper for a single order view.
func Order(o *models.Order) resource.Map {
	return (&OrderResource{}).ToArray(o)
}

// Orders transforms an order slice.
func Orders(os []models.Order) []resource.Map {
	return resource.CollectionOf(&OrderResource{}, os).Items()
}
