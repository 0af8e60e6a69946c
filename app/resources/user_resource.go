// Package resources defines the JSON shapes the API returns, built on
// pkg/resource transformers so the model structs never leak fields.
package resources

import (
	"github.com/shashiranjanraj/furnistor/app/models"
	"github.com/shashiranjanraj/furnistor/pkg/resource"
)

// UserResource is the safe user view: no password hash, no verification
// token, no internal order refs.
type UserResource struct{ resource.Base }

func (r *UserResource) ToArray(v interface{}) resource.Map {
	u, ok := v.(models.User)
	if !ok {
		p, ok := v.(*models.User)
		if !ok {
			return resource.Map{}
		}
		u = *p
	}

	favorites := []string{}
	for _, f := range u.Favorites {
		favorites = append(favorites, f.Hex())
	}

	return resource.Map{
		"id":              u.ID.Hex(),
		"name":            u.Name,
		"email":           u.Email,
		"role":            u.Role,
		"avatar":          u.Avatar,
		"isEmailVerified": u.IsEmailVerified,
		"favorites":       favorites,
		"createdAt":       u.CreatedAt,
	}
}

// User is a convenience wrapper for a single safe user view.
func User(u *models.User) resource.Map {
	return (&UserResource{}).ToArray(u)
}
