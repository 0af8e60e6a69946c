package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/furnistor/app/models"
	"github.com/shashiranjanraj/furnistor/app/repositories"
)

// UserService covers profile and favorites operations.
type UserService struct {
	users repositories.UserRepository
}

func NewUserService(users repositories.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

// UpdateProfile patches name and avatar. Empty fields are left untouched.
func (s *UserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, name, avatar string) (*models.User, error) {
	fields := bson.M{}
	if name != "" {
		fields["name"] = name
	}
	if avatar != "" {
		fields["avatar"] = avatar
	}
	if len(fields) == 0 {
		return s.users.FindByID(ctx, id)
	}
	return s.users.UpdateProfile(ctx, id, fields)
}

// AddFavorite adds the product to the user's favorites set. Adding twice is
// a no-op thanks to $addToSet.
func (s *UserService) AddFavorite(ctx context.Context, userID, productID primitive.ObjectID) (*models.User, error) {
	return s.users.AddFavorite(ctx, userID, productID)
}

func (s *UserService) RemoveFavorite(ctx context.Context, userID, productID primitive.ObjectID) (*models.User, error) {
	return s.users.RemoveFavorite(ctx, userID, productID)
}
