package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/furnistor/app/models"
)

// UserRepository handles database operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByVerificationToken(ctx context.Context, token string) (*models.User, error)
	MarkEmailVerified(ctx context.Context, id primitive.ObjectID) error
	UpdateProfile(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.User, error)
	AddFavorite(ctx context.Context, id, productID primitive.ObjectID) (*models.User, error)
	RemoveFavorite(ctx context.Context, id, productID primitive.ObjectID) (*models.User, error)
	AppendOrderRef(ctx context.Context, id, orderID primitive.ObjectID) error
	PurgeExpiredVerificationTokens(ctx context.Context) (int64, error)
}

const userCollection = "users"

type userMongoRepository struct {
	col *mongo.Collection
}

// NewUserRepository creates the mongo-backed user repository.
func NewUserRepository(db *mongo.Database) UserRepository {
	return &userMongoRepository{col: db.Collection(userCollection)}
}

func (r *userMongoRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("repositories: create user: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

func (r *userMongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *userMongoRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (r *userMongoRepository) FindByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	return r.findOne(ctx, bson.M{
		"verificationToken":        token,
		"verificationTokenExpires": bson.M{"$gt": time.Now().UTC()},
	})
}

func (r *userMongoRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := r.col.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repositories: find user: %w", err)
	}
	return &user, nil
}

func (r *userMongoRepository) MarkEmailVerified(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$set":   bson.M{"isEmailVerified": true, "updatedAt": time.Now().UTC()},
			"$unset": bson.M{"verificationToken": "", "verificationTokenExpires": ""},
		},
	)
	if err != nil {
		return fmt.Errorf("repositories: mark verified: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userMongoRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.User, error) {
	fields["updatedAt"] = time.Now().UTC()
	return r.findOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
}

func (r *userMongoRepository) AddFavorite(ctx context.Context, id, productID primitive.ObjectID) (*models.User, error) {
	return r.findOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{
		"$addToSet": bson.M{"favorites": productID},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (r *userMongoRepository) RemoveFavorite(ctx context.Context, id, productID primitive.ObjectID) (*models.User, error) {
	return r.findOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{
		"$pull": bson.M{"favorites": productID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (r *userMongoRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user models.User
	err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repositories: update user: %w", err)
	}
	return &user, nil
}

func (r *userMongoRepository) AppendOrderRef(ctx context.Context, id, orderID primitive.ObjectID) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$push": bson.M{"orders": orderID}},
	)
	if err != nil {
		return fmt.Errorf("repositories: append order ref: %w", err)
	}
	return nil
}

// PurgeExpiredVerificationTokens drops stale verification tokens from
// unverified accounts. Run daily by the scheduler.
func (r *userMongoRepository) PurgeExpiredVerificationTokens(ctx context.Context) (int64, error) {
	res, err := r.col.UpdateMany(ctx,
		bson.M{
			"isEmailVerified":          false,
			"verificationTokenExpires": bson.M{"$lt": time.Now().UTC()},
		},
		bson.M{"$unset": bson.M{"verificationToken": "", "verificationTokenExpires": ""}},
	)
	if err != nil {
		return 0, fmt.Errorf("repositories: purge tokens: %w", err)
	}
	return res.ModifiedCount, nil
}
