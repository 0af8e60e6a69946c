package repositories

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/furnistor/app/models"
)

// CatalogQuery carries the catalog listing parameters after normalisation.
type CatalogQuery struct {
	Page       int
	Limit      int
	Category   string
	MinPrice   *float64
	MaxPrice   *float64
	Material   string
	Search     string
	Featured   *bool
	NewArrival *bool
}

const (
	defaultPageLimit = 12
	maxPageLimit     = 50
)

// Normalize clamps page and limit into their allowed ranges.
func (q *CatalogQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = defaultPageLimit
	}
	if q.Limit > maxPageLimit {
		q.Limit = maxPageLimit
	}
}

// BuildCatalogFilter translates a CatalogQuery into a mongo filter document.
func BuildCatalogFilter(q CatalogQuery) bson.M {
	filter := bson.M{}

	if q.Category != "" {
		filter["category"] = q.Category
	}

	price := bson.M{}
	if q.MinPrice != nil {
		price["$gte"] = *q.MinPrice
	}
	if q.MaxPrice != nil {
		price["$lte"] = *q.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	if q.Material != "" {
		filter["material"] = bson.M{
			"$regex":   regexp.QuoteMeta(q.Material),
			"$options": "i",
		}
	}

	if q.Search != "" {
		filter["$text"] = bson.M{"$search": q.Search}
	}

	if q.Featured != nil {
		filter["isFeatured"] = *q.Featured
	}
	if q.NewArrival != nil {
		filter["isNewArrival"] = *q.NewArrival
	}

	return filter
}

// ProductRepository handles database operations for the catalog.
type ProductRepository interface {
	Find(ctx context.Context, q CatalogQuery) ([]models.Product, int64, error)
	Featured(ctx context.Context, limit int) ([]models.Product, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
	Related(ctx context.Context, p *models.Product, limit int) ([]models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	AppendImage(ctx context.Context, id primitive.ObjectID, url string) (*models.Product, error)
	UpsertReview(ctx context.Context, id primitive.ObjectID, review models.Review) (*models.Product, error)
}

const productCollection = "products"

type productMongoRepository struct {
	col *mongo.Collection
}

// NewProductRepository creates the mongo-backed product repository.
func NewProductRepository(db *mongo.Database) ProductRepository {
	return &productMongoRepository{col: db.Collection(productCollection)}
}

func (r *productMongoRepository) Find(ctx context.Context, q CatalogQuery) ([]models.Product, int64, error) {
	q.Normalize()
	filter := BuildCatalogFilter(q)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("repositories: count products: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((q.Page - 1) * q.Limit)).
		SetLimit(int64(q.Limit))

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("repositories: find products: %w", err)
	}

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("repositories: decode products: %w", err)
	}
	return products, total, nil
}

func (r *productMongoRepository) Featured(ctx context.Context, limit int) ([]models.Product, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.col.Find(ctx, bson.M{"isFeatured": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("repositories: featured products: %w", err)
	}

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("repositories: decode featured: %w", err)
	}
	return products, nil
}

func (r *productMongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var p models.Product
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repositories: find product: %w", err)
	}
	return &p, nil
}

func (r *productMongoRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	cursor, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("repositories: find products by ids: %w", err)
	}

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("repositories: decode products: %w", err)
	}
	return products, nil
}

func (r *productMongoRepository) Related(ctx context.Context, p *models.Product, limit int) ([]models.Product, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.col.Find(ctx, bson.M{
		"category": p.Category,
		"_id":      bson.M{"$ne": p.ID},
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("repositories: related products: %w", err)
	}

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("repositories: decode related: %w", err)
	}
	return products, nil
}

func (r *productMongoRepository) Create(ctx context.Context, p *models.Product) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return fmt.Errorf("repositories: create product: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

func (r *productMongoRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Product, error) {
	fields["updatedAt"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p models.Product
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repositories: update product: %w", err)
	}
	return &p, nil
}

func (r *productMongoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("repositories: delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productMongoRepository) AppendImage(ctx context.Context, id primitive.ObjectID, url string) (*models.Product, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p models.Product
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{
			"$push": bson.M{"images": url},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		}, opts).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repositories: append image: %w", err)
	}
	return &p, nil
}

// UpsertReview writes the caller's review without ever duplicating it. First
// a positional $set updates an existing review in place, preserving its slot
// in the array. When nothing matched, a $push guarded by "no review from this
// user yet" inserts the first one; two concurrent first reviews cannot both
// pass the guard. When both steps match nothing, the product does not exist.
func (r *productMongoRepository) UpsertReview(ctx context.Context, id primitive.ObjectID, review models.Review) (*models.Product, error) {
	now := time.Now().UTC()
	review.UpdatedAt = now

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "reviews.user": review.User},
		bson.M{"$set": bson.M{
			"reviews.$.rating":           review.Rating,
			"reviews.$.comment":          review.Comment,
			"reviews.$.verifiedPurchase": review.VerifiedPurchase,
			"reviews.$.updatedAt":        now,
			"updatedAt":                  now,
		}},
	)
	if err != nil {
		return nil, fmt.Errorf("repositories: update review: %w", err)
	}

	if res.MatchedCount == 0 {
		review.CreatedAt = now
		push, err := r.col.UpdateOne(ctx,
			bson.M{"_id": id, "reviews.user": bson.M{"$ne": review.User}},
			bson.M{
				"$push": bson.M{"reviews": review},
				"$set":  bson.M{"updatedAt": now},
			},
		)
		if err != nil {
			return nil, fmt.Errorf("repositories: insert review: %w", err)
		}
		if push.MatchedCount == 0 {
			// Either the product is gone or a concurrent insert won the
			// guard; FindByID distinguishes the two.
			if _, err := r.FindByID(ctx, id); err != nil {
				return nil, err
			}
			// A review from this user now exists, overwrite it in place.
			if _, err := r.col.UpdateOne(ctx,
				bson.M{"_id": id, "reviews.user": review.User},
				bson.M{"$set": bson.M{
					"reviews.$.rating":           review.Rating,
					"reviews.$.comment":          review.Comment,
					"reviews.$.verifiedPurchase": review.VerifiedPurchase,
					"reviews.$.updatedAt":        now,
					"updatedAt":                  now,
				}},
			); err != nil {
				return nil, fmt.Errorf("repositories: update review: %w", err)
			}
		}
	}

	return r.FindByID(ctx, id)
}
