package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/furnistor/app/models"
)

// MonthlyAnalytics is the admin dashboard summary for a calendar month.
type MonthlyAnalytics struct {
	Revenue    float64 `bson:"revenue" json:"revenue"`
	OrderCount int64   `bson:"orderCount" json:"orderCount"`
}

// OrderRepository handles database operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	All(ctx context.Context) ([]models.Order, error)
	UpsertByPaymentRef(ctx context.Context, order *models.Order) (*models.Order, bool, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) (*models.Order, error)
	HasDeliveredProduct(ctx context.Context, userID, productID primitive.ObjectID) (bool, error)
	Analytics(ctx context.Context, since time.Time) (*MonthlyAnalytics, error)
}

const orderCollection = "orders"

type orderMongoRepository struct {
	col *mongo.Collection
}

// NewOrderRepository creates the mongo-backed order repository.
func NewOrderRepository(db *mongo.Database) OrderRepository {
	return &orderMongoRepository{col: db.Collection(orderCollection)}
}

func (r *orderMongoRepository) Create(ctx context.Context, order *models.Order) error {
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, order)
	if err != nil {
		return fmt.Errorf("repositories: create order: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = oid
	}
	return nil
}

func (r *orderMongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repositories: find order: %w", err)
	}
	return &order, nil
}

func (r *orderMongoRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return r.find(ctx, bson.M{"userRef": userID})
}

func (r *orderMongoRepository) All(ctx context.Context) ([]models.Order, error) {
	return r.find(ctx, bson.M{})
}

func (r *orderMongoRepository) find(ctx context.Context, filter bson.M) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("repositories: find orders: %w", err)
	}

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("repositories: decode orders: %w", err)
	}
	return orders, nil
}

// UpsertByPaymentRef creates the order keyed on the processor transaction id.
// The paymentRef unique sparse index plus $setOnInsert guarantee that two
// confirmations of the same paid session yield exactly one order. The second
// return value reports whether a new order was inserted by this call.
func (r *orderMongoRepository) UpsertByPaymentRef(ctx context.Context, order *models.Order) (*models.Order, bool, error) {
	if order.PaymentRef == "" {
		return nil, false, fmt.Errorf("repositories: upsert order: empty payment ref")
	}

	// BSON stores times at millisecond precision; truncate so the
	// created-by-this-call comparison below survives the round trip.
	now := time.Now().UTC().Truncate(time.Millisecond)
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var saved models.Order
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"paymentRef": order.PaymentRef},
		bson.M{"$setOnInsert": bson.M{
			"userRef":       order.User,
			"items":         order.Items,
			"total":         order.Total,
			"status":        order.Status,
			"address":       order.Address,
			"paymentMethod": order.PaymentMethod,
			"createdAt":     now,
			"updatedAt":     now,
		}},
		opts,
	).Decode(&saved)
	if err != nil {
		// A concurrent upsert can lose the race against the unique index;
		// the winning document is what we want.
		if mongo.IsDuplicateKeyError(err) {
			existing, findErr := r.findByPaymentRef(ctx, order.PaymentRef)
			if findErr != nil {
				return nil, false, findErr
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("repositories: upsert order: %w", err)
	}

	created := saved.CreatedAt.Equal(now)
	return &saved, created, nil
}

func (r *orderMongoRepository) findByPaymentRef(ctx context.Context, ref string) (*models.Order, error) {
	var order models.Order
	err := r.col.FindOne(ctx, bson.M{"paymentRef": ref}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repositories: find order by payment ref: %w", err)
	}
	return &order, nil
}

func (r *orderMongoRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) (*models.Order, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order models.Order
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}},
		opts,
	).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repositories: update order status: %w", err)
	}
	return &order, nil
}

// HasDeliveredProduct reports whether the user has a Shipped or Delivered
// order containing the product. Drives the verifiedPurchase review flag.
func (r *orderMongoRepository) HasDeliveredProduct(ctx context.Context, userID, productID primitive.ObjectID) (bool, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{
		"userRef":       userID,
		"items.product": productID,
		"status":        bson.M{"$in": []models.OrderStatus{models.StatusShipped, models.StatusDelivered}},
	})
	if err != nil {
		return false, fmt.Errorf("repositories: verified purchase check: %w", err)
	}
	return count > 0, nil
}

// Analytics sums totals and counts non-Cancelled orders created since the
// given instant.
func (r *orderMongoRepository) Analytics(ctx context.Context, since time.Time) (*MonthlyAnalytics, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"createdAt": bson.M{"$gte": since},
			"status":    bson.M{"$ne": models.StatusCancelled},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":        nil,
			"revenue":    bson.M{"$sum": "$total"},
			"orderCount": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("repositories: analytics: %w", err)
	}

	var rows []MonthlyAnalytics
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("repositories: decode analytics: %w", err)
	}
	if len(rows) == 0 {
		return &MonthlyAnalytics{}, nil
	}
	return &rows[0], nil
}
