package controllers

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/furnistor/app/models"
	"github.com/shashiranjanraj/furnistor/app/repositories"
)

// The handler tests only exercise the HTTP surface, so these fakes carry
// just enough state to satisfy the service layer underneath.

type fakeUserRepo struct {
	users   map[primitive.ObjectID]*models.User
	findErr error // when set, FindByID fails with it
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[primitive.ObjectID]*models.User{}}
	for _, u := range users {
		if u.ID.IsZero() {
			u.ID = primitive.NewObjectID()
		}
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repositories.ErrDuplicateEmail
		}
	}
	u.ID = primitive.NewObjectID()
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) FindByVerificationToken(_ context.Context, token string) (*models.User, error) {
	for _, u := range r.users {
		if u.VerificationToken == token {
			return u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) MarkEmailVerified(_ context.Context, id primitive.ObjectID) error {
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.IsEmailVerified = true
	u.VerificationToken = ""
	u.VerificationTokenExpires = nil
	return nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id primitive.ObjectID, fields bson.M) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if v, ok := fields["name"].(string); ok {
		u.Name = v
	}
	if v, ok := fields["avatar"].(string); ok {
		u.Avatar = v
	}
	return u, nil
}

func (r *fakeUserRepo) AddFavorite(_ context.Context, id, productID primitive.ObjectID) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	for _, f := range u.Favorites {
		if f == productID {
			return u, nil
		}
	}
	u.Favorites = append(u.Favorites, productID)
	return u, nil
}

func (r *fakeUserRepo) RemoveFavorite(_ context.Context, id, productID primitive.ObjectID) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	kept := u.Favorites[:0]
	for _, f := range u.Favorites {
		if f != productID {
			kept = append(kept, f)
		}
	}
	u.Favorites = kept
	return u, nil
}

func (r *fakeUserRepo) AppendOrderRef(_ context.Context, id, orderID primitive.ObjectID) error {
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.OrderRefs = append(u.OrderRefs, orderID)
	return nil
}

func (r *fakeUserRepo) PurgeExpiredVerificationTokens(context.Context) (int64, error) {
	return 0, nil
}

type fakeOrderRepo struct {
	orders map[primitive.ObjectID]*models.Order
}

func newFakeOrderRepo(orders ...*models.Order) *fakeOrderRepo {
	r := &fakeOrderRepo{orders: map[primitive.ObjectID]*models.Order{}}
	for _, o := range orders {
		if o.ID.IsZero() {
			o.ID = primitive.NewObjectID()
		}
		r.orders[o.ID] = o
	}
	return r
}

func (r *fakeOrderRepo) Create(_ context.Context, o *models.Order) error {
	o.ID = primitive.NewObjectID()
	r.orders[o.ID] = o
	return nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return o, nil
}

func (r *fakeOrderRepo) FindByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	var out []models.Order
	for _, o := range r.orders {
		if o.User == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) All(context.Context) ([]models.Order, error) {
	var out []models.Order
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (r *fakeOrderRepo) UpsertByPaymentRef(_ context.Context, o *models.Order) (*models.Order, bool, error) {
	for _, existing := range r.orders {
		if existing.PaymentRef == o.PaymentRef {
			return existing, false, nil
		}
	}
	o.ID = primitive.NewObjectID()
	r.orders[o.ID] = o
	return o, true, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.OrderStatus) (*models.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	o.Status = status
	return o, nil
}

func (r *fakeOrderRepo) HasDeliveredProduct(context.Context, primitive.ObjectID, primitive.ObjectID) (bool, error) {
	return false, nil
}

func (r *fakeOrderRepo) Analytics(context.Context, time.Time) (*repositories.MonthlyAnalytics, error) {
	return &repositories.MonthlyAnalytics{}, nil
}

type fakeProductRepo struct {
	products map[primitive.ObjectID]*models.Product
}

func newFakeProductRepo(products ...*models.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: map[primitive.ObjectID]*models.Product{}}
	for _, p := range products {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) Find(_ context.Context, q repositories.CatalogQuery) ([]models.Product, int64, error) {
	var out []models.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) Featured(context.Context, int) ([]models.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Related(context.Context, *models.Product, int) ([]models.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) Create(_ context.Context, p *models.Product) error {
	p.ID = primitive.NewObjectID()
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) Update(_ context.Context, id primitive.ObjectID, fields bson.M) (*models.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if v, ok := fields["title"].(string); ok {
		p.Title = v
	}
	if v, ok := fields["price"].(float64); ok {
		p.Price = v
	}
	return p, nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.products[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) AppendImage(_ context.Context, id primitive.ObjectID, url string) (*models.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	p.Images = append(p.Images, url)
	return p, nil
}

func (r *fakeProductRepo) UpsertReview(_ context.Context, id primitive.ObjectID, review models.Review) (*models.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	for i, existing := range p.Reviews {
		if existing.User == review.User {
			p.Reviews[i] = review
			return p, nil
		}
	}
	p.Reviews = append(p.Reviews, review)
	return p, nil
}
