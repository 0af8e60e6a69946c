package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/furnistor/app/models"
	"github.com/shashiranjanraj/furnistor/app/repositories"
	"github.com/shashiranjanraj/furnistor/pkg/payment"
)

// ------------------- users -------------------

type fakeUserRepo struct {
	users     map[primitive.ObjectID]*models.User
	orderRefs map[primitive.ObjectID][]primitive.ObjectID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:     map[primitive.ObjectID]*models.User{},
		orderRefs: map[primitive.ObjectID][]primitive.ObjectID{},
	}
}

func (f *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	u.Email = strings.ToLower(u.Email)
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return repositories.ErrDuplicateEmail
		}
	}
	u.ID = primitive.NewObjectID()
	u.CreatedAt = time.Now()
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == strings.ToLower(email) {
			return u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepo) FindByVerificationToken(_ context.Context, token string) (*models.User, error) {
	for _, u := range f.users {
		if u.VerificationToken == token && u.VerificationTokenExpires != nil &&
			u.VerificationTokenExpires.After(time.Now()) {
			return u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepo) MarkEmailVerified(_ context.Context, id primitive.ObjectID) error {
	u, ok := f.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.IsEmailVerified = true
	u.VerificationToken = ""
	u.VerificationTokenExpires = nil
	return nil
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, id primitive.ObjectID, fields bson.M) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if name, ok := fields["name"].(string); ok {
		u.Name = name
	}
	if avatar, ok := fields["avatar"].(string); ok {
		u.Avatar = avatar
	}
	return u, nil
}

func (f *fakeUserRepo) AddFavorite(_ context.Context, id, productID primitive.ObjectID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	for _, fav := range u.Favorites {
		if fav == productID {
			return u, nil
		}
	}
	u.Favorites = append(u.Favorites, productID)
	return u, nil
}

func (f *fakeUserRepo) RemoveFavorite(_ context.Context, id, productID primitive.ObjectID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	kept := u.Favorites[:0]
	for _, fav := range u.Favorites {
		if fav != productID {
			kept = append(kept, fav)
		}
	}
	u.Favorites = kept
	return u, nil
}

func (f *fakeUserRepo) AppendOrderRef(_ context.Context, id, orderID primitive.ObjectID) error {
	f.orderRefs[id] = append(f.orderRefs[id], orderID)
	return nil
}

func (f *fakeUserRepo) PurgeExpiredVerificationTokens(context.Context) (int64, error) {
	return 0, nil
}

// ------------------- products -------------------

type fakeProductRepo struct {
	products map[primitive.ObjectID]*models.Product
}

func newFakeProductRepo(ps ...*models.Product) *fakeProductRepo {
	f := &fakeProductRepo{products: map[primitive.ObjectID]*models.Product{}}
	for _, p := range ps {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeProductRepo) Find(_ context.Context, q repositories.CatalogQuery) ([]models.Product, int64, error) {
	q.Normalize()
	all := []models.Product{}
	for _, p := range f.products {
		all = append(all, *p)
	}
	total := int64(len(all))
	start := (q.Page - 1) * q.Limit
	if start >= len(all) {
		return []models.Product{}, total, nil
	}
	end := start + q.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (f *fakeProductRepo) Featured(_ context.Context, limit int) ([]models.Product, error) {
	out := []models.Product{}
	for _, p := range f.products {
		if p.IsFeatured && len(out) < limit {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	if p, ok := f.products[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeProductRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	out := []models.Product{}
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) Related(_ context.Context, p *models.Product, limit int) ([]models.Product, error) {
	out := []models.Product{}
	for _, other := range f.products {
		if other.ID != p.ID && other.Category == p.Category && len(out) < limit {
			out = append(out, *other)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) Create(_ context.Context, p *models.Product) error {
	p.ID = primitive.NewObjectID()
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) Update(_ context.Context, id primitive.ObjectID, fields bson.M) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if title, ok := fields["title"].(string); ok {
		p.Title = title
	}
	if price, ok := fields["price"].(float64); ok {
		p.Price = price
	}
	return p, nil
}

func (f *fakeProductRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.products[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeProductRepo) AppendImage(_ context.Context, id primitive.ObjectID, url string) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	p.Images = append(p.Images, url)
	return p, nil
}

func (f *fakeProductRepo) UpsertReview(_ context.Context, id primitive.ObjectID, review models.Review) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	for i := range p.Reviews {
		if p.Reviews[i].User == review.User {
			p.Reviews[i].Rating = review.Rating
			p.Reviews[i].Comment = review.Comment
			p.Reviews[i].VerifiedPurchase = review.VerifiedPurchase
			return p, nil
		}
	}
	p.Reviews = append(p.Reviews, review)
	return p, nil
}

// ------------------- orders -------------------

type fakeOrderRepo struct {
	orders []*models.Order
}

func (f *fakeOrderRepo) Create(_ context.Context, o *models.Order) error {
	o.ID = primitive.NewObjectID()
	o.CreatedAt = time.Now()
	f.orders = append(f.orders, o)
	return nil
}

func (f *fakeOrderRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	for _, o := range f.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeOrderRepo) FindByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	out := []models.Order{}
	for _, o := range f.orders {
		if o.User == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) All(context.Context) ([]models.Order, error) {
	out := []models.Order{}
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeOrderRepo) UpsertByPaymentRef(_ context.Context, order *models.Order) (*models.Order, bool, error) {
	for _, o := range f.orders {
		if o.PaymentRef == order.PaymentRef {
			return o, false, nil
		}
	}
	order.ID = primitive.NewObjectID()
	order.CreatedAt = time.Now()
	f.orders = append(f.orders, order)
	return order, true, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.OrderStatus) (*models.Order, error) {
	for _, o := range f.orders {
		if o.ID == id {
			o.Status = status
			return o, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeOrderRepo) HasDeliveredProduct(_ context.Context, userID, productID primitive.ObjectID) (bool, error) {
	for _, o := range f.orders {
		if o.User != userID {
			continue
		}
		if o.Status != models.StatusShipped && o.Status != models.StatusDelivered {
			continue
		}
		for _, item := range o.Items {
			if item.Product == productID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (f *fakeOrderRepo) Analytics(_ context.Context, since time.Time) (*repositories.MonthlyAnalytics, error) {
	out := &repositories.MonthlyAnalytics{}
	for _, o := range f.orders {
		if o.CreatedAt.Before(since) || o.Status == models.StatusCancelled {
			continue
		}
		out.Revenue += o.Total
		out.OrderCount++
	}
	return out, nil
}

// ------------------- payment gateway -------------------

type fakeGateway struct {
	configured bool
	sessions   map[string]*payment.Session
	created    []*payment.Session
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{configured: true, sessions: map[string]*payment.Session{}}
}

func (f *fakeGateway) Configured() bool { return f.configured }

func (f *fakeGateway) CreateSession(_ context.Context, clientReferenceID, currency string, items []payment.LineItem, metadata map[string]string) (*payment.Session, error) {
	sess := &payment.Session{
		ID:                "cs_test_" + primitive.NewObjectID().Hex(),
		URL:               "https://checkout.stripe.com/pay/cs_test",
		PaymentStatus:     "unpaid",
		ClientReferenceID: clientReferenceID,
		Currency:          currency,
		Metadata:          metadata,
	}
	for _, item := range items {
		sess.AmountTotal += item.UnitAmount * int64(item.Quantity)
	}
	f.sessions[sess.ID] = sess
	f.created = append(f.created, sess)
	return sess, nil
}

func (f *fakeGateway) RetrieveSession(_ context.Context, sessionID string) (*payment.Session, error) {
	if sess, ok := f.sessions[sessionID]; ok {
		return sess, nil
	}
	return nil, payment.ErrNotConfigured
}

// markPaid flips the session into the paid state with a transaction id.
func (f *fakeGateway) markPaid(sessionID string) {
	if sess, ok := f.sessions[sessionID]; ok {
		sess.PaymentStatus = "paid"
		sess.PaymentIntent = "pi_" + sessionID
	}
}
