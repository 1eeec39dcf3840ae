// Package memstore provides mutex-guarded in-memory store implementations
// with the same contracts as mongostore. Used by unit tests and local
// development without a database.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bazaar-backend/internal/models"
	"bazaar-backend/internal/store"
)

type Stores struct {
	Users    *UserStore
	Products *ProductStore
	Carts    *CartStore
	Orders   *OrderStore
}

func New() *Stores {
	return &Stores{
		Users:    &UserStore{byID: map[primitive.ObjectID]*models.User{}},
		Products: &ProductStore{byID: map[primitive.ObjectID]*models.Product{}},
		Carts:    &CartStore{byUser: map[primitive.ObjectID]*models.Cart{}},
		Orders:   &OrderStore{byID: map[primitive.ObjectID]*models.Order{}},
	}
}

type UserStore struct {
	mu   sync.RWMutex
	byID map[primitive.ObjectID]*models.User
}

func (s *UserStore) Insert(ctx context.Context, u *models.User) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.Email == u.Email {
			return store.ErrDuplicateKey
		}
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	cp := *u
	s.byID[u.ID] = &cp
	return nil
}

func (s *UserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *UserStore) FindAll(ctx context.Context) ([]models.User, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0, len(s.byID))
	for _, u := range s.byID {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *UserStore) Update(ctx context.Context, u *models.User) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[u.ID]; !ok {
		return store.ErrNotFound
	}
	u.UpdatedAt = time.Now().UTC()
	cp := *u
	s.byID[u.ID] = &cp
	return nil
}

type ProductStore struct {
	mu   sync.RWMutex
	byID map[primitive.ObjectID]*models.Product
}

func (s *ProductStore) Insert(ctx context.Context, p *models.Product) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	cp := *p
	s.byID[p.ID] = &cp
	return nil
}

func (s *ProductStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *ProductStore) Find(ctx context.Context, f store.ProductFilter) ([]models.Product, int64, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]models.Product, 0, len(s.byID))
	for _, p := range s.byID {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.Search != "" {
			needle := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(p.Title), needle) &&
				!strings.Contains(strings.ToLower(p.Description), needle) {
				continue
			}
		}
		matched = append(matched, *p)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 10
	}
	start := (page - 1) * limit
	if start >= len(matched) {
		return []models.Product{}, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (s *ProductStore) Update(ctx context.Context, p *models.Product) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[p.ID]; !ok {
		return store.ErrNotFound
	}
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	s.byID[p.ID] = &cp
	return nil
}

func (s *ProductStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

func (s *ProductStore) DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return store.ErrNotFound
	}
	if p.Stock < qty {
		return store.ErrStockConflict
	}
	p.Stock -= qty
	p.UpdatedAt = time.Now().UTC()
	return nil
}

type CartStore struct {
	mu     sync.RWMutex
	byUser map[primitive.ObjectID]*models.Cart
}

func (s *CartStore) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byUser[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return cloneCart(c), nil
}

func (s *CartStore) Save(ctx context.Context, c *models.Cart) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	if c.Items == nil {
		c.Items = []models.CartItem{}
	}
	s.byUser[c.UserID] = cloneCart(c)
	return nil
}

func cloneCart(c *models.Cart) *models.Cart {
	cp := *c
	cp.Items = append([]models.CartItem(nil), c.Items...)
	if cp.Items == nil {
		cp.Items = []models.CartItem{}
	}
	return &cp
}

type OrderStore struct {
	mu   sync.RWMutex
	byID map[primitive.ObjectID]*models.Order
}

func (s *OrderStore) Insert(ctx context.Context, o *models.Order) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	s.byID[o.ID] = cloneOrder(o)
	return nil
}

func (s *OrderStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return cloneOrder(o), nil
}

func (s *OrderStore) FindByIntentID(ctx context.Context, intentID string) (*models.Order, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.byID {
		if o.PaymentIntentID != "" && o.PaymentIntentID == intentID {
			return cloneOrder(o), nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *OrderStore) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Order, 0)
	for _, o := range s.byID {
		if o.UserID == userID {
			out = append(out, *cloneOrder(o))
		}
	}
	sortOrders(out)
	return out, nil
}

func (s *OrderStore) FindAll(ctx context.Context) ([]models.Order, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Order, 0, len(s.byID))
	for _, o := range s.byID {
		out = append(out, *cloneOrder(o))
	}
	sortOrders(out)
	return out, nil
}

func (s *OrderStore) SetPaymentIntent(ctx context.Context, id primitive.ObjectID, intentID string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.byID[id]
	if !ok {
		return store.ErrNotFound
	}
	o.PaymentIntentID = intentID
	o.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *OrderStore) SetStatus(ctx context.Context, id primitive.ObjectID, status models.PaymentStatus) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.byID[id]
	if !ok {
		return store.ErrNotFound
	}
	o.PaymentStatus = status
	o.UpdatedAt = time.Now().UTC()
	return nil
}

func sortOrders(orders []models.Order) {
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
}

func cloneOrder(o *models.Order) *models.Order {
	cp := *o
	cp.Items = append([]models.OrderItem(nil), o.Items...)
	return &cp
}
