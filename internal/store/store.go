// Package store defines the persistence ports. Mongo implementations live
// in mongostore; memstore backs the unit tests.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bazaar-backend/internal/models"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrDuplicateKey  = errors.New("store: duplicate key")
	ErrStockConflict = errors.New("store: insufficient stock")
)

type UserStore interface {
	Insert(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, u *models.User) error
}

// ProductFilter narrows catalog listings. Page is 1-based.
type ProductFilter struct {
	Category string
	Search   string
	Page     int
	Limit    int
}

type ProductStore interface {
	Insert(ctx context.Context, p *models.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Find(ctx context.Context, f ProductFilter) ([]models.Product, int64, error)
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// DecrementStock atomically subtracts qty from the product's stock,
	// refusing the write when stock < qty so committed stock never goes
	// negative. Returns ErrStockConflict on refusal, ErrNotFound when the
	// product does not exist.
	DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error
}

type CartStore interface {
	// FindByUser returns ErrNotFound when the buyer has no cart yet.
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	// Save upserts the cart keyed by its user.
	Save(ctx context.Context, c *models.Cart) error
}

type OrderStore interface {
	Insert(ctx context.Context, o *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	FindByIntentID(ctx context.Context, intentID string) (*models.Order, error)
	// FindByUser and FindAll return orders newest-created first.
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	FindAll(ctx context.Context) ([]models.Order, error)
	SetPaymentIntent(ctx context.Context, id primitive.ObjectID, intentID string) error
	SetStatus(ctx context.Context, id primitive.ObjectID, status models.PaymentStatus) error
}
