// Package mongostore implements the store ports on the MongoDB driver.
package mongostore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bazaar-backend/internal/store"
)

const (
	colUsers    = "users"
	colProducts = "products"
	colCarts    = "carts"
	colOrders   = "orders"
)

type Stores struct {
	Users    *UserStore
	Products *ProductStore
	Carts    *CartStore
	Orders   *OrderStore
}

func New(db *mongo.Database) *Stores {
	return &Stores{
		Users:    &UserStore{col: db.Collection(colUsers)},
		Products: &ProductStore{col: db.Collection(colProducts)},
		Carts:    &CartStore{col: db.Collection(colCarts)},
		Orders:   &OrderStore{col: db.Collection(colOrders)},
	}
}

// EnsureIndexes creates the unique indexes the data model relies on:
// one account per email, one cart per buyer, and intent-id lookup for
// settlement callbacks.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(colUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = db.Collection(colCarts).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = db.Collection(colOrders).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "paymentIntentId", Value: 1}},
		Options: options.Index().SetSparse(true),
	})
	return err
}

func mapErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return store.ErrDuplicateKey
	}
	return err
}
