package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bazaar-backend/internal/models"
)

type CartStore struct {
	col *mongo.Collection
}

func (s *CartStore) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var c models.Cart
	if err := s.col.FindOne(ctx, bson.M{"user": userID}).Decode(&c); err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (s *CartStore) Save(ctx context.Context, c *models.Cart) error {
	now := time.Now().UTC()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	if c.Items == nil {
		c.Items = []models.CartItem{}
	}
	_, err := s.col.UpdateOne(ctx,
		bson.M{"user": c.UserID},
		bson.M{
			"$set": bson.M{"items": c.Items, "updatedAt": c.UpdatedAt},
			"$setOnInsert": bson.M{
				"_id":       c.ID,
				"user":      c.UserID,
				"createdAt": c.CreatedAt,
			},
		},
		options.Update().SetUpsert(true),
	)
	return mapErr(err)
}
