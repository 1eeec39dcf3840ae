package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bazaar-backend/internal/models"
	"bazaar-backend/internal/store"
)

type OrderStore struct {
	col *mongo.Collection
}

func (s *OrderStore) Insert(ctx context.Context, o *models.Order) error {
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	_, err := s.col.InsertOne(ctx, o)
	return mapErr(err)
}

func (s *OrderStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var o models.Order
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		return nil, mapErr(err)
	}
	return &o, nil
}

func (s *OrderStore) FindByIntentID(ctx context.Context, intentID string) (*models.Order, error) {
	var o models.Order
	if err := s.col.FindOne(ctx, bson.M{"paymentIntentId": intentID}).Decode(&o); err != nil {
		return nil, mapErr(err)
	}
	return &o, nil
}

func (s *OrderStore) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.find(ctx, bson.M{"user": userID})
}

func (s *OrderStore) FindAll(ctx context.Context) ([]models.Order, error) {
	return s.find(ctx, bson.M{})
}

func (s *OrderStore) find(ctx context.Context, query bson.M) ([]models.Order, error) {
	cur, err := s.col.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, mapErr(err)
	}
	var orders []models.Order
	if err := cur.All(ctx, &orders); err != nil {
		return nil, mapErr(err)
	}
	return orders, nil
}

func (s *OrderStore) SetPaymentIntent(ctx context.Context, id primitive.ObjectID, intentID string) error {
	return s.setFields(ctx, id, bson.M{"paymentIntentId": intentID})
}

func (s *OrderStore) SetStatus(ctx context.Context, id primitive.ObjectID, status models.PaymentStatus) error {
	return s.setFields(ctx, id, bson.M{"paymentStatus": status})
}

func (s *OrderStore) setFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updatedAt"] = time.Now().UTC()
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return mapErr(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
