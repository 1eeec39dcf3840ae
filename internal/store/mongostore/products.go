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

type ProductStore struct {
	col *mongo.Collection
}

func (s *ProductStore) Insert(ctx context.Context, p *models.Product) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	_, err := s.col.InsertOne(ctx, p)
	return mapErr(err)
}

func (s *ProductStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var p models.Product
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (s *ProductStore) Find(ctx context.Context, f store.ProductFilter) ([]models.Product, int64, error) {
	query := bson.M{}
	if f.Category != "" {
		query["category"] = f.Category
	}
	if f.Search != "" {
		query["$or"] = bson.A{
			bson.M{"title": bson.M{"$regex": f.Search, "$options": "i"}},
			bson.M{"description": bson.M{"$regex": f.Search, "$options": "i"}},
		}
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 10
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := s.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	var products []models.Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, 0, mapErr(err)
	}

	total, err := s.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	return products, total, nil
}

func (s *ProductStore) Update(ctx context.Context, p *models.Product) error {
	p.UpdatedAt = time.Now().UTC()
	res, err := s.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return mapErr(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *ProductStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mapErr(err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DecrementStock is a conditional $inc: the filter only matches while
// stock >= qty, so the committed stock can never go negative even under
// concurrent settlements of the same product.
func (s *ProductStore) DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id, "stock": bson.M{"$gte": qty}},
		bson.M{
			"$inc": bson.M{"stock": -qty},
			"$set": bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return mapErr(err)
	}
	if res.ModifiedCount == 0 {
		// Distinguish a missing product from a stock shortfall.
		n, err := s.col.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return mapErr(err)
		}
		if n == 0 {
			return store.ErrNotFound
		}
		return store.ErrStockConflict
	}
	return nil
}
