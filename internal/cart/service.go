// Package cart implements the per-buyer cart aggregate: an ordered line
// sequence with at most one line per product, each line carrying the
// price snapshot captured when it was added.
package cart

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bazaar-backend/internal/apperr"
	"bazaar-backend/internal/models"
	"bazaar-backend/internal/store"
)

type Service struct {
	carts    store.CartStore
	products store.ProductStore
}

func NewService(carts store.CartStore, products store.ProductStore) *Service {
	return &Service{carts: carts, products: products}
}

// Get returns the buyer's cart, creating an empty one on first access.
func (s *Service) Get(ctx context.Context, buyerID primitive.ObjectID) (*models.Cart, error) {
	c, err := s.carts.FindByUser(ctx, buyerID)
	if errors.Is(err, store.ErrNotFound) {
		c = &models.Cart{UserID: buyerID, Items: []models.CartItem{}}
		if err := s.carts.Save(ctx, c); err != nil {
			return nil, apperr.Wrap(apperr.Internal, "failed to create cart", err)
		}
		return c, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to load cart", err)
	}
	return c, nil
}

// AddItem appends a line with the product's current price as snapshot, or
// merges quantity into an existing line for the same product. Stock is
// checked against the live counter at call time; no reservation is taken,
// so a concurrent sale can still oversell between this check and
// settlement. Known consistency gap, tolerated by design.
func (s *Service) AddItem(ctx context.Context, buyerID, productID primitive.ObjectID, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, apperr.New(apperr.Validation, "quantity must be at least 1")
	}

	p, err := s.products.FindByID(ctx, productID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.New(apperr.NotFound, "Product not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to load product", err)
	}

	c, err := s.Get(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	idx := lineIndex(c.Items, productID)
	newQty := quantity
	if idx >= 0 {
		newQty += c.Items[idx].Quantity
	}
	if newQty > p.Stock {
		return nil, apperr.New(apperr.InsufficientStock, "Insufficient stock")
	}

	if idx >= 0 {
		c.Items[idx].Quantity = newQty
	} else {
		c.Items = append(c.Items, models.CartItem{
			ProductID:     productID,
			Quantity:      quantity,
			PriceSnapshot: p.Price,
		})
	}

	if err := s.carts.Save(ctx, c); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to save cart", err)
	}
	return c, nil
}

// SetItemQuantity overwrites the line's quantity. The price snapshot is
// not refreshed. Quantity <= 0 removes the line.
func (s *Service) SetItemQuantity(ctx context.Context, buyerID, productID primitive.ObjectID, quantity int) (*models.Cart, error) {
	c, err := s.carts.FindByUser(ctx, buyerID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.New(apperr.NotFound, "Cart not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to load cart", err)
	}

	idx := lineIndex(c.Items, productID)
	if idx < 0 {
		return nil, apperr.New(apperr.NotFound, "Item not found in cart")
	}

	if quantity <= 0 {
		c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	} else {
		p, err := s.products.FindByID(ctx, productID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "Product not found")
		}
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, "failed to load product", err)
		}
		if quantity > p.Stock {
			return nil, apperr.New(apperr.InsufficientStock, "Insufficient stock")
		}
		c.Items[idx].Quantity = quantity
	}

	if err := s.carts.Save(ctx, c); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to save cart", err)
	}
	return c, nil
}

// RemoveItem deletes the line if present. Absence is not an error.
func (s *Service) RemoveItem(ctx context.Context, buyerID, productID primitive.ObjectID) (*models.Cart, error) {
	c, err := s.carts.FindByUser(ctx, buyerID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.New(apperr.NotFound, "Cart not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to load cart", err)
	}

	if idx := lineIndex(c.Items, productID); idx >= 0 {
		c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
		if err := s.carts.Save(ctx, c); err != nil {
			return nil, apperr.Wrap(apperr.Internal, "failed to save cart", err)
		}
	}
	return c, nil
}

// Clear empties the line sequence.
func (s *Service) Clear(ctx context.Context, buyerID primitive.ObjectID) (*models.Cart, error) {
	c, err := s.carts.FindByUser(ctx, buyerID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.New(apperr.NotFound, "Cart not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to load cart", err)
	}

	c.Items = []models.CartItem{}
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to save cart", err)
	}
	return c, nil
}

func lineIndex(items []models.CartItem, productID primitive.ObjectID) int {
	for i, it := range items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}
