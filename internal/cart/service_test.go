package cart

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bazaar-backend/internal/apperr"
	"bazaar-backend/internal/models"
	"bazaar-backend/internal/store/memstore"
)

func newFixture(t *testing.T) (*Service, *memstore.Stores, primitive.ObjectID) {
	t.Helper()
	stores := memstore.New()
	svc := NewService(stores.Carts, stores.Products)
	return svc, stores, primitive.NewObjectID()
}

func seedProduct(t *testing.T, stores *memstore.Stores, price float64, stock int) *models.Product {
	t.Helper()
	p := &models.Product{
		Title:       "Widget",
		Description: "A widget",
		Price:       price,
		Stock:       stock,
		Category:    "Misc",
		VendorID:    primitive.NewObjectID(),
	}
	if err := stores.Products.Insert(context.Background(), p); err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

func TestGet_CreatesEmptyCartLazily(t *testing.T) {
	svc, _, buyer := newFixture(t)

	c, err := svc.Get(context.Background(), buyer)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(c.Items) != 0 {
		t.Errorf("expected empty cart, got %d items", len(c.Items))
	}

	again, err := svc.Get(context.Background(), buyer)
	if err != nil {
		t.Fatalf("Get again: %v", err)
	}
	if again.ID != c.ID {
		t.Errorf("expected the same cart on second access")
	}
}

func TestAddItem_MergesLinesForSameProduct(t *testing.T) {
	svc, stores, buyer := newFixture(t)
	p := seedProduct(t, stores, 10, 10)

	if _, err := svc.AddItem(context.Background(), buyer, p.ID, 3); err != nil {
		t.Fatalf("first add: %v", err)
	}
	c, err := svc.AddItem(context.Background(), buyer, p.ID, 2)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if len(c.Items) != 1 {
		t.Fatalf("expected 1 merged line, got %d", len(c.Items))
	}
	if c.Items[0].Quantity != 5 {
		t.Errorf("expected quantity 5, got %d", c.Items[0].Quantity)
	}

	// Adding to the cart never touches the stock counter.
	got, _ := stores.Products.FindByID(context.Background(), p.ID)
	if got.Stock != 10 {
		t.Errorf("expected stock 10, got %d", got.Stock)
	}
}

func TestAddItem_UnknownProduct(t *testing.T) {
	svc, _, buyer := newFixture(t)

	_, err := svc.AddItem(context.Background(), buyer, primitive.NewObjectID(), 1)
	if !apperr.Is(err, apperr.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestAddItem_InsufficientStock(t *testing.T) {
	svc, stores, buyer := newFixture(t)
	p := seedProduct(t, stores, 10, 4)

	t.Run("single add exceeds stock", func(t *testing.T) {
		_, err := svc.AddItem(context.Background(), buyer, p.ID, 5)
		if !apperr.Is(err, apperr.InsufficientStock) {
			t.Fatalf("expected InsufficientStock, got %v", err)
		}
	})

	t.Run("cumulative quantity exceeds stock", func(t *testing.T) {
		if _, err := svc.AddItem(context.Background(), buyer, p.ID, 3); err != nil {
			t.Fatalf("add: %v", err)
		}
		_, err := svc.AddItem(context.Background(), buyer, p.ID, 2)
		if !apperr.Is(err, apperr.InsufficientStock) {
			t.Fatalf("expected InsufficientStock, got %v", err)
		}
	})
}

func TestAddItem_SnapshotsPriceAtAddTime(t *testing.T) {
	svc, stores, buyer := newFixture(t)
	p := seedProduct(t, stores, 10, 10)

	if _, err := svc.AddItem(context.Background(), buyer, p.ID, 2); err != nil {
		t.Fatalf("add: %v", err)
	}

	p.Price = 25
	if err := stores.Products.Update(context.Background(), p); err != nil {
		t.Fatalf("update product: %v", err)
	}

	c, err := svc.SetItemQuantity(context.Background(), buyer, p.ID, 4)
	if err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if c.Items[0].PriceSnapshot != 10 {
		t.Errorf("snapshot refreshed: got %v, want 10", c.Items[0].PriceSnapshot)
	}
}

func TestSetItemQuantity(t *testing.T) {
	t.Run("zero removes the line", func(t *testing.T) {
		svc, stores, buyer := newFixture(t)
		p := seedProduct(t, stores, 10, 10)
		if _, err := svc.AddItem(context.Background(), buyer, p.ID, 3); err != nil {
			t.Fatalf("add: %v", err)
		}

		c, err := svc.SetItemQuantity(context.Background(), buyer, p.ID, 0)
		if err != nil {
			t.Fatalf("set quantity 0: %v", err)
		}
		if len(c.Items) != 0 {
			t.Errorf("expected line removed, got %d lines", len(c.Items))
		}
	})

	t.Run("above stock fails and leaves cart unchanged", func(t *testing.T) {
		svc, stores, buyer := newFixture(t)
		p := seedProduct(t, stores, 10, 10)
		if _, err := svc.AddItem(context.Background(), buyer, p.ID, 3); err != nil {
			t.Fatalf("add: %v", err)
		}

		_, err := svc.SetItemQuantity(context.Background(), buyer, p.ID, 11)
		if !apperr.Is(err, apperr.InsufficientStock) {
			t.Fatalf("expected InsufficientStock, got %v", err)
		}
		c, _ := svc.Get(context.Background(), buyer)
		if len(c.Items) != 1 || c.Items[0].Quantity != 3 {
			t.Errorf("cart changed after failed update: %+v", c.Items)
		}
	})

	t.Run("missing cart", func(t *testing.T) {
		svc, _, buyer := newFixture(t)
		_, err := svc.SetItemQuantity(context.Background(), buyer, primitive.NewObjectID(), 2)
		if !apperr.Is(err, apperr.NotFound) {
			t.Fatalf("expected NotFound, got %v", err)
		}
	})

	t.Run("missing line", func(t *testing.T) {
		svc, stores, buyer := newFixture(t)
		p := seedProduct(t, stores, 10, 10)
		if _, err := svc.AddItem(context.Background(), buyer, p.ID, 1); err != nil {
			t.Fatalf("add: %v", err)
		}
		_, err := svc.SetItemQuantity(context.Background(), buyer, primitive.NewObjectID(), 2)
		if !apperr.Is(err, apperr.NotFound) {
			t.Fatalf("expected NotFound, got %v", err)
		}
	})
}

func TestRemoveItem_Idempotent(t *testing.T) {
	svc, stores, buyer := newFixture(t)
	p := seedProduct(t, stores, 10, 10)
	if _, err := svc.AddItem(context.Background(), buyer, p.ID, 2); err != nil {
		t.Fatalf("add: %v", err)
	}

	c, err := svc.RemoveItem(context.Background(), buyer, p.ID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(c.Items) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(c.Items))
	}

	// Removing an absent line is not an error.
	if _, err := svc.RemoveItem(context.Background(), buyer, p.ID); err != nil {
		t.Errorf("second remove: %v", err)
	}
}

func TestClear(t *testing.T) {
	svc, stores, buyer := newFixture(t)
	p := seedProduct(t, stores, 10, 10)
	q := seedProduct(t, stores, 5, 10)
	if _, err := svc.AddItem(context.Background(), buyer, p.ID, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.AddItem(context.Background(), buyer, q.ID, 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	c, err := svc.Clear(context.Background(), buyer)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(c.Items) != 0 {
		t.Errorf("expected empty cart, got %d lines", len(c.Items))
	}
}
