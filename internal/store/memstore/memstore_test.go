package memstore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bazaar-backend/internal/models"
	"bazaar-backend/internal/store"
)

var (
	_ store.UserStore    = (*UserStore)(nil)
	_ store.ProductStore = (*ProductStore)(nil)
	_ store.CartStore    = (*CartStore)(nil)
	_ store.OrderStore   = (*OrderStore)(nil)
)

func TestUserStore_DuplicateEmail(t *testing.T) {
	s := New()
	u := &models.User{Name: "A", Email: "a@example.com", Role: models.RoleBuyer, IsActive: true}
	if err := s.Users.Insert(context.Background(), u); err != nil {
		t.Fatalf("insert: %v", err)
	}
	dup := &models.User{Name: "B", Email: "a@example.com", Role: models.RoleBuyer}
	if err := s.Users.Insert(context.Background(), dup); !errors.Is(err, store.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestProductStore_DecrementStock(t *testing.T) {
	s := New()
	p := &models.Product{Title: "Widget", Stock: 5}
	if err := s.Products.Insert(context.Background(), p); err != nil {
		t.Fatalf("insert: %v", err)
	}

	t.Run("refuses shortfall", func(t *testing.T) {
		if err := s.Products.DecrementStock(context.Background(), p.ID, 6); !errors.Is(err, store.ErrStockConflict) {
			t.Fatalf("expected ErrStockConflict, got %v", err)
		}
		got, _ := s.Products.FindByID(context.Background(), p.ID)
		if got.Stock != 5 {
			t.Errorf("stock changed on refused decrement: %d", got.Stock)
		}
	})

	t.Run("unknown product", func(t *testing.T) {
		if err := s.Products.DecrementStock(context.Background(), primitive.NewObjectID(), 1); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("concurrent decrements never go negative", func(t *testing.T) {
		var wg sync.WaitGroup
		var mu sync.Mutex
		succeeded := 0
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := s.Products.DecrementStock(context.Background(), p.ID, 2); err == nil {
					mu.Lock()
					succeeded++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		got, _ := s.Products.FindByID(context.Background(), p.ID)
		if got.Stock < 0 {
			t.Fatalf("stock went negative: %d", got.Stock)
		}
		if got.Stock != 5-2*succeeded {
			t.Errorf("stock %d inconsistent with %d successful decrements", got.Stock, succeeded)
		}
		if succeeded != 2 {
			t.Errorf("expected exactly 2 decrements of 2 from stock 5, got %d", succeeded)
		}
	})
}

func TestCartStore_CloneOnRead(t *testing.T) {
	s := New()
	buyer := primitive.NewObjectID()
	c := &models.Cart{UserID: buyer, Items: []models.CartItem{{ProductID: primitive.NewObjectID(), Quantity: 1, PriceSnapshot: 2}}}
	if err := s.Carts.Save(context.Background(), c); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Carts.FindByUser(context.Background(), buyer)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	got.Items[0].Quantity = 99

	again, _ := s.Carts.FindByUser(context.Background(), buyer)
	if again.Items[0].Quantity != 1 {
		t.Errorf("mutation through returned cart leaked into the store")
	}
}

func TestOrderStore_FindByIntentID(t *testing.T) {
	s := New()
	o := &models.Order{UserID: primitive.NewObjectID(), PaymentStatus: models.PaymentPending}
	if err := s.Orders.Insert(context.Background(), o); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.Orders.SetPaymentIntent(context.Background(), o.ID, "pi_abc"); err != nil {
		t.Fatalf("set intent: %v", err)
	}

	got, err := s.Orders.FindByIntentID(context.Background(), "pi_abc")
	if err != nil {
		t.Fatalf("find by intent: %v", err)
	}
	if got.ID != o.ID {
		t.Errorf("wrong order returned")
	}

	if _, err := s.Orders.FindByIntentID(context.Background(), "pi_missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	// Orders with no intent id never match the empty string.
	empty := &models.Order{UserID: primitive.NewObjectID(), PaymentStatus: models.PaymentPending}
	if err := s.Orders.Insert(context.Background(), empty); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := s.Orders.FindByIntentID(context.Background(), ""); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("empty intent id matched an order: %v", err)
	}
}
