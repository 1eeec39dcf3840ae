// Package order implements order creation from the cart, role-scoped
// retrieval, and payment settlement reconciliation.
package order

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"bazaar-backend/internal/apperr"
	"bazaar-backend/internal/auth"
	"bazaar-backend/internal/metrics"
	"bazaar-backend/internal/models"
	"bazaar-backend/internal/payment"
	"bazaar-backend/internal/store"
)

type Service struct {
	orders   store.OrderStore
	carts    store.CartStore
	products store.ProductStore
	gateway  payment.Gateway
	log      *zap.Logger
	met      *metrics.Metrics
}

// NewService wires the order service. log and met may be nil (tests).
func NewService(orders store.OrderStore, carts store.CartStore, products store.ProductStore, gateway payment.Gateway, log *zap.Logger, met *metrics.Metrics) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{orders: orders, carts: carts, products: products, gateway: gateway, log: log, met: met}
}

// Create snapshots the buyer's cart into a pending order, requests a
// payment intent, and clears the cart. The total is computed from the
// price snapshots captured at add-time, never the live catalog price.
//
// The cart is cleared once the order record exists, even when the intent
// call fails; that failure leaves an orphaned pending order with no
// intent id. Accepted gap, no compensation.
func (s *Service) Create(ctx context.Context, buyerID primitive.ObjectID) (*models.Order, *payment.Intent, error) {
	c, err := s.carts.FindByUser(ctx, buyerID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && len(c.Items) == 0) {
		return nil, nil, apperr.New(apperr.InvalidState, "Cart is empty")
	}
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.Internal, "failed to load cart", err)
	}

	// Re-check live stock per line. Fresher than the cart-time check but
	// still not atomic with the settlement decrement.
	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(c.Items))
	for _, line := range c.Items {
		p, err := s.products.FindByID(ctx, line.ProductID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, apperr.New(apperr.InsufficientStock, "Insufficient stock")
		}
		if err != nil {
			return nil, nil, apperr.Wrap(apperr.Internal, "failed to load product", err)
		}
		if p.Stock < line.Quantity {
			return nil, nil, apperr.Newf(apperr.InsufficientStock, "Insufficient stock for %s", p.Title)
		}
		total = total.Add(decimal.NewFromFloat(line.PriceSnapshot).Mul(decimal.NewFromInt(int64(line.Quantity))))
		items = append(items, models.OrderItem{
			ProductID:     line.ProductID,
			Quantity:      line.Quantity,
			PriceSnapshot: line.PriceSnapshot,
		})
	}

	o := &models.Order{
		UserID:        buyerID,
		Items:         items,
		TotalAmount:   total.InexactFloat64(),
		PaymentStatus: models.PaymentPending,
	}
	if err := s.orders.Insert(ctx, o); err != nil {
		return nil, nil, apperr.Wrap(apperr.Internal, "failed to create order", err)
	}

	intent, intentErr := s.gateway.CreateIntent(ctx, o.TotalAmount)
	if intentErr == nil {
		o.PaymentIntentID = intent.ID
		if err := s.orders.SetPaymentIntent(ctx, o.ID, intent.ID); err != nil {
			s.log.Error("failed to record payment intent on order",
				zap.String("order_id", o.ID.Hex()), zap.Error(err))
		}
	}

	// Cart is cleared unconditionally once the order record exists.
	c.Items = []models.CartItem{}
	if err := s.carts.Save(ctx, c); err != nil {
		s.log.Error("failed to clear cart after order creation",
			zap.String("order_id", o.ID.Hex()), zap.Error(err))
	}

	if intentErr != nil {
		s.log.Error("payment intent creation failed, pending order orphaned",
			zap.String("order_id", o.ID.Hex()), zap.Error(intentErr))
		return nil, nil, apperr.Wrap(apperr.Internal, "payment intent creation failed", intentErr)
	}
	if s.met != nil {
		s.met.OrdersCreated.Inc()
	}
	return o, intent, nil
}

// List applies role visibility: admins see everything, buyers their own
// orders, vendors every order containing at least one of their products.
// The vendor path loads all orders and filters client-side; there is no
// index-assisted query for it.
func (s *Service) List(ctx context.Context, actor *models.User) ([]models.Order, error) {
	switch actor.Role {
	case models.RoleAdmin:
		orders, err := s.orders.FindAll(ctx)
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, "failed to load orders", err)
		}
		return orders, nil
	case models.RoleVendor:
		orders, err := s.orders.FindAll(ctx)
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, "failed to load orders", err)
		}
		vendorOf := map[primitive.ObjectID]primitive.ObjectID{}
		filtered := make([]models.Order, 0)
		for _, o := range orders {
			ok, err := s.vendorHasLine(ctx, &o, actor.ID, vendorOf)
			if err != nil {
				return nil, err
			}
			if ok {
				filtered = append(filtered, o)
			}
		}
		return filtered, nil
	default:
		orders, err := s.orders.FindByUser(ctx, actor.ID)
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, "failed to load orders", err)
		}
		return orders, nil
	}
}

// Get enforces the same visibility rules for a single order.
func (s *Service) Get(ctx context.Context, actor *models.User, orderID primitive.ObjectID) (*models.Order, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.New(apperr.NotFound, "Order not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to load order", err)
	}

	vendorHasLine := false
	if actor.Role == models.RoleVendor {
		vendorHasLine, err = s.vendorHasLine(ctx, o, actor.ID, map[primitive.ObjectID]primitive.ObjectID{})
		if err != nil {
			return nil, err
		}
	}
	if !auth.CanViewOrder(actor, o.UserID, vendorHasLine) {
		return nil, apperr.New(apperr.Forbidden, "Not authorized to view this order")
	}
	return o, nil
}

// vendorHasLine reports whether any line item's product belongs to
// vendorID. vendorOf caches product ownership across calls within one
// request. Lines whose product has since been deleted never match.
func (s *Service) vendorHasLine(ctx context.Context, o *models.Order, vendorID primitive.ObjectID, vendorOf map[primitive.ObjectID]primitive.ObjectID) (bool, error) {
	for _, line := range o.Items {
		owner, cached := vendorOf[line.ProductID]
		if !cached {
			p, err := s.products.FindByID(ctx, line.ProductID)
			if errors.Is(err, store.ErrNotFound) {
				vendorOf[line.ProductID] = primitive.NilObjectID
				continue
			}
			if err != nil {
				return false, apperr.Wrap(apperr.Internal, "failed to load product", err)
			}
			owner = p.VendorID
			vendorOf[line.ProductID] = owner
		}
		if owner == vendorID {
			return true, nil
		}
	}
	return false, nil
}
