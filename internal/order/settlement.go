package order

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"bazaar-backend/internal/apperr"
	"bazaar-backend/internal/models"
	"bazaar-backend/internal/payment"
	"bazaar-backend/internal/store"
)

// ApplyEvent reconciles a verified settlement callback. When no order
// references the intent, or the order already left pending, the event is
// acknowledged without mutating anything — the status check is the sole
// guard against duplicate callback delivery.
func (s *Service) ApplyEvent(ctx context.Context, ev *payment.Event) (*models.Order, error) {
	if ev == nil {
		return nil, nil
	}
	o, err := s.orders.FindByIntentID(ctx, ev.IntentID)
	if errors.Is(err, store.ErrNotFound) {
		s.log.Warn("settlement event for unknown intent", zap.String("intent_id", ev.IntentID))
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to load order", err)
	}
	if o.PaymentStatus != models.PaymentPending {
		return o, nil
	}

	if !ev.Succeeded {
		if err := s.orders.SetStatus(ctx, o.ID, models.PaymentFailed); err != nil {
			return nil, apperr.Wrap(apperr.Internal, "failed to update order status", err)
		}
		o.PaymentStatus = models.PaymentFailed
		if s.met != nil {
			s.met.PaymentsSettled.WithLabelValues(string(models.PaymentFailed)).Inc()
		}
		return o, nil
	}
	return s.settle(ctx, o)
}

// ConfirmDirect is the same-process confirm path used without a real
// gateway. Only the order's own buyer may call it, and only while the
// order is still pending.
func (s *Service) ConfirmDirect(ctx context.Context, actor *models.User, orderID primitive.ObjectID) (*models.Order, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.New(apperr.NotFound, "Order not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to load order", err)
	}
	if o.UserID != actor.ID {
		return nil, apperr.New(apperr.Forbidden, "Not authorized")
	}
	if o.PaymentStatus != models.PaymentPending {
		return nil, apperr.New(apperr.InvalidState, "Order already processed")
	}
	return s.settle(ctx, o)
}

// settle flips the order to paid, then decrements stock per line. The
// status write and the per-line decrements are independent commits: a
// crash in between leaves products under-decremented relative to a paid
// order. Best effort, no retry queue. Each decrement is a conditional
// update, so stock never goes negative; a shortfall is logged and
// skipped rather than compensated.
func (s *Service) settle(ctx context.Context, o *models.Order) (*models.Order, error) {
	if err := s.orders.SetStatus(ctx, o.ID, models.PaymentPaid); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to update order status", err)
	}
	o.PaymentStatus = models.PaymentPaid

	for _, line := range o.Items {
		err := s.products.DecrementStock(ctx, line.ProductID, line.Quantity)
		if err != nil {
			s.log.Warn("stock decrement skipped during settlement",
				zap.String("order_id", o.ID.Hex()),
				zap.String("product_id", line.ProductID.Hex()),
				zap.Int("quantity", line.Quantity),
				zap.Error(err))
		}
	}

	if s.met != nil {
		s.met.PaymentsSettled.WithLabelValues(string(models.PaymentPaid)).Inc()
	}
	s.log.Info("order settled",
		zap.String("order_id", o.ID.Hex()),
		zap.String("intent_id", o.PaymentIntentID))
	return o, nil
}
