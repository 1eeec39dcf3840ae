package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bazaar-backend/internal/apperr"
)

// paymentWebhook receives settlement callbacks from the gateway. The
// payload is verified before anything is mutated; verification failures
// reject the callback outright. Unknown intents are acknowledged so the
// gateway stops retrying.
func (s *Server) paymentWebhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		s.fail(c, apperr.Wrap(apperr.Validation, "failed to read webhook body", err))
		return
	}

	ev, err := s.gateway.VerifyCallback(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		s.fail(c, err)
		return
	}

	if _, err := s.orders.ApplyEvent(c.Request.Context(), ev); err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

type mockPaymentRequest struct {
	OrderID string `json:"orderId" binding:"required"`
}

// mockPayment is the direct confirm path for testing without a real
// gateway: the order's own buyer settles it in-process.
func (s *Server) mockPayment(c *gin.Context) {
	var req mockPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.failValidation(c, err)
		return
	}
	orderID, err := primitive.ObjectIDFromHex(req.OrderID)
	if err != nil {
		s.fail(c, apperr.New(apperr.Validation, "Invalid order id"))
		return
	}

	o, err := s.orders.ConfirmDirect(c.Request.Context(), currentUser(c), orderID)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{
		"message": "Payment processed successfully (mock)",
		"order":   o,
	})
}
