package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bazaar-backend/internal/apperr"
)

func (s *Server) createOrder(c *gin.Context) {
	o, intent, err := s.orders.Create(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{
		"message": "Order created successfully",
		"order":   o,
		"payment": gin.H{
			"clientSecret":    intent.ClientSecret,
			"paymentIntentId": intent.ID,
		},
	})
}

func (s *Server) listOrders(c *gin.Context) {
	orders, err := s.orders.List(c.Request.Context(), currentUser(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

func (s *Server) getOrder(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		s.fail(c, apperr.New(apperr.Validation, "Invalid order id"))
		return
	}

	o, err := s.orders.Get(c.Request.Context(), currentUser(c), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"order": o})
}
