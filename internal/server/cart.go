package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bazaar-backend/internal/apperr"
)

func (s *Server) getCart(c *gin.Context) {
	cart, err := s.carts.Get(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"cart": cart})
}

type cartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

func (s *Server) addToCart(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.failValidation(c, err)
		return
	}
	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		s.fail(c, apperr.New(apperr.Validation, "Invalid product id"))
		return
	}

	cart, err := s.carts.AddItem(c.Request.Context(), currentUser(c).ID, productID, req.Quantity)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "Item added to cart", "cart": cart})
}

func (s *Server) updateCart(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.failValidation(c, err)
		return
	}
	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		s.fail(c, apperr.New(apperr.Validation, "Invalid product id"))
		return
	}

	cart, err := s.carts.SetItemQuantity(c.Request.Context(), currentUser(c).ID, productID, req.Quantity)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "Cart updated", "cart": cart})
}

func (s *Server) removeFromCart(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		s.fail(c, apperr.New(apperr.Validation, "Invalid product id"))
		return
	}

	cart, err := s.carts.RemoveItem(c.Request.Context(), currentUser(c).ID, productID)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "Item removed from cart", "cart": cart})
}

func (s *Server) clearCart(c *gin.Context) {
	cart, err := s.carts.Clear(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "Cart cleared", "cart": cart})
}
