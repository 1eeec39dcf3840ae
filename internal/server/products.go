package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bazaar-backend/internal/apperr"
	"bazaar-backend/internal/auth"
	"bazaar-backend/internal/models"
	"bazaar-backend/internal/store"
)

func (s *Server) listProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	products, total, err := s.products.Find(c.Request.Context(), store.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		s.fail(c, apperr.Wrap(apperr.Internal, "failed to load products", err))
		return
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	pages := (total + int64(limit) - 1) / int64(limit)

	ok(c, http.StatusOK, gin.H{
		"count":    len(products),
		"total":    total,
		"page":     page,
		"pages":    pages,
		"products": products,
	})
}

func (s *Server) getProduct(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		s.fail(c, apperr.New(apperr.Validation, "Invalid product id"))
		return
	}
	p, err := s.products.FindByID(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.fail(c, apperr.New(apperr.NotFound, "Product not found"))
		return
	}
	if err != nil {
		s.fail(c, apperr.Wrap(apperr.Internal, "failed to load product", err))
		return
	}
	ok(c, http.StatusOK, gin.H{"product": p})
}

type productRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
	Stock       *int     `json:"stock" binding:"required,gte=0"`
	Images      []string `json:"images"`
	Category    string   `json:"category" binding:"required"`
	Vendor      string   `json:"vendor"`
}

func (s *Server) createProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.failValidation(c, err)
		return
	}

	actor := currentUser(c)
	vendorID := actor.ID
	// Admins may create on behalf of a vendor.
	if actor.Role == models.RoleAdmin && req.Vendor != "" {
		id, err := primitive.ObjectIDFromHex(req.Vendor)
		if err != nil {
			s.fail(c, apperr.New(apperr.Validation, "Invalid vendor id"))
			return
		}
		vendorID = id
	}

	p := &models.Product{
		Title:       req.Title,
		Description: req.Description,
		Price:       *req.Price,
		Stock:       *req.Stock,
		Images:      req.Images,
		Category:    req.Category,
		VendorID:    vendorID,
	}
	if err := s.products.Insert(c.Request.Context(), p); err != nil {
		s.fail(c, apperr.Wrap(apperr.Internal, "failed to create product", err))
		return
	}

	ok(c, http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"product": p,
	})
}

type productUpdateRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Images      []string `json:"images"`
	Category    *string  `json:"category"`
}

func (s *Server) updateProduct(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		s.fail(c, apperr.New(apperr.Validation, "Invalid product id"))
		return
	}

	var req productUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.failValidation(c, err)
		return
	}
	if req.Price != nil && *req.Price < 0 {
		s.fail(c, apperr.New(apperr.Validation, "Price must not be negative"))
		return
	}
	if req.Stock != nil && *req.Stock < 0 {
		s.fail(c, apperr.New(apperr.Validation, "Stock must not be negative"))
		return
	}

	p, err := s.products.FindByID(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.fail(c, apperr.New(apperr.NotFound, "Product not found"))
		return
	}
	if err != nil {
		s.fail(c, apperr.Wrap(apperr.Internal, "failed to load product", err))
		return
	}

	if !auth.CanWriteProduct(currentUser(c), p.VendorID) {
		s.fail(c, apperr.New(apperr.Forbidden, "Not authorized to update this product"))
		return
	}

	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.Images != nil {
		p.Images = req.Images
	}
	if req.Category != nil {
		p.Category = *req.Category
	}

	if err := s.products.Update(c.Request.Context(), p); err != nil {
		s.fail(c, apperr.Wrap(apperr.Internal, "failed to update product", err))
		return
	}

	ok(c, http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"product": p,
	})
}

func (s *Server) deleteProduct(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		s.fail(c, apperr.New(apperr.Validation, "Invalid product id"))
		return
	}

	p, err := s.products.FindByID(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.fail(c, apperr.New(apperr.NotFound, "Product not found"))
		return
	}
	if err != nil {
		s.fail(c, apperr.Wrap(apperr.Internal, "failed to load product", err))
		return
	}

	if !auth.CanWriteProduct(currentUser(c), p.VendorID) {
		s.fail(c, apperr.New(apperr.Forbidden, "Not authorized to delete this product"))
		return
	}

	if err := s.products.Delete(c.Request.Context(), id); err != nil {
		s.fail(c, apperr.Wrap(apperr.Internal, "failed to delete product", err))
		return
	}

	ok(c, http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
