package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bazaar-backend/internal/apperr"
	"bazaar-backend/internal/models"
	"bazaar-backend/internal/store"
)

func (s *Server) getMe(c *gin.Context) {
	ok(c, http.StatusOK, gin.H{"user": currentUser(c)})
}

type updateMeRequest struct {
	Name    string          `json:"name"`
	Profile *models.Profile `json:"profile"`
}

func (s *Server) updateMe(c *gin.Context) {
	var req updateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.failValidation(c, err)
		return
	}

	u := currentUser(c)
	if req.Name != "" {
		u.Name = req.Name
	}
	if req.Profile != nil {
		if req.Profile.Address != "" {
			u.Profile.Address = req.Profile.Address
		}
		if req.Profile.Phone != "" {
			u.Profile.Phone = req.Profile.Phone
		}
	}

	if err := s.users.Update(c.Request.Context(), u); err != nil {
		s.fail(c, apperr.Wrap(apperr.Internal, "failed to update profile", err))
		return
	}

	ok(c, http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    u,
	})
}

func (s *Server) listUsers(c *gin.Context) {
	users, err := s.users.FindAll(c.Request.Context())
	if err != nil {
		s.fail(c, apperr.Wrap(apperr.Internal, "failed to load users", err))
		return
	}
	ok(c, http.StatusOK, gin.H{"count": len(users), "users": users})
}

// deleteUser is a soft delete: the record stays, the active flag clears.
func (s *Server) deleteUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		s.fail(c, apperr.New(apperr.Validation, "Invalid user id"))
		return
	}

	u, err := s.users.FindByID(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.fail(c, apperr.New(apperr.NotFound, "User not found"))
		return
	}
	if err != nil {
		s.fail(c, apperr.Wrap(apperr.Internal, "failed to load user", err))
		return
	}

	u.IsActive = false
	if err := s.users.Update(c.Request.Context(), u); err != nil {
		s.fail(c, apperr.Wrap(apperr.Internal, "failed to deactivate user", err))
		return
	}

	ok(c, http.StatusOK, gin.H{"message": "User deactivated successfully"})
}
