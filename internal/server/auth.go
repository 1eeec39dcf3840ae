package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bazaar-backend/internal/apperr"
	"bazaar-backend/internal/auth"
	"bazaar-backend/internal/models"
	"bazaar-backend/internal/store"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.failValidation(c, err)
		return
	}

	if _, err := s.users.FindByEmail(c.Request.Context(), req.Email); err == nil {
		s.fail(c, apperr.New(apperr.Validation, "User already exists with this email"))
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		s.fail(c, apperr.Wrap(apperr.Internal, "failed to check email", err))
		return
	}

	// Self-service registration only hands out buyer and vendor; admin
	// accounts come from seeding.
	role := models.Role(req.Role)
	if role != models.RoleBuyer && role != models.RoleVendor {
		role = models.RoleBuyer
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.fail(c, apperr.Wrap(apperr.Internal, "failed to hash password", err))
		return
	}

	u := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := s.users.Insert(c.Request.Context(), u); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			s.fail(c, apperr.New(apperr.Validation, "User already exists with this email"))
			return
		}
		s.fail(c, apperr.Wrap(apperr.Internal, "failed to create user", err))
		return
	}

	token, err := auth.IssueToken([]byte(s.cfg.JWTSecret), u, s.cfg.JWTTTL)
	if err != nil {
		s.fail(c, apperr.Wrap(apperr.Internal, "failed to issue token", err))
		return
	}

	ok(c, http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"token":   token,
		"user":    publicUser(u),
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.failValidation(c, err)
		return
	}

	u, err := s.users.FindByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		s.fail(c, apperr.New(apperr.Unauthenticated, "Invalid credentials"))
		return
	}
	if err != nil {
		s.fail(c, apperr.Wrap(apperr.Internal, "failed to load user", err))
		return
	}
	if !u.IsActive {
		s.fail(c, apperr.New(apperr.Unauthenticated, "Account is deactivated"))
		return
	}
	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		s.fail(c, apperr.New(apperr.Unauthenticated, "Invalid credentials"))
		return
	}

	token, err := auth.IssueToken([]byte(s.cfg.JWTSecret), u, s.cfg.JWTTTL)
	if err != nil {
		s.fail(c, apperr.Wrap(apperr.Internal, "failed to issue token", err))
		return
	}

	ok(c, http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    publicUser(u),
	})
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// forgotPassword hands the reset token back in the response body (no
// mail delivery in this deployment). Unknown emails get a synthetic
// token so account existence is not revealed.
func (s *Server) forgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.failValidation(c, err)
		return
	}

	token, err := auth.NewResetToken()
	if err != nil {
		s.fail(c, apperr.Wrap(apperr.Internal, "failed to generate reset token", err))
		return
	}

	u, err := s.users.FindByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		ok(c, http.StatusOK, gin.H{
			"message":    "If user exists, reset token has been generated",
			"resetToken": token,
		})
		return
	}
	if err != nil {
		s.fail(c, apperr.Wrap(apperr.Internal, "failed to load user", err))
		return
	}

	if err := s.resetTokens.Set(c.Request.Context(), token, u.ID, s.cfg.ResetTTL); err != nil {
		s.fail(c, apperr.Wrap(apperr.Internal, "failed to store reset token", err))
		return
	}
	s.log.Info("reset token issued", zap.String("user_id", u.ID.Hex()))

	ok(c, http.StatusOK, gin.H{
		"message":    "Reset token generated",
		"resetToken": token,
	})
}

type resetPasswordRequest struct {
	ResetToken  string `json:"resetToken" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

func (s *Server) resetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.failValidation(c, err)
		return
	}

	userID, err := s.resetTokens.Get(c.Request.Context(), req.ResetToken)
	if errors.Is(err, auth.ErrTokenNotFound) {
		s.fail(c, apperr.New(apperr.Validation, "Invalid or expired reset token"))
		return
	}
	if err != nil {
		s.fail(c, apperr.Wrap(apperr.Internal, "failed to look up reset token", err))
		return
	}

	u, err := s.users.FindByID(c.Request.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		s.fail(c, apperr.New(apperr.NotFound, "User not found"))
		return
	}
	if err != nil {
		s.fail(c, apperr.Wrap(apperr.Internal, "failed to load user", err))
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		s.fail(c, apperr.Wrap(apperr.Internal, "failed to hash password", err))
		return
	}
	u.PasswordHash = hash
	if err := s.users.Update(c.Request.Context(), u); err != nil {
		s.fail(c, apperr.Wrap(apperr.Internal, "failed to update password", err))
		return
	}

	// Single use.
	_ = s.resetTokens.Delete(c.Request.Context(), req.ResetToken)

	ok(c, http.StatusOK, gin.H{"message": "Password reset successfully"})
}

func publicUser(u *models.User) gin.H {
	return gin.H{
		"id":    u.ID.Hex(),
		"name":  u.Name,
		"email": u.Email,
		"role":  u.Role,
	}
}
