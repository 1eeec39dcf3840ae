package server

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"bazaar-backend/internal/apperr"
	"bazaar-backend/internal/auth"
	"bazaar-backend/internal/models"
	"bazaar-backend/internal/store"
)

const ctxUserKey = "authUser"

var (
	roleBuyerOnly     = []models.Role{models.RoleBuyer}
	roleAdminOnly     = []models.Role{models.RoleAdmin}
	roleVendorOrAdmin = []models.Role{models.RoleVendor, models.RoleAdmin}
)

// requireAuth parses the bearer token, loads the account and rejects
// deactivated users. The full user record ends up in the gin context.
func (s *Server) requireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		s.fail(c, apperr.New(apperr.Unauthenticated, "Missing or invalid authorization header"))
		c.Abort()
		return
	}

	claims, err := auth.ParseToken([]byte(s.cfg.JWTSecret), strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		s.fail(c, err)
		c.Abort()
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		s.fail(c, apperr.New(apperr.Unauthenticated, "Invalid token subject"))
		c.Abort()
		return
	}

	u, err := s.users.FindByID(c.Request.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		s.fail(c, apperr.New(apperr.Unauthenticated, "Account no longer exists"))
		c.Abort()
		return
	}
	if err != nil {
		s.fail(c, apperr.Wrap(apperr.Internal, "failed to load account", err))
		c.Abort()
		return
	}
	if !u.IsActive {
		s.fail(c, apperr.New(apperr.Unauthenticated, "Account is deactivated"))
		c.Abort()
		return
	}

	c.Set(ctxUserKey, u)
	c.Next()
}

func (s *Server) requireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		for _, r := range roles {
			if u.Role == r {
				c.Next()
				return
			}
		}
		s.fail(c, apperr.New(apperr.Forbidden, "Insufficient role"))
		c.Abort()
	}
}

func currentUser(c *gin.Context) *models.User {
	return c.MustGet(ctxUserKey).(*models.User)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func (s *Server) instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		s.met.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		s.met.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
