// Package server wires the HTTP surface: routing, middleware and the
// thin controllers that map requests onto the core services.
package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"bazaar-backend/internal/auth"
	"bazaar-backend/internal/cart"
	"bazaar-backend/internal/config"
	"bazaar-backend/internal/metrics"
	"bazaar-backend/internal/order"
	"bazaar-backend/internal/payment"
	"bazaar-backend/internal/store"
)

type Server struct {
	cfg         config.Config
	log         *zap.Logger
	met         *metrics.Metrics
	users       store.UserStore
	products    store.ProductStore
	carts       *cart.Service
	orders      *order.Service
	gateway     payment.Gateway
	resetTokens auth.TokenStore
}

func New(
	cfg config.Config,
	log *zap.Logger,
	met *metrics.Metrics,
	users store.UserStore,
	products store.ProductStore,
	carts *cart.Service,
	orders *order.Service,
	gateway payment.Gateway,
	resetTokens auth.TokenStore,
) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		cfg:         cfg,
		log:         log,
		met:         met,
		users:       users,
		products:    products,
		carts:       carts,
		orders:      orders,
		gateway:     gateway,
		resetTokens: resetTokens,
	}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())
	if s.met != nil {
		r.Use(s.instrument())
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	api.POST("/auth/register", s.register)
	api.POST("/auth/login", s.login)
	api.POST("/auth/forgot-password", s.forgotPassword)
	api.POST("/auth/reset-password", s.resetPassword)

	api.GET("/products", s.listProducts)
	api.GET("/products/:id", s.getProduct)

	api.POST("/payments/webhook", s.paymentWebhook)

	authed := api.Group("", s.requireAuth)
	{
		authed.GET("/users/me", s.getMe)
		authed.PUT("/users/me", s.updateMe)
		authed.GET("/users", s.requireRole(roleAdminOnly...), s.listUsers)
		authed.DELETE("/users/:id", s.requireRole(roleAdminOnly...), s.deleteUser)

		authed.POST("/products", s.requireRole(roleVendorOrAdmin...), s.createProduct)
		authed.PUT("/products/:id", s.requireRole(roleVendorOrAdmin...), s.updateProduct)
		authed.DELETE("/products/:id", s.requireRole(roleVendorOrAdmin...), s.deleteProduct)

		authed.GET("/cart", s.requireRole(roleBuyerOnly...), s.getCart)
		authed.POST("/cart", s.requireRole(roleBuyerOnly...), s.addToCart)
		authed.PUT("/cart", s.requireRole(roleBuyerOnly...), s.updateCart)
		authed.DELETE("/cart/:productId", s.requireRole(roleBuyerOnly...), s.removeFromCart)
		authed.DELETE("/cart", s.requireRole(roleBuyerOnly...), s.clearCart)

		authed.POST("/orders", s.requireRole(roleBuyerOnly...), s.createOrder)
		authed.GET("/orders", s.listOrders)
		authed.GET("/orders/:id", s.getOrder)

		authed.POST("/payments/mock", s.requireRole(roleBuyerOnly...), s.mockPayment)
	}

	return r
}
