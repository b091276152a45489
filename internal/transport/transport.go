package transport

import (
	"net/http"
	"time"

	"github.com/ds124wfegd/mmk_universe/internal/entity"
	"github.com/ds124wfegd/mmk_universe/internal/transport/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	EventPayments   *PaymentHandler
	ProgramPayments *PaymentHandler
	Events          *TargetHandler
	Programs        *TargetHandler
	Attendees       *AttendeeHandler
	Auth            *AuthHandler
}

type RouterConfig struct {
	UploadsDir     string
	AllowOrigins   []string
	RequestTimeout time.Duration
}

func InitRoutes(h *Handlers, tokens middleware.TokenParser, rc RouterConfig) *gin.Engine {
	RegisterValidators()

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(rc.AllowOrigins)))
	router.Use(middleware.Logger())
	if rc.RequestTimeout > 0 {
		router.Use(middleware.Timeout(rc.RequestTimeout))
	}

	router.Static("/uploads", rc.UploadsDir)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authenticated := middleware.JWTAuth(tokens)
	adminOnly := []gin.HandlerFunc{authenticated, middleware.RequireRole(entity.RoleAdmin)}

	auth := router.Group("/auth")
	{
		auth.POST("/signup", h.Auth.SignUp)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)
	}

	paymentRoutes(router.Group("/payments"), h.EventPayments, adminOnly)
	paymentRoutes(router.Group("/program-payments"), h.ProgramPayments, adminOnly)

	targetRoutes(router.Group("/events"), h.Events, adminOnly)
	targetRoutes(router.Group("/programs"), h.Programs, adminOnly)

	router.PATCH("/attendees/:id/participation", append(adminOnly, h.Attendees.SetParticipation)...)
	router.GET("/users/me/enrollments", authenticated, h.Attendees.MyEnrollments)

	return router
}

func paymentRoutes(g *gin.RouterGroup, h *PaymentHandler, adminOnly []gin.HandlerFunc) {
	g.POST("/:id/verify-payment", h.VerifyPayment)
	g.POST("/:id/guest-verify-payment", h.GuestVerifyPayment)

	requests := g.Group("/payment-requests", adminOnly...)
	{
		requests.GET("", h.ListPending)
		requests.POST("/:id/approve", h.Approve)
		requests.POST("/:id/reject", h.Reject)
	}
}

func targetRoutes(g *gin.RouterGroup, h *TargetHandler, adminOnly []gin.HandlerFunc) {
	g.GET("", h.List)
	g.GET("/:id", h.Get)

	admin := g.Group("", adminOnly...)
	{
		admin.POST("", h.Create)
		admin.PATCH("/:id/complete", h.Complete)
		admin.GET("/:id/attendees", h.Attendees)
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}

	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}

	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
