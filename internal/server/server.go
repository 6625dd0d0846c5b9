package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"coachadmin/internal/admin"
	"coachadmin/internal/auth"
	"coachadmin/internal/coach"
	"coachadmin/internal/config"
	"coachadmin/internal/dashboard"
	"coachadmin/internal/email"
	"coachadmin/internal/notification"
	"coachadmin/internal/payment"
	"coachadmin/internal/plan"
	"coachadmin/internal/subscription"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service) *Server {
	if !cfg.Development() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(50, 100))

	subscriptionRepo := subscription.NewRepository(db)
	coachRepo := coach.NewRepository(db)
	planRepo := plan.NewRepository(db)
	adminRepo := admin.NewRepository(db)
	paymentRepo := payment.NewRepository(db)
	dashboardRepo := dashboard.NewRepository(db)

	subscriptionService := subscription.NewService(subscriptionRepo, coachRepo, planRepo)
	coachService := coach.NewService(coachRepo, subscriptionRepo)
	planService := plan.NewService(planRepo, subscriptionRepo)
	adminService := admin.NewService(adminRepo, cfg.JWTSecret)
	paymentService := payment.NewService(paymentRepo, subscriptionService)
	dashboardService := dashboard.NewService(dashboardRepo)
	notificationService := notification.NewService(subscriptionRepo, emailService)

	subscriptionHandler := subscription.NewHandler(subscriptionService)
	coachHandler := coach.NewHandler(coachService, subscriptionService)
	planHandler := plan.NewHandler(planService)
	adminHandler := admin.NewHandler(adminService)
	paymentHandler := payment.NewHandler(paymentService)
	dashboardHandler := dashboard.NewHandler(dashboardService)
	notificationHandler := notification.NewHandler(notificationService)

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)

	public := router.Group("/api/auth")
	{
		public.POST("/login", adminHandler.Login)
		public.POST("/refresh", adminHandler.Refresh)
	}

	me := router.Group("/api/auth")
	me.Use(authMiddleware)
	{
		me.GET("/me", adminHandler.Me)
	}

	admins := router.Group("/api/admins")
	admins.Use(authMiddleware, auth.RequirePermission(auth.PermAdminsManage))
	{
		admins.POST("", adminHandler.Register)
		admins.GET("", adminHandler.List)
		admins.GET("/:id", adminHandler.Get)
		admins.PUT("/:id", adminHandler.Update)
		admins.DELETE("/:id", adminHandler.Delete)
	}

	coaches := router.Group("/api/coaches")
	coaches.Use(authMiddleware)
	{
		coaches.GET("", auth.RequirePermission(auth.PermCoachesRead), coachHandler.List)
		coaches.GET("/:id", auth.RequirePermission(auth.PermCoachesRead), coachHandler.Get)
		coaches.GET("/:id/subscriptions", auth.RequirePermission(auth.PermCoachesRead), coachHandler.Subscriptions)
		coaches.POST("", auth.RequirePermission(auth.PermCoachesWrite), coachHandler.Create)
		coaches.PUT("/:id", auth.RequirePermission(auth.PermCoachesWrite), coachHandler.Update)
		coaches.DELETE("/:id", auth.RequirePermission(auth.PermCoachesWrite), coachHandler.Delete)
	}

	plans := router.Group("/api/plans")
	plans.Use(authMiddleware)
	{
		plans.GET("", auth.RequirePermission(auth.PermPlansRead), planHandler.List)
		plans.GET("/:id", auth.RequirePermission(auth.PermPlansRead), planHandler.Get)
		plans.POST("", auth.RequirePermission(auth.PermPlansWrite), planHandler.Create)
		plans.PUT("/:id", auth.RequirePermission(auth.PermPlansWrite), planHandler.Update)
		plans.DELETE("/:id", auth.RequirePermission(auth.PermPlansWrite), planHandler.Delete)
	}

	subscriptions := router.Group("/api/subscriptions")
	subscriptions.Use(authMiddleware)
	{
		subscriptions.GET("", auth.RequirePermission(auth.PermSubscriptionsRead), subscriptionHandler.List)
		subscriptions.GET("/stats", auth.RequirePermission(auth.PermSubscriptionsRead), subscriptionHandler.Stats)
		subscriptions.GET("/expiring-soon", auth.RequirePermission(auth.PermSubscriptionsRead), subscriptionHandler.ExpiringSoon)
		subscriptions.GET("/:id", auth.RequirePermission(auth.PermSubscriptionsRead), subscriptionHandler.Get)
		subscriptions.POST("", auth.RequirePermission(auth.PermSubscriptionsWrite), subscriptionHandler.Create)
		subscriptions.PUT("/:id", auth.RequirePermission(auth.PermSubscriptionsWrite), subscriptionHandler.Update)
		subscriptions.DELETE("/:id", auth.RequirePermission(auth.PermSubscriptionsWrite), subscriptionHandler.Delete)
		subscriptions.POST("/:id/renew", auth.RequirePermission(auth.PermSubscriptionsWrite), subscriptionHandler.Renew)
		subscriptions.POST("/:id/cancel", auth.RequirePermission(auth.PermSubscriptionsWrite), subscriptionHandler.Cancel)
	}

	payments := router.Group("/api/payments")
	payments.Use(authMiddleware)
	{
		payments.GET("", auth.RequirePermission(auth.PermPaymentsRead), paymentHandler.List)
		payments.GET("/stats", auth.RequirePermission(auth.PermPaymentsRead), paymentHandler.Stats)
		payments.GET("/recent", auth.RequirePermission(auth.PermPaymentsRead), paymentHandler.Recent)
		payments.GET("/:id", auth.RequirePermission(auth.PermPaymentsRead), paymentHandler.Get)
		payments.POST("", auth.RequirePermission(auth.PermPaymentsWrite), paymentHandler.Record)
		payments.PUT("/:id", auth.RequirePermission(auth.PermPaymentsWrite), paymentHandler.Update)
	}

	dash := router.Group("/api/dashboard")
	dash.Use(authMiddleware, auth.RequirePermission(auth.PermDashboardRead))
	{
		dash.GET("/summary", dashboardHandler.Summary)
		dash.GET("/revenue", dashboardHandler.Revenue)
		dash.GET("/coaches", dashboardHandler.Coaches)
	}

	notifications := router.Group("/api/notifications")
	notifications.Use(authMiddleware, auth.RequirePermission(auth.PermNotificationsManage))
	{
		notifications.GET("", notificationHandler.Overview)
		notifications.GET("/settings", notificationHandler.GetSettings)
		notifications.PUT("/settings", notificationHandler.UpdateSettings)
		notifications.POST("/expiring/:id", notificationHandler.SendExpiring)
		notifications.POST("/payment/:id", notificationHandler.SendPaymentReminder)
		notifications.POST("/bulk/expiring", notificationHandler.SendBulkExpiring)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
