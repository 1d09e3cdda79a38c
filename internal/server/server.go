package server

import (
	"context"
	"net/http"

	"gymdesk/internal/attendance"
	"gymdesk/internal/auth"
	"gymdesk/internal/biometric"
	"gymdesk/internal/config"
	"gymdesk/internal/dashboard"
	"gymdesk/internal/email"
	"gymdesk/internal/member"
	"gymdesk/internal/membership"
	"gymdesk/internal/payment"
	"gymdesk/internal/schedule"
	"gymdesk/internal/user"
	"gymdesk/internal/workout"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	config *config.Config
	email  *email.Service
	http   *http.Server
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service) (*Server, error) {
	router := gin.Default()
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())

	userHandler := user.NewHandler(db, cfg.JWTSecret)
	memberHandler := member.NewHandler(db)
	attendanceHandler := attendance.NewHandler(db)
	membershipHandler := membership.NewHandler(db, emailService, cfg.MembershipAutoActivate)
	paymentHandler := payment.NewHandler(db, cfg, emailService)
	workoutHandler := workout.NewHandler(db, emailService)
	scheduleHandler := schedule.NewHandler(db)
	dashboardHandler := dashboard.NewHandler(db)

	biometricHandler, err := biometric.NewHandler(db, cfg)
	if err != nil {
		return nil, err
	}

	public := router.Group("/api")
	public.Use(RateLimitMiddleware(5, 10))
	{
		public.POST("/auth/login", userHandler.Login)
		// Server-to-server gateway callback; authenticated by its md5
		// signature, not by a bearer token.
		public.POST("/payments/payhere/notify", paymentHandler.Notify)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/api")
	protected.Use(authMiddleware)
	{
		protected.GET("/members", memberHandler.ListMembers)
		protected.GET("/members/:id", memberHandler.GetMember)
		protected.GET("/members/:id/membership", memberHandler.GetMembership)

		protected.GET("/members/:id/schedule", scheduleHandler.Get)
		protected.POST("/members/:id/schedule", scheduleHandler.AddItem)
		protected.GET("/members/:id/schedule/completions", scheduleHandler.Completions)
		protected.DELETE("/members/:id/schedule/:itemId", scheduleHandler.DeleteItem)
		protected.POST("/members/:id/schedule/:itemId/completion", scheduleHandler.ToggleCompletion)

		protected.POST("/attendance/mark", attendanceHandler.Mark)
		protected.GET("/attendance/today", attendanceHandler.Today)
		protected.GET("/attendance/history", attendanceHandler.History)
		protected.GET("/attendance/member/:id", attendanceHandler.ByMember)

		protected.POST("/biometrics/register/options", biometricHandler.RegisterOptions)
		protected.POST("/biometrics/register/verify", biometricHandler.RegisterVerify)
		protected.POST("/biometrics/auth/options", biometricHandler.AuthOptions)
		protected.POST("/biometrics/auth/verify", biometricHandler.AuthVerify)

		protected.GET("/memberships/plans", membershipHandler.ListPlans)
		protected.POST("/memberships/request", membershipHandler.Request)

		protected.GET("/payments/member/:id", paymentHandler.ByMember)
		protected.POST("/payments/payhere/initiate", paymentHandler.InitiateCheckout)

		protected.GET("/workout-plans", workoutHandler.List)
	}

	adminMiddleware := auth.RequireRole("admin")
	admin := router.Group("/api")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.POST("/members", memberHandler.CreateMember)
		admin.PUT("/members/:id", memberHandler.UpdateMember)
		admin.DELETE("/members/:id", memberHandler.DeleteMember)

		admin.GET("/memberships/pending", membershipHandler.ListPending)
		admin.PUT("/memberships/:id/approve", membershipHandler.Approve)
		admin.PUT("/memberships/:id/reject", membershipHandler.Reject)

		admin.GET("/payments", paymentHandler.List)
		admin.POST("/payments", paymentHandler.Create)

		admin.POST("/workout-plans", workoutHandler.Create)
		admin.DELETE("/workout-plans/:id", workoutHandler.Delete)
		admin.POST("/workout-plans/assign", workoutHandler.Assign)

		admin.GET("/dashboard/stats", dashboardHandler.Stats)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/test-email", TestEmail(emailService))
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		email:  emailService,
	}, nil
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

func (s *Server) Router() *gin.Engine {
	return s.router
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
