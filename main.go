package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"pawrescue/config"
	"pawrescue/database"
	"pawrescue/handlers"
	"pawrescue/identity"
	"pawrescue/intelligence"
	"pawrescue/middleware"
	"pawrescue/service"
	"pawrescue/storage"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set log level
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to the database
	db, err := database.NewDatabase(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.InitSchema(); err != nil {
		log.WithError(err).Fatal("Failed to initialize schema")
	}

	// Wire the collaborators and the service
	analysis := intelligence.NewClient(cfg.AnalysisAPIKey, cfg.AnalysisModel, cfg.AnalysisTimeout)
	idp := identity.NewClient(cfg.IdentityAppID, cfg.IdentitySecret, cfg.IdentityBaseURL, cfg.IdentityTimeout)
	uploads := storage.NewUploader(cfg)
	svc := service.New(db, cfg, analysis, idp, uploads)

	router := setupRouter(svc, cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.WithField("port", cfg.Port).Info("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("Server forced to shutdown")
	}

	log.Info("Server exited")
}

func setupRouter(svc *service.Service, cfg *config.Config) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	h := handlers.New(svc)
	writeLimit := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Handler()
	adminAuth := middleware.AdminAuth(svc)

	router.GET("/health", h.HealthHandler)

	// Locally stored uploads (object-store deployments serve from the
	// store's own domain instead).
	router.Static("/uploads", cfg.UploadDir)

	api := router.Group("/api")
	{
		api.GET("/reports", h.FeedHandler)
		api.GET("/reports/:id", h.GetReportHandler)
		api.POST("/reports", writeLimit, h.CreateReportHandler)
		api.PUT("/reports/:id", writeLimit, h.UpdateReportHandler)
		api.GET("/reports/:id/audits", h.ReportAuditsHandler)
		api.POST("/reports/:id/audits", writeLimit, h.AuditReportHandler)
		api.POST("/reports/:id/rescues", writeLimit, h.AddRescueHandler)
		api.GET("/reports/:id/rescues", h.ReportRescuesHandler)
		api.GET("/rescues", h.RescueRecordsHandler)

		api.GET("/reports/:id/dailies", h.DailiesHandler)
		api.POST("/reports/:id/dailies", writeLimit, h.CreateDailyHandler)
		api.GET("/dailies/:id/comments", h.DailyCommentsHandler)
		api.POST("/dailies/:id/comments", writeLimit, h.CreateDailyCommentHandler)

		api.GET("/posts", h.PostsHandler)
		api.GET("/posts/:id", h.GetPostHandler)
		api.POST("/posts", writeLimit, h.CreatePostHandler)
		api.GET("/posts/:id/comments", h.CommentsHandler)
		api.POST("/posts/:id/comments", writeLimit, h.CreateCommentHandler)

		api.GET("/notifications", h.NotificationsHandler)
		api.GET("/notifications/unread", h.UnreadCountHandler)
		api.POST("/notifications/read", h.MarkReadHandler)

		api.POST("/login", writeLimit, h.LoginHandler)
		api.POST("/users", writeLimit, h.RegisterHandler)
		api.GET("/users/profile", h.ProfileHandler)
		api.POST("/upload", writeLimit, h.UploadHandler)

		api.GET("/stats/overview", h.StatsOverviewHandler)
		api.GET("/stats/trends", h.StatsTrendsHandler)
		api.GET("/stats/regions", h.StatsRegionsHandler)
	}

	admin := router.Group("/api/admin")
	admin.POST("/login", writeLimit, h.AdminLoginHandler)
	admin.Use(adminAuth)
	{
		admin.GET("/dashboard", h.DashboardHandler)
		admin.GET("/reports/pending", h.PendingReportsHandler)
		admin.GET("/audits", h.AdminAuditsHandler)
		admin.POST("/reports/:id/audits", h.AdminAuditReportHandler)
		admin.POST("/reports/:id/review-rescue", h.ReviewRescueHandler)
		admin.DELETE("/reports/:id", h.DeleteReportHandler)
		admin.DELETE("/posts/:id", h.DeletePostHandler)
		admin.DELETE("/comments/:id", h.DeleteCommentHandler)
		admin.DELETE("/dailies/:id", h.DeleteDailyHandler)
		admin.GET("/settings", h.SettingsHandler)
		admin.POST("/settings", h.SetSettingHandler)
		admin.GET("/users", h.AdminUsersHandler)
	}

	return router
}
