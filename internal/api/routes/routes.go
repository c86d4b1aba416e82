package routes

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/astroflux/astroflux/backend/internal/api/handlers"
	"github.com/astroflux/astroflux/backend/internal/api/middleware"
	"github.com/astroflux/astroflux/backend/internal/config"
	"github.com/astroflux/astroflux/backend/internal/importer"
	"github.com/astroflux/astroflux/backend/internal/logger"
	"github.com/astroflux/astroflux/backend/internal/metrics"
	"github.com/astroflux/astroflux/backend/internal/models"
	"github.com/astroflux/astroflux/backend/internal/notify"
	"github.com/astroflux/astroflux/backend/internal/services"
)

// Register wires up API routes, runs migrations and starts the
// background jobs.
func Register(router *gin.Engine, db *gorm.DB, cfg config.Config) error {
	if err := db.AutoMigrate(
		&models.AdminAccount{},
		&models.Session{},
		&models.RateLimitWindow{},
		&models.AuditLogEntry{},
		&models.Horoscope{},
		&models.TarotCard{},
		&models.Insight{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	registry := prometheus.NewRegistry()
	metrics.Register(registry)

	notifier := notify.New(cfg.NotifyURLs)

	sessionService := services.NewSessionService(db, cfg)
	rateLimitService := services.NewRateLimitService(db, cfg)
	auditService := services.NewAuditService(db)
	authService := services.NewAuthService(db, cfg, sessionService, rateLimitService, auditService, notifier)
	horoscopeService := services.NewHoroscopeService(db)
	insightService := services.NewInsightService(db)
	tarotService := services.NewTarotService(db)
	imp := importer.New(cfg, horoscopeService, auditService, notifier)

	authHandler := handlers.NewAuthHandler(authService, cfg)
	horoscopeHandler := handlers.NewHoroscopeHandler(horoscopeService, auditService, cfg)
	insightHandler := handlers.NewInsightHandler(insightService, auditService, cfg)
	tarotHandler := handlers.NewTarotHandler(tarotService, auditService, cfg)
	publicHandler := handlers.NewPublicHandler(horoscopeService, insightService, tarotService)
	auditHandler := handlers.NewAuditHandler(auditService, horoscopeService, insightService, tarotService)
	importHandler := handlers.NewImportHandler(imp, horoscopeService, auditService, cfg)

	router.GET("/api/v1/health", handlers.HealthHandler)

	api := router.Group("/api/v1")

	// Public read API consumed by the mobile app. CORS and the
	// per-endpoint fixed-window limiter sit in front of every handler.
	public := api.Group("/")
	public.Use(middleware.CORS(cfg.AllowedOrigins))
	{
		public.GET("/horoscope", middleware.RateLimit(rateLimitService, cfg, "horoscope"), publicHandler.Horoscope)
		public.GET("/insights", middleware.RateLimit(rateLimitService, cfg, "insights"), publicHandler.Insights)
		public.GET("/tarot", middleware.RateLimit(rateLimitService, cfg, "tarot"), publicHandler.Tarot)
	}

	// Login throttling lives inside AuthService so a lockout check and a
	// rate-limit check share one code path.
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/setup", authHandler.Setup)

	protected := api.Group("/")
	protected.Use(middleware.SessionAuth(sessionService, cfg))
	protected.Use(middleware.CSRF(auditService, cfg))
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/me", authHandler.Me)
		protected.POST("/auth/change-password", authHandler.ChangePassword)

		protected.GET("/admin/dashboard", auditHandler.Dashboard)

		protected.GET("/admin/horoscopes", horoscopeHandler.List)
		protected.POST("/admin/horoscopes", horoscopeHandler.Create)
		protected.DELETE("/admin/horoscopes/:id", horoscopeHandler.Delete)
		protected.PUT("/admin/horoscopes/:id/active", horoscopeHandler.SetActive)

		protected.GET("/admin/insights", insightHandler.List)
		protected.POST("/admin/insights", insightHandler.Create)
		protected.DELETE("/admin/insights/:id", insightHandler.Delete)
		protected.PUT("/admin/insights/:id/active", insightHandler.SetActive)

		protected.GET("/admin/tarot", tarotHandler.List)
		protected.POST("/admin/tarot", tarotHandler.Create)
		protected.DELETE("/admin/tarot/:id", tarotHandler.Delete)
		protected.PUT("/admin/tarot/:id/active", tarotHandler.SetActive)

		protected.POST("/admin/import/sign", importHandler.ImportSign)
		protected.POST("/admin/import/all", importHandler.ImportAll)
		protected.POST("/admin/import/delete-by-date", importHandler.DeleteByDate)

		admin := protected.Group("/")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/admin/accounts", authHandler.ListAccounts)
			admin.POST("/admin/accounts", authHandler.CreateAccount)
			admin.DELETE("/admin/accounts/:id", authHandler.DeactivateAccount)
			admin.GET("/admin/audit", auditHandler.List)
		}

		super := protected.Group("/")
		super.Use(middleware.RequireRole(models.RoleSuperAdmin))
		{
			super.GET("/admin/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
		}
	}

	startJobs(cfg, sessionService, rateLimitService, imp)

	return nil
}

// startJobs schedules housekeeping and the daily import.
func startJobs(cfg config.Config, sessions *services.SessionService, limiter *services.RateLimitService, imp *importer.Importer) {
	c := cron.New()

	c.AddFunc("@hourly", func() {
		if err := sessions.PurgeExpired(); err != nil {
			logger.Log().WithError(err).Error("session purge failed")
		}
		if err := limiter.Cleanup(); err != nil {
			logger.Log().WithError(err).Error("rate limit cleanup failed")
		}
	})

	// The import schedule mirrors how content is published upstream:
	// new daily readings appear shortly after midnight UTC.
	c.AddFunc("30 0 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ImportTimeout*20)
		defer cancel()
		imported, skipped, err := imp.ImportAll(ctx, "daily", 0)
		if err != nil {
			logger.Log().WithError(err).Error("scheduled import failed")
			return
		}
		logger.Log().WithFields(map[string]interface{}{
			"imported": imported,
			"skipped":  skipped,
		}).Info("Scheduled horoscope import finished")
	})

	c.Start()
}
