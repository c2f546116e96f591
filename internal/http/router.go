package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/maintdesk/backend/internal/config"
	"github.com/maintdesk/backend/internal/db"
	"github.com/maintdesk/backend/internal/http/handlers"
	"github.com/maintdesk/backend/internal/http/middleware"
	"github.com/maintdesk/backend/internal/notify"

	_ "github.com/maintdesk/backend/docs"
)

func Router(cfg config.Config, store *db.Store, notifier notify.Notifier, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Admin-Key", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Store:     store,
		Notifier:  notifier,
		Validator: validator.New(),
		Logger:    logger,
		AdminKey:  cfg.AdminKey,
	}

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.GET("/work-orders", h.WorkOrdersList)
		api.GET("/work-orders/:id", h.WorkOrderDetails)
		api.GET("/sla-status", h.SLAStatus)
		api.GET("/sla-config", h.SLAConfigGet)
		api.GET("/pm-schedules", h.PMSchedulesList)
		api.GET("/assets/:id/depreciation", h.AssetDepreciation)
		api.GET("/parts/reorder-suggestions", h.ReorderSuggestions)
		api.GET("/reports/summary", h.ReportsSummary)
	}

	admin := api.Group("")
	admin.Use(middleware.AdminKey(cfg.AdminKey))
	{
		admin.POST("/work-orders", h.WorkOrderCreate)
		admin.PATCH("/work-orders/:id/status", h.WorkOrderStatusUpdate)
		admin.POST("/pm-schedules", h.PMScheduleCreate)
		admin.POST("/pm-schedules/:id/complete", h.PMScheduleComplete)
		admin.POST("/escalate-overdue", h.EscalateOverdue)
		admin.PUT("/sla-config", h.SLAConfigPut)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
