package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/harborview/service-reservation/internal/platform/auth"
	"github.com/harborview/service-reservation/internal/platform/middleware"
)

// NewRouter assembles the gin engine: common middleware, health endpoints,
// public browsing routes and the authenticated API surface.
func NewRouter(
	appEnv string,
	jwtManager *auth.JWTManager,
	bookingHandler *BookingHandler,
	roomHandler *RoomHandler,
	adminHandler *AdminHandler,
	db *gorm.DB,
	logger *zap.Logger,
) *gin.Engine {
	if appEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware(logger))
	r.Use(middleware.RecoveryMiddleware(logger))
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.SecurityHeadersMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	public := r.Group("/api/v1")
	roomHandler.RegisterPublicRoutes(public)

	authed := r.Group("/api/v1")
	authed.Use(middleware.AuthMiddleware(jwtManager))
	bookingHandler.RegisterRoutes(authed)
	roomHandler.RegisterManagementRoutes(authed.Group("/admin"))
	adminHandler.RegisterRoutes(authed)

	return r
}
