package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/secureapi/utils"
)

// Version is reported by the root endpoint.
const Version = "1.0.0"

// SystemController serves the service banner and health check.
type SystemController struct {
	appName string
	db      *gorm.DB
}

func NewSystemController(appName string, db *gorm.DB) *SystemController {
	return &SystemController{appName: appName, db: db}
}

// Root describes the service.
func (s *SystemController) Root(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"message": s.appName,
		"version": Version,
		"docs":    "/docs",
	})
}

// Health reports healthy once the store answers a ping.
func (s *SystemController) Health(ctx *gin.Context) {
	sqlDB, err := s.db.DB()
	if err == nil {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()
		err = sqlDB.PingContext(pingCtx)
	}
	if err != nil {
		utils.Sugar.Warnf("health check failed: %v", err)
		utils.Error(ctx, http.StatusServiceUnavailable, 50300, "database unavailable")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
