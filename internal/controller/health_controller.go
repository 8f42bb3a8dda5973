package controller

import (
	"context"
	"digital_literacy_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type HealthController struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewHealthController(db *gorm.DB, rdb *redis.Client) *HealthController {
	return &HealthController{db: db, rdb: rdb}
}

// Health godoc
// @Summary Liveness and dependency health
// @Tags health
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /health [get]
func (ctl *HealthController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := gin.H{
		"status":   "ok",
		"database": "ok",
		"redis":    "ok",
		"time":     time.Now().Format(time.RFC3339),
	}
	healthy := true

	if sqlDB, err := ctl.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		status["database"] = "unreachable"
		healthy = false
	}

	if ctl.rdb != nil {
		if err := ctl.rdb.Ping(ctx).Err(); err != nil {
			status["redis"] = "unreachable"
			healthy = false
		}
	} else {
		status["redis"] = "disabled"
	}

	if !healthy {
		status["status"] = "degraded"
		util.Error(c, 503, "degraded")
		return
	}
	util.Success(c, status)
}
