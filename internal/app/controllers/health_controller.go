package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"energy-ops-console/internal/domain/services/container"
	"energy-ops-console/internal/error/code"
	"energy-ops-console/internal/infrastructure/cache"
	"energy-ops-console/internal/infrastructure/database"
	"energy-ops-console/internal/infrastructure/forecaster"
	"energy-ops-console/internal/infrastructure/mqtt"
)

// HealthCheckController 健康检查控制器
type HealthCheckController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewHealthCheckController 创建健康检查控制器实例
func NewHealthCheckController(ctx *gin.Context, container *container.ServiceContainer) *HealthCheckController {
	return &HealthCheckController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleHealthFunc 返回一个处理健康检查请求的Gin处理函数
func HandleHealthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewHealthCheckController(ctx, container)

		switch method {
		case "ping":
			controller.Ping()
		case "status":
			controller.Status()
		default:
			invalidMethod(ctx)
		}
	}
}

// Ping 健康检查端点
// @Summary      健康检查
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /ping [get]
func (h *HealthCheckController) Ping() {
	h.Ctx.JSON(http.StatusOK, gin.H{
		"code":    code.StatusOK,
		"msg":     "pong",
		"status":  "healthy",
		"message": "pong",
	})
}

// Status 依赖组件状态
// @Summary      组件状态
// @Description  数据库连接池、缓存、MQTT 与预测模型的状态，数据库不可用时返回 503
// @Tags         Health
// @Produce      json
// @Success      200  {object}  DataResponse
// @Failure      503  {object}  DataResponse
// @Router       /health/status [get]
func (h *HealthCheckController) Status() {
	ctx, cancel := context.WithTimeout(h.Ctx.Request.Context(), 3*time.Second)
	defer cancel()

	healthy := true
	pool := database.NewConnectionPoolFromDB(h.Container.GetDB())
	dbStatus := gin.H{"status": "up"}
	if err := pool.HealthCheck(ctx); err != nil {
		healthy = false
		dbStatus = gin.H{"status": "down", "error": err.Error()}
	} else if stats, err := pool.Stats(); err == nil {
		dbStatus["pool"] = stats
	}

	cacheStatus := gin.H{"status": "up"}
	if store, ok := h.Container.GetService("cache").(cache.Store); ok && store != nil {
		cacheStatus["backend"] = store.Backend()
		if err := store.Ping(ctx); err != nil {
			cacheStatus["status"] = "down"
			cacheStatus["error"] = err.Error()
		}
	} else {
		cacheStatus["status"] = "disabled"
	}

	mqttStatus := "disabled"
	if publisher, ok := h.Container.GetService("publisher").(mqtt.Publisher); ok && publisher != nil {
		mqttStatus = "disconnected"
		if publisher.IsConnected() {
			mqttStatus = "connected"
		}
	}

	modelLoaded := false
	if holder, ok := h.Container.GetService("forecaster").(*forecaster.Holder); ok && holder != nil {
		modelLoaded = holder.Loaded()
	}

	status := http.StatusOK
	overall := "healthy"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "unhealthy"
	}
	h.Ctx.JSON(status, gin.H{
		"code": status,
		"msg":  overall,
		"data": gin.H{
			"database":    dbStatus,
			"cache":       cacheStatus,
			"mqtt":        mqttStatus,
			"modelLoaded": modelLoaded,
			"time":        time.Now().Format("2006-01-02 15:04:05"),
		},
	})
}
