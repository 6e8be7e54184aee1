package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, limiter RateLimiter) {
	// Агрегированное состояние для первичной загрузки клиента
	api.GET("/data", h.getData)

	// Маршруты жизненного цикла инцидентов
	incidents := api.Group("/incidents")
	{
		incidents.POST("", h.createIncident)
		incidents.POST("/:id/resolve", h.resolveIncident)
		incidents.GET("/:id/suggestions", h.getSuggestions)
	}

	// Назначение подразделения на инцидент
	api.POST("/deploy", h.deploy)

	// Маршруты управления составом
	units := api.Group("/units")
	{
		units.POST("", h.createUnit)
		units.GET("", h.listUnits)
		units.DELETE("/:id", h.deleteUnit)
	}

	// Публичные оповещения
	api.POST("/advisory", h.postAdvisory)

	// AI-анализ и отчеты
	api.POST("/analyze", AnalyzeRateLimitMiddleware(limiter, h.cfg, h.logger), h.analyze)
	api.POST("/report", h.generateReport)

	// Административный сброс состояния
	api.DELETE("/clear", AdminKeyMiddleware(h.cfg, h.logger), h.clear)

	// Живые события
	api.GET("/ws", h.serveWS)

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
