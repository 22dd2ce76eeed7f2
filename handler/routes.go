package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes attaches the web page, the JSON API and the operational
// endpoints. metrics may be nil when metrics are disabled.
func RegisterRoutes(router *gin.Engine, api *AnalyzeHandler, page *PageHandler, metrics http.Handler) {
	router.GET("/", page.Index)
	router.POST("/upload", page.Upload)

	router.GET("/health", Health)
	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}

	v1 := router.Group("/api/v1")
	{
		v1.POST("/analyze", api.Analyze)
	}
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "TaxEase Analyzer",
	})
}
