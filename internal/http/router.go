package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/soundtide/soundtide/internal/usecase"
)

// SetupRouter creates and configures the Gin router.
func SetupRouter(svc *usecase.Service, farThresholdKm float64, allowedOrigins []string) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	if len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowedOrigins
	}
	router.Use(cors.New(corsConfig))

	handler := NewHandler(svc, farThresholdKm)

	v1 := router.Group("/v1")
	tides := v1.Group("/tides")
	tides.GET("/predictions", handler.GetPredictions)

	v1.GET("/constituents", handler.GetConstituents)

	segments := v1.Group("/segments")
	segments.GET("", handler.GetSegments)
	segments.GET("/nearest", handler.GetNearestSegment)
	segments.GET("/:id/inference", handler.GetInferenceReport)

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
