package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"reviewdeck/pkg/logger"
	"reviewdeck/pkg/metrics"
)

const serviceName = "reviews-service"

func SetupRoutes(
	reviewHandler *ReviewHandler,
	sessionHandler *SessionHandler,
	identity *IdentityMiddleware,
	allowedOrigins []string,
) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())

	router.Use(logger.GinLoggerMiddleware())

	router.Use(metrics.GinPrometheusMiddleware(serviceName))

	router.Use(cors.New(corsConfig(allowedOrigins)))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/categories", reviewHandler.ListCategories)
	router.GET("/media/*key", reviewHandler.ServeMedia)

	reviews := router.Group("/reviews")
	reviews.Use(identity.Identify())
	{
		reviews.GET("", reviewHandler.ListReviews)
		reviews.POST("", reviewHandler.CreateReview)
		reviews.GET("/:review_id", reviewHandler.GetReview)
		reviews.POST("/:review_id/vote", identity.RequireIdentity(), reviewHandler.Vote)
	}

	sess := router.Group("/session")
	sess.Use(identity.Identify(), identity.RequireIdentity())
	{
		d := sess.Group("/draft")
		d.GET("", sessionHandler.GetDraft)
		d.POST("", sessionHandler.OpenDraft)
		d.PATCH("", sessionHandler.UpdateDraft)
		d.DELETE("", sessionHandler.CancelDraft)
		d.POST("/next", sessionHandler.NextStep)
		d.POST("/back", sessionHandler.PrevStep)
		d.POST("/audio/start", sessionHandler.StartRecording)
		d.POST("/audio/chunks", sessionHandler.PushAudioChunk)
		d.POST("/audio/stop", sessionHandler.StopRecording)
		d.POST("/image", sessionHandler.AttachImage)
		d.POST("/submit", sessionHandler.SubmitDraft)

		v := sess.Group("/view")
		v.GET("", sessionHandler.GetView)
		v.POST("/expanded/:review_id", sessionHandler.ToggleExpanded)
		v.POST("/playback/:review_id", sessionHandler.TogglePlayback)
		v.POST("/playback/:review_id/ended", sessionHandler.PlaybackEnded)
		v.DELETE("/playback", sessionHandler.PausePlayback)
		v.POST("/lightbox/:review_id", sessionHandler.OpenLightbox)
		v.DELETE("/lightbox", sessionHandler.CloseLightbox)
	}

	return router
}

// corsConfig: пустой список или "*" разрешают любой origin без credentials
func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Accept", "Authorization", "Content-Type", DeviceIDHeader, logger.RequestIDHeader},
		ExposeHeaders: []string{logger.RequestIDHeader},
		MaxAge:        300,
	}

	for _, origin := range allowedOrigins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(allowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}

	cfg.AllowOrigins = allowedOrigins
	cfg.AllowCredentials = true
	return cfg
}
