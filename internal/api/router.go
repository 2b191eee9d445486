package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/school-news-site/internal/config"
	"github.com/school-news-site/internal/service"
	"github.com/school-news-site/internal/site"
	"github.com/school-news-site/pkg/logger"
)

// HealthChecker reports whether the database answers
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// NewRouter creates and configures the Gin router. Background work started
// for the router stops when ctx is cancelled.
func NewRouter(ctx context.Context, services *service.Services, db HealthChecker, cfg *config.Config, log zerolog.Logger) (*gin.Engine, error) {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	tmpl, err := site.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	// Middleware
	router.Use(requestIDMiddleware())
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(prometheusMiddleware())
	router.Use(corsMiddleware())

	// Handlers
	publishHandler := NewPublishHandler(services, log)
	siteHandler := NewSiteHandler(services, cfg.Site, log)

	// Ops
	router.GET("/health", healthCheck(db))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API
	api := router.Group("/api")
	{
		mutating := []gin.HandlerFunc{}
		if cfg.Publish.RateLimit > 0 {
			limiter := NewRateLimiter(ctx, cfg.Publish.RateLimit, cfg.Publish.RateBurst)
			mutating = append(mutating, limiter.Middleware())
		}

		api.POST("/publish", append(mutating, publishHandler.PublishArticle)...)
		api.POST("/create_paper", append(mutating, publishHandler.CreatePaper)...)
		api.GET("/resend_code", append(mutating, publishHandler.ResendCode)...)
		api.GET("/article/:id", publishHandler.GetArticle)
	}

	// Site pages
	router.GET("/", siteHandler.Home)
	router.GET("/about", siteHandler.About)
	router.GET("/submissions", siteHandler.Submissions)
	router.GET("/sitemap.xml", siteHandler.Sitemap)
	router.GET("/read/:id", siteHandler.ReadArticle)
	router.GET("/newspaper/:paper", siteHandler.FeaturedIssue)
	router.GET("/newspaper/:paper/feed.xml", siteHandler.Feed)
	router.GET("/newspaper/:paper/:issue", siteHandler.Issue)

	edit := router.Group("/edit")
	{
		edit.GET("/article", siteHandler.NewArticle)
		edit.GET("/article/:id", siteHandler.EditArticle)
		edit.GET("/newspaper", siteHandler.NewPaper)
		edit.GET("/newspaper/:id", siteHandler.EditPaper)
	}

	router.NoRoute(siteHandler.NotFound)

	return router, nil
}

// healthCheck returns the health status
func healthCheck(db HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		body := gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   logger.ServiceName,
		}

		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.HealthCheck(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "unhealthy"
				body["database"] = err.Error()
			} else {
				body["database"] = "ok"
			}
		}

		c.JSON(status, body)
	}
}
