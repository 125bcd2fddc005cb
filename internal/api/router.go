package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/knowledge-base-server/internal/config"
	"github.com/knowledge-base-server/internal/models"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

const (
	serviceName     = "knowledge-base-server"
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// ArticleStats reports article counts for the metrics endpoint
type ArticleStats interface {
	Count(ctx context.Context) int
	CountByStatus(ctx context.Context) map[models.ArticleStatus]int
}

// NewRouter creates the HTTP handler of the knowledge base app: a gin
// engine wrapped in CORS handling
func NewRouter(gateway ArticleGateway, stats ArticleStats, cfg *config.Config, log zerolog.Logger) http.Handler {
	// Set Gin mode
	if gin.Mode() != gin.TestMode {
		gin.SetMode(ginMode(cfg))
	}

	router := gin.New()

	// Middleware
	router.Use(requestIDMiddleware())
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))

	// Handlers
	articleHandler := NewArticleHandler(gateway, log)

	// Health check
	router.GET("/health", healthCheck)
	router.GET("/metrics", metricsHandler(stats))

	articles := router.Group("/api/articles")
	{
		articles.GET("", articleHandler.ListArticles)
		articles.POST("", articleHandler.CreateArticle)
		articles.GET("/:id", articleHandler.GetArticle)
		articles.PUT("/:id", articleHandler.UpdateArticle)
	}

	return corsHandler(cfg.Server.CORSOrigins).Handler(router)
}

// ginMode picks debug mode for development and release mode otherwise
func ginMode(cfg *config.Config) string {
	if cfg.IsDevelopment() {
		return gin.DebugMode
	}
	return gin.ReleaseMode
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   serviceName,
	})
}

// metricsHandler returns article counts
func metricsHandler(stats ArticleStats) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		byStatus := stats.CountByStatus(ctx)

		c.JSON(http.StatusOK, gin.H{
			"articles": gin.H{
				"total":     stats.Count(ctx),
				"by_status": byStatus,
			},
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// requestIDMiddleware propagates or assigns a request id
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Interface("error", err).
					Str("request_id", c.GetString(requestIDKey)).
					Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("request_id", c.GetString(requestIDKey)).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsHandler answers pre-flight requests for the configured origins
func corsHandler(origins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	})
}
