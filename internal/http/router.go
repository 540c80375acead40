package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bazar-api/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	jwtSvc *service.JWTService,
	watchdogs *service.SessionWatchdogs,
	authH *AuthHandler,
	ledgerH *LedgerHandler,
	reportH *ReportHandler,
	advisorH *AdvisorHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	auth := r.Group("/auth")
	auth.POST("/register", authH.Register)
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.Refresh)
	auth.POST("/2fa/request", authH.RequestTwoFactorCode)

	private := r.Group("")
	private.Use(JWTAuthMiddleware(jwtSvc, watchdogs))

	private.POST("/auth/logout", authH.Logout)
	private.POST("/auth/2fa/enable", authH.EnableTwoFactor)
	private.POST("/auth/2fa/disable", authH.DisableTwoFactor)
	private.GET("/me", authH.Me)
	private.PATCH("/me", authH.UpdateMe)

	private.GET("/transactions", ledgerH.List)
	private.POST("/transactions", ledgerH.Create)
	private.PATCH("/transactions/:id", ledgerH.Update)
	private.DELETE("/transactions/:id", ledgerH.Delete)
	private.GET("/transactions/export", ledgerH.ExportCSV)

	private.GET("/metrics", ledgerH.Metrics)
	private.GET("/metrics/monthly", ledgerH.Monthly)
	private.GET("/metrics/categories", ledgerH.Categories)
	private.GET("/categories", ledgerH.Catalog)

	private.GET("/reports", reportH.Build)
	private.POST("/advisor", advisorH.Ask)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
