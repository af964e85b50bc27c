package restapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"wallet_client/internal/config"
)

// SetupRouter builds the gin engine with CORS, request logging, the v1 API, metrics and Swagger UI.
func SetupRouter(walletHandler *WalletHandler, swagger config.SwaggerConfig, zapLogger *zap.Logger) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))
	router.Use(ZapLoggerMiddleware(zapLogger))
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/state", walletHandler.GetStateHandler)
		v1.POST("/connect", walletHandler.ConnectHandler)
		v1.POST("/balance/refresh", walletHandler.RefreshBalanceHandler)
		v1.GET("/tokens/samples", walletHandler.GetSampleTokensHandler)
		v1.GET("/tokens/:address", walletHandler.GetTokenHandler)
		v1.POST("/transfers", walletHandler.CreateTransferHandler)
		v1.GET("/transfers/:hash", walletHandler.GetTransferHandler)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if swagger.Enabled {
		router.StaticFile("/docs/swagger.yaml", swagger.Spec)
		swaggerURL := ginSwagger.URL("/docs/swagger.yaml")
		router.GET(swagger.Path+"/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, swaggerURL))
		zapLogger.Info("Swagger UI enabled", zap.String("path", swagger.Path+"/index.html"))
	}

	return router
}

// ZapLoggerMiddleware logs every request through zap.
func ZapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	logger = logger.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("client_ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String(), fields...)
			return
		}
		logger.Debug("request", fields...)
	}
}
