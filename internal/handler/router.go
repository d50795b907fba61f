package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"lodgehall/internal/config"
	"lodgehall/internal/handler/middleware"
	"lodgehall/internal/metrics"
	"lodgehall/pkg/response"
)

func SetupRouter(
	cfg *config.Config,
	logger *zap.Logger,
	tokens middleware.TokenResolver,
	userHandler *UserHandler,
	lodgeHandler *LodgeHandler,
	cabinHandler *CabinHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.NoMethod(response.MethodNotAllowed)
	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, c.Request.URL.Path)
	})

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORS))
	if cfg.Metrics.Enabled {
		r.Use(metrics.GinMiddleware())
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := middleware.TokenAuth(tokens)
	optional := middleware.OptionalTokenAuth(tokens)

	// Users and tokens
	r.GET("/users", userHandler.ListUsers)
	r.GET("/admins", userHandler.ListAdmins)
	r.POST("/user", userHandler.Register)
	r.POST("/login", userHandler.Login)
	r.GET("/user", auth, userHandler.Me)
	r.PUT("/user", auth, userHandler.UpdateProfile)
	r.GET("/user/:id", auth, userHandler.GetUser)
	r.POST("/user/reset", auth, userHandler.ResetToken)

	// Lodges
	r.GET("/lodges", lodgeHandler.ListPublic)
	r.POST("/lodge", auth, lodgeHandler.Create)
	lodge := r.Group("/lodge/:id")
	{
		lodge.GET("", optional, lodgeHandler.View)
		lodge.POST("/join", auth, lodgeHandler.Join)
		lodge.GET("/members", optional, lodgeHandler.Members)
		lodge.GET("/admins", optional, lodgeHandler.Admins)

		// Cabins and messages
		lodge.GET("/cabins", optional, cabinHandler.List)
		lodge.POST("/cabin", auth, cabinHandler.Create)
		lodge.GET("/cabin/:cabinId", optional, cabinHandler.Get)
		lodge.POST("/cabin/:cabinId/message", auth, cabinHandler.SendMessage)
		lodge.GET("/cabin/:cabinId/messages", optional, cabinHandler.ListMessages)
	}

	return r
}
