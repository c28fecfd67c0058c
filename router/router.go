package router

import (
	"github.com/gin-gonic/gin"

	"github.com/clubsantiago/sistema-billar/config"
	"github.com/clubsantiago/sistema-billar/controllers"
	"github.com/clubsantiago/sistema-billar/events"
	"github.com/clubsantiago/sistema-billar/middlewares"
	"github.com/clubsantiago/sistema-billar/services"
	"github.com/clubsantiago/sistema-billar/utils"
)

// SetupRouter wires middleware and routes. limiter may be nil, which
// disables rate limiting.
func SetupRouter(cfg config.Config, tables *services.TableService, hub *events.Hub, limiter middlewares.Limiter) *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
		utils.ErrorLogger.WithError(err).Warn("could not set trusted proxies")
	}

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(cfg.CORS))
	if limiter != nil {
		r.Use(middlewares.RateLimit(limiter))
	}

	tableCtrl := controllers.NewTableController(tables)
	eventsCtrl := controllers.NewEventsController(hub, cfg.CORS)

	r.GET("/", controllers.Health)

	tableGroup := r.Group("/tables")
	{
		tableGroup.POST("/", tableCtrl.CreateTable)
		tableGroup.GET("/", tableCtrl.GetAllTables)
		tableGroup.GET("/stats", tableCtrl.GetTableStats)
		tableGroup.GET("/:id", tableCtrl.GetTableByID)
		tableGroup.PATCH("/:id", tableCtrl.UpdateTable)
		tableGroup.DELETE("/:id", tableCtrl.DeleteTable)
	}

	r.GET("/ws/tables", eventsCtrl.StreamTables)

	return r
}
