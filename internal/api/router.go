package api

import (
	"github.com/edupath/aigen/internal/api/handlers"
	"github.com/edupath/aigen/internal/api/middleware"
	"github.com/edupath/aigen/internal/cache"
	"github.com/edupath/aigen/internal/events"
	"github.com/edupath/aigen/internal/ledger"
	"github.com/edupath/aigen/internal/queue"
	"github.com/edupath/aigen/internal/registry"
	"github.com/edupath/aigen/internal/stats"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Dependencies 路由依赖集合
type Dependencies struct {
	ConfigService *registry.Service
	LedgerRepo    *ledger.Repository
	CacheStore    *cache.Store
	EventService  *events.Service
	Enqueuer      queue.Enqueuer
	Collector     *stats.Collector
}

// SetupRouter 配置路由
func SetupRouter(deps Dependencies) *gin.Engine {
	// 创建 Gin 引擎
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(middleware.RequestCounterMiddleware(deps.Collector))

	// 健康检查端点
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "aigen",
		})
	})

	// 生成请求入口（异步）
	generateHandler := handlers.NewGenerateHandler(deps.Enqueuer, deps.LedgerRepo, deps.Collector)
	v1 := router.Group("/v1")
	{
		v1.POST("/generate", generateHandler.SubmitGenerate)
		v1.GET("/generate/:request_id", generateHandler.GetGenerateStatus)
	}

	// 运维 API 路由组
	apiGroup := router.Group("/api")
	{
		setupConfigRoutes(apiGroup, deps.ConfigService)
		setupInteractionRoutes(apiGroup, deps.LedgerRepo)
		setupCacheRoutes(apiGroup, deps.CacheStore)
		setupStatsRoutes(apiGroup, deps.Collector, deps.EventService)
	}

	return router
}

// setupConfigRoutes 配置模型配置路由
func setupConfigRoutes(group *gin.RouterGroup, service *registry.Service) {
	handler := handlers.NewConfigHandler(service)

	configs := group.Group("/model-configs")
	{
		configs.POST("", handler.CreateConfig)
		configs.GET("", handler.ListConfigs)
		configs.GET("/:id", handler.GetConfig)
		configs.PUT("/:id", handler.UpdateConfig)
		configs.DELETE("/:id", handler.DeleteConfig)
	}
}

// setupInteractionRoutes 配置交互记录路由
func setupInteractionRoutes(group *gin.RouterGroup, repo *ledger.Repository) {
	handler := handlers.NewInteractionHandler(repo)

	interactions := group.Group("/interactions")
	{
		interactions.GET("", handler.ListInteractions)
		interactions.GET("/cost", handler.GetCostSummary)
		interactions.GET("/:id", handler.GetInteraction)
	}
}

// setupCacheRoutes 配置缓存路由
func setupCacheRoutes(group *gin.RouterGroup, store *cache.Store) {
	handler := handlers.NewCacheHandler(store)

	cacheGroup := group.Group("/cache")
	{
		cacheGroup.GET("/stats", handler.GetStats)
		cacheGroup.DELETE("/:key", handler.InvalidateKey)
	}
}

// setupStatsRoutes 配置统计与事件路由
func setupStatsRoutes(group *gin.RouterGroup, collector *stats.Collector, eventService *events.Service) {
	handler := handlers.NewStatsHandler(collector, eventService)

	group.GET("/stats", handler.GetStats)
	group.GET("/events", handler.ListEvents)
}
