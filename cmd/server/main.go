package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edupath/aigen/internal/api"
	"github.com/edupath/aigen/internal/cache"
	"github.com/edupath/aigen/internal/config"
	"github.com/edupath/aigen/internal/db"
	"github.com/edupath/aigen/internal/dispatcher"
	"github.com/edupath/aigen/internal/events"
	"github.com/edupath/aigen/internal/ledger"
	"github.com/edupath/aigen/internal/models"
	"github.com/edupath/aigen/internal/provider"
	"github.com/edupath/aigen/internal/publish"
	"github.com/edupath/aigen/internal/queue"
	"github.com/edupath/aigen/internal/registry"
	"github.com/edupath/aigen/internal/stats"
	"github.com/robfig/cron/v3"
)

const (
	// Version 项目版本
	Version = "0.1.0"
	// AppName 应用名称
	AppName = "aigen"
)

func main() {
	log.Printf("=== %s v%s ===\n", AppName, Version)
	log.Println("AI 生成请求路由网关")

	// 加载配置
	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Fatalf("❌ 加载配置失败: %v", err)
	}

	// 初始化数据库
	database, err := db.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatalf("❌ 初始化数据库失败: %v", err)
	}
	defer func() {
		if err := db.CloseDatabase(database); err != nil {
			log.Printf("⚠️ 关闭数据库失败: %v", err)
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(database); err != nil {
			log.Fatalf("❌ 数据库迁移失败: %v", err)
		}
	}

	// 组装核心组件
	configRepo := registry.NewRepository(database)
	configService := registry.NewService(configRepo)
	resolver := registry.NewResolver(configRepo, nil)
	defer resolver.Close()

	// 配置变更时失效候选缓存
	configService.SetCacheInvalidator(resolver)

	cacheStore := cache.NewStore(database)
	ledgerRepo := ledger.NewRepository(database)
	eventService := events.NewService(database)
	collector := stats.NewCollector(0)

	publisher := publish.NewMemoryPublisher(64)
	defer publisher.Close()

	// 供应商调用实现：默认使用桩实现，便于本地联调
	// 生产部署时在此注入真实的供应商客户端
	var exchanger provider.Exchanger = &provider.StubExchanger{Delay: 100 * time.Millisecond}

	dispatchConfig := dispatcher.Config{
		Policies:       dispatcher.DefaultPolicySet(),
		AttemptTimeout: cfg.Dispatch.AttemptTimeout,
		CacheTTL:       cfg.Dispatch.CacheTTL,
	}
	d := dispatcher.NewDispatcher(resolver, cacheStore, ledgerRepo, exchanger, publisher, eventService, dispatchConfig)

	// 启动后台工作协程池
	pool := queue.NewWorkerPool(d, cfg.Dispatch.Workers, cfg.Dispatch.QueueSize)
	pool.SetCollector(collector)
	pool.Start(context.Background())
	defer pool.Stop()

	// 定时任务：缓存清理 + 历史事件清理
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@every 10m", func() {
		removed, err := cacheStore.Sweep()
		if err != nil {
			log.Printf("⚠️ 缓存清理失败: %v", err)
			return
		}
		if removed > 0 {
			log.Printf("🧹 缓存清理完成: 删除 %d 条过期条目", removed)
			if err := eventService.LogInfo(models.EventTypeCacheSweep,
				fmt.Sprintf("清理 %d 条过期缓存", removed), nil); err != nil {
				log.Printf("⚠️ 记录缓存清理事件失败: %v", err)
			}
		}
	}); err != nil {
		log.Fatalf("❌ 注册缓存清理任务失败: %v", err)
	}

	if _, err := scheduler.AddFunc("@daily", func() {
		removed, err := eventService.CleanupOldEvents(cfg.Dispatch.EventRetention)
		if err != nil {
			log.Printf("⚠️ 清理历史事件失败: %v", err)
			return
		}
		log.Printf("🧹 历史事件清理完成: 删除 %d 条", removed)
	}); err != nil {
		log.Fatalf("❌ 注册事件清理任务失败: %v", err)
	}

	scheduler.Start()
	defer scheduler.Stop()

	// 配置路由并启动 HTTP 服务
	router := api.SetupRouter(api.Dependencies{
		ConfigService: configService,
		LedgerRepo:    ledgerRepo,
		CacheStore:    cacheStore,
		EventService:  eventService,
		Enqueuer:      pool,
		Collector:     collector,
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("🚀 HTTP 服务启动: %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ HTTP 服务异常退出: %v", err)
		}
	}()

	// 等待退出信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("⏳ 收到退出信号，开始关闭...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ HTTP 服务关闭失败: %v", err)
	}

	log.Println("👋 服务已退出")
}
