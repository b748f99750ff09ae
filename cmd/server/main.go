// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"docs-italia-go/internal/config"
	"docs-italia-go/internal/handler"
	"docs-italia-go/internal/middleware"
	"docs-italia-go/internal/pipeline"
	"docs-italia-go/internal/repository"
	"docs-italia-go/internal/service"
	"docs-italia-go/pkg/database"
	"docs-italia-go/pkg/es"
	"docs-italia-go/pkg/fetcher"
	"docs-italia-go/pkg/kafka"
	"docs-italia-go/pkg/lock"
	"docs-italia-go/pkg/log"
	"docs-italia-go/pkg/storage"
	"docs-italia-go/pkg/tasks"
	"docs-italia-go/pkg/token"
)

// kafkaEnqueuer 把清理任务投递到 Kafka，实现 service.TaskEnqueuer。
type kafkaEnqueuer struct{}

func (kafkaEnqueuer) Enqueue(task tasks.ClearIndexTask) error {
	return kafka.ProduceClearIndexTask(task)
}

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 初始化数据库、Redis、对象存储、搜索引擎和消息队列
	database.InitMySQL(cfg.Database.MySQL.DSN)
	database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
	storage.InitMinIO(cfg.MinIO)
	if err := es.InitES(cfg.Elasticsearch); err != nil {
		log.Errorf("es 初始化失败 %s", err)
		return
	}
	kafka.InitProducer(cfg.Kafka)

	// 4. 初始化 Repository
	publisherRepo := repository.NewPublisherRepository(database.DB)
	projectRepo := repository.NewPublisherProjectRepository(database.DB)
	documentRepo := repository.NewDocumentRepository(database.DB)
	tagRepo := repository.NewAllowedTagRepository(database.DB)
	integrationRepo := repository.NewIntegrationRepository(database.DB)

	// 5. 初始化 Service (依赖注入)
	jwtManager := token.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TokenExpireHours)
	metadataFetcher := fetcher.NewClient(cfg.Metadata)
	locker := lock.NewRedisLocker(database.RDB, time.Duration(cfg.Metadata.LockTTLSeconds)*time.Second)
	archiver := storage.NewSnapshotArchiver(cfg.MinIO.BucketName)

	metadataService := service.NewMetadataService(metadataFetcher, tagRepo, cfg.Metadata)
	reconcileService := service.NewReconcileService(database.DB, locker)
	webhookService := service.NewWebhookService(metadataService, reconcileService, publisherRepo, archiver, cfg.Metadata.DefaultBranch)
	binderService := service.NewBinderService(metadataService, documentRepo, projectRepo)
	cleanupService := service.NewCleanupService(database.DB, kafkaEnqueuer{})
	adminService := service.NewAdminService(tagRepo, publisherRepo, webhookService, cfg.Metadata.DefaultBranch)
	publisherService := service.NewPublisherService(publisherRepo, projectRepo, documentRepo)

	// 6. 启动后台 Kafka 消费者处理索引清理任务
	processor := pipeline.NewProcessor(cfg.Elasticsearch)
	go kafka.StartConsumer(cfg.Kafka, processor)

	// 7. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// 8. 注册路由
	api := r.Group("/api/v1")
	{
		// 只读查询，公开访问
		publishers := api.Group("/publishers")
		{
			publisherHandler := handler.NewPublisherHandler(publisherService)
			publishers.GET("", publisherHandler.ListPublishers)
			publishers.GET("/:slug", publisherHandler.GetPublisher)
			publishers.GET("/:slug/projects", publisherHandler.ListProjects)
			publishers.GET("/:slug/projects/:projectSlug/documents", publisherHandler.ListProjectDocuments)
		}

		documentHandler := handler.NewDocumentHandler(publisherService, binderService)
		api.GET("/documents/by-tag", documentHandler.SearchByTag)

		// 托管平台的 push 回调，签名校验在处理器内部完成
		webhookHandler := handler.NewWebhookHandler(webhookService, publisherRepo, integrationRepo)
		api.POST("/webhook/github/:publisherSlug", webhookHandler.HandleGithubPush)
		api.POST("/webhook/:publisherSlug/:integrationID", webhookHandler.HandlePush)

		// 管理端路由组，需要携带 ADMIN 角色的服务令牌
		admin := api.Group("/admin")
		admin.Use(middleware.ServiceAuthMiddleware(jwtManager))
		{
			adminHandler := handler.NewAdminHandler(adminService, cleanupService)

			admin.GET("/tags", adminHandler.ListTags)
			admin.POST("/tags", adminHandler.CreateTag)
			admin.POST("/tags/seed", adminHandler.SeedTags)
			admin.PUT("/tags/:id", adminHandler.UpdateTag)
			admin.DELETE("/tags/:id", adminHandler.DeleteTag)

			admin.POST("/publishers", adminHandler.CreatePublisher)
			admin.POST("/publishers/:slug/resync", adminHandler.ResyncPublisher)
			admin.DELETE("/publishers/:id", adminHandler.DeletePublisher)
			admin.DELETE("/projects/:id", adminHandler.DeleteProject)

			admin.POST("/clean-index", adminHandler.CleanIndex)

			// 构建系统回调，导入完成后触发归属绑定
			admin.POST("/documents/import", documentHandler.Import)
		}
	}

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}

	// Kafka 消费者是一个阻塞循环，会随进程退出自然结束。
	log.Info("服务已优雅关闭")
}
