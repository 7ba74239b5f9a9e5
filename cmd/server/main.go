// @title           Energy Ops Console API
// @version         1.0
// @description     新能源场站运维管理平台：设备、告警、工单、无人机巡检、电力交易与预测模型服务
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support

// @BasePath  /api

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Enter the token with the `Bearer ` prefix
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"energy-ops-console/internal/app/routes"
	"energy-ops-console/internal/domain/services/container"
	"energy-ops-console/internal/infrastructure/cache"
	"energy-ops-console/internal/infrastructure/config"
	"energy-ops-console/internal/infrastructure/database"
	"energy-ops-console/internal/infrastructure/mqtt"
	"energy-ops-console/internal/infrastructure/scheduler"
	"energy-ops-console/pkg/logger"
)

// trainingSyncJob 训练状态同步任务名
const trainingSyncJob = "training-sync"

func main() {
	// 加载.env文件，失败时继续使用已有环境变量
	envErr := godotenv.Load()

	// 初始化日志配置
	if err := logger.SetupLogger(); err != nil {
		fmt.Printf("初始化日志配置失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if envErr != nil {
		logger.Warning("无法加载.env文件: %v", envErr)
	} else {
		logger.Info("成功加载.env文件")
	}

	cfg := config.GetConfig()

	// 创建数据库连接池
	pool, err := database.NewConnectionPool(cfg)
	if err != nil {
		logger.Error("无法创建数据库连接池: %v", err)
		os.Exit(1)
	}
	db := pool.GetDB()

	if err := database.Migrate(db, cfg.DBMigrationMode); err != nil {
		logger.Error("数据库迁移失败: %v", err)
		os.Exit(1)
	}

	// 确保系统中有管理员账户
	if err := database.EnsureAdmin(db, cfg.DefaultAdminPassword); err != nil {
		logger.Error("创建默认管理员失败: %v", err)
		os.Exit(1)
	}

	store := cache.NewStore(cfg)
	publisher := mqtt.NewPublisher(cfg)

	serviceContainer := container.NewServiceContainer(db, cfg, container.Infrastructure{
		Cache:     store,
		Publisher: publisher,
	})

	jobs := scheduler.New()
	if cfg.TrainingSyncCron != "" {
		if err := jobs.AddJob(trainingSyncJob, cfg.TrainingSyncCron, serviceContainer.SyncTrainings); err != nil {
			logger.Error("注册训练同步任务失败: %v", err)
			os.Exit(1)
		}
	}
	jobs.Start()

	r := routes.SetupRouter(serviceContainer, cfg)

	printSystemInfo(pool)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("服务器启动在: http://0.0.0.0:%s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("启动服务器失败: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("收到信号 %s，开始关闭服务", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("HTTP服务关闭失败: %v", err)
	}
	jobs.Stop(ctx)
	serviceContainer.Close()
	if closer, ok := store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logger.Warning("Redis连接关闭失败: %v", err)
		}
	}
	if err := pool.Close(); err != nil {
		logger.Warning("数据库连接关闭失败: %v", err)
	}
	logger.Info("服务已退出")
}

// printSystemInfo 打印系统信息
func printSystemInfo(pool *database.ConnectionPool) {
	if stats, err := pool.Stats(); err == nil {
		logger.Info("数据库连接池状态: %+v", stats)
	}

	logger.Info("系统CPU核心数: %d", runtime.NumCPU())
	logger.Info("当前Go协程数: %d", runtime.NumGoroutine())

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	logger.Info("系统内存使用: Alloc=%v MiB, TotalAlloc=%v MiB, Sys=%v MiB",
		m.Alloc/1024/1024, m.TotalAlloc/1024/1024, m.Sys/1024/1024)
}
