package container

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"energy-ops-console/internal/domain/services"
	"energy-ops-console/internal/infrastructure/cache"
	"energy-ops-console/internal/infrastructure/config"
	"energy-ops-console/internal/infrastructure/forecaster"
	"energy-ops-console/internal/infrastructure/modelclient"
	"energy-ops-console/internal/infrastructure/mqtt"
	"energy-ops-console/pkg/logger"
)

// Infrastructure 服务依赖的外部组件，为空的字段按配置创建
type Infrastructure struct {
	Cache       cache.Store
	Publisher   mqtt.Publisher
	ModelClient modelclient.Client
	Forecaster  *forecaster.Holder
}

// ServiceContainer 管理所有服务的依赖注入
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config
	infra  Infrastructure

	// 基础服务
	jwtService services.InterfaceJWTService

	// 系统管理
	userService services.InterfaceUserService
	roleService services.InterfaceRoleService
	deptService services.InterfaceDeptService
	menuService services.InterfaceMenuService

	// 业务服务
	deviceService       services.InterfaceDeviceService
	alarmService        services.InterfaceAlarmService
	workOrderService    services.InterfaceWorkOrderService
	droneService        services.InterfaceDroneService
	tradeService        services.InterfaceTradeService
	ruleService         services.InterfaceRuleService
	dataService         services.InterfaceDataService
	notificationService services.InterfaceNotificationService
	statisticsService   services.InterfaceStatisticsService

	// 模型相关服务
	modelService     services.InterfaceModelService
	featureService   services.InterfaceFeatureService
	inferenceService services.InterfaceInferenceService

	mu sync.RWMutex
}

// NewServiceContainer 创建新的服务容器
func NewServiceContainer(db *gorm.DB, cfg *config.Config, infra Infrastructure) *ServiceContainer {
	if db == nil {
		panic("数据库连接为空")
	}

	if cfg == nil {
		panic("配置为空")
	}

	if infra.Cache == nil {
		infra.Cache = cache.NewMemoryStore(cfg.CacheTTL)
	}
	if infra.Publisher == nil {
		infra.Publisher = mqtt.NopPublisher{}
	}
	if infra.ModelClient == nil {
		infra.ModelClient = modelclient.New(cfg)
	}
	if infra.Forecaster == nil {
		infra.Forecaster = forecaster.NewHolder(forecaster.RemoteLoader(cfg.ForecasterURL, cfg.ModelServiceTimeout))
	}

	container := &ServiceContainer{
		db:     db,
		config: cfg,
		infra:  infra,
	}
	container.initializeServices()
	return container
}

// initializeServices 初始化所有服务
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.jwtService = services.NewJWTService(c.config, c.db)

	c.userService = services.NewUserService(c.db, c.config)
	c.roleService = services.NewRoleService(c.db, c.config)
	c.deptService = services.NewDeptService(c.db, c.config)
	c.menuService = services.NewMenuService(c.db, c.config)

	c.deviceService = services.NewDeviceService(c.db, c.config)
	c.alarmService = services.NewAlarmService(c.db, c.config, c.infra.Publisher)
	c.workOrderService = services.NewWorkOrderService(c.db, c.config)
	c.droneService = services.NewDroneService(c.db, c.config, c.infra.Publisher)
	c.tradeService = services.NewTradeService(c.db, c.config)
	c.ruleService = services.NewRuleService(c.db, c.config)
	c.dataService = services.NewDataService(c.db, c.config)
	c.notificationService = services.NewNotificationService(c.db, c.config)
	c.statisticsService = services.NewStatisticsService(c.db, c.config)

	c.modelService = services.NewModelService(c.db, c.config, c.infra.ModelClient)
	c.featureService = services.NewFeatureService(c.db, c.config, c.infra.ModelClient)
	c.inferenceService = services.NewInferenceService(c.config, c.infra.Forecaster)
}

// GetService 获取指定名称的服务
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "cache":
		return c.infra.Cache
	case "forecaster":
		return c.infra.Forecaster
	case "publisher":
		return c.infra.Publisher
	case "jwt":
		return c.jwtService
	case "user":
		return c.userService
	case "role":
		return c.roleService
	case "dept":
		return c.deptService
	case "menu":
		return c.menuService
	case "device":
		return c.deviceService
	case "alarm":
		return c.alarmService
	case "work_order":
		return c.workOrderService
	case "drone":
		return c.droneService
	case "trade":
		return c.tradeService
	case "rule":
		return c.ruleService
	case "data":
		return c.dataService
	case "notification":
		return c.notificationService
	case "statistics":
		return c.statisticsService
	case "model":
		return c.modelService
	case "feature":
		return c.featureService
	case "inference":
		return c.inferenceService
	default:
		return nil
	}
}

// GetDB 获取数据库连接
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}

// GetCache 获取缓存存储
func (c *ServiceContainer) GetCache() cache.Store {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.infra.Cache
}

// SyncTrainings 同步未结束的训练任务，供定时任务调用
func (c *ServiceContainer) SyncTrainings() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	synced, err := c.modelService.SyncTrainings(ctx)
	if err != nil {
		logger.Error("[Scheduler] 训练任务同步失败: %v", err)
		return
	}
	logger.Debug("[Scheduler] 已同步 %d 个训练任务", synced)
}

// Close 释放模型句柄与消息连接
func (c *ServiceContainer) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.infra.Forecaster.Close(); err != nil {
		logger.Warning("预测模型释放失败: %v", err)
	}
	c.infra.Publisher.Disconnect()
}
