package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "energy-ops-console/docs"
	"energy-ops-console/internal/app/controllers"
	"energy-ops-console/internal/app/middleware"
	"energy-ops-console/internal/domain/services"
	"energy-ops-console/internal/domain/services/container"
	"energy-ops-console/internal/infrastructure/config"
)

// SetupRouter 初始化并返回配置好的路由
func SetupRouter(container *container.ServiceContainer, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.AllowOrigins))

	// 初始化认证中间件
	middleware.InitAuthMiddleware(container.GetService("jwt").(services.InterfaceJWTService))
	// 添加 Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	registerRoutes(r, container, cfg)
	return r
}

// registerRoutes 配置所有API路由
func registerRoutes(r *gin.Engine, container *container.ServiceContainer, cfg *config.Config) {
	api := r.Group("/api")
	registerPublicRoutes(api, container)
	registerAuthenticatedRoutes(api, container, cfg)
}

// registerPublicRoutes 注册公共路由
func registerPublicRoutes(api *gin.RouterGroup, container *container.ServiceContainer) {
	api.GET("/ping", controllers.HandleHealthFunc(container, "ping"))
	api.GET("/health/status", controllers.HandleHealthFunc(container, "status"))

	// 登录接口按IP限流，每秒5个请求，最多突发10个
	api.POST("/login", middleware.IPRateLimiter(5, 10), controllers.HandleAuthFunc(container, "login"))
}

// registerAuthenticatedRoutes 注册需要认证的路由
func registerAuthenticatedRoutes(api *gin.RouterGroup, container *container.ServiceContainer, cfg *config.Config) {
	auth := api.Group("")
	auth.Use(middleware.Authentication())
	// 按IP和路径每秒30个请求，最多突发50个
	auth.Use(middleware.CombinedRateLimiter(30, 50))

	cached := middleware.Cache(middleware.CacheConfig{
		Store:      container.GetCache(),
		Expiration: cfg.CacheTTL,
	})

	auth.POST("/logout", controllers.HandleAuthFunc(container, "logout"))
	auth.GET("/info", controllers.HandleAuthFunc(container, "getInfo"))

	// 系统管理
	system := auth.Group("/system")
	{
		dept := system.Group("/dept")
		dept.GET("/list", controllers.HandleDeptFunc(container, "listDepts"))
		dept.GET("/treeselect", controllers.HandleDeptFunc(container, "treeSelect"))
		dept.POST("", controllers.HandleDeptFunc(container, "createDept"))
		dept.PUT("", controllers.HandleDeptFunc(container, "updateDept"))
		dept.DELETE("/:id", controllers.HandleDeptFunc(container, "deleteDept"))

		role := system.Group("/role")
		role.GET("/list", controllers.HandleRoleFunc(container, "listRoles"))
		role.GET("/:id/menus", controllers.HandleRoleFunc(container, "roleMenus"))
		role.POST("", controllers.HandleRoleFunc(container, "createRole"))
		role.PUT("", controllers.HandleRoleFunc(container, "updateRole"))
		role.DELETE("/:id", controllers.HandleRoleFunc(container, "deleteRole"))

		menu := system.Group("/menu")
		menu.GET("/list", controllers.HandleMenuFunc(container, "listMenus"))
		menu.GET("/treeselect", controllers.HandleMenuFunc(container, "treeSelect"))
		menu.POST("", controllers.HandleMenuFunc(container, "createMenu"))
		menu.PUT("", controllers.HandleMenuFunc(container, "updateMenu"))
		menu.DELETE("/:id", controllers.HandleMenuFunc(container, "deleteMenu"))

		user := system.Group("/user")
		user.GET("/list", controllers.HandleUserFunc(container, "listUsers"))
		user.GET("/:id/roles", controllers.HandleUserFunc(container, "userRoles"))
		user.POST("", controllers.HandleUserFunc(container, "createUser"))
		user.PUT("", controllers.HandleUserFunc(container, "updateUser"))
		user.PUT("/resetPwd", controllers.HandleUserFunc(container, "resetPassword"))
		user.DELETE("/:id", controllers.HandleUserFunc(container, "deleteUser"))
	}

	// 设备，导出路由需在 /:id 之前注册
	device := auth.Group("/device")
	{
		device.GET("/list", controllers.HandleDeviceFunc(container, "listDevices"))
		device.GET("/export", controllers.HandleDeviceFunc(container, "exportDevices"))
		device.GET("/:id", controllers.HandleDeviceFunc(container, "getDevice"))
		device.POST("", controllers.HandleDeviceFunc(container, "createDevice"))
		device.PUT("/:id", controllers.HandleDeviceFunc(container, "updateDevice"))
		device.DELETE("/:id", controllers.HandleDeviceFunc(container, "deleteDevice"))
		device.GET("/:id/maintenance", controllers.HandleDeviceFunc(container, "listMaintenance"))
		device.POST("/:id/maintenance", controllers.HandleDeviceFunc(container, "addMaintenance"))
	}

	// 告警
	alarm := auth.Group("/alarm")
	{
		alarm.GET("/list", controllers.HandleAlarmFunc(container, "listAlarms"))
		alarm.POST("/:id/handle", controllers.HandleAlarmFunc(container, "handleAlarm"))
		alarm.GET("/rule/list", controllers.HandleAlarmFunc(container, "listRules"))
		alarm.POST("/rule", controllers.HandleAlarmFunc(container, "createRule"))
		alarm.PUT("/rule/:id", controllers.HandleAlarmFunc(container, "updateRule"))
	}

	// 工单
	workOrder := auth.Group("/workorder")
	{
		workOrder.GET("/list", controllers.HandleWorkOrderFunc(container, "listWorkOrders"))
		workOrder.POST("", controllers.HandleWorkOrderFunc(container, "createWorkOrder"))
		workOrder.PUT("/:id", controllers.HandleWorkOrderFunc(container, "updateWorkOrder"))
		workOrder.POST("/:id/images", controllers.HandleWorkOrderFunc(container, "uploadImages"))
		workOrder.GET("/:id/images", controllers.HandleWorkOrderFunc(container, "listImages"))
	}

	// 无人机
	drone := auth.Group("/drone")
	{
		drone.GET("/list", controllers.HandleDroneFunc(container, "listDrones"))
		drone.POST("/task/create", controllers.HandleDroneFunc(container, "createTask"))
		drone.GET("/task/list", controllers.HandleDroneFunc(container, "listTasks"))
		drone.POST("/task/:id/control", controllers.HandleDroneFunc(container, "controlTask"))
		drone.POST("/inspection/data", controllers.HandleDroneFunc(container, "addInspectionData"))
		drone.GET("/inspection/data/list", controllers.HandleDroneFunc(container, "listInspectionData"))
	}

	// 交易与市场
	trade := auth.Group("/trade")
	{
		trade.GET("/list", controllers.HandleTradeFunc(container, "listTrades"))
		trade.POST("", controllers.HandleTradeFunc(container, "createTrade"))
		trade.PUT("/:id/status", controllers.HandleTradeFunc(container, "updateTradeStatus"))
	}
	auth.GET("/market/data", cached, controllers.HandleTradeFunc(container, "listMarketData"))
	auth.GET("/pricing/time-based", cached, controllers.HandleTradeFunc(container, "listPricing"))

	// 业务规则
	rule := auth.Group("/rule")
	{
		rule.GET("/list", controllers.HandleRuleFunc(container, "listRules"))
		rule.POST("", controllers.HandleRuleFunc(container, "createRule"))
		rule.PUT("/:id", controllers.HandleRuleFunc(container, "updateRule"))
		rule.DELETE("/:id", controllers.HandleRuleFunc(container, "deleteRule"))
		rule.GET("/strategy/list", controllers.HandleRuleFunc(container, "listStrategies"))
		rule.GET("/execution/log", controllers.HandleRuleFunc(container, "listExecutionLogs"))
	}

	// 通知
	notification := auth.Group("/notification")
	{
		notification.GET("/list", controllers.HandleNotificationFunc(container, "listNotifications"))
		notification.GET("/unread/count", controllers.HandleNotificationFunc(container, "unreadCount"))
		notification.PUT("/:id/read", controllers.HandleNotificationFunc(container, "markRead"))
		notification.GET("/subscription", controllers.HandleNotificationFunc(container, "listSubscriptions"))
		notification.POST("/subscription", controllers.HandleNotificationFunc(container, "subscribe"))
		notification.PUT("/subscription/:id", controllers.HandleNotificationFunc(container, "updateSubscription"))
		notification.DELETE("/subscription/:id", controllers.HandleNotificationFunc(container, "unsubscribe"))
	}

	// 统计
	statistics := auth.Group("/statistics", cached)
	{
		statistics.GET("/device/overview", controllers.HandleStatisticsFunc(container, "deviceOverview"))
		statistics.GET("/power/generation", controllers.HandleStatisticsFunc(container, "powerGeneration"))
		statistics.GET("/alarm/analysis", controllers.HandleStatisticsFunc(container, "alarmAnalysis"))
		statistics.GET("/trade/analysis", controllers.HandleStatisticsFunc(container, "tradeAnalysis"))
	}

	// 运行数据与预测
	auth.GET("/data/realtime/list", controllers.HandleDataFunc(container, "listRealtime"))
	auth.GET("/data/weather/list", controllers.HandleDataFunc(container, "listWeather"))
	prediction := auth.Group("/prediction")
	{
		prediction.GET("/task/list", controllers.HandleDataFunc(container, "listPredictionTasks"))
		prediction.POST("/task", controllers.HandleDataFunc(container, "createPredictionTask"))
		prediction.GET("/result/list", controllers.HandleDataFunc(container, "listPredictionResults"))
		prediction.POST("/result", controllers.HandleDataFunc(container, "addPredictionResult"))
	}

	// 模型服务
	model := auth.Group("/model")
	{
		model.GET("/versions", controllers.HandleModelFunc(container, "listVersions"))
		model.POST("/train", controllers.HandleModelFunc(container, "startTraining"))
		model.GET("/train/:id", controllers.HandleModelFunc(container, "getTraining"))
		model.POST("/deploy", controllers.HandleModelFunc(container, "deploy"))
		model.POST("/predict", controllers.HandleModelFunc(container, "predict"))
		model.POST("/batch-predict", controllers.HandleModelFunc(container, "batchPredict"))
		model.POST("/evaluate", controllers.HandleModelFunc(container, "evaluate"))
	}

	// 特征工程
	feature := auth.Group("/feature")
	{
		feature.POST("/preprocess", controllers.HandleFeatureFunc(container, "preprocess"))
		feature.POST("/engineer", controllers.HandleFeatureFunc(container, "engineer"))
		feature.POST("/dataset", controllers.HandleFeatureFunc(container, "createDataset"))
		feature.GET("/dataset/:id", controllers.HandleFeatureFunc(container, "getDataset"))
		feature.GET("/dataset/:id/preview", controllers.HandleFeatureFunc(container, "previewDataset"))
	}

	// 时序预测推理
	inference := auth.Group("/inference")
	{
		inference.GET("/sample-data/:name", controllers.HandleInferenceFunc(container, "sampleData"))
		inference.POST("/predict", controllers.HandleInferenceFunc(container, "predict"))
		inference.GET("/model-info", controllers.HandleInferenceFunc(container, "modelInfo"))
	}
}
