package controllers

import (
	"github.com/gin-gonic/gin"

	"energy-ops-console/internal/domain/gateway"
	"energy-ops-console/internal/domain/services"
	"energy-ops-console/internal/domain/services/container"
	"energy-ops-console/internal/error/response"
)

// DataController 处理实时数据、气象数据与预测任务
type DataController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewDataController 创建一个新的数据控制器
func NewDataController(ctx *gin.Context, container *container.ServiceContainer) *DataController {
	return &DataController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleDataFunc 返回一个处理数据请求的Gin处理函数
func HandleDataFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewDataController(ctx, container)

		switch method {
		case "listRealtime":
			controller.ListRealtime()
		case "listWeather":
			controller.ListWeather()
		case "listPredictionTasks":
			controller.ListPredictionTasks()
		case "createPredictionTask":
			controller.CreatePredictionTask()
		case "listPredictionResults":
			controller.ListPredictionResults()
		case "addPredictionResult":
			controller.AddPredictionResult()
		default:
			invalidMethod(ctx)
		}
	}
}

func (c *DataController) service() services.InterfaceDataService {
	return c.Container.GetService("data").(services.InterfaceDataService)
}

// 1 ListRealtime 实时数据
// @Summary      实时数据
// @Tags         Data
// @Produce      json
// @Param        deviceId  query int    false "设备ID"
// @Param        startTime query string false "开始时间"
// @Param        endTime   query string false "结束时间"
// @Success      200  {object}  ListResponse
// @Router       /data/realtime/list [get]
// @Security     BearerAuth
func (c *DataController) ListRealtime() {
	page, err := c.service().ListRealtime(c.Ctx.Request.URL.Query())
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.List(c.Ctx, page.Total, gateway.ProjectAll(page.Items))
}

// 2 ListWeather 气象数据
// @Summary      气象数据
// @Tags         Data
// @Produce      json
// @Param        region    query string false "区域"
// @Param        startTime query string false "开始时间"
// @Param        endTime   query string false "结束时间"
// @Success      200  {object}  ListResponse
// @Router       /data/weather/list [get]
// @Security     BearerAuth
func (c *DataController) ListWeather() {
	page, err := c.service().ListWeather(c.Ctx.Request.URL.Query())
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.List(c.Ctx, page.Total, gateway.ProjectAll(page.Items))
}

// 3 ListPredictionTasks 预测任务列表
// @Summary      预测任务列表
// @Tags         Data
// @Produce      json
// @Param        taskType query string false "任务类型"
// @Param        status   query string false "状态"
// @Success      200  {object}  ListResponse
// @Router       /prediction/task/list [get]
// @Security     BearerAuth
func (c *DataController) ListPredictionTasks() {
	page, err := c.service().ListPredictionTasks(c.Ctx.Request.URL.Query())
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.List(c.Ctx, page.Total, gateway.ProjectAll(page.Items))
}

// 4 CreatePredictionTask 创建预测任务
// @Summary      创建预测任务
// @Tags         Data
// @Accept       json
// @Produce      json
// @Param        request body services.PredictionTaskRequest true "任务信息"
// @Success      200  {object}  map[string]interface{} "{code,msg,taskId}"
// @Failure      400  {object}  ErrorResponse
// @Router       /prediction/task [post]
// @Security     BearerAuth
func (c *DataController) CreatePredictionTask() {
	var req services.PredictionTaskRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	task, err := c.service().CreatePredictionTask(&req, currentUser(c.Ctx))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, "创建成功", "taskId", task.TaskID)
}

// 5 ListPredictionResults 预测结果
// @Summary      预测结果
// @Tags         Data
// @Produce      json
// @Param        taskId query int false "任务ID"
// @Success      200  {object}  ListResponse
// @Router       /prediction/result/list [get]
// @Security     BearerAuth
func (c *DataController) ListPredictionResults() {
	page, err := c.service().ListPredictionResults(c.Ctx.Request.URL.Query())
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.List(c.Ctx, page.Total, gateway.ProjectAll(page.Items))
}

// 6 AddPredictionResult 添加预测结果
// @Summary      添加预测结果
// @Tags         Data
// @Accept       json
// @Produce      json
// @Param        request body services.PredictionResultRequest true "预测结果"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /prediction/result [post]
// @Security     BearerAuth
func (c *DataController) AddPredictionResult() {
	var req services.PredictionResultRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	if _, err := c.service().AddPredictionResult(&req); err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, "添加成功")
}
