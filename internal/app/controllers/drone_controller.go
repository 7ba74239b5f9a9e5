package controllers

import (
	"github.com/gin-gonic/gin"

	"energy-ops-console/internal/domain/gateway"
	"energy-ops-console/internal/domain/services"
	"energy-ops-console/internal/domain/services/container"
	"energy-ops-console/internal/error/response"
)

// DroneController 处理无人机巡检任务
type DroneController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewDroneController 创建一个新的无人机控制器
func NewDroneController(ctx *gin.Context, container *container.ServiceContainer) *DroneController {
	return &DroneController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleDroneFunc 返回一个处理无人机请求的Gin处理函数
func HandleDroneFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewDroneController(ctx, container)

		switch method {
		case "listDrones":
			controller.ListDrones()
		case "createTask":
			controller.CreateTask()
		case "listTasks":
			controller.ListTasks()
		case "controlTask":
			controller.ControlTask()
		case "addInspectionData":
			controller.AddInspectionData()
		case "listInspectionData":
			controller.ListInspectionData()
		default:
			invalidMethod(ctx)
		}
	}
}

func (c *DroneController) service() services.InterfaceDroneService {
	return c.Container.GetService("drone").(services.InterfaceDroneService)
}

// 1 ListDrones 无人机列表
// @Summary      无人机列表
// @Tags         Drone
// @Produce      json
// @Param        status query string false "状态"
// @Param        region query string false "区域"
// @Success      200  {object}  ListResponse
// @Router       /drone/list [get]
// @Security     BearerAuth
func (c *DroneController) ListDrones() {
	page, err := c.service().ListDrones(c.Ctx.Request.URL.Query())
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.List(c.Ctx, page.Total, gateway.ProjectAll(page.Items))
}

// 2 CreateTask 创建巡检任务
// @Summary      创建巡检任务
// @Tags         Drone
// @Accept       json
// @Produce      json
// @Param        request body services.DroneTaskRequest true "任务信息"
// @Success      200  {object}  map[string]interface{} "{code,msg,taskId}"
// @Failure      400  {object}  ErrorResponse
// @Router       /drone/task/create [post]
// @Security     BearerAuth
func (c *DroneController) CreateTask() {
	var req services.DroneTaskRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	task, err := c.service().CreateTask(&req, currentUser(c.Ctx))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, "创建成功", "taskId", task.TaskID)
}

// 3 ListTasks 巡检任务列表
// @Summary      巡检任务列表
// @Tags         Drone
// @Produce      json
// @Param        droneId  query int    false "无人机ID"
// @Param        taskType query string false "任务类型"
// @Param        status   query string false "状态"
// @Param        priority query string false "优先级"
// @Success      200  {object}  ListResponse
// @Router       /drone/task/list [get]
// @Security     BearerAuth
func (c *DroneController) ListTasks() {
	page, err := c.service().ListTasks(c.Ctx.Request.URL.Query())
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.List(c.Ctx, page.Total, gateway.ProjectAll(page.Items))
}

// 4 ControlTask 控制巡检任务
// @Summary      控制巡检任务
// @Description  action 取值 start、pause、resume、cancel、complete，控制指令通过 MQTT 下发
// @Tags         Drone
// @Accept       json
// @Produce      json
// @Param        id      path int                           true "任务ID"
// @Param        request body services.DroneControlRequest true "控制动作"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /drone/task/{id}/control [post]
// @Security     BearerAuth
func (c *DroneController) ControlTask() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}
	var req services.DroneControlRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	if _, err := c.service().ControlTask(id, req.Action); err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, "操作成功")
}

// 5 AddInspectionData 上传巡检数据
// @Summary      上传巡检数据
// @Tags         Drone
// @Accept       json
// @Produce      json
// @Param        request body services.InspectionDataRequest true "巡检数据"
// @Success      200  {object}  map[string]interface{} "{code,msg,dataId}"
// @Failure      400  {object}  ErrorResponse
// @Router       /drone/inspection/data [post]
// @Security     BearerAuth
func (c *DroneController) AddInspectionData() {
	var req services.InspectionDataRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	data, err := c.service().AddInspectionData(&req, currentUser(c.Ctx))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, "上传成功", "dataId", data.DataID)
}

// 6 ListInspectionData 巡检数据列表
// @Summary      巡检数据列表
// @Tags         Drone
// @Produce      json
// @Param        taskId    query int    false "任务ID"
// @Param        deviceId  query int    false "设备ID"
// @Param        dataType  query string false "数据类型"
// @Param        startTime query string false "开始时间"
// @Param        endTime   query string false "结束时间"
// @Success      200  {object}  ListResponse
// @Router       /drone/inspection/data/list [get]
// @Security     BearerAuth
func (c *DroneController) ListInspectionData() {
	page, err := c.service().ListInspectionData(c.Ctx.Request.URL.Query())
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.List(c.Ctx, page.Total, gateway.ProjectAll(page.Items))
}
