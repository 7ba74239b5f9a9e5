package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"energy-ops-console/internal/domain/gateway"
	"energy-ops-console/internal/domain/services"
	"energy-ops-console/internal/domain/services/container"
	"energy-ops-console/internal/error/response"
)

// statisticsPath 统计接口的缓存前缀，设备与告警变化后清除
const statisticsPath = "/api/statistics"

// DeviceController 处理设备台账与维护记录
type DeviceController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewDeviceController 创建一个新的设备控制器
func NewDeviceController(ctx *gin.Context, container *container.ServiceContainer) *DeviceController {
	return &DeviceController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleDeviceFunc 返回一个处理设备请求的Gin处理函数
func HandleDeviceFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewDeviceController(ctx, container)

		switch method {
		case "listDevices":
			controller.ListDevices()
		case "getDevice":
			controller.GetDevice()
		case "createDevice":
			controller.CreateDevice()
		case "updateDevice":
			controller.UpdateDevice()
		case "deleteDevice":
			controller.DeleteDevice()
		case "listMaintenance":
			controller.ListMaintenance()
		case "addMaintenance":
			controller.AddMaintenance()
		case "exportDevices":
			controller.ExportDevices()
		default:
			invalidMethod(ctx)
		}
	}
}

func (c *DeviceController) service() services.InterfaceDeviceService {
	return c.Container.GetService("device").(services.InterfaceDeviceService)
}

// 1 ListDevices 设备列表
// @Summary      设备列表
// @Description  按创建时间倒序返回设备
// @Tags         Device
// @Produce      json
// @Param        deviceType   query string false "设备类型"
// @Param        subType      query string false "子类型"
// @Param        region       query string false "区域"
// @Param        healthStatus query string false "健康状态"
// @Param        pageNum      query int    false "页码"
// @Param        pageSize     query int    false "每页条数"
// @Success      200  {object}  ListResponse
// @Router       /device/list [get]
// @Security     BearerAuth
func (c *DeviceController) ListDevices() {
	page, err := c.service().ListDevices(c.Ctx.Request.URL.Query())
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.List(c.Ctx, page.Total, gateway.ProjectAll(page.Items))
}

// 2 GetDevice 设备详情
// @Summary      设备详情
// @Tags         Device
// @Produce      json
// @Param        id path int true "设备ID"
// @Success      200  {object}  DataResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /device/{id} [get]
// @Security     BearerAuth
func (c *DeviceController) GetDevice() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}
	device, err := c.service().GetDevice(id)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Data(c.Ctx, "查询成功", gateway.Project(device))
}

// 3 CreateDevice 新增设备
// @Summary      新增设备
// @Tags         Device
// @Accept       json
// @Produce      json
// @Param        request body services.CreateDeviceRequest true "设备信息"
// @Success      200  {object}  map[string]interface{} "{code,msg,deviceId}"
// @Failure      400  {object}  ErrorResponse
// @Router       /device [post]
// @Security     BearerAuth
func (c *DeviceController) CreateDevice() {
	var req services.CreateDeviceRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	device, err := c.service().CreateDevice(&req)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	purgeCached(c.Container, statisticsPath)
	response.Created(c.Ctx, "创建成功", "deviceId", device.DeviceID)
}

// 4 UpdateDevice 修改设备
// @Summary      修改设备
// @Tags         Device
// @Accept       json
// @Produce      json
// @Param        id      path int                    true "设备ID"
// @Param        request body services.DeviceRequest true "设备信息"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /device/{id} [put]
// @Security     BearerAuth
func (c *DeviceController) UpdateDevice() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}
	var req services.DeviceRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	if err := c.service().UpdateDevice(id, &req); err != nil {
		response.Error(c.Ctx, err)
		return
	}
	purgeCached(c.Container, statisticsPath)
	response.Success(c.Ctx, "更新成功")
}

// 5 DeleteDevice 删除设备
// @Summary      删除设备
// @Tags         Device
// @Produce      json
// @Param        id path int true "设备ID"
// @Success      200  {object}  MessageResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /device/{id} [delete]
// @Security     BearerAuth
func (c *DeviceController) DeleteDevice() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}
	if err := c.service().DeleteDevice(id); err != nil {
		response.Error(c.Ctx, err)
		return
	}
	purgeCached(c.Container, statisticsPath)
	response.Success(c.Ctx, "删除成功")
}

// 6 ListMaintenance 维护记录
// @Summary      设备维护记录
// @Tags         Device
// @Produce      json
// @Param        id              path  int    true  "设备ID"
// @Param        maintenanceType query string false "维护类型"
// @Param        status          query string false "状态"
// @Success      200  {object}  ListResponse
// @Router       /device/{id}/maintenance [get]
// @Security     BearerAuth
func (c *DeviceController) ListMaintenance() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}
	page, err := c.service().ListMaintenance(id, c.Ctx.Request.URL.Query())
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.List(c.Ctx, page.Total, gateway.ProjectAll(page.Items))
}

// 7 AddMaintenance 添加维护记录
// @Summary      添加维护记录
// @Description  同时更新设备的最近维护时间
// @Tags         Device
// @Accept       json
// @Produce      json
// @Param        id      path int                         true "设备ID"
// @Param        request body services.MaintenanceRequest true "维护记录"
// @Success      200  {object}  map[string]interface{} "{code,msg,recordId}"
// @Failure      404  {object}  ErrorResponse
// @Router       /device/{id}/maintenance [post]
// @Security     BearerAuth
func (c *DeviceController) AddMaintenance() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}
	var req services.MaintenanceRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	record, err := c.service().AddMaintenance(id, &req, currentUser(c.Ctx))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, "添加成功", "recordId", record.RecordID)
}

// 8 ExportDevices 导出设备清单
// @Summary      导出设备清单
// @Description  按列表相同的过滤条件导出 xlsx
// @Tags         Device
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        deviceType   query string false "设备类型"
// @Param        region       query string false "区域"
// @Param        healthStatus query string false "健康状态"
// @Success      200  {file}  file
// @Router       /device/export [get]
// @Security     BearerAuth
func (c *DeviceController) ExportDevices() {
	content, err := c.service().ExportDevices(c.Ctx.Request.URL.Query())
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	filename := fmt.Sprintf("devices_%s.xlsx", time.Now().Format("20060102150405"))
	c.Ctx.Header("Content-Disposition", "attachment; filename="+filename)
	c.Ctx.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}
