package controllers

import (
	"github.com/gin-gonic/gin"

	"energy-ops-console/internal/domain/gateway"
	"energy-ops-console/internal/domain/services"
	"energy-ops-console/internal/domain/services/container"
	"energy-ops-console/internal/error/response"
)

// WorkOrderController 处理维修工单
type WorkOrderController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewWorkOrderController 创建一个新的工单控制器
func NewWorkOrderController(ctx *gin.Context, container *container.ServiceContainer) *WorkOrderController {
	return &WorkOrderController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleWorkOrderFunc 返回一个处理工单请求的Gin处理函数
func HandleWorkOrderFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewWorkOrderController(ctx, container)

		switch method {
		case "listWorkOrders":
			controller.ListWorkOrders()
		case "createWorkOrder":
			controller.CreateWorkOrder()
		case "updateWorkOrder":
			controller.UpdateWorkOrder()
		case "uploadImages":
			controller.UploadImages()
		case "listImages":
			controller.ListImages()
		default:
			invalidMethod(ctx)
		}
	}
}

func (c *WorkOrderController) service() services.InterfaceWorkOrderService {
	return c.Container.GetService("work_order").(services.InterfaceWorkOrderService)
}

// 1 ListWorkOrders 工单列表
// @Summary      工单列表
// @Tags         WorkOrder
// @Produce      json
// @Param        deviceId   query int    false "设备ID"
// @Param        orderType  query string false "工单类型"
// @Param        priority   query string false "优先级"
// @Param        status     query string false "状态"
// @Param        assignedTo query int    false "处理人"
// @Param        startTime  query string false "开始时间"
// @Param        endTime    query string false "结束时间"
// @Success      200  {object}  ListResponse
// @Router       /workorder/list [get]
// @Security     BearerAuth
func (c *WorkOrderController) ListWorkOrders() {
	page, err := c.service().ListWorkOrders(c.Ctx.Request.URL.Query())
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.List(c.Ctx, page.Total, gateway.ProjectAll(page.Items))
}

// 2 CreateWorkOrder 创建工单
// @Summary      创建工单
// @Tags         WorkOrder
// @Accept       json
// @Produce      json
// @Param        request body services.WorkOrderRequest true "工单信息"
// @Success      200  {object}  map[string]interface{} "{code,msg,orderId}"
// @Failure      400  {object}  ErrorResponse
// @Router       /workorder [post]
// @Security     BearerAuth
func (c *WorkOrderController) CreateWorkOrder() {
	var req services.WorkOrderRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	order, err := c.service().CreateWorkOrder(&req, currentUser(c.Ctx))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, "创建成功", "orderId", order.OrderID)
}

// 3 UpdateWorkOrder 更新工单
// @Summary      更新工单
// @Description  状态变更需符合 pending → processing → completed，已结束的工单不可再变更
// @Tags         WorkOrder
// @Accept       json
// @Produce      json
// @Param        id      path int                       true "工单ID"
// @Param        request body services.WorkOrderRequest true "工单信息"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /workorder/{id} [put]
// @Security     BearerAuth
func (c *WorkOrderController) UpdateWorkOrder() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}
	var req services.WorkOrderRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	if err := c.service().UpdateWorkOrder(id, &req, currentUser(c.Ctx)); err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, "更新成功")
}

// 4 UploadImages 上传工单图片
// @Summary      上传工单图片
// @Tags         WorkOrder
// @Accept       multipart/form-data
// @Produce      json
// @Param        id          path     int    true  "工单ID"
// @Param        images      formData file   true  "图片文件，可多个"
// @Param        imageType   formData string false "图片类型，默认 repair"
// @Param        description formData string false "说明"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /workorder/{id}/images [post]
// @Security     BearerAuth
func (c *WorkOrderController) UploadImages() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}
	form, err := c.Ctx.MultipartForm()
	if err != nil || len(form.File["images"]) == 0 {
		response.ParamError(c.Ctx, "未上传图片")
		return
	}
	_, err = c.service().UploadImages(id, form.File["images"],
		c.Ctx.PostForm("imageType"), c.Ctx.PostForm("description"), currentUser(c.Ctx))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, "上传成功")
}

// 5 ListImages 工单图片
// @Summary      工单图片列表
// @Tags         WorkOrder
// @Produce      json
// @Param        id path int true "工单ID"
// @Success      200  {object}  DataResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /workorder/{id}/images [get]
// @Security     BearerAuth
func (c *WorkOrderController) ListImages() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}
	images, err := c.service().ListImages(id)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Data(c.Ctx, "查询成功", gateway.ProjectAll(images))
}
