package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"energy-ops-console/internal/domain/gateway"
	"energy-ops-console/internal/domain/services"
	"energy-ops-console/internal/domain/services/container"
	"energy-ops-console/internal/error/response"
)

// FeatureController 代理特征工程与数据集接口
type FeatureController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewFeatureController 创建一个新的特征工程控制器
func NewFeatureController(ctx *gin.Context, container *container.ServiceContainer) *FeatureController {
	return &FeatureController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleFeatureFunc 返回一个处理特征工程请求的Gin处理函数
func HandleFeatureFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewFeatureController(ctx, container)

		switch method {
		case "preprocess":
			controller.Preprocess()
		case "engineer":
			controller.Engineer()
		case "createDataset":
			controller.CreateDataset()
		case "getDataset":
			controller.GetDataset()
		case "previewDataset":
			controller.PreviewDataset()
		default:
			invalidMethod(ctx)
		}
	}
}

func (c *FeatureController) service() services.InterfaceFeatureService {
	return c.Container.GetService("feature").(services.InterfaceFeatureService)
}

// 1 Preprocess 提交预处理任务
// @Summary      提交预处理任务
// @Tags         Feature
// @Accept       json
// @Produce      json
// @Param        request body services.PreprocessRequest true "预处理配置"
// @Success      200  {object}  map[string]interface{} "{code,msg,preprocessingId}"
// @Failure      500  {object}  ErrorResponse
// @Router       /feature/preprocess [post]
// @Security     BearerAuth
func (c *FeatureController) Preprocess() {
	var req services.PreprocessRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	id, err := c.service().Preprocess(c.Ctx.Request.Context(), &req, currentUser(c.Ctx))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, "预处理任务已提交", "preprocessingId", id)
}

// 2 Engineer 提交特征工程任务
// @Summary      提交特征工程任务
// @Tags         Feature
// @Accept       json
// @Produce      json
// @Param        request body services.EngineerRequest true "特征配置"
// @Success      200  {object}  map[string]interface{} "{code,msg,engineeringId}"
// @Failure      500  {object}  ErrorResponse
// @Router       /feature/engineer [post]
// @Security     BearerAuth
func (c *FeatureController) Engineer() {
	var req services.EngineerRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	id, err := c.service().Engineer(c.Ctx.Request.Context(), &req, currentUser(c.Ctx))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, "特征工程任务已提交", "engineeringId", id)
}

// 3 CreateDataset 提交数据集构建任务
// @Summary      提交数据集构建任务
// @Tags         Feature
// @Accept       json
// @Produce      json
// @Param        request body services.DatasetRequest true "数据集配置"
// @Success      200  {object}  map[string]interface{} "{code,msg,datasetId}"
// @Failure      500  {object}  ErrorResponse
// @Router       /feature/dataset [post]
// @Security     BearerAuth
func (c *FeatureController) CreateDataset() {
	var req services.DatasetRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	id, err := c.service().CreateDataset(c.Ctx.Request.Context(), &req, currentUser(c.Ctx))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, "数据集创建任务已提交", "datasetId", id)
}

// 4 GetDataset 数据集信息
// @Summary      数据集信息
// @Tags         Feature
// @Produce      json
// @Param        id path int true "数据集ID"
// @Success      200  {object}  DataResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /feature/dataset/{id} [get]
// @Security     BearerAuth
func (c *FeatureController) GetDataset() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}
	dataset, err := c.service().GetDataset(c.Ctx.Request.Context(), id)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Data(c.Ctx, "查询成功", gateway.Project(dataset))
}

// 5 PreviewDataset 数据集预览
// @Summary      数据集预览
// @Tags         Feature
// @Produce      json
// @Param        id    path  int true  "数据集ID"
// @Param        limit query int false "预览行数，默认10"
// @Success      200  {object}  DataResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /feature/dataset/{id}/preview [get]
// @Security     BearerAuth
func (c *FeatureController) PreviewDataset() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}
	limit, err := strconv.Atoi(c.Ctx.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	preview, err := c.service().PreviewDataset(c.Ctx.Request.Context(), id, limit)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Data(c.Ctx, "查询成功", preview)
}
