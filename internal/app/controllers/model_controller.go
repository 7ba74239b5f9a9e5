package controllers

import (
	"github.com/gin-gonic/gin"

	"energy-ops-console/internal/domain/gateway"
	"energy-ops-console/internal/domain/services"
	"energy-ops-console/internal/domain/services/container"
	"energy-ops-console/internal/error/response"
)

// ModelController 代理模型服务的训练、部署与预测接口
type ModelController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewModelController 创建一个新的模型控制器
func NewModelController(ctx *gin.Context, container *container.ServiceContainer) *ModelController {
	return &ModelController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleModelFunc 返回一个处理模型请求的Gin处理函数
func HandleModelFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewModelController(ctx, container)

		switch method {
		case "listVersions":
			controller.ListVersions()
		case "startTraining":
			controller.StartTraining()
		case "getTraining":
			controller.GetTraining()
		case "deploy":
			controller.Deploy()
		case "predict":
			controller.Predict()
		case "batchPredict":
			controller.BatchPredict()
		case "evaluate":
			controller.Evaluate()
		default:
			invalidMethod(ctx)
		}
	}
}

func (c *ModelController) service() services.InterfaceModelService {
	return c.Container.GetService("model").(services.InterfaceModelService)
}

// 1 ListVersions 模型版本
// @Summary      模型版本列表
// @Tags         Model
// @Produce      json
// @Param        modelType query string false "模型类型"
// @Param        status    query string false "状态"
// @Success      200  {object}  ListResponse
// @Router       /model/versions [get]
// @Security     BearerAuth
func (c *ModelController) ListVersions() {
	page, err := c.service().ListVersions(c.Ctx.Request.URL.Query())
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.List(c.Ctx, page.Total, gateway.ProjectAll(page.Items))
}

// 2 StartTraining 提交训练任务
// @Summary      提交训练任务
// @Description  先保存训练记录再提交模型服务，提交失败时记录标记为 failed 并返回 500
// @Tags         Model
// @Accept       json
// @Produce      json
// @Param        request body services.TrainingRequest true "训练参数"
// @Success      200  {object}  map[string]interface{} "{code,msg,trainingId}"
// @Failure      500  {object}  ErrorResponse
// @Router       /model/train [post]
// @Security     BearerAuth
func (c *ModelController) StartTraining() {
	var req services.TrainingRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	id, err := c.service().StartTraining(c.Ctx.Request.Context(), &req, currentUser(c.Ctx))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, "训练任务已提交", "trainingId", id)
}

// 3 GetTraining 训练状态
// @Summary      训练状态
// @Description  从模型服务同步最新状态后返回
// @Tags         Model
// @Produce      json
// @Param        id path int true "训练ID"
// @Success      200  {object}  DataResponse{data=services.TrainingStatus}
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /model/train/{id} [get]
// @Security     BearerAuth
func (c *ModelController) GetTraining() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}
	status, err := c.service().GetTrainingStatus(c.Ctx.Request.Context(), id)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Data(c.Ctx, "查询成功", status)
}

// 4 Deploy 提交部署任务
// @Summary      提交部署任务
// @Tags         Model
// @Accept       json
// @Produce      json
// @Param        request body services.DeploymentRequest true "部署参数"
// @Success      200  {object}  map[string]interface{} "{code,msg,deploymentId}"
// @Failure      500  {object}  ErrorResponse
// @Router       /model/deploy [post]
// @Security     BearerAuth
func (c *ModelController) Deploy() {
	var req services.DeploymentRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	id, err := c.service().Deploy(c.Ctx.Request.Context(), &req, currentUser(c.Ctx))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, "部署任务已提交", "deploymentId", id)
}

// 5 Predict 单次预测
// @Summary      单次预测
// @Tags         Model
// @Accept       json
// @Produce      json
// @Param        request body services.PredictRequest true "预测参数"
// @Success      200  {object}  DataResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /model/predict [post]
// @Security     BearerAuth
func (c *ModelController) Predict() {
	var req services.PredictRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	result, err := c.service().Predict(c.Ctx.Request.Context(), &req)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Data(c.Ctx, "预测成功", result)
}

// 6 BatchPredict 批量预测
// @Summary      批量预测
// @Tags         Model
// @Accept       json
// @Produce      json
// @Param        request body services.BatchPredictRequest true "预测参数"
// @Success      200  {object}  DataResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /model/batch-predict [post]
// @Security     BearerAuth
func (c *ModelController) BatchPredict() {
	var req services.BatchPredictRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	result, err := c.service().BatchPredict(c.Ctx.Request.Context(), &req)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Data(c.Ctx, "批量预测成功", result)
}

// 7 Evaluate 模型评估
// @Summary      模型评估
// @Tags         Model
// @Accept       json
// @Produce      json
// @Param        request body services.EvaluateRequest true "评估参数"
// @Success      200  {object}  DataResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /model/evaluate [post]
// @Security     BearerAuth
func (c *ModelController) Evaluate() {
	var req services.EvaluateRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	result, err := c.service().Evaluate(c.Ctx.Request.Context(), &req)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Data(c.Ctx, "评估成功", result)
}
