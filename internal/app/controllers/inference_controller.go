package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"energy-ops-console/internal/domain/services"
	"energy-ops-console/internal/domain/services/container"
	"energy-ops-console/internal/error/code"
	"energy-ops-console/internal/error/response"
	"energy-ops-console/pkg/logger"
)

// InferenceResponse 推理接口的响应格式
type InferenceResponse struct {
	Success bool        `json:"success" example:"true"`
	Message string      `json:"message,omitempty" example:"预测完成"`
	Data    interface{} `json:"data,omitempty"`
	Result  interface{} `json:"result,omitempty"`
	Info    interface{} `json:"info,omitempty"`
}

// InferenceController 时序预测推理接口
type InferenceController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewInferenceController 创建一个新的推理控制器
func NewInferenceController(ctx *gin.Context, container *container.ServiceContainer) *InferenceController {
	return &InferenceController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleInferenceFunc 返回一个处理推理请求的Gin处理函数
func HandleInferenceFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewInferenceController(ctx, container)

		switch method {
		case "sampleData":
			controller.SampleData()
		case "predict":
			controller.Predict()
		case "modelInfo":
			controller.ModelInfo()
		default:
			invalidMethod(ctx)
		}
	}
}

func (c *InferenceController) service() services.InterfaceInferenceService {
	return c.Container.GetService("inference").(services.InterfaceInferenceService)
}

// fail 推理接口失败时仍返回200，由 success 字段区分
func (c *InferenceController) fail(err error) {
	appErr := code.From(err)
	if appErr.Status() >= http.StatusInternalServerError {
		logger.L().Error("inference failed",
			zap.String("request_id", c.Ctx.GetString(response.RequestIDKey)),
			zap.String("path", c.Ctx.FullPath()),
			zap.Error(err),
		)
	}
	c.Ctx.JSON(http.StatusOK, InferenceResponse{Success: false, Message: appErr.PublicMessage()})
}

// 1 SampleData 加载示例数据集
// @Summary      加载示例数据集
// @Description  支持 ETTh1、ETTh2、ETTm1、ETTm2、Electricity、Wind
// @Tags         Inference
// @Produce      json
// @Param        name path string true "数据集名称"
// @Success      200  {object}  InferenceResponse
// @Router       /inference/sample-data/{name} [get]
// @Security     BearerAuth
func (c *InferenceController) SampleData() {
	name := c.Ctx.Param("name")
	records, err := c.service().SampleData(name)
	if err != nil {
		c.fail(err)
		return
	}
	c.Ctx.JSON(http.StatusOK, InferenceResponse{
		Success: true,
		Data:    records,
		Message: "成功加载数据集: " + name,
	})
}

// 2 Predict 时序预测
// @Summary      时序预测
// @Description  取目标列的回看窗口生成20条样本，返回样本均值与真实值对照
// @Tags         Inference
// @Accept       json
// @Produce      json
// @Param        request body services.InferenceRequest true "预测参数"
// @Success      200  {object}  InferenceResponse{result=services.InferenceResult}
// @Router       /inference/predict [post]
// @Security     BearerAuth
func (c *InferenceController) Predict() {
	var req services.InferenceRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) {
			c.fail(code.New(code.ErrValidation, "缺少必要参数"))
			return
		}
		c.fail(code.Wrap(code.ErrBind, err))
		return
	}
	result, err := c.service().Predict(c.Ctx.Request.Context(), &req)
	if err != nil {
		c.fail(err)
		return
	}
	c.Ctx.JSON(http.StatusOK, InferenceResponse{
		Success: true,
		Result:  result,
		Message: "预测完成",
	})
}

// 3 ModelInfo 模型信息
// @Summary      模型信息
// @Tags         Inference
// @Produce      json
// @Success      200  {object}  InferenceResponse{info=services.ModelInfo}
// @Router       /inference/model-info [get]
// @Security     BearerAuth
func (c *InferenceController) ModelInfo() {
	info, err := c.service().ModelInfo(c.Ctx.Request.Context())
	if err != nil {
		c.fail(err)
		return
	}
	c.Ctx.JSON(http.StatusOK, InferenceResponse{Success: true, Info: info})
}
