package controllers

import (
	"github.com/gin-gonic/gin"

	"energy-ops-console/internal/domain/services"
	"energy-ops-console/internal/domain/services/container"
	"energy-ops-console/internal/error/response"
)

// StatisticsController 处理看板统计
type StatisticsController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewStatisticsController 创建一个新的统计控制器
func NewStatisticsController(ctx *gin.Context, container *container.ServiceContainer) *StatisticsController {
	return &StatisticsController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleStatisticsFunc 返回一个处理统计请求的Gin处理函数
func HandleStatisticsFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewStatisticsController(ctx, container)

		switch method {
		case "deviceOverview":
			controller.DeviceOverview()
		case "powerGeneration":
			controller.PowerGeneration()
		case "alarmAnalysis":
			controller.AlarmAnalysis()
		case "tradeAnalysis":
			controller.TradeAnalysis()
		default:
			invalidMethod(ctx)
		}
	}
}

func (c *StatisticsController) service() services.InterfaceStatisticsService {
	return c.Container.GetService("statistics").(services.InterfaceStatisticsService)
}

// 1 DeviceOverview 设备概况
// @Summary      设备概况
// @Tags         Statistics
// @Produce      json
// @Success      200  {object}  DataResponse{data=services.DeviceOverview}
// @Router       /statistics/device/overview [get]
// @Security     BearerAuth
func (c *StatisticsController) DeviceOverview() {
	overview, err := c.service().DeviceOverview()
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Data(c.Ctx, "查询成功", overview)
}

// 2 PowerGeneration 发电量统计
// @Summary      发电量统计
// @Description  timeRange 取值 day（按小时）、week、month（按天），默认 day
// @Tags         Statistics
// @Produce      json
// @Param        timeRange  query string false "day, week, month"
// @Param        region     query string false "区域"
// @Param        deviceType query string false "设备类型"
// @Success      200  {object}  DataResponse{data=[]services.PowerPoint}
// @Router       /statistics/power/generation [get]
// @Security     BearerAuth
func (c *StatisticsController) PowerGeneration() {
	points, err := c.service().PowerGeneration(c.Ctx.Query("timeRange"), c.Ctx.Query("region"), c.Ctx.Query("deviceType"))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Data(c.Ctx, "查询成功", points)
}

// 3 AlarmAnalysis 告警分析
// @Summary      告警分析
// @Tags         Statistics
// @Produce      json
// @Param        timeRange query string false "week, month, year"
// @Success      200  {object}  DataResponse{data=services.AlarmAnalysis}
// @Router       /statistics/alarm/analysis [get]
// @Security     BearerAuth
func (c *StatisticsController) AlarmAnalysis() {
	analysis, err := c.service().AlarmAnalysis(c.Ctx.Query("timeRange"))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Data(c.Ctx, "查询成功", analysis)
}

// 4 TradeAnalysis 交易分析
// @Summary      交易分析
// @Tags         Statistics
// @Produce      json
// @Param        timeRange query string false "week, month, year"
// @Success      200  {object}  DataResponse{data=services.TradeAnalysis}
// @Router       /statistics/trade/analysis [get]
// @Security     BearerAuth
func (c *StatisticsController) TradeAnalysis() {
	analysis, err := c.service().TradeAnalysis(c.Ctx.Query("timeRange"))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Data(c.Ctx, "查询成功", analysis)
}
