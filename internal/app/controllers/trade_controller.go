package controllers

import (
	"github.com/gin-gonic/gin"

	"energy-ops-console/internal/domain/gateway"
	"energy-ops-console/internal/domain/services"
	"energy-ops-console/internal/domain/services/container"
	"energy-ops-console/internal/error/response"
)

// TradeController 处理电力交易、市场数据与分时电价
type TradeController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewTradeController 创建一个新的交易控制器
func NewTradeController(ctx *gin.Context, container *container.ServiceContainer) *TradeController {
	return &TradeController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleTradeFunc 返回一个处理交易请求的Gin处理函数
func HandleTradeFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewTradeController(ctx, container)

		switch method {
		case "listTrades":
			controller.ListTrades()
		case "createTrade":
			controller.CreateTrade()
		case "updateTradeStatus":
			controller.UpdateTradeStatus()
		case "listMarketData":
			controller.ListMarketData()
		case "listPricing":
			controller.ListPricing()
		default:
			invalidMethod(ctx)
		}
	}
}

func (c *TradeController) service() services.InterfaceTradeService {
	return c.Container.GetService("trade").(services.InterfaceTradeService)
}

// 1 ListTrades 交易列表
// @Summary      交易列表
// @Description  role=buyer 或 seller 时只返回当前用户作为买方或卖方的交易
// @Tags         Trade
// @Produce      json
// @Param        role       query string false "buyer 或 seller"
// @Param        tradeType  query string false "交易类型"
// @Param        marketType query string false "市场类型"
// @Param        status     query string false "状态"
// @Param        startTime  query string false "开始时间"
// @Param        endTime    query string false "结束时间"
// @Success      200  {object}  ListResponse
// @Router       /trade/list [get]
// @Security     BearerAuth
func (c *TradeController) ListTrades() {
	page, err := c.service().ListTrades(currentUser(c.Ctx), c.Ctx.Request.URL.Query())
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.List(c.Ctx, page.Total, gateway.ProjectAll(page.Items))
}

// 2 CreateTrade 创建交易
// @Summary      创建交易
// @Description  未指定买方时默认为当前用户
// @Tags         Trade
// @Accept       json
// @Produce      json
// @Param        request body services.TradeRequest true "交易信息"
// @Success      200  {object}  map[string]interface{} "{code,msg,tradeId}"
// @Failure      400  {object}  ErrorResponse
// @Router       /trade [post]
// @Security     BearerAuth
func (c *TradeController) CreateTrade() {
	var req services.TradeRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	trade, err := c.service().CreateTrade(&req, currentUser(c.Ctx))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	purgeCached(c.Container, statisticsPath)
	response.Created(c.Ctx, "创建成功", "tradeId", trade.TradeID)
}

// 3 UpdateTradeStatus 更新交易状态
// @Summary      更新交易状态
// @Description  仅交易双方可操作，待成交的交易可完成或取消
// @Tags         Trade
// @Accept       json
// @Produce      json
// @Param        id      path int                          true "交易ID"
// @Param        request body services.TradeStatusRequest true "目标状态"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /trade/{id}/status [put]
// @Security     BearerAuth
func (c *TradeController) UpdateTradeStatus() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}
	var req services.TradeStatusRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	if err := c.service().UpdateTradeStatus(id, req.Status, currentUser(c.Ctx)); err != nil {
		response.Error(c.Ctx, err)
		return
	}
	purgeCached(c.Container, statisticsPath)
	response.Success(c.Ctx, "更新成功")
}

// 4 ListMarketData 市场数据
// @Summary      市场数据
// @Tags         Trade
// @Produce      json
// @Param        marketType query string false "市场类型"
// @Param        region     query string false "区域"
// @Param        startTime  query string false "开始时间"
// @Param        endTime    query string false "结束时间"
// @Success      200  {object}  ListResponse
// @Router       /market/data [get]
// @Security     BearerAuth
func (c *TradeController) ListMarketData() {
	page, err := c.service().ListMarketData(c.Ctx.Request.URL.Query())
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.List(c.Ctx, page.Total, gateway.ProjectAll(page.Items))
}

// 5 ListPricing 分时电价
// @Summary      分时电价
// @Tags         Trade
// @Produce      json
// @Param        region query string false "区域"
// @Param        status query string false "状态"
// @Success      200  {object}  ListResponse
// @Router       /pricing/time-based [get]
// @Security     BearerAuth
func (c *TradeController) ListPricing() {
	page, err := c.service().ListPricing(c.Ctx.Request.URL.Query())
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.List(c.Ctx, page.Total, gateway.ProjectAll(page.Items))
}
