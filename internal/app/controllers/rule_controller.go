package controllers

import (
	"github.com/gin-gonic/gin"

	"energy-ops-console/internal/domain/gateway"
	"energy-ops-console/internal/domain/services"
	"energy-ops-console/internal/domain/services/container"
	"energy-ops-console/internal/error/response"
)

// RuleController 处理业务规则、策略与执行日志
type RuleController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewRuleController 创建一个新的规则控制器
func NewRuleController(ctx *gin.Context, container *container.ServiceContainer) *RuleController {
	return &RuleController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleRuleFunc 返回一个处理规则请求的Gin处理函数
func HandleRuleFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewRuleController(ctx, container)

		switch method {
		case "listRules":
			controller.ListRules()
		case "createRule":
			controller.CreateRule()
		case "updateRule":
			controller.UpdateRule()
		case "deleteRule":
			controller.DeleteRule()
		case "listStrategies":
			controller.ListStrategies()
		case "listExecutionLogs":
			controller.ListExecutionLogs()
		default:
			invalidMethod(ctx)
		}
	}
}

func (c *RuleController) service() services.InterfaceRuleService {
	return c.Container.GetService("rule").(services.InterfaceRuleService)
}

// 1 ListRules 业务规则列表
// @Summary      业务规则列表
// @Description  按优先级升序
// @Tags         Rule
// @Produce      json
// @Param        scenario   query string false "场景"
// @Param        actionType query string false "动作类型"
// @Param        status     query string false "状态"
// @Success      200  {object}  ListResponse
// @Router       /rule/list [get]
// @Security     BearerAuth
func (c *RuleController) ListRules() {
	page, err := c.service().ListRules(c.Ctx.Request.URL.Query())
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.List(c.Ctx, page.Total, gateway.ProjectAll(page.Items))
}

// 2 CreateRule 新增业务规则
// @Summary      新增业务规则
// @Tags         Rule
// @Accept       json
// @Produce      json
// @Param        request body services.CreateRuleRequest true "规则信息"
// @Success      200  {object}  map[string]interface{} "{code,msg,ruleId}"
// @Failure      400  {object}  ErrorResponse
// @Router       /rule [post]
// @Security     BearerAuth
func (c *RuleController) CreateRule() {
	var req services.CreateRuleRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	rule, err := c.service().CreateRule(&req, currentUser(c.Ctx))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, "创建成功", "ruleId", rule.RuleID)
}

// 3 UpdateRule 修改业务规则
// @Summary      修改业务规则
// @Tags         Rule
// @Accept       json
// @Produce      json
// @Param        id      path int                  true "规则ID"
// @Param        request body services.RuleRequest true "规则信息"
// @Success      200  {object}  MessageResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /rule/{id} [put]
// @Security     BearerAuth
func (c *RuleController) UpdateRule() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}
	var req services.RuleRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	if err := c.service().UpdateRule(id, &req); err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, "更新成功")
}

// 4 DeleteRule 删除业务规则
// @Summary      删除业务规则
// @Tags         Rule
// @Produce      json
// @Param        id path int true "规则ID"
// @Success      200  {object}  MessageResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /rule/{id} [delete]
// @Security     BearerAuth
func (c *RuleController) DeleteRule() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}
	if err := c.service().DeleteRule(id); err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, "删除成功")
}

// 5 ListStrategies 策略列表
// @Summary      策略列表
// @Tags         Rule
// @Produce      json
// @Param        ruleId   query int    false "规则ID"
// @Param        scenario query string false "场景"
// @Param        status   query string false "状态"
// @Success      200  {object}  ListResponse
// @Router       /rule/strategy/list [get]
// @Security     BearerAuth
func (c *RuleController) ListStrategies() {
	page, err := c.service().ListStrategies(c.Ctx.Request.URL.Query())
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.List(c.Ctx, page.Total, gateway.ProjectAll(page.Items))
}

// 6 ListExecutionLogs 规则执行日志
// @Summary      规则执行日志
// @Tags         Rule
// @Produce      json
// @Param        ruleId          query int    false "规则ID"
// @Param        executionResult query string false "执行结果"
// @Param        startTime       query string false "开始时间"
// @Param        endTime         query string false "结束时间"
// @Success      200  {object}  ListResponse
// @Router       /rule/execution/log [get]
// @Security     BearerAuth
func (c *RuleController) ListExecutionLogs() {
	page, err := c.service().ListExecutionLogs(c.Ctx.Request.URL.Query())
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.List(c.Ctx, page.Total, gateway.ProjectAll(page.Items))
}
