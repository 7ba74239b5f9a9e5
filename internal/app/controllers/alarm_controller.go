package controllers

import (
	"github.com/gin-gonic/gin"

	"energy-ops-console/internal/domain/gateway"
	"energy-ops-console/internal/domain/services"
	"energy-ops-console/internal/domain/services/container"
	"energy-ops-console/internal/error/response"
)

// AlarmController 处理告警与告警规则
type AlarmController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAlarmController 创建一个新的告警控制器
func NewAlarmController(ctx *gin.Context, container *container.ServiceContainer) *AlarmController {
	return &AlarmController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleAlarmFunc 返回一个处理告警请求的Gin处理函数
func HandleAlarmFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAlarmController(ctx, container)

		switch method {
		case "listAlarms":
			controller.ListAlarms()
		case "handleAlarm":
			controller.HandleAlarm()
		case "listRules":
			controller.ListRules()
		case "createRule":
			controller.CreateRule()
		case "updateRule":
			controller.UpdateRule()
		default:
			invalidMethod(ctx)
		}
	}
}

func (c *AlarmController) service() services.InterfaceAlarmService {
	return c.Container.GetService("alarm").(services.InterfaceAlarmService)
}

// 1 ListAlarms 告警列表
// @Summary      告警列表
// @Tags         Alarm
// @Produce      json
// @Param        deviceId  query int    false "设备ID"
// @Param        alarmType query string false "告警类型"
// @Param        severity  query string false "严重程度"
// @Param        status    query string false "状态"
// @Param        startTime query string false "开始时间"
// @Param        endTime   query string false "结束时间"
// @Param        pageNum   query int    false "页码"
// @Param        pageSize  query int    false "每页条数"
// @Success      200  {object}  ListResponse
// @Router       /alarm/list [get]
// @Security     BearerAuth
func (c *AlarmController) ListAlarms() {
	page, err := c.service().ListAlarms(c.Ctx.Request.URL.Query())
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.List(c.Ctx, page.Total, gateway.ProjectAll(page.Items))
}

// 2 HandleAlarm 处理告警
// @Summary      处理告警
// @Description  告警只能处理一次，处理结果通过 MQTT 广播
// @Tags         Alarm
// @Accept       json
// @Produce      json
// @Param        id      path int                          true "告警ID"
// @Param        request body services.HandleAlarmRequest true "处理结果"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /alarm/{id}/handle [post]
// @Security     BearerAuth
func (c *AlarmController) HandleAlarm() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}
	var req services.HandleAlarmRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	if _, err := c.service().HandleAlarm(id, &req, currentUser(c.Ctx)); err != nil {
		response.Error(c.Ctx, err)
		return
	}
	purgeCached(c.Container, statisticsPath)
	response.Success(c.Ctx, "处理成功")
}

// 3 ListRules 告警规则列表
// @Summary      告警规则列表
// @Tags         Alarm
// @Produce      json
// @Param        deviceType query string false "设备类型"
// @Param        alarmType  query string false "告警类型"
// @Param        status     query string false "状态"
// @Success      200  {object}  ListResponse
// @Router       /alarm/rule/list [get]
// @Security     BearerAuth
func (c *AlarmController) ListRules() {
	page, err := c.service().ListRules(c.Ctx.Request.URL.Query())
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.List(c.Ctx, page.Total, gateway.ProjectAll(page.Items))
}

// 4 CreateRule 新增告警规则
// @Summary      新增告警规则
// @Tags         Alarm
// @Accept       json
// @Produce      json
// @Param        request body services.CreateAlarmRuleRequest true "规则信息"
// @Success      200  {object}  map[string]interface{} "{code,msg,ruleId}"
// @Failure      400  {object}  ErrorResponse
// @Router       /alarm/rule [post]
// @Security     BearerAuth
func (c *AlarmController) CreateRule() {
	var req services.CreateAlarmRuleRequest
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

// 5 UpdateRule 修改告警规则
// @Summary      修改告警规则
// @Tags         Alarm
// @Accept       json
// @Produce      json
// @Param        id      path int                        true "规则ID"
// @Param        request body services.AlarmRuleRequest true "规则信息"
// @Success      200  {object}  MessageResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /alarm/rule/{id} [put]
// @Security     BearerAuth
func (c *AlarmController) UpdateRule() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}
	var req services.AlarmRuleRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	if err := c.service().UpdateRule(id, &req); err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, "更新成功")
}
