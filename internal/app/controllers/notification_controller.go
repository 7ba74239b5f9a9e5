package controllers

import (
	"github.com/gin-gonic/gin"

	"energy-ops-console/internal/domain/gateway"
	"energy-ops-console/internal/domain/services"
	"energy-ops-console/internal/domain/services/container"
	"energy-ops-console/internal/error/response"
)

// NotificationController 处理当前用户的通知与订阅
type NotificationController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewNotificationController 创建一个新的通知控制器
func NewNotificationController(ctx *gin.Context, container *container.ServiceContainer) *NotificationController {
	return &NotificationController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleNotificationFunc 返回一个处理通知请求的Gin处理函数
func HandleNotificationFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewNotificationController(ctx, container)

		switch method {
		case "listNotifications":
			controller.ListNotifications()
		case "unreadCount":
			controller.UnreadCount()
		case "markRead":
			controller.MarkRead()
		case "listSubscriptions":
			controller.ListSubscriptions()
		case "subscribe":
			controller.Subscribe()
		case "updateSubscription":
			controller.UpdateSubscription()
		case "unsubscribe":
			controller.Unsubscribe()
		default:
			invalidMethod(ctx)
		}
	}
}

func (c *NotificationController) service() services.InterfaceNotificationService {
	return c.Container.GetService("notification").(services.InterfaceNotificationService)
}

// 1 ListNotifications 通知列表
// @Summary      通知列表
// @Description  只返回当前用户的通知
// @Tags         Notification
// @Produce      json
// @Param        type       query string false "通知类型"
// @Param        priority   query string false "优先级"
// @Param        readStatus query string false "read 或 unread"
// @Param        startTime  query string false "开始时间"
// @Param        endTime    query string false "结束时间"
// @Success      200  {object}  ListResponse
// @Router       /notification/list [get]
// @Security     BearerAuth
func (c *NotificationController) ListNotifications() {
	page, err := c.service().ListNotifications(currentUser(c.Ctx), c.Ctx.Request.URL.Query())
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.List(c.Ctx, page.Total, gateway.ProjectAll(page.Items))
}

// 2 UnreadCount 未读数量
// @Summary      未读通知数量
// @Tags         Notification
// @Produce      json
// @Success      200  {object}  DataResponse
// @Router       /notification/unread/count [get]
// @Security     BearerAuth
func (c *NotificationController) UnreadCount() {
	count, err := c.service().UnreadCount(currentUser(c.Ctx))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Data(c.Ctx, "查询成功", gin.H{"unreadCount": count})
}

// 3 MarkRead 标记已读
// @Summary      标记通知已读
// @Tags         Notification
// @Produce      json
// @Param        id path int true "通知ID"
// @Success      200  {object}  MessageResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /notification/{id}/read [put]
// @Security     BearerAuth
func (c *NotificationController) MarkRead() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}
	if err := c.service().MarkRead(currentUser(c.Ctx), id); err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, "标记成功")
}

// 4 ListSubscriptions 订阅列表
// @Summary      订阅列表
// @Tags         Notification
// @Produce      json
// @Success      200  {object}  ListResponse
// @Router       /notification/subscription [get]
// @Security     BearerAuth
func (c *NotificationController) ListSubscriptions() {
	page, err := c.service().ListSubscriptions(currentUser(c.Ctx), c.Ctx.Request.URL.Query())
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.List(c.Ctx, page.Total, gateway.ProjectAll(page.Items))
}

// 5 Subscribe 新增订阅
// @Summary      新增订阅
// @Tags         Notification
// @Accept       json
// @Produce      json
// @Param        request body services.CreateSubscriptionRequest true "订阅信息"
// @Success      200  {object}  map[string]interface{} "{code,msg,subscriptionId}"
// @Failure      400  {object}  ErrorResponse
// @Router       /notification/subscription [post]
// @Security     BearerAuth
func (c *NotificationController) Subscribe() {
	var req services.CreateSubscriptionRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	subscription, err := c.service().Subscribe(currentUser(c.Ctx), &req)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, "订阅成功", "subscriptionId", subscription.SubscriptionID)
}

// 6 UpdateSubscription 修改订阅
// @Summary      修改订阅
// @Tags         Notification
// @Accept       json
// @Produce      json
// @Param        id      path int                          true "订阅ID"
// @Param        request body services.SubscriptionRequest true "订阅信息"
// @Success      200  {object}  MessageResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /notification/subscription/{id} [put]
// @Security     BearerAuth
func (c *NotificationController) UpdateSubscription() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}
	var req services.SubscriptionRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	if err := c.service().UpdateSubscription(currentUser(c.Ctx), id, &req); err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, "更新成功")
}

// 7 Unsubscribe 取消订阅
// @Summary      取消订阅
// @Tags         Notification
// @Produce      json
// @Param        id path int true "订阅ID"
// @Success      200  {object}  MessageResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /notification/subscription/{id} [delete]
// @Security     BearerAuth
func (c *NotificationController) Unsubscribe() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}
	if err := c.service().Unsubscribe(currentUser(c.Ctx), id); err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, "取消订阅成功")
}
