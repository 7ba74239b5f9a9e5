package controllers

import (
	"github.com/gin-gonic/gin"

	"energy-ops-console/internal/domain/gateway"
	"energy-ops-console/internal/domain/services"
	"energy-ops-console/internal/domain/services/container"
	"energy-ops-console/internal/error/response"
)

// MenuController 处理菜单相关的请求
type MenuController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewMenuController 创建一个新的菜单控制器
func NewMenuController(ctx *gin.Context, container *container.ServiceContainer) *MenuController {
	return &MenuController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleMenuFunc 返回一个处理菜单请求的Gin处理函数
func HandleMenuFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewMenuController(ctx, container)

		switch method {
		case "listMenus":
			controller.ListMenus()
		case "createMenu":
			controller.CreateMenu()
		case "updateMenu":
			controller.UpdateMenu()
		case "deleteMenu":
			controller.DeleteMenu()
		case "treeSelect":
			controller.TreeSelect()
		default:
			invalidMethod(ctx)
		}
	}
}

func (c *MenuController) service() services.InterfaceMenuService {
	return c.Container.GetService("menu").(services.InterfaceMenuService)
}

// 1 ListMenus 菜单列表
// @Summary      菜单列表
// @Tags         System
// @Produce      json
// @Param        menuName query string false "菜单名称（模糊）"
// @Param        status   query string false "状态"
// @Success      200  {object}  DataResponse
// @Router       /system/menu/list [get]
// @Security     BearerAuth
func (c *MenuController) ListMenus() {
	menus, err := c.service().ListMenus(c.Ctx.Request.URL.Query())
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Data(c.Ctx, "查询成功", gateway.ProjectAll(menus))
}

// 2 CreateMenu 新增菜单
// @Summary      新增菜单
// @Tags         System
// @Accept       json
// @Produce      json
// @Param        request body services.MenuRequest true "菜单信息"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /system/menu [post]
// @Security     BearerAuth
func (c *MenuController) CreateMenu() {
	var req services.MenuRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	if _, err := c.service().CreateMenu(&req, operator(c.Ctx)); err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, "添加成功")
}

// 3 UpdateMenu 修改菜单
// @Summary      修改菜单
// @Tags         System
// @Accept       json
// @Produce      json
// @Param        request body services.MenuRequest true "菜单信息"
// @Success      200  {object}  MessageResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /system/menu [put]
// @Security     BearerAuth
func (c *MenuController) UpdateMenu() {
	var req services.MenuRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	if err := c.service().UpdateMenu(&req, operator(c.Ctx)); err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, "修改成功")
}

// 4 DeleteMenu 删除菜单
// @Summary      删除菜单
// @Tags         System
// @Produce      json
// @Param        id path int true "菜单ID"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /system/menu/{id} [delete]
// @Security     BearerAuth
func (c *MenuController) DeleteMenu() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}
	if err := c.service().DeleteMenu(id); err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, "删除成功")
}

// 5 TreeSelect 菜单树
// @Summary      菜单树
// @Tags         System
// @Produce      json
// @Success      200  {object}  DataResponse{data=[]gateway.TreeNode}
// @Router       /system/menu/treeselect [get]
// @Security     BearerAuth
func (c *MenuController) TreeSelect() {
	tree, err := c.service().MenuTree()
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Data(c.Ctx, "查询成功", tree)
}
