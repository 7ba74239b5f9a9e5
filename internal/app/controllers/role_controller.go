package controllers

import (
	"github.com/gin-gonic/gin"

	"energy-ops-console/internal/domain/gateway"
	"energy-ops-console/internal/domain/services"
	"energy-ops-console/internal/domain/services/container"
	"energy-ops-console/internal/error/response"
)

// RoleController 处理角色相关的请求
type RoleController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewRoleController 创建一个新的角色控制器
func NewRoleController(ctx *gin.Context, container *container.ServiceContainer) *RoleController {
	return &RoleController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleRoleFunc 返回一个处理角色请求的Gin处理函数
func HandleRoleFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewRoleController(ctx, container)

		switch method {
		case "listRoles":
			controller.ListRoles()
		case "createRole":
			controller.CreateRole()
		case "updateRole":
			controller.UpdateRole()
		case "deleteRole":
			controller.DeleteRole()
		case "roleMenus":
			controller.RoleMenus()
		default:
			invalidMethod(ctx)
		}
	}
}

func (c *RoleController) service() services.InterfaceRoleService {
	return c.Container.GetService("role").(services.InterfaceRoleService)
}

// 1 ListRoles 角色列表
// @Summary      角色列表
// @Tags         System
// @Produce      json
// @Param        roleName query string false "角色名称（模糊）"
// @Param        roleKey  query string false "权限字符（模糊）"
// @Param        status   query string false "状态"
// @Param        pageNum  query int    false "页码"
// @Param        pageSize query int    false "每页条数"
// @Success      200  {object}  ListResponse
// @Router       /system/role/list [get]
// @Security     BearerAuth
func (c *RoleController) ListRoles() {
	page, err := c.service().ListRoles(c.Ctx.Request.URL.Query())
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.List(c.Ctx, page.Total, gateway.ProjectAll(page.Items))
}

// 2 CreateRole 新增角色
// @Summary      新增角色
// @Tags         System
// @Accept       json
// @Produce      json
// @Param        request body services.RoleRequest true "角色信息"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /system/role [post]
// @Security     BearerAuth
func (c *RoleController) CreateRole() {
	var req services.RoleRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	if _, err := c.service().CreateRole(&req, operator(c.Ctx)); err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, "添加成功")
}

// 3 UpdateRole 修改角色
// @Summary      修改角色
// @Description  menuIds 存在时替换角色的菜单授权
// @Tags         System
// @Accept       json
// @Produce      json
// @Param        request body services.RoleRequest true "角色信息"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /system/role [put]
// @Security     BearerAuth
func (c *RoleController) UpdateRole() {
	var req services.RoleRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	if err := c.service().UpdateRole(&req, operator(c.Ctx)); err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, "修改成功")
}

// 4 DeleteRole 删除角色（逻辑删除）
// @Summary      删除角色
// @Tags         System
// @Produce      json
// @Param        id path int true "角色ID"
// @Success      200  {object}  MessageResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /system/role/{id} [delete]
// @Security     BearerAuth
func (c *RoleController) DeleteRole() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}
	if err := c.service().DeleteRole(id, operator(c.Ctx)); err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, "删除成功")
}

// 5 RoleMenus 角色已授权的菜单
// @Summary      角色菜单授权
// @Tags         System
// @Produce      json
// @Param        id path int true "角色ID"
// @Success      200  {object}  DataResponse{data=[]uint}
// @Router       /system/role/{id}/menus [get]
// @Security     BearerAuth
func (c *RoleController) RoleMenus() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}
	menuIDs, err := c.service().RoleMenuIDs(id)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Data(c.Ctx, "查询成功", menuIDs)
}
