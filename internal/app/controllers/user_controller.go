package controllers

import (
	"github.com/gin-gonic/gin"

	"energy-ops-console/internal/domain/gateway"
	"energy-ops-console/internal/domain/services"
	"energy-ops-console/internal/domain/services/container"
	"energy-ops-console/internal/error/response"
)

// UserController 处理系统用户相关的请求
type UserController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewUserController 创建一个新的用户控制器
func NewUserController(ctx *gin.Context, container *container.ServiceContainer) *UserController {
	return &UserController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleUserFunc 返回一个处理用户请求的Gin处理函数
func HandleUserFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewUserController(ctx, container)

		switch method {
		case "listUsers":
			controller.ListUsers()
		case "createUser":
			controller.CreateUser()
		case "updateUser":
			controller.UpdateUser()
		case "deleteUser":
			controller.DeleteUser()
		case "resetPassword":
			controller.ResetPassword()
		case "userRoles":
			controller.UserRoles()
		default:
			invalidMethod(ctx)
		}
	}
}

func (c *UserController) service() services.InterfaceUserService {
	return c.Container.GetService("user").(services.InterfaceUserService)
}

// 1 ListUsers 用户列表
// @Summary      用户列表
// @Tags         System
// @Produce      json
// @Param        userName    query string false "用户名（模糊）"
// @Param        phonenumber query string false "手机号（模糊）"
// @Param        status      query string false "状态"
// @Param        pageNum     query int    false "页码"
// @Param        pageSize    query int    false "每页条数"
// @Success      200  {object}  ListResponse
// @Router       /system/user/list [get]
// @Security     BearerAuth
func (c *UserController) ListUsers() {
	page, err := c.service().ListUsers(c.Ctx.Request.URL.Query())
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.List(c.Ctx, page.Total, gateway.ProjectAll(page.Items))
}

// 2 CreateUser 新增用户
// @Summary      新增用户
// @Tags         System
// @Accept       json
// @Produce      json
// @Param        request body services.UserRequest true "用户信息"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /system/user [post]
// @Security     BearerAuth
func (c *UserController) CreateUser() {
	var req services.UserRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	if _, err := c.service().CreateUser(&req, operator(c.Ctx)); err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, "添加成功")
}

// 3 UpdateUser 修改用户
// @Summary      修改用户
// @Description  roleIds 存在时替换用户角色
// @Tags         System
// @Accept       json
// @Produce      json
// @Param        request body services.UserRequest true "用户信息"
// @Success      200  {object}  MessageResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /system/user [put]
// @Security     BearerAuth
func (c *UserController) UpdateUser() {
	var req services.UserRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	if err := c.service().UpdateUser(&req, operator(c.Ctx)); err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, "修改成功")
}

// 4 DeleteUser 删除用户（逻辑删除）
// @Summary      删除用户
// @Tags         System
// @Produce      json
// @Param        id path int true "用户ID"
// @Success      200  {object}  MessageResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /system/user/{id} [delete]
// @Security     BearerAuth
func (c *UserController) DeleteUser() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}
	if err := c.service().DeleteUser(id, operator(c.Ctx)); err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, "删除成功")
}

// 5 ResetPassword 重置密码
// @Summary      重置密码
// @Tags         System
// @Accept       json
// @Produce      json
// @Param        request body services.ResetPasswordRequest true "新密码"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /system/user/resetPwd [put]
// @Security     BearerAuth
func (c *UserController) ResetPassword() {
	var req services.ResetPasswordRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	if err := c.service().ResetPassword(&req, operator(c.Ctx)); err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, "密码重置成功")
}

// 6 UserRoles 用户已分配的角色
// @Summary      用户角色
// @Tags         System
// @Produce      json
// @Param        id path int true "用户ID"
// @Success      200  {object}  DataResponse{data=[]uint}
// @Router       /system/user/{id}/roles [get]
// @Security     BearerAuth
func (c *UserController) UserRoles() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}
	roleIDs, err := c.service().UserRoleIDs(id)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Data(c.Ctx, "查询成功", roleIDs)
}
