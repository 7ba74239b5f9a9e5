package controllers

import (
	"github.com/gin-gonic/gin"

	"energy-ops-console/internal/domain/gateway"
	"energy-ops-console/internal/domain/services"
	"energy-ops-console/internal/domain/services/container"
	"energy-ops-console/internal/error/response"
)

// InterfaceDeptController 定义部门控制器接口
type InterfaceDeptController interface {
	ListDepts()
	CreateDept()
	UpdateDept()
	DeleteDept()
	TreeSelect()
}

// DeptController 处理部门相关的请求
type DeptController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewDeptController 创建一个新的部门控制器
func NewDeptController(ctx *gin.Context, container *container.ServiceContainer) *DeptController {
	return &DeptController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleDeptFunc 返回一个处理部门请求的Gin处理函数
func HandleDeptFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewDeptController(ctx, container)

		switch method {
		case "listDepts":
			controller.ListDepts()
		case "createDept":
			controller.CreateDept()
		case "updateDept":
			controller.UpdateDept()
		case "deleteDept":
			controller.DeleteDept()
		case "treeSelect":
			controller.TreeSelect()
		default:
			invalidMethod(ctx)
		}
	}
}

func (c *DeptController) service() services.InterfaceDeptService {
	return c.Container.GetService("dept").(services.InterfaceDeptService)
}

// 1 ListDepts 部门列表
// @Summary      部门列表
// @Description  按上级部门与显示顺序返回未删除的部门
// @Tags         System
// @Produce      json
// @Param        deptName query string false "部门名称（模糊）"
// @Param        status   query string false "状态"
// @Success      200  {object}  DataResponse
// @Router       /system/dept/list [get]
// @Security     BearerAuth
func (c *DeptController) ListDepts() {
	depts, err := c.service().ListDepts(c.Ctx.Request.URL.Query())
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Data(c.Ctx, "查询成功", gateway.ProjectAll(depts))
}

// 2 CreateDept 新增部门
// @Summary      新增部门
// @Tags         System
// @Accept       json
// @Produce      json
// @Param        request body services.DeptRequest true "部门信息"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /system/dept [post]
// @Security     BearerAuth
func (c *DeptController) CreateDept() {
	var req services.DeptRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	if _, err := c.service().CreateDept(&req, operator(c.Ctx)); err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, "添加成功")
}

// 3 UpdateDept 修改部门
// @Summary      修改部门
// @Description  请求体中的 deptId 指定要修改的部门，未提供的字段保持不变
// @Tags         System
// @Accept       json
// @Produce      json
// @Param        request body services.DeptRequest true "部门信息"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /system/dept [put]
// @Security     BearerAuth
func (c *DeptController) UpdateDept() {
	var req services.DeptRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	if err := c.service().UpdateDept(&req, operator(c.Ctx)); err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, "修改成功")
}

// 4 DeleteDept 删除部门（逻辑删除）
// @Summary      删除部门
// @Tags         System
// @Produce      json
// @Param        id path int true "部门ID"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /system/dept/{id} [delete]
// @Security     BearerAuth
func (c *DeptController) DeleteDept() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}
	if err := c.service().DeleteDept(id, operator(c.Ctx)); err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, "删除成功")
}

// 5 TreeSelect 部门树
// @Summary      部门树
// @Tags         System
// @Produce      json
// @Success      200  {object}  DataResponse{data=[]gateway.TreeNode}
// @Router       /system/dept/treeselect [get]
// @Security     BearerAuth
func (c *DeptController) TreeSelect() {
	tree, err := c.service().DeptTree()
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Data(c.Ctx, "查询成功", tree)
}
