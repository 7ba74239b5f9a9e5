package controllers

import (
	"github.com/gin-gonic/gin"

	"energy-ops-console/internal/domain/services"
	"energy-ops-console/internal/domain/services/container"
	"energy-ops-console/internal/error/code"
	"energy-ops-console/internal/error/response"
)

// InterfaceAuthController 定义认证控制器接口
type InterfaceAuthController interface {
	Login()
	Logout()
	GetInfo()
}

// AuthController 处理登录与当前用户信息
type AuthController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAuthController 创建一个新的认证控制器
func NewAuthController(ctx *gin.Context, container *container.ServiceContainer) *AuthController {
	return &AuthController{
		Ctx:       ctx,
		Container: container,
	}
}

// LoginRequest 表示登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"admin"`
	Password string `json:"password" binding:"required" example:"admin123"`
}

// LoginResponse 表示登录响应
type LoginResponse struct {
	Code  int    `json:"code" example:"200"`
	Msg   string `json:"msg" example:"登录成功"`
	Token string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// HandleAuthFunc 返回一个处理认证请求的Gin处理函数
func HandleAuthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAuthController(ctx, container)

		switch method {
		case "login":
			controller.Login()
		case "logout":
			controller.Logout()
		case "getInfo":
			controller.GetInfo()
		default:
			invalidMethod(ctx)
		}
	}
}

// 1 Login 处理用户登录
// @Summary      用户登录
// @Description  校验用户名密码并签发JWT令牌
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "登录参数"
// @Success      200  {object}  LoginResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /login [post]
func (c *AuthController) Login() {
	var req LoginRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}

	jwtService := c.Container.GetService("jwt").(services.InterfaceJWTService)
	result, err := jwtService.Login(req.Username, req.Password)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}

	response.Created(c.Ctx, "登录成功", "token", result.Token)
}

// 2 Logout 退出登录
// @Summary      退出登录
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  MessageResponse
// @Router       /logout [post]
// @Security     BearerAuth
func (c *AuthController) Logout() {
	response.Success(c.Ctx, "退出成功")
}

// 3 GetInfo 获取当前用户信息
// @Summary      当前用户信息
// @Description  返回当前登录用户的基本信息与角色标识
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /info [get]
// @Security     BearerAuth
func (c *AuthController) GetInfo() {
	jwtService := c.Container.GetService("jwt").(services.InterfaceJWTService)
	info, err := jwtService.GetUserInfo(currentUser(c.Ctx))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}

	c.Ctx.JSON(code.StatusOK, gin.H{
		"code": code.StatusOK,
		"msg":  "操作成功",
		"user": info,
	})
}
