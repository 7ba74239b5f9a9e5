package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"energy-ops-console/internal/error/code"
	"energy-ops-console/pkg/logger"
)

// RequestIDKey 请求ID在上下文中的键
const RequestIDKey = "requestID"

// Response 定义统一的响应格式
type Response struct {
	Code int    `json:"code" example:"400"`
	Msg  string `json:"msg" example:"请求参数验证错误"`
}

// Success 成功响应，只包含消息
func Success(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{
		"code": code.StatusOK,
		"msg":  msg,
	})
}

// Data 单对象成功响应
func Data(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"code": code.StatusOK,
		"msg":  msg,
		"data": data,
	})
}

// List 分页列表成功响应
func List(c *gin.Context, total int64, rows interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"code":  code.StatusOK,
		"msg":   "查询成功",
		"total": total,
		"rows":  rows,
	})
}

// Created 创建成功响应，附带新记录的标识
func Created(c *gin.Context, msg, idKey string, id interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"code": code.StatusOK,
		"msg":  msg,
		idKey:  id,
	})
}

// Fail 失败响应
func Fail(c *gin.Context, errorCode int) {
	FailWithMessage(c, errorCode, code.GetMessage(errorCode))
}

// FailWithMessage 失败响应（自定义消息）
func FailWithMessage(c *gin.Context, errorCode int, message string) {
	status := code.GetStatus(errorCode)
	c.AbortWithStatusJSON(status, Response{
		Code: status,
		Msg:  message,
	})
}

// Error 根据错误类型生成响应，服务端错误只返回通用消息并记录详情
func Error(c *gin.Context, err error) {
	appErr := code.From(err)
	status := appErr.Status()
	if status >= http.StatusInternalServerError {
		logger.L().Error("request failed",
			zap.String("request_id", c.GetString(RequestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("error_code", appErr.Code),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(status, Response{
		Code: status,
		Msg:  appErr.PublicMessage(),
	})
}

// ParamError 参数错误响应
func ParamError(c *gin.Context, message string) {
	if message == "" {
		message = code.GetMessage(code.ErrValidation)
	}
	FailWithMessage(c, code.ErrValidation, message)
}

// NotFound 资源不存在响应
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = code.GetMessage(code.ErrRecordNotFound)
	}
	FailWithMessage(c, code.ErrRecordNotFound, message)
}

// Forbidden 无权限响应
func Forbidden(c *gin.Context) {
	Fail(c, code.ErrForbidden)
}

// Unauthorized 未授权响应
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = code.GetMessage(code.ErrTokenInvalid)
	}
	FailWithMessage(c, code.ErrTokenInvalid, message)
}
