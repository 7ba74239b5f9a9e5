package controllers

import (
	"context"
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"energy-ops-console/internal/app/middleware"
	"energy-ops-console/internal/domain/services/container"
	"energy-ops-console/internal/error/code"
	"energy-ops-console/internal/error/response"
	"energy-ops-console/pkg/logger"
)

// ErrorResponse 表示错误响应
type ErrorResponse struct {
	Code int    `json:"code" example:"400"`
	Msg  string `json:"msg" example:"请求参数验证错误"`
}

// MessageResponse 只包含消息的成功响应
type MessageResponse struct {
	Code int    `json:"code" example:"200"`
	Msg  string `json:"msg" example:"操作成功"`
}

// ListResponse 分页列表响应
type ListResponse struct {
	Code  int           `json:"code" example:"200"`
	Msg   string        `json:"msg" example:"查询成功"`
	Total int64         `json:"total" example:"7"`
	Rows  []interface{} `json:"rows"`
}

// DataResponse 单对象响应
type DataResponse struct {
	Code int         `json:"code" example:"200"`
	Msg  string      `json:"msg" example:"查询成功"`
	Data interface{} `json:"data"`
}

// invalidMethod 未注册的处理方法
func invalidMethod(ctx *gin.Context) {
	response.FailWithMessage(ctx, code.ErrBind, "无效的方法")
}

// pathID 解析路径中的数字ID
func pathID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || id == 0 {
		response.ParamError(ctx, "无效的ID参数")
		return 0, false
	}
	return uint(id), true
}

func init() {
	// 校验错误中的字段名使用 json 标签
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// bindJSON 绑定并校验请求体，失败时直接写入参数错误
func bindJSON(ctx *gin.Context, obj interface{}) bool {
	if err := ctx.ShouldBindJSON(obj); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) {
			response.FailWithMessage(ctx, code.ErrValidation, validationMessage(errs))
			return false
		}
		response.FailWithMessage(ctx, code.ErrBind, "请求参数格式错误")
		return false
	}
	return true
}

// validationMessage 将校验错误转换为中文提示
func validationMessage(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "required", "required_without":
			msgs = append(msgs, fe.Field()+"不能为空")
		case "oneof":
			msgs = append(msgs, fe.Field()+"取值无效，可选值: "+fe.Param())
		default:
			msgs = append(msgs, fe.Field()+"格式错误")
		}
	}
	return strings.Join(msgs, "；")
}

// currentUser 当前登录用户ID
func currentUser(ctx *gin.Context) uint {
	return middleware.GetUserID(ctx)
}

// operator 当前登录用户名，用于 create_by / update_by
func operator(ctx *gin.Context) string {
	return middleware.GetUserName(ctx)
}

// purgeCached 清除指定路径前缀下的缓存响应
func purgeCached(container *container.ServiceContainer, paths ...string) {
	store := container.GetCache()
	for _, p := range paths {
		if err := middleware.PurgeCache(context.Background(), store, p); err != nil {
			logger.Warning("清除响应缓存失败: %s, %v", p, err)
		}
	}
}
