package code

// 错误码消息映射
var codeMessageMap = map[int]string{
	// 通用错误码
	ErrSuccess:           "操作成功",
	ErrUnknown:           "服务器内部错误",
	ErrBind:              "请求参数绑定错误",
	ErrValidation:        "请求参数验证错误",
	ErrTokenInvalid:      "无效的认证令牌",
	ErrTooManyRequests:   "请求过于频繁，请稍后再试",
	ErrForbidden:         "无权限操作",
	ErrConflict:          "数据已存在",
	ErrInvalidTransition: "状态无效",

	// 用户相关错误码
	ErrUserNotFound:          "用户不存在",
	ErrUserAlreadyExist:      "用户名已存在",
	ErrUserPasswordIncorrect: "用户名或密码错误",
	ErrUserDisabled:          "用户已被禁用",

	// 设备相关错误码
	ErrDeviceNotFound:     "设备不存在",
	ErrDeviceAlreadyExist: "设备序列号已存在",

	// 组织与菜单相关错误码
	ErrHasChildren: "存在下级节点,不允许删除",

	// 上游服务相关错误码
	ErrUpstream:         "模型服务调用失败",
	ErrModelUnavailable: "模型加载失败",

	// 数据库相关错误码
	ErrDatabase:       "数据库错误",
	ErrRecordNotFound: "记录不存在",

	// 迁移相关错误码
	ErrMigrationFailed:  "迁移失败",
	ErrConnectionFailed: "连接失败",
}

// 错误码HTTP状态码映射
var codeStatusMap = map[int]int{
	// 通用错误码
	ErrSuccess:           StatusOK,
	ErrUnknown:           StatusInternalServerError,
	ErrBind:              StatusBadRequest,
	ErrValidation:        StatusBadRequest,
	ErrTokenInvalid:      StatusUnauthorized,
	ErrTooManyRequests:   StatusTooManyRequests,
	ErrForbidden:         StatusForbidden,
	ErrConflict:          StatusBadRequest,
	ErrInvalidTransition: StatusBadRequest,

	// 用户相关错误码
	ErrUserNotFound:          StatusNotFound,
	ErrUserAlreadyExist:      StatusBadRequest,
	ErrUserPasswordIncorrect: StatusUnauthorized,
	ErrUserDisabled:          StatusForbidden,

	// 设备相关错误码
	ErrDeviceNotFound:     StatusNotFound,
	ErrDeviceAlreadyExist: StatusBadRequest,

	// 组织与菜单相关错误码
	ErrHasChildren: StatusBadRequest,

	// 上游服务相关错误码
	ErrUpstream:         StatusInternalServerError,
	ErrModelUnavailable: StatusInternalServerError,

	// 数据库相关错误码
	ErrDatabase:       StatusInternalServerError,
	ErrRecordNotFound: StatusNotFound,

	// 迁移相关错误码
	ErrMigrationFailed:  StatusInternalServerError,
	ErrConnectionFailed: StatusInternalServerError,
}

// GetMessage 获取错误码对应的消息
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return "服务器内部错误"
}

// GetStatus 获取错误码对应的HTTP状态码
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}
