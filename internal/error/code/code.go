package code

// HTTP状态码.
const (
	// StatusOK - 200: 成功.
	StatusOK = 200
	// StatusBadRequest - 400: 请求参数错误.
	StatusBadRequest = 400
	// StatusUnauthorized - 401: 未授权.
	StatusUnauthorized = 401
	// StatusForbidden - 403: 禁止访问.
	StatusForbidden = 403
	// StatusNotFound - 404: 资源不存在.
	StatusNotFound = 404
	// StatusTooManyRequests - 429: 请求过多.
	StatusTooManyRequests = 429
	// StatusInternalServerError - 500: 服务器内部错误.
	StatusInternalServerError = 500
)

// 通用错误码 (100xxx).
const (
	// ErrSuccess - 200: 成功.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: 未知错误.
	ErrUnknown
	// ErrBind - 400: 请求参数绑定错误.
	ErrBind
	// ErrValidation - 400: 请求参数验证错误.
	ErrValidation
	// ErrTokenInvalid - 401: 令牌无效.
	ErrTokenInvalid
	// ErrTooManyRequests - 429: 请求频率过高.
	ErrTooManyRequests
	// ErrForbidden - 403: 无权限操作.
	ErrForbidden
	// ErrConflict - 400: 数据冲突.
	ErrConflict
	// ErrInvalidTransition - 400: 状态流转无效.
	ErrInvalidTransition
)

// 用户相关错误码 (101xxx).
const (
	// ErrUserNotFound - 404: 用户不存在.
	ErrUserNotFound int = iota + 101000
	// ErrUserAlreadyExist - 400: 用户已存在.
	ErrUserAlreadyExist
	// ErrUserPasswordIncorrect - 401: 用户名或密码错误.
	ErrUserPasswordIncorrect
	// ErrUserDisabled - 403: 用户已被禁用.
	ErrUserDisabled
)

// 设备相关错误码 (102xxx).
const (
	// ErrDeviceNotFound - 404: 设备不存在.
	ErrDeviceNotFound int = iota + 102000
	// ErrDeviceAlreadyExist - 400: 设备已存在.
	ErrDeviceAlreadyExist
)

// 组织与菜单相关错误码 (103xxx).
const (
	// ErrHasChildren - 400: 存在下级节点.
	ErrHasChildren int = iota + 103000
)

// 上游服务相关错误码 (104xxx).
const (
	// ErrUpstream - 500: 模型服务调用失败.
	ErrUpstream int = iota + 104000
	// ErrModelUnavailable - 500: 模型未加载.
	ErrModelUnavailable
)

// 数据库相关错误码 (105xxx).
const (
	// ErrDatabase - 500: 数据库错误.
	ErrDatabase int = iota + 105000
	// ErrRecordNotFound - 404: 记录不存在.
	ErrRecordNotFound
)

// 迁移相关错误码 (109xxx).
const (
	// ErrMigrationFailed - 500: 迁移失败.
	ErrMigrationFailed int = iota + 109000
	// ErrConnectionFailed - 500: 连接失败.
	ErrConnectionFailed
)
