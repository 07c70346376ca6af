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
	// ErrDatabase - 500: 数据库错误.
	ErrDatabase
)

// 管理员相关错误码 (101xxx).
const (
	// ErrAdminNotFound - 404: 管理员不存在.
	ErrAdminNotFound int = iota + 101000
	// ErrAdminPasswordIncorrect - 401: 管理员密码错误.
	ErrAdminPasswordIncorrect
)

// 设备相关错误码 (102xxx).
const (
	// ErrDeviceNotFound - 404: 设备不存在.
	ErrDeviceNotFound int = iota + 102000
	// ErrSerialRequired - 400: 缺少设备序列号.
	ErrSerialRequired
)

// 设备用户相关错误码 (103xxx).
const (
	// ErrUserNotFound - 404: 设备用户不存在.
	ErrUserNotFound int = iota + 103000
)

// 命令队列相关错误码 (104xxx).
const (
	// ErrCommandNotFound - 404: 命令不存在.
	ErrCommandNotFound int = iota + 104000
	// ErrQueueFailed - 500: 命令入队失败.
	ErrQueueFailed
)

// 绑定相关错误码 (105xxx).
const (
	// ErrBindingIDRequired - 400: 缺少员工ID或设备UUID.
	ErrBindingIDRequired int = iota + 105000
)
