package code

// 错误码消息映射
var codeMessageMap = map[int]string{
	// 通用错误码
	ErrSuccess:      "成功",
	ErrUnknown:      "未知错误",
	ErrBind:         "请求参数绑定错误",
	ErrValidation:   "请求参数验证错误",
	ErrTokenInvalid: "无效的认证令牌",
	ErrDatabase:     "数据库错误",

	// 管理员相关错误码
	ErrAdminNotFound:          "管理员不存在",
	ErrAdminPasswordIncorrect: "管理员密码错误",

	// 设备相关错误码
	ErrDeviceNotFound: "设备不存在",
	ErrSerialRequired: "缺少设备序列号",

	// 设备用户相关错误码
	ErrUserNotFound: "设备用户不存在",

	// 命令队列相关错误码
	ErrCommandNotFound: "命令不存在",
	ErrQueueFailed:     "命令入队失败",

	// 绑定相关错误码
	ErrBindingIDRequired: "缺少员工ID或设备UUID",
}

// 错误码HTTP状态码映射
var codeStatusMap = map[int]int{
	// 通用错误码
	ErrSuccess:      StatusOK,
	ErrUnknown:      StatusInternalServerError,
	ErrBind:         StatusBadRequest,
	ErrValidation:   StatusBadRequest,
	ErrTokenInvalid: StatusUnauthorized,
	ErrDatabase:     StatusInternalServerError,

	// 管理员相关错误码
	ErrAdminNotFound:          StatusNotFound,
	ErrAdminPasswordIncorrect: StatusUnauthorized,

	// 设备相关错误码
	ErrDeviceNotFound: StatusNotFound,
	ErrSerialRequired: StatusBadRequest,

	// 设备用户相关错误码
	ErrUserNotFound: StatusNotFound,

	// 命令队列相关错误码
	ErrCommandNotFound: StatusNotFound,
	ErrQueueFailed:     StatusInternalServerError,

	// 绑定相关错误码
	ErrBindingIDRequired: StatusBadRequest,
}

// GetMessage 获取错误码对应的消息
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return "未知错误"
}

// GetStatus 获取错误码对应的HTTP状态码
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}
