package errors

// ErrorCode 业务错误码枚举项
type ErrorCode struct {
	Code    int
	Message string
}

// 错误码规则：
//   - 1 开头为业务异常，2 开头为系统异常
//   - 第 2 到 4 位为系统编号，第 5 到 7 位为模块，最后三位为模块内错误
var (
	Success = ErrorCode{Code: 0, Message: "成功"}

	// ========== 系统级别 ==========
	SysError                 = ErrorCode{Code: 2001001000, Message: "服务端发生异常"}
	MissingRequestParamError = ErrorCode{Code: 2001001001, Message: "参数缺失"}
	TooManyRequests          = ErrorCode{Code: 2001001002, Message: "请求过于频繁"}
	RequestTimeout           = ErrorCode{Code: 2001001003, Message: "请求处理超时"}
	IllegalRequest           = ErrorCode{Code: 2001001004, Message: "非法请求"}

	// ========== 用户模块 ==========
	UserNotFound = ErrorCode{Code: 1001002000, Message: "用户不存在"}
)
