package result

import (
	"fmt"

	"boot-labs/pkg/common/errors"
)

// CodeSuccess 成功的错误码
const CodeSuccess = 0

// CommonResult 通用返回结构
type CommonResult struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// Success 包装成功结果
func Success(data interface{}) *CommonResult {
	return &CommonResult{
		Code:    CodeSuccess,
		Message: "",
		Data:    data,
	}
}

// Error 包装失败结果，code 不允许为成功码
func Error(code int, message string) *CommonResult {
	if code == CodeSuccess {
		panic(fmt.Sprintf("result.Error: code must not be %d", CodeSuccess))
	}
	return &CommonResult{
		Code:    code,
		Message: message,
	}
}

// ErrorOf 使用错误码枚举构造失败结果
func ErrorOf(ec errors.ErrorCode) *CommonResult {
	return Error(ec.Code, ec.Message)
}

// FromServiceError 原样使用业务异常的 code + message
func FromServiceError(se *errors.ServiceError) *CommonResult {
	return Error(se.Code, se.Message)
}

func (r *CommonResult) IsSuccess() bool {
	return r != nil && r.Code == CodeSuccess
}
