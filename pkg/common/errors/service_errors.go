package errors

import "fmt"

// ServiceError 业务异常，code + message 会原样返回给调用方
type ServiceError struct {
	Code    int
	Message string
}

func NewServiceError(ec ErrorCode) *ServiceError {
	return &ServiceError{Code: ec.Code, Message: ec.Message}
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("service error %d: %s", e.Code, e.Message)
}

// Is 按错误码比较，便于 errors.Is(err, NewServiceError(UserNotFound))
func (e *ServiceError) Is(target error) bool {
	t, ok := target.(*ServiceError)
	return ok && t.Code == e.Code
}

// MissingParameterError 缺少必填的请求参数
type MissingParameterError struct {
	Name string
	Type string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("required request parameter '%s' for method parameter type %s is not present", e.Name, e.Type)
}

// TypeMismatchError 请求参数存在，但无法转换为目标类型
type TypeMismatchError struct {
	Name  string
	Value string
	Type  string
	Err   error
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("failed to convert value '%s' of parameter '%s' to required type %s", e.Value, e.Name, e.Type)
}

func (e *TypeMismatchError) Unwrap() error {
	return e.Err
}

// BindError 请求体无法绑定到目标结构
type BindError struct {
	Err error
}

func (e *BindError) Error() string {
	return "failed to read request: " + e.Err.Error()
}

func (e *BindError) Unwrap() error {
	return e.Err
}
