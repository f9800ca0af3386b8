package advice

import (
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"

	bizerr "boot-labs/pkg/common/errors"
)

// RequestParam 依次从 query 与表单中读取参数，空字符串视为缺失
func RequestParam(c *app.RequestContext, name string) (string, bool) {
	if v := c.Query(name); v != "" {
		return v, true
	}
	if v := c.PostForm(name); v != "" {
		return v, true
	}
	return "", false
}

// RequiredString 必填的字符串参数
func RequiredString(c *app.RequestContext, name string) (string, error) {
	v, ok := RequestParam(c, name)
	if !ok {
		return "", &bizerr.MissingParameterError{Name: name, Type: "string"}
	}
	return v, nil
}

// RequiredInt 必填的整数参数
func RequiredInt(c *app.RequestContext, name string) (int, error) {
	v, ok := RequestParam(c, name)
	if !ok {
		return 0, &bizerr.MissingParameterError{Name: name, Type: "int"}
	}
	return toInt(name, v)
}

// PathInt 路径变量转整数
func PathInt(c *app.RequestContext, name string) (int, error) {
	v := c.Param(name)
	if v == "" {
		return 0, &bizerr.MissingParameterError{Name: name, Type: "int"}
	}
	return toInt(name, v)
}

// Bind 绑定并校验请求体，失败统一转换为 BindError
func Bind(c *app.RequestContext, obj interface{}) error {
	if err := c.BindAndValidate(obj); err != nil {
		return &bizerr.BindError{Err: err}
	}
	return nil
}

func toInt(name, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &bizerr.TypeMismatchError{Name: name, Value: v, Type: "int", Err: err}
	}
	return n, nil
}
