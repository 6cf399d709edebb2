package response

import "github.com/gin-gonic/gin"

// AppError 接口错误：业务码、消息键、展示消息与原始错误
type AppError struct {
	Code    int
	Key     string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Key
	}
	if e.Err == nil {
		return msg
	}
	return msg + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError 创建接口错误，key 可为空（自定义消息）
func NewAppError(code int, key, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Key:     key,
		Message: message,
		Err:     err,
	}
}

// Respond 写出错误响应
func (e *AppError) Respond(c *gin.Context) {
	Error(c, e.Code, e.Message)
}
