package response

import (
	"net/http"

	"github.com/storefront-next/internal/constants"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构，HTTP 状态始终为 200，业务结果看 status_code
type Response struct {
	StatusCode int         `json:"status_code"`
	Msg        string      `json:"msg"`
	Data       interface{} `json:"data"`
}

// PageResponse 分页响应结构
type PageResponse struct {
	StatusCode int         `json:"status_code"`
	Msg        string      `json:"msg"`
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// Pagination 分页信息
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"page_size"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"total_page"`
}

func write(c *gin.Context, body interface{}) {
	c.JSON(http.StatusOK, body)
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	SuccessWithMsg(c, "success", data)
}

// SuccessWithMsg 成功响应（自定义消息）
func SuccessWithMsg(c *gin.Context, msg string, data interface{}) {
	write(c, Response{StatusCode: CodeOK, Msg: msg, Data: data})
}

// SuccessWithPage 分页成功响应
func SuccessWithPage(c *gin.Context, data interface{}, pagination Pagination) {
	write(c, PageResponse{
		StatusCode: CodeOK,
		Msg:        "success",
		Data:       data,
		Pagination: pagination,
	})
}

// Error 错误响应，data 中附带 request_id 与 device_id 便于排查
func Error(c *gin.Context, statusCode int, msg string) {
	ErrorWithData(c, statusCode, msg, nil)
}

// ErrorWithData 错误响应（带数据）
func ErrorWithData(c *gin.Context, statusCode int, msg string, data interface{}) {
	write(c, Response{
		StatusCode: statusCode,
		Msg:        msg,
		Data:       attachTrace(c, data),
	})
}

func traceFields(c *gin.Context) gin.H {
	fields := gin.H{}
	if c == nil {
		return fields
	}
	for _, key := range []string{constants.ContextKeyRequestID, constants.ContextKeyDeviceID} {
		if value := c.GetString(key); value != "" {
			fields[key] = value
		}
	}
	return fields
}

func attachTrace(c *gin.Context, data interface{}) interface{} {
	fields := traceFields(c)
	if len(fields) == 0 {
		return data
	}
	switch v := data.(type) {
	case nil:
		return fields
	case gin.H:
		for key, value := range fields {
			if _, ok := v[key]; !ok {
				v[key] = value
			}
		}
		return v
	default:
		fields["data"] = data
		return fields
	}
}
