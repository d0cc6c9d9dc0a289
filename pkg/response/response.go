package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// Response 统一响应结构
// 设计说明：
// 1. Success是调用方最先判断的字段
// 2. Code是业务错误码，Kind是机器可读的错误类别，成功时两者都为空
// 3. Data是业务数据，Info是附加说明（如级联删除的借阅记录数）
type Response struct {
	Success bool           `json:"success"`
	Code    int            `json:"code,omitempty"`
	Kind    apperrors.Kind `json:"kind,omitempty"`
	Message string         `json:"message,omitempty"`
	Count   *int           `json:"count,omitempty"`
	Data    interface{}    `json:"data,omitempty"`
	Info    string         `json:"info,omitempty"`
}

// Success 成功响应（200）
func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created 创建成功响应（201）
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// SuccessWithCount 列表响应，附带总数
func SuccessWithCount(c *gin.Context, count int, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Count:   &count,
		Data:    data,
	})
}

// SuccessWithInfo 成功响应并附带说明
func SuccessWithInfo(c *gin.Context, message, info string) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
		Info:    info,
	})
}

// Error 错误响应（自动处理AppError）
// 用法：
//
//	result, err := borrowUseCase.Execute(...)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)

	// 内部错误只进日志，不返回给客户端
	if appErr.Err != nil {
		zap.L().Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("code", appErr.Code),
			zap.Error(appErr.Err),
		)
	}

	c.JSON(appErr.HTTPStatus(), Response{
		Success: false,
		Code:    appErr.Code,
		Kind:    appErr.Kind(),
		Message: appErr.Message,
	})
}

// Abort 错误响应并终止后续Handler（中间件使用）
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
