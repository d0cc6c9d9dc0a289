package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

// bindJSON 绑定请求体,失败时直接写出400
// 空请求体按{}处理,让缺失字段走各自的业务错误
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, apperrors.ErrBindError.WithCause(err))
		return false
	}
	return true
}
